package hotels

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-stays/atlas-stays/internal/lifecycle"
	"github.com/atlas-stays/atlas-stays/internal/shared"
)

type mockRepo struct {
	hotels      map[int64]*Hotel
	nextID      int64
	cityExists  bool
	tripCount   int64
	lastUpdates map[string]interface{}
}

func newMockRepo() *mockRepo {
	return &mockRepo{hotels: make(map[int64]*Hotel), nextID: 1, cityExists: true}
}

func (m *mockRepo) Get(ctx context.Context, id int64) (*Hotel, error) {
	hotel, ok := m.hotels[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	out := *hotel
	return &out, nil
}

func (m *mockRepo) List(ctx context.Context, req ListHotelsRequest) ([]Hotel, error) {
	var out []Hotel
	for _, hotel := range m.hotels {
		out = append(out, *hotel)
	}
	return out, nil
}

func (m *mockRepo) Create(ctx context.Context, hotel Hotel) (int64, error) {
	hotel.ID = m.nextID
	m.nextID++
	m.hotels[hotel.ID] = &hotel
	return hotel.ID, nil
}

func (m *mockRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	m.lastUpdates = updates
	hotel := m.hotels[id]
	if cityID, ok := updates["city_id"].(int64); ok {
		hotel.CityID = cityID
	}
	if stars, ok := updates["stars"].(int); ok {
		hotel.Stars = stars
	}
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	delete(m.hotels, id)
	return nil
}

func (m *mockRepo) CityExists(ctx context.Context, cityID int64) (bool, error) {
	return m.cityExists, nil
}

func (m *mockRepo) CountTrips(ctx context.Context, hotelID int64) (int64, error) {
	return m.tripCount, nil
}

type nopForgetter struct{}

func (nopForgetter) Forget(ctx context.Context, keys ...string) error { return nil }

func newManage(repo Repository) *manageStrategy {
	return &manageStrategy{
		repo:   repo,
		events: lifecycle.NewNotifier(nopForgetter{}, slog.Default(), nil),
	}
}

func TestCreateRequiresExistingCity(t *testing.T) {
	repo := newMockRepo()
	repo.cityExists = false
	manage := newManage(repo)

	_, err := manage.Create(context.Background(), CreateHotelRequest{
		CityID: 99, Name: "Hotel Tejo", Address: "Rua Augusta 1", Stars: 4,
	})
	require.ErrorIs(t, err, shared.ErrConflict)
	assert.Empty(t, repo.hotels)
}

func TestReparentChecksTargetCity(t *testing.T) {
	repo := newMockRepo()
	repo.hotels[1] = &Hotel{ID: 1, CityID: 1, Name: "Hotel Tejo", Address: "Rua Augusta 1", Stars: 4}
	manage := newManage(repo)

	repo.cityExists = false
	target := int64(2)
	_, err := manage.Update(context.Background(), 1, UpdateHotelRequest{CityID: &target})
	require.ErrorIs(t, err, shared.ErrConflict)
	assert.Equal(t, int64(1), repo.hotels[1].CityID)

	repo.cityExists = true
	updated, err := manage.Update(context.Background(), 1, UpdateHotelRequest{CityID: &target})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.CityID)
	assert.Contains(t, repo.lastUpdates, "city_id")
	assert.NotContains(t, repo.lastUpdates, "name")
}

func TestDeleteBlockedByTrips(t *testing.T) {
	repo := newMockRepo()
	repo.hotels[1] = &Hotel{ID: 1, CityID: 1, Name: "Hotel Tejo", Address: "Rua Augusta 1", Stars: 4}
	repo.tripCount = 1
	manage := newManage(repo)

	err := manage.Delete(context.Background(), 1)
	require.ErrorIs(t, err, shared.ErrConflict)
	assert.Contains(t, repo.hotels, int64(1))
}
