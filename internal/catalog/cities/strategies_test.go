package cities

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-stays/atlas-stays/internal/authz"
	"github.com/atlas-stays/atlas-stays/internal/lifecycle"
	"github.com/atlas-stays/atlas-stays/internal/shared"
)

type mockRepo struct {
	city        *City
	hotelCount  int64
	lastUpdates map[string]interface{}
	updateCalls int
	deleteCalls int
}

func (m *mockRepo) Get(ctx context.Context, id int64) (*City, error) {
	if m.city == nil || m.city.ID != id {
		return nil, shared.ErrNotFound
	}
	copy := *m.city
	return &copy, nil
}

func (m *mockRepo) List(ctx context.Context, req ListCitiesRequest) ([]City, error) {
	if m.city == nil {
		return nil, nil
	}
	return []City{*m.city}, nil
}

func (m *mockRepo) Create(ctx context.Context, city City) (int64, error) {
	city.ID = 1
	m.city = &city
	return city.ID, nil
}

func (m *mockRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	m.updateCalls++
	m.lastUpdates = updates
	if name, ok := updates["name"].(string); ok {
		m.city.Name = name
	}
	if country, ok := updates["country"].(string); ok {
		m.city.Country = country
	}
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	m.deleteCalls++
	m.city = nil
	return nil
}

func (m *mockRepo) CountHotels(ctx context.Context, cityID int64) (int64, error) {
	return m.hotelCount, nil
}

type recordingForgetter struct {
	forgotten [][]string
}

func (f *recordingForgetter) Forget(ctx context.Context, keys ...string) error {
	f.forgotten = append(f.forgotten, keys)
	return nil
}

func newManageStrategy(repo Repository, forgetter lifecycle.Forgetter) *manageStrategy {
	rules := []lifecycle.Rule{{Family: authz.FamilyCity, Keys: []string{"dashboard.total_cities"}}}
	return &manageStrategy{
		repo:   repo,
		events: lifecycle.NewNotifier(forgetter, slog.Default(), rules),
	}
}

func strPtr(s string) *string { return &s }

func TestCreateNotifiesInvalidation(t *testing.T) {
	repo := &mockRepo{}
	forgetter := &recordingForgetter{}
	strategy := newManageStrategy(repo, forgetter)

	city, err := strategy.Create(context.Background(), CreateCityRequest{Name: "Lisbon", Country: "PT"})
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", city.Name)
	require.Len(t, forgetter.forgotten, 1)
	assert.Equal(t, []string{"dashboard.total_cities"}, forgetter.forgotten[0])
}

func TestUpdateWritesOnlyChangedFields(t *testing.T) {
	repo := &mockRepo{city: &City{ID: 1, Name: "Lisbon", Country: "PT"}}
	strategy := newManageStrategy(repo, &recordingForgetter{})

	updated, err := strategy.Update(context.Background(), 1, UpdateCityRequest{
		Name:    strPtr("Porto"),
		Country: strPtr("PT"), // same value, must not be written
	})
	require.NoError(t, err)
	assert.Equal(t, "Porto", updated.Name)
	require.Equal(t, 1, repo.updateCalls)
	assert.Contains(t, repo.lastUpdates, "name")
	assert.NotContains(t, repo.lastUpdates, "country")
	assert.NotContains(t, repo.lastUpdates, "description")
}

func TestUpdateNoopSkipsPersistenceAndInvalidation(t *testing.T) {
	repo := &mockRepo{city: &City{ID: 1, Name: "Lisbon", Country: "PT"}}
	forgetter := &recordingForgetter{}
	strategy := newManageStrategy(repo, forgetter)

	updated, err := strategy.Update(context.Background(), 1, UpdateCityRequest{
		Name: strPtr("Lisbon"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", updated.Name)
	assert.Zero(t, repo.updateCalls)
	assert.Empty(t, forgetter.forgotten)
}

func TestDeleteBlockedByHotels(t *testing.T) {
	repo := &mockRepo{city: &City{ID: 1, Name: "Lisbon", Country: "PT"}, hotelCount: 2}
	forgetter := &recordingForgetter{}
	strategy := newManageStrategy(repo, forgetter)

	err := strategy.Delete(context.Background(), 1)
	require.ErrorIs(t, err, shared.ErrConflict)
	// The city must survive and no cache entry may be touched.
	assert.Zero(t, repo.deleteCalls)
	assert.NotNil(t, repo.city)
	assert.Empty(t, forgetter.forgotten)
}

func TestDeleteUnreferencedCity(t *testing.T) {
	repo := &mockRepo{city: &City{ID: 1, Name: "Lisbon", Country: "PT"}}
	forgetter := &recordingForgetter{}
	strategy := newManageStrategy(repo, forgetter)

	require.NoError(t, strategy.Delete(context.Background(), 1))
	assert.Equal(t, 1, repo.deleteCalls)
	require.Len(t, forgetter.forgotten, 1)
}

func TestDeleteMissingCity(t *testing.T) {
	strategy := newManageStrategy(&mockRepo{}, &recordingForgetter{})

	err := strategy.Delete(context.Background(), 42)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRegisterBindings(t *testing.T) {
	reg := authz.NewRegistry()
	Register(reg, &mockRepo{}, lifecycle.NewNotifier(&recordingForgetter{}, slog.Default(), nil))
	reg.Seal()

	// Everyone may read, only staff may manage.
	for _, role := range []authz.Role{authz.RoleGuest, authz.RoleUser, authz.RoleAdmin, authz.RoleSuperAdmin} {
		_, err := authz.ResolveAs[ReadStrategy](reg, role, authz.Read(authz.FamilyCity))
		require.NoError(t, err, "role %s", role)
	}
	for _, role := range []authz.Role{authz.RoleGuest, authz.RoleUser} {
		_, err := reg.Resolve(role, authz.Manage(authz.FamilyCity))
		require.ErrorIs(t, err, authz.ErrNotAuthorized, "role %s", role)
	}
	for _, role := range []authz.Role{authz.RoleAdmin, authz.RoleSuperAdmin} {
		_, err := authz.ResolveAs[ManageStrategy](reg, role, authz.Manage(authz.FamilyCity))
		require.NoError(t, err, "role %s", role)
	}
}
