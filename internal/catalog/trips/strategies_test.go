package trips

import (
	"context"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-stays/atlas-stays/internal/dashboard"
	"github.com/atlas-stays/atlas-stays/internal/lifecycle"
	"github.com/atlas-stays/atlas-stays/internal/shared"
)

type mockRepo struct {
	trips        map[int64]*Trip
	nextID       int64
	hotelExists  bool
	reservations int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{trips: make(map[int64]*Trip), nextID: 1, hotelExists: true}
}

func (m *mockRepo) Get(ctx context.Context, id int64) (*Trip, error) {
	trip, ok := m.trips[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	out := *trip
	return &out, nil
}

func (m *mockRepo) List(ctx context.Context, req ListTripsRequest) ([]Trip, error) {
	var out []Trip
	for _, trip := range m.trips {
		out = append(out, *trip)
	}
	return out, nil
}

func (m *mockRepo) Create(ctx context.Context, trip Trip) (int64, error) {
	trip.ID = m.nextID
	m.nextID++
	m.trips[trip.ID] = &trip
	return trip.ID, nil
}

func (m *mockRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	trip := m.trips[id]
	if name, ok := updates["name"].(string); ok {
		trip.Name = name
	}
	if active, ok := updates["is_active"].(bool); ok {
		trip.IsActive = active
	}
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	delete(m.trips, id)
	return nil
}

func (m *mockRepo) HotelExists(ctx context.Context, hotelID int64) (bool, error) {
	return m.hotelExists, nil
}

func (m *mockRepo) CountReservations(ctx context.Context, tripID int64) (int64, error) {
	return m.reservations, nil
}

// countingDashboardRepo derives trip counts from the trip store and counts
// how often each aggregate was recomputed.
type countingDashboardRepo struct {
	trips       *mockRepo
	totalCalls  int
	activeCalls int
}

func (r *countingDashboardRepo) CountCities(ctx context.Context) (int64, error) { return 0, nil }
func (r *countingDashboardRepo) CountHotels(ctx context.Context) (int64, error) { return 0, nil }

func (r *countingDashboardRepo) CountTrips(ctx context.Context) (int64, error) {
	r.totalCalls++
	return int64(len(r.trips.trips)), nil
}

func (r *countingDashboardRepo) CountActiveTrips(ctx context.Context) (int64, error) {
	r.activeCalls++
	var n int64
	for _, trip := range r.trips.trips {
		if trip.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *countingDashboardRepo) CountReservations(ctx context.Context) (int64, error) {
	return 0, nil
}

func (r *countingDashboardRepo) CountPendingReservations(ctx context.Context) (int64, error) {
	return 0, nil
}

type fixture struct {
	repo      *mockRepo
	dashRepo  *countingDashboardRepo
	dashboard *dashboard.Service
	manage    *manageStrategy
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := dashboard.NewCache(client, time.Minute)

	repo := newMockRepo()
	dashRepo := &countingDashboardRepo{trips: repo}
	svc := dashboard.NewService(dashRepo, cache)
	notifier := lifecycle.NewNotifier(cache, slog.Default(), dashboard.InvalidationRules())

	return &fixture{
		repo:      repo,
		dashRepo:  dashRepo,
		dashboard: svc,
		manage:    &manageStrategy{repo: repo, events: notifier},
	}
}

func (f *fixture) warm(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	if _, err := f.dashboard.TotalTrips(ctx); err != nil {
		t.Fatalf("warm total: %v", err)
	}
	if _, err := f.dashboard.ActiveTrips(ctx); err != nil {
		t.Fatalf("warm active: %v", err)
	}
}

func validCreate() CreateTripRequest {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return CreateTripRequest{
		HotelID:        1,
		Name:           "Alfama Walking Tour",
		PricePerPerson: 45,
		Capacity:       12,
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, 3),
	}
}

func TestCreateInvalidatesBothTripCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.warm(t)
	require.Equal(t, 1, f.dashRepo.totalCalls)
	require.Equal(t, 1, f.dashRepo.activeCalls)

	trip, err := f.manage.Create(ctx, validCreate())
	require.NoError(t, err)
	assert.True(t, trip.IsActive)

	total, err := f.dashboard.TotalTrips(ctx)
	require.NoError(t, err)
	active, err := f.dashboard.ActiveTrips(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(1), active)
	assert.Equal(t, 2, f.dashRepo.totalCalls, "total count must be recomputed")
	assert.Equal(t, 2, f.dashRepo.activeCalls, "active count must be recomputed")
}

func TestNameUpdateLeavesCountsCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	trip, err := f.manage.Create(ctx, validCreate())
	require.NoError(t, err)
	f.warm(t)
	totalCalls, activeCalls := f.dashRepo.totalCalls, f.dashRepo.activeCalls

	name := "Alfama Night Tour"
	_, err = f.manage.Update(ctx, trip.ID, UpdateTripRequest{Name: &name})
	require.NoError(t, err)

	f.warm(t)
	assert.Equal(t, totalCalls, f.dashRepo.totalCalls, "total count must stay cached")
	assert.Equal(t, activeCalls, f.dashRepo.activeCalls, "active count must stay cached")
}

func TestActivationFlipInvalidatesOnlyActiveCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	trip, err := f.manage.Create(ctx, validCreate())
	require.NoError(t, err)
	f.warm(t)
	totalCalls := f.dashRepo.totalCalls

	inactive := false
	updated, err := f.manage.Update(ctx, trip.ID, UpdateTripRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	ctxTotal, err := f.dashboard.TotalTrips(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ctxTotal)
	assert.Equal(t, totalCalls, f.dashRepo.totalCalls, "total count must stay cached")

	active, err := f.dashboard.ActiveTrips(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), active, "active count must reflect the flip")
}

func TestCreateRequiresExistingHotel(t *testing.T) {
	f := newFixture(t)
	f.repo.hotelExists = false

	_, err := f.manage.Create(context.Background(), validCreate())
	require.ErrorIs(t, err, shared.ErrConflict)
	assert.Empty(t, f.repo.trips)
}

func TestDeleteBlockedByReservations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	trip, err := f.manage.Create(ctx, validCreate())
	require.NoError(t, err)
	f.warm(t)
	totalCalls := f.dashRepo.totalCalls
	f.repo.reservations = 3

	err = f.manage.Delete(ctx, trip.ID)
	require.ErrorIs(t, err, shared.ErrConflict)

	// Trip survives and the cached counts were not touched.
	_, err = f.repo.Get(ctx, trip.ID)
	require.NoError(t, err)
	f.warm(t)
	assert.Equal(t, totalCalls, f.dashRepo.totalCalls)
}

func TestCreateHonorsExplicitInactive(t *testing.T) {
	f := newFixture(t)

	req := validCreate()
	inactive := false
	req.IsActive = &inactive

	trip, err := f.manage.Create(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, trip.IsActive)
}
