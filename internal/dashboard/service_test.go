package dashboard

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type mockRepo struct {
	cities       int64
	cityCalls    int
	hotels       int64
	hotelCalls   int
	trips        int64
	tripCalls    int
	active       int64
	activeCalls  int
	reservations int64
	resCalls     int
	pending      int64
	pendingCalls int
}

func (m *mockRepo) CountCities(ctx context.Context) (int64, error) {
	m.cityCalls++
	return m.cities, nil
}

func (m *mockRepo) CountHotels(ctx context.Context) (int64, error) {
	m.hotelCalls++
	return m.hotels, nil
}

func (m *mockRepo) CountTrips(ctx context.Context) (int64, error) {
	m.tripCalls++
	return m.trips, nil
}

func (m *mockRepo) CountActiveTrips(ctx context.Context) (int64, error) {
	m.activeCalls++
	return m.active, nil
}

func (m *mockRepo) CountReservations(ctx context.Context) (int64, error) {
	m.resCalls++
	return m.reservations, nil
}

func (m *mockRepo) CountPendingReservations(ctx context.Context) (int64, error) {
	m.pendingCalls++
	return m.pending, nil
}

func newTestService(t *testing.T, repo Repository) (*Service, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Minute)
	return NewService(repo, cache), cache
}

func TestCachedCountComputedOnce(t *testing.T) {
	repo := &mockRepo{trips: 7}
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := svc.TotalTrips(ctx)
		if err != nil {
			t.Fatalf("total trips: %v", err)
		}
		if got != 7 {
			t.Fatalf("expected 7, got %d", got)
		}
	}
	if repo.tripCalls != 1 {
		t.Fatalf("expected 1 repository call, got %d", repo.tripCalls)
	}
}

func TestForgetTriggersRecompute(t *testing.T) {
	repo := &mockRepo{active: 3}
	svc, cache := newTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.ActiveTrips(ctx); err != nil {
		t.Fatalf("warm: %v", err)
	}

	repo.active = 4
	if err := cache.Forget(ctx, KeyActiveTrips); err != nil {
		t.Fatalf("forget: %v", err)
	}

	got, err := svc.ActiveTrips(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got != 4 {
		t.Fatalf("expected recomputed 4, got %d", got)
	}
	if repo.activeCalls != 2 {
		t.Fatalf("expected 2 repository calls, got %d", repo.activeCalls)
	}
}

func TestForgetAbsentKeyIsNoop(t *testing.T) {
	_, cache := newTestService(t, &mockRepo{})

	if err := cache.Forget(context.Background(), KeyTotalCities, KeyTotalHotels); err != nil {
		t.Fatalf("forget absent keys: %v", err)
	}
}

func TestGetSummaryPopulatesEveryKey(t *testing.T) {
	repo := &mockRepo{cities: 1, hotels: 2, trips: 3, active: 2, reservations: 5, pending: 4}
	svc, _ := newTestService(t, repo)

	summary, err := svc.GetSummary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	want := Summary{
		TotalCities:         1,
		TotalHotels:         2,
		TotalTrips:          3,
		ActiveTrips:         2,
		TotalReservations:   5,
		PendingReservations: 4,
	}
	if summary != want {
		t.Fatalf("expected %+v, got %+v", want, summary)
	}
}

func TestInvalidationRulesCoverEveryKey(t *testing.T) {
	covered := make(map[string]bool)
	for _, rule := range InvalidationRules() {
		for _, key := range rule.Keys {
			covered[key] = true
		}
	}
	for _, key := range AllKeys() {
		if !covered[key] {
			t.Fatalf("key %s has no invalidation rule", key)
		}
	}
	// State-filtered keys must carry their watched field.
	for _, rule := range InvalidationRules() {
		for _, key := range rule.Keys {
			switch key {
			case KeyActiveTrips:
				if len(rule.WatchedFields) != 1 || rule.WatchedFields[0] != "is_active" {
					t.Fatalf("active trips rule must watch is_active, got %v", rule.WatchedFields)
				}
			case KeyPendingReservations:
				if len(rule.WatchedFields) != 1 || rule.WatchedFields[0] != "status" {
					t.Fatalf("pending reservations rule must watch status, got %v", rule.WatchedFields)
				}
			}
		}
	}
}
