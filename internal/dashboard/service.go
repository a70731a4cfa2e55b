package dashboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository counts the persisted rows behind each aggregate.
type Repository interface {
	CountCities(ctx context.Context) (int64, error)
	CountHotels(ctx context.Context) (int64, error)
	CountTrips(ctx context.Context) (int64, error)
	CountActiveTrips(ctx context.Context) (int64, error)
	CountReservations(ctx context.Context) (int64, error)
	CountPendingReservations(ctx context.Context) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by the provided pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) count(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *repository) CountCities(ctx context.Context) (int64, error) {
	return r.count(ctx, "SELECT count(*) FROM cities")
}

func (r *repository) CountHotels(ctx context.Context) (int64, error) {
	return r.count(ctx, "SELECT count(*) FROM hotels")
}

func (r *repository) CountTrips(ctx context.Context) (int64, error) {
	return r.count(ctx, "SELECT count(*) FROM trips")
}

func (r *repository) CountActiveTrips(ctx context.Context) (int64, error) {
	return r.count(ctx, "SELECT count(*) FROM trips WHERE is_active")
}

func (r *repository) CountReservations(ctx context.Context) (int64, error) {
	return r.count(ctx, "SELECT count(*) FROM reservations")
}

func (r *repository) CountPendingReservations(ctx context.Context) (int64, error) {
	return r.count(ctx, "SELECT count(*) FROM reservations WHERE status = $1", "pending")
}

// Summary aggregates the cached dashboard counters.
type Summary struct {
	TotalCities         int64 `json:"total_cities"`
	TotalHotels         int64 `json:"total_hotels"`
	TotalTrips          int64 `json:"total_trips"`
	ActiveTrips         int64 `json:"active_trips"`
	TotalReservations   int64 `json:"total_reservations"`
	PendingReservations int64 `json:"pending_reservations"`
}

// Service serves dashboard aggregates through the cache, recomputing
// lazily whenever an invalidation has forgotten a key.
type Service struct {
	repo  Repository
	cache *Cache
}

// NewService constructs a Service.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

func (s *Service) cached(ctx context.Context, key string, loader func(context.Context) (int64, error)) (int64, error) {
	var value int64
	err := s.cache.Fetch(ctx, key, &value, func(ctx context.Context) (interface{}, error) {
		return loader(ctx)
	})
	if err != nil {
		return 0, fmt.Errorf("dashboard: %s: %w", key, err)
	}
	return value, nil
}

// TotalCities returns the cached city count.
func (s *Service) TotalCities(ctx context.Context) (int64, error) {
	return s.cached(ctx, KeyTotalCities, s.repo.CountCities)
}

// TotalHotels returns the cached hotel count.
func (s *Service) TotalHotels(ctx context.Context) (int64, error) {
	return s.cached(ctx, KeyTotalHotels, s.repo.CountHotels)
}

// TotalTrips returns the cached trip count.
func (s *Service) TotalTrips(ctx context.Context) (int64, error) {
	return s.cached(ctx, KeyTotalTrips, s.repo.CountTrips)
}

// ActiveTrips returns the cached count of trips with is_active set.
func (s *Service) ActiveTrips(ctx context.Context) (int64, error) {
	return s.cached(ctx, KeyActiveTrips, s.repo.CountActiveTrips)
}

// TotalReservations returns the cached reservation count.
func (s *Service) TotalReservations(ctx context.Context) (int64, error) {
	return s.cached(ctx, KeyTotalReservations, s.repo.CountReservations)
}

// PendingReservations returns the cached count of pending reservations.
func (s *Service) PendingReservations(ctx context.Context) (int64, error) {
	return s.cached(ctx, KeyPendingReservations, s.repo.CountPendingReservations)
}

// GetSummary assembles the full dashboard, populating any forgotten keys.
func (s *Service) GetSummary(ctx context.Context) (Summary, error) {
	var summary Summary
	var err error
	if summary.TotalCities, err = s.TotalCities(ctx); err != nil {
		return Summary{}, err
	}
	if summary.TotalHotels, err = s.TotalHotels(ctx); err != nil {
		return Summary{}, err
	}
	if summary.TotalTrips, err = s.TotalTrips(ctx); err != nil {
		return Summary{}, err
	}
	if summary.ActiveTrips, err = s.ActiveTrips(ctx); err != nil {
		return Summary{}, err
	}
	if summary.TotalReservations, err = s.TotalReservations(ctx); err != nil {
		return Summary{}, err
	}
	if summary.PendingReservations, err = s.PendingReservations(ctx); err != nil {
		return Summary{}, err
	}
	return summary, nil
}
