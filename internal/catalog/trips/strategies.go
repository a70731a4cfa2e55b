package trips

import (
	"context"
	"fmt"

	"github.com/atlas-stays/atlas-stays/internal/authz"
	"github.com/atlas-stays/atlas-stays/internal/lifecycle"
	"github.com/atlas-stays/atlas-stays/internal/shared"
)

// ReadStrategy is the read capability surface for the trip family.
type ReadStrategy interface {
	List(ctx context.Context, req ListTripsRequest) ([]Trip, error)
	Get(ctx context.Context, id int64) (*Trip, error)
}

// ManageStrategy is the manage capability surface for the trip family.
type ManageStrategy interface {
	Create(ctx context.Context, req CreateTripRequest) (*Trip, error)
	Update(ctx context.Context, id int64, req UpdateTripRequest) (*Trip, error)
	Delete(ctx context.Context, id int64) error
}

// Register binds the trip strategies into the capability registry.
func Register(reg *authz.Registry, repo Repository, events *lifecycle.Notifier) {
	read := &readStrategy{repo: repo}
	manage := &manageStrategy{repo: repo, events: events}
	reg.Bind(authz.Read(authz.FamilyTrip), read,
		authz.RoleGuest, authz.RoleUser, authz.RoleAdmin, authz.RoleSuperAdmin)
	reg.Bind(authz.Manage(authz.FamilyTrip), manage,
		authz.RoleAdmin, authz.RoleSuperAdmin)
}

type readStrategy struct {
	repo Repository
}

func (s *readStrategy) List(ctx context.Context, req ListTripsRequest) ([]Trip, error) {
	return s.repo.List(ctx, req)
}

func (s *readStrategy) Get(ctx context.Context, id int64) (*Trip, error) {
	return s.repo.Get(ctx, id)
}

type manageStrategy struct {
	repo   Repository
	events *lifecycle.Notifier
}

func (s *manageStrategy) Create(ctx context.Context, req CreateTripRequest) (*Trip, error) {
	exists, err := s.repo.HotelExists(ctx, req.HotelID)
	if err != nil {
		return nil, fmt.Errorf("check hotel: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: hotel %d does not exist", shared.ErrConflict, req.HotelID)
	}

	trip := Trip{
		HotelID:        req.HotelID,
		Name:           req.Name,
		Description:    req.Description,
		PricePerPerson: req.PricePerPerson,
		Capacity:       req.Capacity,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		IsActive:       true,
	}
	if req.IsActive != nil {
		trip.IsActive = *req.IsActive
	}

	id, err := s.repo.Create(ctx, trip)
	if err != nil {
		return nil, fmt.Errorf("create trip: %w", err)
	}
	created, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload trip: %w", err)
	}
	s.events.Notify(ctx, lifecycle.Created(authz.FamilyTrip))
	return created, nil
}

func (s *manageStrategy) Update(ctx context.Context, id int64, req UpdateTripRequest) (*Trip, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get trip: %w", err)
	}

	updates := make(map[string]interface{})
	changed := make(map[string]lifecycle.Change)
	if req.Name != nil && *req.Name != existing.Name {
		updates["name"] = *req.Name
		changed["name"] = lifecycle.Change{Old: existing.Name, New: *req.Name}
	}
	if req.Description != nil && !equalStringPtr(req.Description, existing.Description) {
		updates["description"] = *req.Description
		changed["description"] = lifecycle.Change{Old: existing.Description, New: *req.Description}
	}
	if req.PricePerPerson != nil && *req.PricePerPerson != existing.PricePerPerson {
		updates["price_per_person"] = *req.PricePerPerson
		changed["price_per_person"] = lifecycle.Change{Old: existing.PricePerPerson, New: *req.PricePerPerson}
	}
	if req.Capacity != nil && *req.Capacity != existing.Capacity {
		updates["capacity"] = *req.Capacity
		changed["capacity"] = lifecycle.Change{Old: existing.Capacity, New: *req.Capacity}
	}
	if req.StartDate != nil && !req.StartDate.Equal(existing.StartDate) {
		updates["start_date"] = *req.StartDate
		changed["start_date"] = lifecycle.Change{Old: existing.StartDate, New: *req.StartDate}
	}
	if req.EndDate != nil && !req.EndDate.Equal(existing.EndDate) {
		updates["end_date"] = *req.EndDate
		changed["end_date"] = lifecycle.Change{Old: existing.EndDate, New: *req.EndDate}
	}
	if req.IsActive != nil && *req.IsActive != existing.IsActive {
		updates["is_active"] = *req.IsActive
		changed["is_active"] = lifecycle.Change{Old: existing.IsActive, New: *req.IsActive}
	}

	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update trip: %w", err)
	}
	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload trip: %w", err)
	}
	s.events.Notify(ctx, lifecycle.Updated(authz.FamilyTrip, changed))
	return updated, nil
}

func (s *manageStrategy) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return fmt.Errorf("get trip: %w", err)
	}
	reservations, err := s.repo.CountReservations(ctx, id)
	if err != nil {
		return fmt.Errorf("count reservations: %w", err)
	}
	if reservations > 0 {
		return fmt.Errorf("%w: trip has %d reservations", shared.ErrConflict, reservations)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete trip: %w", err)
	}
	s.events.Notify(ctx, lifecycle.Deleted(authz.FamilyTrip))
	return nil
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
