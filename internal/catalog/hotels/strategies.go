package hotels

import (
	"context"
	"fmt"

	"github.com/atlas-stays/atlas-stays/internal/authz"
	"github.com/atlas-stays/atlas-stays/internal/lifecycle"
	"github.com/atlas-stays/atlas-stays/internal/shared"
)

// ReadStrategy is the read capability surface for the hotel family.
type ReadStrategy interface {
	List(ctx context.Context, req ListHotelsRequest) ([]Hotel, error)
	Get(ctx context.Context, id int64) (*Hotel, error)
}

// ManageStrategy is the manage capability surface for the hotel family.
type ManageStrategy interface {
	Create(ctx context.Context, req CreateHotelRequest) (*Hotel, error)
	Update(ctx context.Context, id int64, req UpdateHotelRequest) (*Hotel, error)
	Delete(ctx context.Context, id int64) error
}

// Register binds the hotel strategies into the capability registry.
func Register(reg *authz.Registry, repo Repository, events *lifecycle.Notifier) {
	read := &readStrategy{repo: repo}
	manage := &manageStrategy{repo: repo, events: events}
	reg.Bind(authz.Read(authz.FamilyHotel), read,
		authz.RoleGuest, authz.RoleUser, authz.RoleAdmin, authz.RoleSuperAdmin)
	reg.Bind(authz.Manage(authz.FamilyHotel), manage,
		authz.RoleAdmin, authz.RoleSuperAdmin)
}

type readStrategy struct {
	repo Repository
}

func (s *readStrategy) List(ctx context.Context, req ListHotelsRequest) ([]Hotel, error) {
	return s.repo.List(ctx, req)
}

func (s *readStrategy) Get(ctx context.Context, id int64) (*Hotel, error) {
	return s.repo.Get(ctx, id)
}

type manageStrategy struct {
	repo   Repository
	events *lifecycle.Notifier
}

func (s *manageStrategy) Create(ctx context.Context, req CreateHotelRequest) (*Hotel, error) {
	exists, err := s.repo.CityExists(ctx, req.CityID)
	if err != nil {
		return nil, fmt.Errorf("check city: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: city %d does not exist", shared.ErrConflict, req.CityID)
	}

	hotel := Hotel{
		CityID:      req.CityID,
		Name:        req.Name,
		Address:     req.Address,
		Stars:       req.Stars,
		Description: req.Description,
	}
	id, err := s.repo.Create(ctx, hotel)
	if err != nil {
		return nil, fmt.Errorf("create hotel: %w", err)
	}
	created, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload hotel: %w", err)
	}
	s.events.Notify(ctx, lifecycle.Created(authz.FamilyHotel))
	return created, nil
}

func (s *manageStrategy) Update(ctx context.Context, id int64, req UpdateHotelRequest) (*Hotel, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get hotel: %w", err)
	}

	if req.CityID != nil && *req.CityID != existing.CityID {
		exists, err := s.repo.CityExists(ctx, *req.CityID)
		if err != nil {
			return nil, fmt.Errorf("check city: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: city %d does not exist", shared.ErrConflict, *req.CityID)
		}
	}

	updates := make(map[string]interface{})
	changed := make(map[string]lifecycle.Change)
	if req.CityID != nil && *req.CityID != existing.CityID {
		updates["city_id"] = *req.CityID
		changed["city_id"] = lifecycle.Change{Old: existing.CityID, New: *req.CityID}
	}
	if req.Name != nil && *req.Name != existing.Name {
		updates["name"] = *req.Name
		changed["name"] = lifecycle.Change{Old: existing.Name, New: *req.Name}
	}
	if req.Address != nil && *req.Address != existing.Address {
		updates["address"] = *req.Address
		changed["address"] = lifecycle.Change{Old: existing.Address, New: *req.Address}
	}
	if req.Stars != nil && *req.Stars != existing.Stars {
		updates["stars"] = *req.Stars
		changed["stars"] = lifecycle.Change{Old: existing.Stars, New: *req.Stars}
	}
	if req.Description != nil && !equalStringPtr(req.Description, existing.Description) {
		updates["description"] = *req.Description
		changed["description"] = lifecycle.Change{Old: existing.Description, New: *req.Description}
	}

	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update hotel: %w", err)
	}
	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload hotel: %w", err)
	}
	s.events.Notify(ctx, lifecycle.Updated(authz.FamilyHotel, changed))
	return updated, nil
}

func (s *manageStrategy) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return fmt.Errorf("get hotel: %w", err)
	}
	trips, err := s.repo.CountTrips(ctx, id)
	if err != nil {
		return fmt.Errorf("count trips: %w", err)
	}
	if trips > 0 {
		return fmt.Errorf("%w: hotel has %d trips", shared.ErrConflict, trips)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete hotel: %w", err)
	}
	s.events.Notify(ctx, lifecycle.Deleted(authz.FamilyHotel))
	return nil
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
