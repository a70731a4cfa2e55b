package cities

import (
	"context"
	"fmt"

	"github.com/atlas-stays/atlas-stays/internal/authz"
	"github.com/atlas-stays/atlas-stays/internal/lifecycle"
	"github.com/atlas-stays/atlas-stays/internal/shared"
)

// ReadStrategy is the read capability surface for the city family.
type ReadStrategy interface {
	List(ctx context.Context, req ListCitiesRequest) ([]City, error)
	Get(ctx context.Context, id int64) (*City, error)
}

// ManageStrategy is the manage capability surface for the city family.
// Authorization is settled before any of these methods run.
type ManageStrategy interface {
	Create(ctx context.Context, req CreateCityRequest) (*City, error)
	Update(ctx context.Context, id int64, req UpdateCityRequest) (*City, error)
	Delete(ctx context.Context, id int64) error
}

// Register binds the city strategies into the capability registry.
func Register(reg *authz.Registry, repo Repository, events *lifecycle.Notifier) {
	read := &readStrategy{repo: repo}
	manage := &manageStrategy{repo: repo, events: events}
	reg.Bind(authz.Read(authz.FamilyCity), read,
		authz.RoleGuest, authz.RoleUser, authz.RoleAdmin, authz.RoleSuperAdmin)
	reg.Bind(authz.Manage(authz.FamilyCity), manage,
		authz.RoleAdmin, authz.RoleSuperAdmin)
}

type readStrategy struct {
	repo Repository
}

func (s *readStrategy) List(ctx context.Context, req ListCitiesRequest) ([]City, error) {
	return s.repo.List(ctx, req)
}

func (s *readStrategy) Get(ctx context.Context, id int64) (*City, error) {
	return s.repo.Get(ctx, id)
}

type manageStrategy struct {
	repo   Repository
	events *lifecycle.Notifier
}

func (s *manageStrategy) Create(ctx context.Context, req CreateCityRequest) (*City, error) {
	city := City{
		Name:        req.Name,
		Country:     req.Country,
		Description: req.Description,
	}
	id, err := s.repo.Create(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("create city: %w", err)
	}
	created, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload city: %w", err)
	}
	s.events.Notify(ctx, lifecycle.Created(authz.FamilyCity))
	return created, nil
}

func (s *manageStrategy) Update(ctx context.Context, id int64, req UpdateCityRequest) (*City, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get city: %w", err)
	}

	updates := make(map[string]interface{})
	changed := make(map[string]lifecycle.Change)
	if req.Name != nil && *req.Name != existing.Name {
		updates["name"] = *req.Name
		changed["name"] = lifecycle.Change{Old: existing.Name, New: *req.Name}
	}
	if req.Country != nil && *req.Country != existing.Country {
		updates["country"] = *req.Country
		changed["country"] = lifecycle.Change{Old: existing.Country, New: *req.Country}
	}
	if req.Description != nil && !equalStringPtr(req.Description, existing.Description) {
		updates["description"] = *req.Description
		changed["description"] = lifecycle.Change{Old: existing.Description, New: *req.Description}
	}

	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update city: %w", err)
	}
	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload city: %w", err)
	}
	s.events.Notify(ctx, lifecycle.Updated(authz.FamilyCity, changed))
	return updated, nil
}

func (s *manageStrategy) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return fmt.Errorf("get city: %w", err)
	}
	hotels, err := s.repo.CountHotels(ctx, id)
	if err != nil {
		return fmt.Errorf("count hotels: %w", err)
	}
	if hotels > 0 {
		return fmt.Errorf("%w: city has %d hotels", shared.ErrConflict, hotels)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete city: %w", err)
	}
	s.events.Notify(ctx, lifecycle.Deleted(authz.FamilyCity))
	return nil
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
