package heroimages

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/atlas-stays/atlas-stays/internal/authz"
	"github.com/atlas-stays/atlas-stays/internal/lifecycle"
)

// ReadStrategy is the read capability surface for the hero image family.
type ReadStrategy interface {
	List(ctx context.Context, req ListHeroImagesRequest) ([]HeroImage, error)
	Get(ctx context.Context, id int64) (*HeroImage, error)
}

// ManageStrategy is the manage capability surface for the hero image family.
type ManageStrategy interface {
	Create(ctx context.Context, req CreateHeroImageRequest) (*HeroImage, error)
	Update(ctx context.Context, id int64, req UpdateHeroImageRequest) (*HeroImage, error)
	Delete(ctx context.Context, id int64) error
}

// Register binds the hero image strategies into the capability registry.
func Register(reg *authz.Registry, repo Repository, events *lifecycle.Notifier) {
	read := &readStrategy{repo: repo}
	manage := &manageStrategy{repo: repo, events: events}
	reg.Bind(authz.Read(authz.FamilyHeroImage), read,
		authz.RoleGuest, authz.RoleUser, authz.RoleAdmin, authz.RoleSuperAdmin)
	reg.Bind(authz.Manage(authz.FamilyHeroImage), manage,
		authz.RoleAdmin, authz.RoleSuperAdmin)
}

type readStrategy struct {
	repo Repository
}

func (s *readStrategy) List(ctx context.Context, req ListHeroImagesRequest) ([]HeroImage, error) {
	return s.repo.List(ctx, req)
}

func (s *readStrategy) Get(ctx context.Context, id int64) (*HeroImage, error) {
	return s.repo.Get(ctx, id)
}

type manageStrategy struct {
	repo   Repository
	events *lifecycle.Notifier
}

func (s *manageStrategy) Create(ctx context.Context, req CreateHeroImageRequest) (*HeroImage, error) {
	img := HeroImage{
		Title:      req.Title,
		URL:        req.URL,
		StorageKey: uuid.NewString(),
		Position:   req.Position,
	}
	id, err := s.repo.Create(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("create hero image: %w", err)
	}
	created, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload hero image: %w", err)
	}
	s.events.Notify(ctx, lifecycle.Created(authz.FamilyHeroImage))
	return created, nil
}

func (s *manageStrategy) Update(ctx context.Context, id int64, req UpdateHeroImageRequest) (*HeroImage, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get hero image: %w", err)
	}

	updates := make(map[string]interface{})
	changed := make(map[string]lifecycle.Change)
	if req.Title != nil && *req.Title != existing.Title {
		updates["title"] = *req.Title
		changed["title"] = lifecycle.Change{Old: existing.Title, New: *req.Title}
	}
	if req.URL != nil && *req.URL != existing.URL {
		updates["url"] = *req.URL
		changed["url"] = lifecycle.Change{Old: existing.URL, New: *req.URL}
	}
	if req.Position != nil && *req.Position != existing.Position {
		updates["position"] = *req.Position
		changed["position"] = lifecycle.Change{Old: existing.Position, New: *req.Position}
	}

	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update hero image: %w", err)
	}
	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload hero image: %w", err)
	}
	s.events.Notify(ctx, lifecycle.Updated(authz.FamilyHeroImage, changed))
	return updated, nil
}

func (s *manageStrategy) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return fmt.Errorf("get hero image: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete hero image: %w", err)
	}
	s.events.Notify(ctx, lifecycle.Deleted(authz.FamilyHeroImage))
	return nil
}
