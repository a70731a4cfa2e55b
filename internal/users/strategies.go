package users

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/atlas-stays/atlas-stays/internal/authz"
	"github.com/atlas-stays/atlas-stays/internal/lifecycle"
	"github.com/atlas-stays/atlas-stays/internal/shared"
)

// ReadStrategy is the read capability surface for the user family.
type ReadStrategy interface {
	List(ctx context.Context, req ListUsersRequest) ([]User, error)
	Get(ctx context.Context, id int64) (*User, error)
}

// ManageStrategy is the manage capability surface for the user family.
// Only super admins are bound here; password hashes never leave this package.
type ManageStrategy interface {
	Create(ctx context.Context, req CreateUserRequest) (*User, error)
	Update(ctx context.Context, id int64, req UpdateUserRequest) (*User, error)
	Delete(ctx context.Context, id int64) error
}

// Register binds the user strategies into the capability registry.
func Register(reg *authz.Registry, repo Repository, events *lifecycle.Notifier) {
	read := &readStrategy{repo: repo}
	manage := &manageStrategy{repo: repo, events: events}
	reg.Bind(authz.Read(authz.FamilyUser), read,
		authz.RoleAdmin, authz.RoleSuperAdmin)
	reg.Bind(authz.Manage(authz.FamilyUser), manage,
		authz.RoleSuperAdmin)
}

type readStrategy struct {
	repo Repository
}

func (s *readStrategy) List(ctx context.Context, req ListUsersRequest) ([]User, error) {
	return s.repo.List(ctx, req)
}

func (s *readStrategy) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.Get(ctx, id)
}

type manageStrategy struct {
	repo   Repository
	events *lifecycle.Notifier
}

func (s *manageStrategy) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         req.Role,
		IsActive:     true,
	}
	id, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	created, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	s.events.Notify(ctx, lifecycle.Created(authz.FamilyUser))
	return created, nil
}

func (s *manageStrategy) Update(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	updates := make(map[string]interface{})
	changed := make(map[string]lifecycle.Change)
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != existing.Name {
			updates["name"] = name
			changed["name"] = lifecycle.Change{Old: existing.Name, New: name}
		}
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != existing.Email {
			updates["email"] = email
			changed["email"] = lifecycle.Change{Old: existing.Email, New: email}
		}
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		updates["password_hash"] = string(hash)
		// The hash itself is a secret; record only that it rotated.
		changed["password_hash"] = lifecycle.Change{}
	}
	if req.Role != nil && *req.Role != existing.Role {
		updates["role"] = *req.Role
		changed["role"] = lifecycle.Change{Old: existing.Role, New: *req.Role}
	}
	if req.IsActive != nil && *req.IsActive != existing.IsActive {
		updates["is_active"] = *req.IsActive
		changed["is_active"] = lifecycle.Change{Old: existing.IsActive, New: *req.IsActive}
	}

	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	s.events.Notify(ctx, lifecycle.Updated(authz.FamilyUser, changed))
	return updated, nil
}

func (s *manageStrategy) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	reservations, err := s.repo.CountReservations(ctx, id)
	if err != nil {
		return fmt.Errorf("count reservations: %w", err)
	}
	if reservations > 0 {
		return fmt.Errorf("%w: user has %d reservations", shared.ErrConflict, reservations)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.events.Notify(ctx, lifecycle.Deleted(authz.FamilyUser))
	return nil
}
