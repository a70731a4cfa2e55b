package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlas-stays/atlas-stays/internal/shared"
)

// Account is the credential view of a user record.
type Account struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
}

// Repository loads accounts for credential checks.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id int64) (*Account, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository backed by the provided pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const accountQuery = "SELECT id, name, email, password_hash, role, is_active FROM users"

func (r *repository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	var acc Account
	err := r.pool.QueryRow(ctx, accountQuery+" WHERE email = $1", strings.ToLower(strings.TrimSpace(email))).Scan(
		&acc.ID, &acc.Name, &acc.Email, &acc.PasswordHash, &acc.Role, &acc.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &acc, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Account, error) {
	var acc Account
	err := r.pool.QueryRow(ctx, accountQuery+" WHERE id = $1", id).Scan(
		&acc.ID, &acc.Name, &acc.Email, &acc.PasswordHash, &acc.Role, &acc.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &acc, nil
}
