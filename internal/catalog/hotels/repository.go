package hotels

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlas-stays/atlas-stays/internal/shared"
)

type Repository interface {
	Get(ctx context.Context, id int64) (*Hotel, error)
	List(ctx context.Context, req ListHotelsRequest) ([]Hotel, error)
	Create(ctx context.Context, hotel Hotel) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	CityExists(ctx context.Context, cityID int64) (bool, error)
	CountTrips(ctx context.Context, hotelID int64) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context, id int64) (*Hotel, error) {
	const query = `
		SELECT id, city_id, name, address, stars, description, created_at, updated_at
		FROM hotels
		WHERE id = $1
	`
	var h Hotel
	var description pgtype.Text
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&h.ID, &h.CityID, &h.Name, &h.Address, &h.Stars, &description, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if description.Valid {
		h.Description = &description.String
	}
	return &h, nil
}

func (r *repository) List(ctx context.Context, req ListHotelsRequest) ([]Hotel, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.CityID != nil {
		conditions = append(conditions, fmt.Sprintf("city_id = $%d", argPos))
		args = append(args, *req.CityID)
		argPos++
	}
	if req.Stars != nil {
		conditions = append(conditions, fmt.Sprintf("stars = $%d", argPos))
		args = append(args, *req.Stars)
		argPos++
	}
	if req.Search != nil && *req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR address ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+*req.Search+"%")
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(`
		SELECT id, city_id, name, address, stars, description, created_at, updated_at
		FROM hotels
		%s
		ORDER BY name
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Hotel
	for rows.Next() {
		var h Hotel
		var description pgtype.Text
		if err := rows.Scan(&h.ID, &h.CityID, &h.Name, &h.Address, &h.Stars, &description, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		if description.Valid {
			h.Description = &description.String
		}
		result = append(result, h)
	}
	return result, rows.Err()
}

func (r *repository) Create(ctx context.Context, hotel Hotel) (int64, error) {
	const query = `
		INSERT INTO hotels (city_id, name, address, stars, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id int64
	err := r.pool.QueryRow(ctx, query,
		hotel.CityID,
		hotel.Name,
		hotel.Address,
		hotel.Stars,
		pgtype.Text{String: derefString(hotel.Description), Valid: hotel.Description != nil},
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: hotel %q", shared.ErrDuplicate, hotel.Name)
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE hotels SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, column := range []string{"city_id", "name", "address", "stars", "description"} {
		if v, ok := updates[column]; ok {
			query += fmt.Sprintf(", %s = $%d", column, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM hotels WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) CityExists(ctx context.Context, cityID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM cities WHERE id = $1)", cityID).Scan(&exists)
	return exists, err
}

func (r *repository) CountTrips(ctx context.Context, hotelID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, "SELECT count(*) FROM trips WHERE hotel_id = $1", hotelID).Scan(&count)
	return count, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
