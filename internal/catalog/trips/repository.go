package trips

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlas-stays/atlas-stays/internal/shared"
)

type Repository interface {
	Get(ctx context.Context, id int64) (*Trip, error)
	List(ctx context.Context, req ListTripsRequest) ([]Trip, error)
	Create(ctx context.Context, trip Trip) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	HotelExists(ctx context.Context, hotelID int64) (bool, error)
	CountReservations(ctx context.Context, tripID int64) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const tripColumns = "id, hotel_id, name, description, price_per_person, capacity, start_date, end_date, is_active, created_at, updated_at"

func scanTrip(row pgx.Row) (*Trip, error) {
	var t Trip
	var description pgtype.Text
	err := row.Scan(
		&t.ID, &t.HotelID, &t.Name, &description, &t.PricePerPerson, &t.Capacity,
		&t.StartDate, &t.EndDate, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		t.Description = &description.String
	}
	return &t, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Trip, error) {
	query := fmt.Sprintf("SELECT %s FROM trips WHERE id = $1", tripColumns)
	t, err := scanTrip(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *repository) List(ctx context.Context, req ListTripsRequest) ([]Trip, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.HotelID != nil {
		conditions = append(conditions, fmt.Sprintf("hotel_id = $%d", argPos))
		args = append(args, *req.HotelID)
		argPos++
	}
	if req.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argPos))
		args = append(args, *req.IsActive)
		argPos++
	}
	if req.Search != nil && *req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argPos))
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
		SELECT %s
		FROM trips
		%s
		ORDER BY start_date, name
		LIMIT $%d OFFSET $%d
	`, tripColumns, whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	return result, rows.Err()
}

func (r *repository) Create(ctx context.Context, trip Trip) (int64, error) {
	const query = `
		INSERT INTO trips (hotel_id, name, description, price_per_person, capacity, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id int64
	err := r.pool.QueryRow(ctx, query,
		trip.HotelID,
		trip.Name,
		pgtype.Text{String: derefString(trip.Description), Valid: trip.Description != nil},
		trip.PricePerPerson,
		trip.Capacity,
		trip.StartDate,
		trip.EndDate,
		trip.IsActive,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE trips SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, column := range []string{"name", "description", "price_per_person", "capacity", "start_date", "end_date", "is_active"} {
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
	tag, err := r.pool.Exec(ctx, "DELETE FROM trips WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) HotelExists(ctx context.Context, hotelID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM hotels WHERE id = $1)", hotelID).Scan(&exists)
	return exists, err
}

func (r *repository) CountReservations(ctx context.Context, tripID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, "SELECT count(*) FROM reservations WHERE trip_id = $1", tripID).Scan(&count)
	return count, err
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
