package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlas-stays/atlas-stays/internal/platform/db"
	"github.com/atlas-stays/atlas-stays/internal/shared"
)

// TripInfo carries the trip fields the booking rules need.
type TripInfo struct {
	ID             int64
	Name           string
	PricePerPerson float64
	Capacity       int
	IsActive       bool
}

type Repository interface {
	Get(ctx context.Context, id int64) (*Reservation, error)
	List(ctx context.Context, req ListReservationsRequest) ([]Reservation, error)
	Create(ctx context.Context, res Reservation) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	TripInfo(ctx context.Context, tripID int64) (*TripInfo, error)
	UserEmail(ctx context.Context, userID int64) (string, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const reservationColumns = "id, trip_id, user_id, guests, total_price, status, notes, created_at, updated_at"

func scanReservation(row pgx.Row) (*Reservation, error) {
	var res Reservation
	var notes pgtype.Text
	err := row.Scan(
		&res.ID, &res.TripID, &res.UserID, &res.Guests, &res.TotalPrice,
		&res.Status, &notes, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		res.Notes = &notes.String
	}
	return &res, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Reservation, error) {
	query := fmt.Sprintf("SELECT %s FROM reservations WHERE id = $1", reservationColumns)
	res, err := scanReservation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

func (r *repository) List(ctx context.Context, req ListReservationsRequest) ([]Reservation, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.TripID != nil {
		conditions = append(conditions, fmt.Sprintf("trip_id = $%d", argPos))
		args = append(args, *req.TripID)
		argPos++
	}
	if req.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argPos))
		args = append(args, *req.UserID)
		argPos++
	}
	if req.Status != nil && *req.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *req.Status)
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
		FROM reservations
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, reservationColumns, whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *res)
	}
	return result, rows.Err()
}

func (r *repository) Create(ctx context.Context, res Reservation) (int64, error) {
	const insert = `
		INSERT INTO reservations (trip_id, user_id, guests, total_price, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		// Re-check the trip under a shared lock so a concurrent
		// deactivation can't slip in between validation and insert.
		var isActive bool
		err := tx.QueryRow(ctx, "SELECT is_active FROM trips WHERE id = $1 FOR SHARE", res.TripID).Scan(&isActive)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return shared.ErrNotFound
			}
			return err
		}
		if !isActive {
			return shared.ErrConflict
		}
		return tx.QueryRow(ctx, insert,
			res.TripID,
			res.UserID,
			res.Guests,
			res.TotalPrice,
			res.Status,
			pgtype.Text{String: derefString(res.Notes), Valid: res.Notes != nil},
		).Scan(&id)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE reservations SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, column := range []string{"guests", "total_price", "status", "notes"} {
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
	tag, err := r.pool.Exec(ctx, "DELETE FROM reservations WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) TripInfo(ctx context.Context, tripID int64) (*TripInfo, error) {
	const query = `
		SELECT id, name, price_per_person, capacity, is_active
		FROM trips
		WHERE id = $1
	`
	var info TripInfo
	err := r.pool.QueryRow(ctx, query, tripID).Scan(
		&info.ID, &info.Name, &info.PricePerPerson, &info.Capacity, &info.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &info, nil
}

func (r *repository) UserEmail(ctx context.Context, userID int64) (string, error) {
	var email string
	err := r.pool.QueryRow(ctx, "SELECT email FROM users WHERE id = $1", userID).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return email, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
