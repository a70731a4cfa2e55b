package heroimages

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlas-stays/atlas-stays/internal/shared"
)

type Repository interface {
	Get(ctx context.Context, id int64) (*HeroImage, error)
	List(ctx context.Context, req ListHeroImagesRequest) ([]HeroImage, error)
	Create(ctx context.Context, img HeroImage) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const heroImageColumns = "id, title, url, storage_key, position, created_at, updated_at"

func (r *repository) Get(ctx context.Context, id int64) (*HeroImage, error) {
	query := fmt.Sprintf("SELECT %s FROM hero_images WHERE id = $1", heroImageColumns)
	var img HeroImage
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&img.ID, &img.Title, &img.URL, &img.StorageKey, &img.Position, &img.CreatedAt, &img.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &img, nil
}

func (r *repository) List(ctx context.Context, req ListHeroImagesRequest) ([]HeroImage, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM hero_images
		ORDER BY position, id
		LIMIT $1 OFFSET $2
	`, heroImageColumns)

	rows, err := r.pool.Query(ctx, query, limit, req.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []HeroImage
	for rows.Next() {
		var img HeroImage
		if err := rows.Scan(&img.ID, &img.Title, &img.URL, &img.StorageKey, &img.Position, &img.CreatedAt, &img.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, img)
	}
	return result, rows.Err()
}

func (r *repository) Create(ctx context.Context, img HeroImage) (int64, error) {
	const query = `
		INSERT INTO hero_images (title, url, storage_key, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := r.pool.QueryRow(ctx, query, img.Title, img.URL, img.StorageKey, img.Position).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE hero_images SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, column := range []string{"title", "url", "position"} {
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
	tag, err := r.pool.Exec(ctx, "DELETE FROM hero_images WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
