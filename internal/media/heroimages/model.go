package heroimages

import "time"

type HeroImage struct {
	ID         int64     `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	URL        string    `json:"url" db:"url"`
	StorageKey string    `json:"storage_key" db:"storage_key"`
	Position   int       `json:"position" db:"position"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
