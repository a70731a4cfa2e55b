package hotels

import "time"

type Hotel struct {
	ID          int64     `json:"id" db:"id"`
	CityID      int64     `json:"city_id" db:"city_id"`
	Name        string    `json:"name" db:"name"`
	Address     string    `json:"address" db:"address"`
	Stars       int       `json:"stars" db:"stars"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
