package trips

import "time"

type Trip struct {
	ID             int64     `json:"id" db:"id"`
	HotelID        int64     `json:"hotel_id" db:"hotel_id"`
	Name           string    `json:"name" db:"name"`
	Description    *string   `json:"description,omitempty" db:"description"`
	PricePerPerson float64   `json:"price_per_person" db:"price_per_person"`
	Capacity       int       `json:"capacity" db:"capacity"`
	StartDate      time.Time `json:"start_date" db:"start_date"`
	EndDate        time.Time `json:"end_date" db:"end_date"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
