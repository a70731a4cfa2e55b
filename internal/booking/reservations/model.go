package reservations

import "time"

// Reservation statuses. A reservation starts pending and is moved to
// confirmed or cancelled by staff.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

type Reservation struct {
	ID         int64     `json:"id" db:"id"`
	TripID     int64     `json:"trip_id" db:"trip_id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	Guests     int       `json:"guests" db:"guests"`
	TotalPrice float64   `json:"total_price" db:"total_price"`
	Status     string    `json:"status" db:"status"`
	Notes      *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

func validStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}
