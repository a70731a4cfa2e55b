package trips

import "time"

type CreateTripRequest struct {
	HotelID        int64     `json:"hotel_id" validate:"required,gt=0"`
	Name           string    `json:"name" validate:"required,max=200"`
	Description    *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	PricePerPerson float64   `json:"price_per_person" validate:"gt=0"`
	Capacity       int       `json:"capacity" validate:"required,gt=0"`
	StartDate      time.Time `json:"start_date" validate:"required"`
	EndDate        time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	IsActive       *bool     `json:"is_active,omitempty"`
}

type UpdateTripRequest struct {
	Name           *string    `json:"name,omitempty" validate:"omitempty,max=200"`
	Description    *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	PricePerPerson *float64   `json:"price_per_person,omitempty" validate:"omitempty,gt=0"`
	Capacity       *int       `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	IsActive       *bool      `json:"is_active,omitempty"`
}

type ListTripsRequest struct {
	HotelID  *int64  `json:"hotel_id,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	Search   *string `json:"search,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}
