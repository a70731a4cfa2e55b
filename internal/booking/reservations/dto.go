package reservations

type CreateReservationRequest struct {
	TripID int64   `json:"trip_id" validate:"required,gt=0"`
	Guests int     `json:"guests" validate:"required,gt=0"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type UpdateReservationRequest struct {
	Guests *int    `json:"guests,omitempty" validate:"omitempty,gt=0"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type ListReservationsRequest struct {
	TripID *int64  `json:"trip_id,omitempty"`
	UserID *int64  `json:"user_id,omitempty"`
	Status *string `json:"status,omitempty"`
	Limit  int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset int     `json:"offset" validate:"gte=0"`
}
