package hotels

type CreateHotelRequest struct {
	CityID      int64   `json:"city_id" validate:"required,gt=0"`
	Name        string  `json:"name" validate:"required,max=200"`
	Address     string  `json:"address" validate:"required,max=300"`
	Stars       int     `json:"stars" validate:"gte=1,lte=5"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type UpdateHotelRequest struct {
	CityID      *int64  `json:"city_id,omitempty" validate:"omitempty,gt=0"`
	Name        *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=300"`
	Stars       *int    `json:"stars,omitempty" validate:"omitempty,gte=1,lte=5"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type ListHotelsRequest struct {
	CityID *int64  `json:"city_id,omitempty"`
	Stars  *int    `json:"stars,omitempty"`
	Search *string `json:"search,omitempty"`
	Limit  int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset int     `json:"offset" validate:"gte=0"`
}
