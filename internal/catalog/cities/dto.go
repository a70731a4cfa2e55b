package cities

type CreateCityRequest struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Country     string  `json:"country" validate:"required,len=2"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type UpdateCityRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=120"`
	Country     *string `json:"country,omitempty" validate:"omitempty,len=2"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type ListCitiesRequest struct {
	Country *string `json:"country,omitempty"`
	Search  *string `json:"search,omitempty"`
	Limit   int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset  int     `json:"offset" validate:"gte=0"`
}
