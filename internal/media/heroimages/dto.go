package heroimages

type CreateHeroImageRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	URL      string `json:"url" validate:"required,url,max=500"`
	Position int    `json:"position" validate:"gte=0"`
}

type UpdateHeroImageRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,max=200"`
	URL      *string `json:"url,omitempty" validate:"omitempty,url,max=500"`
	Position *int    `json:"position,omitempty" validate:"omitempty,gte=0"`
}

type ListHeroImagesRequest struct {
	Limit  int `json:"limit" validate:"gte=0,lte=1000"`
	Offset int `json:"offset" validate:"gte=0"`
}
