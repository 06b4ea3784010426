package gift

// CreateGiftRequest for POST /gifts
type CreateGiftRequest struct {
	Name           string  `json:"name" validate:"required,max=100"`
	Description    string  `json:"description" validate:"max=2000"`
	PointsRequired int64   `json:"points_required" validate:"gte=0"`
	Value          float64 `json:"value" validate:"gte=0"`
	Category       string  `json:"category" validate:"required,gift_category"`
	Stock          int     `json:"stock" validate:"gte=0"`
	Active         *bool   `json:"active"`
}

// UpdateGiftRequest for PUT /gifts/{id}
type UpdateGiftRequest struct {
	Name           *string  `json:"name" validate:"omitempty,max=100"`
	Description    *string  `json:"description" validate:"omitempty,max=2000"`
	PointsRequired *int64   `json:"points_required" validate:"omitempty,gte=0"`
	Value          *float64 `json:"value" validate:"omitempty,gte=0"`
	Category       *string  `json:"category" validate:"omitempty,gift_category"`
	Stock          *int     `json:"stock" validate:"omitempty,gte=0"`
	Active         *bool    `json:"active"`
}
