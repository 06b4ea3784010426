package settings

// SaveSettingsRequest for POST /admin/settings
type SaveSettingsRequest struct {
	StationName      string  `json:"station_name" validate:"required,max=255"`
	Address          string  `json:"address" validate:"max=500"`
	Phone            string  `json:"phone" validate:"max=50"`
	Email            string  `json:"email" validate:"omitempty,email,max=255"`
	PetrolPrice      float64 `json:"petrol_price" validate:"gte=0"`
	DieselPrice      float64 `json:"diesel_price" validate:"gte=0"`
	LPGPrice         float64 `json:"lpg_price" validate:"gte=0"`
	CNGPrice         float64 `json:"cng_price" validate:"gte=0"`
	RewardMultiplier float64 `json:"reward_multiplier" validate:"gt=0"`
	PointsPerLiter   float64 `json:"points_per_liter" validate:"gt=0"`
}
