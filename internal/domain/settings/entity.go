package settings

import "time"

// StationSettings is the station-wide configuration singleton. Fuel prices
// are informational; RewardMultiplier and PointsPerLiter feed point accrual
// at transaction creation time.
type StationSettings struct {
	ID               int16     `db:"id" json:"-"`
	StationName      string    `db:"station_name" json:"station_name"`
	Address          string    `db:"address" json:"address"`
	Phone            string    `db:"phone" json:"phone"`
	Email            string    `db:"email" json:"email"`
	PetrolPrice      float64   `db:"petrol_price" json:"petrol_price"`
	DieselPrice      float64   `db:"diesel_price" json:"diesel_price"`
	LPGPrice         float64   `db:"lpg_price" json:"lpg_price"`
	CNGPrice         float64   `db:"cng_price" json:"cng_price"`
	RewardMultiplier float64   `db:"reward_multiplier" json:"reward_multiplier"`
	PointsPerLiter   float64   `db:"points_per_liter" json:"points_per_liter"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}
