package gift

import (
	"time"

	"github.com/google/uuid"
)

// Gift categories
const (
	CategoryBeverage    = "Beverage"
	CategoryFood        = "Food"
	CategoryElectronics = "Electronics"
	CategoryVouchers    = "Vouchers"
	CategoryOther       = "Other"
)

// Gift is a redeemable reward item. Stock only decreases when a redemption
// is approved.
type Gift struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Description    string    `db:"description" json:"description"`
	PointsRequired int64     `db:"points_required" json:"points_required"`
	Value          float64   `db:"value" json:"value"`
	Category       string    `db:"category" json:"category"`
	Stock          int       `db:"stock" json:"stock"`
	Active         bool      `db:"active" json:"active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
