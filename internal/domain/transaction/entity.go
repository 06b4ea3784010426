package transaction

import (
	"time"

	"github.com/google/uuid"
)

// Transaction statuses
const (
	StatusCompleted = "Completed"
	StatusPending   = "Pending"
	StatusCancelled = "Cancelled"
)

// Transaction types
const (
	TypeFuel  = "fuel"
	TypeGift  = "gift"
	TypeOther = "other"
)

// Transaction is one ledger row. RewardPoints is computed once at creation
// from the settings in force and never recomputed; rows predating
// volume-based accrual carry NULL and fall back to the amount rule when
// aggregated.
type Transaction struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	InvoiceNumber *string    `db:"invoice_number" json:"invoice_number,omitempty"`
	Description   string     `db:"description" json:"description"`
	CustomerEmail string     `db:"customer_email" json:"customer_email,omitempty"`
	Amount        float64    `db:"amount" json:"amount"`
	Liters        *float64   `db:"liters" json:"liters,omitempty"`
	Payment       string     `db:"payment" json:"payment"`
	Status        string     `db:"status" json:"status"`
	Type          string     `db:"type" json:"type"`
	UserID        *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	PumpID        *uuid.UUID `db:"pump_id" json:"pump_id,omitempty"`
	EmployerID    *uuid.UUID `db:"employer_id" json:"employer_id,omitempty"`
	RewardPoints  *int64     `db:"reward_points" json:"reward_points,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}
