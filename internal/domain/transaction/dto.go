package transaction

import (
	"time"

	"github.com/google/uuid"
)

// CreateTransactionRequest for POST /employer/transactions
type CreateTransactionRequest struct {
	InvoiceNumber *string    `json:"invoice_number" validate:"omitempty,max=50"`
	Description   string     `json:"description" validate:"required,max=500"`
	CustomerEmail string     `json:"customer_email" validate:"omitempty,email,max=255"`
	Amount        float64    `json:"amount" validate:"required,gt=0"`
	Liters        *float64   `json:"liters" validate:"omitempty,gt=0"`
	Payment       string     `json:"payment" validate:"omitempty,payment"`
	Status        string     `json:"status" validate:"omitempty,oneof=Completed Pending Cancelled"`
	Type          string     `json:"type" validate:"omitempty,oneof=fuel gift other"`
	UserID        *uuid.UUID `json:"user_id"`
	PumpID        *uuid.UUID `json:"pump_id"`
}

// ListFilter narrows transaction listings
type ListFilter struct {
	EmployerID *uuid.UUID
	UserID     *uuid.UUID
	Status     string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// RewardPointRow is one per-transaction reward point record
type RewardPointRow struct {
	TransactionID uuid.UUID  `db:"id" json:"transaction_id"`
	UserID        *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	CustomerEmail string     `db:"customer_email" json:"customer_email,omitempty"`
	Amount        float64    `db:"amount" json:"amount"`
	Liters        *float64   `db:"liters" json:"liters,omitempty"`
	Points        int64      `db:"points" json:"points"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// Stats summarizes the ledger for dashboards
type Stats struct {
	TodayRevenue      float64 `db:"today_revenue" json:"today_revenue"`
	TodayCount        int     `db:"today_count" json:"today_count"`
	TotalRevenue      float64 `db:"total_revenue" json:"total_revenue"`
	TotalCount        int     `db:"total_count" json:"total_count"`
	CompletedCount    int     `db:"completed_count" json:"completed_count"`
	PendingCount      int     `db:"pending_count" json:"pending_count"`
	TotalRewardPoints int64   `db:"total_reward_points" json:"total_reward_points"`
}
