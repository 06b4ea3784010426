package assignment

import (
	"time"

	"github.com/google/uuid"
)

// Assignment statuses (pump and user assignments)
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Gift assignment statuses
const (
	GiftStatusPending   = "PENDING"
	GiftStatusAvailable = "AVAILABLE"
	GiftStatusRedeemed  = "REDEEMED"
	GiftStatusExpired   = "EXPIRED"
)

// PumpAssignment links a pump to the employer operating it. At most one
// ACTIVE row per pump, enforced by a partial unique index.
type PumpAssignment struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PumpID     uuid.UUID `db:"pump_id" json:"pump_id"`
	EmployerID uuid.UUID `db:"employer_id" json:"employer_id"`
	AssignedBy uuid.UUID `db:"assigned_by" json:"assigned_by"`
	Status     string    `db:"status" json:"status"`
	AssignedAt time.Time `db:"assigned_at" json:"assigned_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// UserAssignment links a customer to an employer. A customer may hold
// active links to several employers, but only one per employer.
type UserAssignment struct {
	ID         uuid.UUID `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	EmployerID uuid.UUID `db:"employer_id" json:"employer_id"`
	AssignedBy uuid.UUID `db:"assigned_by" json:"assigned_by"`
	Status     string    `db:"status" json:"status"`
	AssignedAt time.Time `db:"assigned_at" json:"assigned_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// GiftAssignment offers a gift to an employer or customer. Availability is
// computed at assignment time and stored; at most one PENDING/AVAILABLE row
// per (gift, assignee, role).
type GiftAssignment struct {
	ID              uuid.UUID `db:"id" json:"id"`
	GiftID          uuid.UUID `db:"gift_id" json:"gift_id"`
	AssignedToID    uuid.UUID `db:"assigned_to_id" json:"assigned_to_id"`
	AssignedToRole  string    `db:"assigned_to_role" json:"assigned_to_role"`
	AssignedBy      uuid.UUID `db:"assigned_by" json:"assigned_by"`
	PointsAvailable int64     `db:"points_available" json:"points_available"`
	PointsRequired  int64     `db:"points_required" json:"points_required"`
	IsAvailable     bool      `db:"is_available" json:"is_available"`
	Status          string    `db:"status" json:"status"`
	AssignedAt      time.Time `db:"assigned_at" json:"assigned_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
