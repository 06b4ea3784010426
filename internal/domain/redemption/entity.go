package redemption

import (
	"time"

	"github.com/google/uuid"
)

// Redemption statuses. Transitions are restricted to
// Pending → Approved | Rejected and Approved → Completed.
const (
	StatusPending   = "Pending"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
	StatusCompleted = "Completed"
)

var validTransitions = map[string]map[string]bool{
	StatusPending:  {StatusApproved: true, StatusRejected: true},
	StatusApproved: {StatusCompleted: true},
}

// CanTransition reports whether a status change is allowed
func CanTransition(from, to string) bool {
	return validTransitions[from][to]
}

// Redemption is a customer's request to trade points for a gift. Stock and
// points move only when the redemption is approved; creation reserves
// nothing.
type Redemption struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	UserID     *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	GiftID     uuid.UUID  `db:"gift_id" json:"gift_id"`
	PointsUsed int64      `db:"points_used" json:"points_used"`
	Quantity   int        `db:"quantity" json:"quantity"`
	Status     string     `db:"status" json:"status"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}
