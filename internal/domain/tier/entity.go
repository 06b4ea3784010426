package tier

import (
	"time"

	"github.com/google/uuid"
)

// CustomerTier is the per-customer loyalty aggregate: a derived cache over the
// transaction ledger, rebuildable at any time via Backfill.
type CustomerTier struct {
	UserID       uuid.UUID  `db:"user_id" json:"user_id"`
	Tier         string     `db:"tier" json:"tier"`
	Points       int64      `db:"points" json:"points"`
	Transactions int64      `db:"transactions" json:"transactions"`
	LastActivity *time.Time `db:"last_activity" json:"last_activity"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
