package notification

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Notification types map onto UI severity.
const (
	TypeInfo    = "info"
	TypeSuccess = "success"
	TypeWarning = "warning"
	TypeError   = "error"
)

// Categories group notifications by the triggering domain.
const (
	CategoryGift        = "gift"
	CategoryTransaction = "transaction"
	CategoryRedemption  = "redemption"
	CategoryPump        = "pump"
	CategoryUser        = "user"
	CategorySystem      = "system"
)

// Notification is one user-facing message
type Notification struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	Title     string          `db:"title" json:"title"`
	Message   string          `db:"message" json:"message"`
	Type      string          `db:"type" json:"type"`
	Category  string          `db:"category" json:"category"`
	Link      *string         `db:"link" json:"link,omitempty"`
	Metadata  json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	Read      bool            `db:"read" json:"read"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
