package redemption

import "github.com/google/uuid"

// CreateRedemptionRequest for POST /redemptions
type CreateRedemptionRequest struct {
	GiftID   uuid.UUID `json:"gift_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"omitempty,gte=1,lte=100"`
}

// UpdateStatusRequest for PUT /redemptions/{id}
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Approved Rejected Completed"`
}
