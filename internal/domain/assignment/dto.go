package assignment

import "github.com/google/uuid"

// AssignPumpRequest for POST /admin/assign-pump
type AssignPumpRequest struct {
	PumpID     uuid.UUID `json:"pump_id" validate:"required"`
	EmployerID uuid.UUID `json:"employer_id" validate:"required"`
}

// UpdatePumpAssignmentRequest for PUT /admin/pump-assignments/{id}
type UpdatePumpAssignmentRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}

// AssignUserRequest for POST /supervisor/assign-user
type AssignUserRequest struct {
	UserID     uuid.UUID `json:"user_id" validate:"required"`
	EmployerID uuid.UUID `json:"employer_id" validate:"required"`
}

// AssignGiftRequest for POST /supervisor/assign-gift
type AssignGiftRequest struct {
	GiftID         uuid.UUID `json:"gift_id" validate:"required"`
	AssignedToID   uuid.UUID `json:"assigned_to_id" validate:"required"`
	AssignedToRole string    `json:"assigned_to_role" validate:"required,oneof=employer user"`
}

// AvailabilityRequest for PUT /employer/gifts/{id}/availability
type AvailabilityRequest struct {
	IsAvailable bool `json:"is_available"`
}
