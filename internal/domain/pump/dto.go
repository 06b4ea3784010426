package pump

import (
	"github.com/google/uuid"
)

// CreatePumpRequest for POST /admin/pumps
type CreatePumpRequest struct {
	Name         string     `json:"name" validate:"required,max=100"`
	FuelTypes    []string   `json:"fuel_types" validate:"required,min=1,dive,fuel_type"`
	Status       string     `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE MAINTENANCE"`
	SupervisorID *uuid.UUID `json:"supervisor_id"`
}

// UpdatePumpRequest for PUT /admin/pumps/{id}
type UpdatePumpRequest struct {
	Name         *string    `json:"name" validate:"omitempty,max=100"`
	FuelTypes    []string   `json:"fuel_types" validate:"omitempty,min=1,dive,fuel_type"`
	Status       *string    `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE MAINTENANCE"`
	SupervisorID *uuid.UUID `json:"supervisor_id"`
}

// MeterReadingRequest for POST /employer/meter-reading
type MeterReadingRequest struct {
	PumpID       uuid.UUID `json:"pump_id" validate:"required"`
	StartReading float64   `json:"start_reading" validate:"gte=0"`
	EndReading   float64   `json:"end_reading" validate:"gte=0,gtefield=StartReading"`
}

// MaintenanceReportRequest for POST /employer/maintenance
type MaintenanceReportRequest struct {
	PumpID      uuid.UUID `json:"pump_id" validate:"required"`
	Issue       string    `json:"issue" validate:"required,max=255"`
	Description string    `json:"description" validate:"max=2000"`
}
