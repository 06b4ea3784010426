package pump

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Pump statuses
const (
	StatusActive      = "ACTIVE"
	StatusInactive    = "INACTIVE"
	StatusMaintenance = "MAINTENANCE"
)

// Maintenance report statuses
const (
	ReportPending    = "PENDING"
	ReportInProgress = "IN_PROGRESS"
	ReportResolved   = "RESOLVED"
)

// Pump represents a fuel pump
type Pump struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	FuelTypes    pq.StringArray `db:"fuel_types" json:"fuel_types"`
	Status       string         `db:"status" json:"status"`
	SupervisorID *uuid.UUID     `db:"supervisor_id" json:"supervisor_id,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// MeterReading is one shift's start/end meter record for a pump
type MeterReading struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	PumpID       uuid.UUID  `db:"pump_id" json:"pump_id"`
	StartReading float64    `db:"start_reading" json:"start_reading"`
	EndReading   float64    `db:"end_reading" json:"end_reading"`
	Difference   float64    `db:"difference" json:"difference"`
	RecordedBy   *uuid.UUID `db:"recorded_by" json:"recorded_by,omitempty"`
	RecordedAt   time.Time  `db:"recorded_at" json:"recorded_at"`
}

// MaintenanceReport is an employer-filed issue against a pump
type MaintenanceReport struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PumpID      uuid.UUID  `db:"pump_id" json:"pump_id"`
	Issue       string     `db:"issue" json:"issue"`
	Description string     `db:"description" json:"description"`
	ReportedBy  *uuid.UUID `db:"reported_by" json:"reported_by,omitempty"`
	Status      string     `db:"status" json:"status"`
	ReportedAt  time.Time  `db:"reported_at" json:"reported_at"`
}

// Stats summarizes the pump fleet
type Stats struct {
	Total       int `db:"total" json:"total"`
	Active      int `db:"active" json:"active"`
	Inactive    int `db:"inactive" json:"inactive"`
	Maintenance int `db:"maintenance" json:"maintenance"`
}
