package pump

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fuelpoint/fuelpoint-api/internal/pkg/database"
)

type Repository interface {
	Create(ctx context.Context, p *Pump) error
	GetByID(ctx context.Context, id uuid.UUID) (*Pump, error)
	List(ctx context.Context) ([]Pump, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]Pump, error)
	Update(ctx context.Context, p *Pump) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*Stats, error)

	CreateMeterReading(ctx context.Context, m *MeterReading) error
	ListMeterReadings(ctx context.Context, pumpID uuid.UUID, limit int) ([]MeterReading, error)
	CreateMaintenanceReport(ctx context.Context, m *MaintenanceReport) error
	ListMaintenanceReports(ctx context.Context, pumpID uuid.UUID) ([]MaintenanceReport, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Pump) error {
	err := r.db.GetContext(ctx, p, `
		INSERT INTO pumps (id, name, fuel_types, status, supervisor_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, fuel_types, status, supervisor_id, created_at, updated_at`,
		p.ID, p.Name, p.FuelTypes, p.Status, p.SupervisorID)
	if database.IsUniqueViolation(err) {
		return ErrNameTaken
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Pump, error) {
	var p Pump
	err := r.db.GetContext(ctx, &p, `
		SELECT id, name, fuel_types, status, supervisor_id, created_at, updated_at
		FROM pumps WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context) ([]Pump, error) {
	pumps := []Pump{}
	err := r.db.SelectContext(ctx, &pumps, `
		SELECT id, name, fuel_types, status, supervisor_id, created_at, updated_at
		FROM pumps ORDER BY name`)
	return pumps, err
}

func (r *repository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]Pump, error) {
	pumps := []Pump{}
	if len(ids) == 0 {
		return pumps, nil
	}
	err := r.db.SelectContext(ctx, &pumps, `
		SELECT id, name, fuel_types, status, supervisor_id, created_at, updated_at
		FROM pumps WHERE id = ANY($1) ORDER BY name`, pq.Array(ids))
	return pumps, err
}

func (r *repository) Update(ctx context.Context, p *Pump) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pumps
		SET name = $1, fuel_types = $2, status = $3, supervisor_id = $4, updated_at = NOW()
		WHERE id = $5`,
		p.Name, p.FuelTypes, p.Status, p.SupervisorID, p.ID)
	if database.IsUniqueViolation(err) {
		return ErrNameTaken
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pumps WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := r.db.GetContext(ctx, &s, `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE status = 'ACTIVE') AS active,
		       COUNT(*) FILTER (WHERE status = 'INACTIVE') AS inactive,
		       COUNT(*) FILTER (WHERE status = 'MAINTENANCE') AS maintenance
		FROM pumps`)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) CreateMeterReading(ctx context.Context, m *MeterReading) error {
	return r.db.GetContext(ctx, m, `
		INSERT INTO pump_meter_readings (id, pump_id, start_reading, end_reading, difference, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, pump_id, start_reading, end_reading, difference, recorded_by, recorded_at`,
		m.ID, m.PumpID, m.StartReading, m.EndReading, m.Difference, m.RecordedBy)
}

func (r *repository) ListMeterReadings(ctx context.Context, pumpID uuid.UUID, limit int) ([]MeterReading, error) {
	if limit <= 0 {
		limit = 50
	}
	readings := []MeterReading{}
	err := r.db.SelectContext(ctx, &readings, `
		SELECT id, pump_id, start_reading, end_reading, difference, recorded_by, recorded_at
		FROM pump_meter_readings
		WHERE pump_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2`, pumpID, limit)
	return readings, err
}

func (r *repository) CreateMaintenanceReport(ctx context.Context, m *MaintenanceReport) error {
	return r.db.GetContext(ctx, m, `
		INSERT INTO pump_maintenance_reports (id, pump_id, issue, description, reported_by, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, pump_id, issue, description, reported_by, status, reported_at`,
		m.ID, m.PumpID, m.Issue, m.Description, m.ReportedBy, m.Status)
}

func (r *repository) ListMaintenanceReports(ctx context.Context, pumpID uuid.UUID) ([]MaintenanceReport, error) {
	reports := []MaintenanceReport{}
	err := r.db.SelectContext(ctx, &reports, `
		SELECT id, pump_id, issue, description, reported_by, status, reported_at
		FROM pump_maintenance_reports
		WHERE pump_id = $1
		ORDER BY reported_at DESC`, pumpID)
	return reports, err
}
