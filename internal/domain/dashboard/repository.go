package dashboard

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SupervisorStats summarizes a supervisor's slice of the station
type SupervisorStats struct {
	Pumps           int `db:"pumps" json:"pumps"`
	ActiveEmployers int `db:"active_employers" json:"active_employers"`
	GiftAssignments int `db:"gift_assignments" json:"gift_assignments"`
	UserAssignments int `db:"user_assignments" json:"user_assignments"`
}

type Repository interface {
	SupervisorStats(ctx context.Context, supervisorID uuid.UUID) (*SupervisorStats, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SupervisorStats(ctx context.Context, supervisorID uuid.UUID) (*SupervisorStats, error) {
	var s SupervisorStats
	err := r.db.GetContext(ctx, &s, `
		SELECT
			(SELECT COUNT(*) FROM pumps WHERE supervisor_id = $1) AS pumps,
			(SELECT COUNT(DISTINCT pa.employer_id)
			 FROM pump_assignments pa
			 JOIN pumps p ON p.id = pa.pump_id
			 WHERE p.supervisor_id = $1 AND pa.status = 'ACTIVE') AS active_employers,
			(SELECT COUNT(*) FROM gift_assignments WHERE assigned_by = $1) AS gift_assignments,
			(SELECT COUNT(*) FROM user_assignments WHERE assigned_by = $1) AS user_assignments`,
		supervisorID)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
