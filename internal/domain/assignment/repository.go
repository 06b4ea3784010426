package assignment

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
	// Pump assignments
	CreatePumpAssignment(ctx context.Context, a *PumpAssignment) error
	GetPumpAssignment(ctx context.Context, id uuid.UUID) (*PumpAssignment, error)
	GetActivePumpAssignment(ctx context.Context, pumpID uuid.UUID) (*PumpAssignment, error)
	ListPumpAssignments(ctx context.Context) ([]PumpAssignment, error)
	UpdatePumpAssignmentStatus(ctx context.Context, id uuid.UUID, status string) error
	DeletePumpAssignment(ctx context.Context, id uuid.UUID) error
	HasActivePumpAssignment(ctx context.Context, pumpID, employerID uuid.UUID) (bool, error)
	ActivePumpIDsByEmployer(ctx context.Context, employerID uuid.UUID) ([]uuid.UUID, error)
	ActivePumpIDsByEmployers(ctx context.Context, employerIDs []uuid.UUID) ([]uuid.UUID, error)

	// User assignments
	CreateUserAssignment(ctx context.Context, a *UserAssignment) error
	ListUserAssignmentsByEmployer(ctx context.Context, employerID uuid.UUID) ([]UserAssignment, error)
	ListUserAssignmentsBySupervisor(ctx context.Context, supervisorID uuid.UUID) ([]UserAssignment, error)
	LinkUserToEmployer(ctx context.Context, userID, employerID, assignedBy uuid.UUID) error
	DeactivateUserAssignment(ctx context.Context, userID, employerID uuid.UUID) error
	ActiveEmployerIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ActiveUserIDsByEmployer(ctx context.Context, employerID uuid.UUID) ([]uuid.UUID, error)

	// Gift assignments
	CreateGiftAssignment(ctx context.Context, a *GiftAssignment) error
	GetGiftAssignment(ctx context.Context, id uuid.UUID) (*GiftAssignment, error)
	GetOutstandingGiftAssignment(ctx context.Context, giftID, assigneeID uuid.UUID, role string) (*GiftAssignment, error)
	UpdateGiftAssignment(ctx context.Context, a *GiftAssignment) error
	ListGiftAssignmentsByAssignee(ctx context.Context, assigneeID uuid.UUID, role string) ([]GiftAssignment, error)
	ListGiftAssignmentsByAssigner(ctx context.Context, assignedBy uuid.UUID) ([]GiftAssignment, error)

	// Scope hops
	SupervisorIDsForPumps(ctx context.Context, pumpIDs []uuid.UUID) ([]uuid.UUID, error)
	GiftIDsAssignedBy(ctx context.Context, supervisorIDs []uuid.UUID) ([]uuid.UUID, error)
	UserIDsAssignedGiftsBy(ctx context.Context, supervisorID uuid.UUID) ([]uuid.UUID, error)
	UserIDsWithTransactionsAtSupervisorEmployers(ctx context.Context, supervisorID uuid.UUID) ([]uuid.UUID, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const pumpAssignmentColumns = `id, pump_id, employer_id, assigned_by, status, assigned_at, updated_at`
const userAssignmentColumns = `id, user_id, employer_id, assigned_by, status, assigned_at, updated_at`
const giftAssignmentColumns = `id, gift_id, assigned_to_id, assigned_to_role, assigned_by,
	points_available, points_required, is_available, status, assigned_at, updated_at`

// CreatePumpAssignment retires any other active assignment of the pump and
// inserts the new one in a single transaction. A concurrent assigner losing
// the race on the partial unique index gets ErrPumpAlreadyAssigned.
func (r *repository) CreatePumpAssignment(ctx context.Context, a *PumpAssignment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE pump_assignments SET status = 'INACTIVE', updated_at = NOW()
		WHERE pump_id = $1 AND status = 'ACTIVE'`, a.PumpID); err != nil {
		return err
	}

	err = tx.GetContext(ctx, a, `
		INSERT INTO pump_assignments (id, pump_id, employer_id, assigned_by, status)
		VALUES ($1, $2, $3, $4, 'ACTIVE')
		RETURNING `+pumpAssignmentColumns,
		a.ID, a.PumpID, a.EmployerID, a.AssignedBy)
	if database.IsUniqueViolation(err) {
		return ErrPumpAlreadyAssigned
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *repository) GetPumpAssignment(ctx context.Context, id uuid.UUID) (*PumpAssignment, error) {
	var a PumpAssignment
	err := r.db.GetContext(ctx, &a,
		`SELECT `+pumpAssignmentColumns+` FROM pump_assignments WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *repository) GetActivePumpAssignment(ctx context.Context, pumpID uuid.UUID) (*PumpAssignment, error) {
	var a PumpAssignment
	err := r.db.GetContext(ctx, &a, `
		SELECT `+pumpAssignmentColumns+` FROM pump_assignments
		WHERE pump_id = $1 AND status = 'ACTIVE'`, pumpID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *repository) ListPumpAssignments(ctx context.Context) ([]PumpAssignment, error) {
	items := []PumpAssignment{}
	err := r.db.SelectContext(ctx, &items,
		`SELECT `+pumpAssignmentColumns+` FROM pump_assignments ORDER BY assigned_at DESC`)
	return items, err
}

func (r *repository) UpdatePumpAssignmentStatus(ctx context.Context, id uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pump_assignments SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if database.IsUniqueViolation(err) {
		return ErrPumpAlreadyAssigned
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) DeletePumpAssignment(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pump_assignments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) HasActivePumpAssignment(ctx context.Context, pumpID, employerID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM pump_assignments
			WHERE pump_id = $1 AND employer_id = $2 AND status = 'ACTIVE'
		)`, pumpID, employerID)
	return exists, err
}

func (r *repository) ActivePumpIDsByEmployer(ctx context.Context, employerID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := r.db.SelectContext(ctx, &ids, `
		SELECT pump_id FROM pump_assignments
		WHERE employer_id = $1 AND status = 'ACTIVE'`, employerID)
	return ids, err
}

func (r *repository) ActivePumpIDsByEmployers(ctx context.Context, employerIDs []uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if len(employerIDs) == 0 {
		return ids, nil
	}
	err := r.db.SelectContext(ctx, &ids, `
		SELECT DISTINCT pump_id FROM pump_assignments
		WHERE employer_id = ANY($1) AND status = 'ACTIVE'`, pq.Array(employerIDs))
	return ids, err
}

func (r *repository) CreateUserAssignment(ctx context.Context, a *UserAssignment) error {
	err := r.db.GetContext(ctx, a, `
		INSERT INTO user_assignments (id, user_id, employer_id, assigned_by, status)
		VALUES ($1, $2, $3, $4, 'ACTIVE')
		RETURNING `+userAssignmentColumns,
		a.ID, a.UserID, a.EmployerID, a.AssignedBy)
	if database.IsUniqueViolation(err) {
		return ErrUserAlreadyAssigned
	}
	return err
}

func (r *repository) ListUserAssignmentsByEmployer(ctx context.Context, employerID uuid.UUID) ([]UserAssignment, error) {
	items := []UserAssignment{}
	err := r.db.SelectContext(ctx, &items, `
		SELECT `+userAssignmentColumns+` FROM user_assignments
		WHERE employer_id = $1 AND status = 'ACTIVE'
		ORDER BY assigned_at DESC`, employerID)
	return items, err
}

func (r *repository) ListUserAssignmentsBySupervisor(ctx context.Context, supervisorID uuid.UUID) ([]UserAssignment, error) {
	items := []UserAssignment{}
	err := r.db.SelectContext(ctx, &items, `
		SELECT `+userAssignmentColumns+` FROM user_assignments
		WHERE assigned_by = $1
		ORDER BY assigned_at DESC`, supervisorID)
	return items, err
}

// LinkUserToEmployer records an active employer link for a customer managed
// through the employer console. The unique violation is returned raw for the
// caller to classify.
func (r *repository) LinkUserToEmployer(ctx context.Context, userID, employerID, assignedBy uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_assignments (id, user_id, employer_id, assigned_by, status)
		VALUES ($1, $2, $3, $4, 'ACTIVE')`,
		uuid.New(), userID, employerID, assignedBy)
	return err
}

func (r *repository) DeactivateUserAssignment(ctx context.Context, userID, employerID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE user_assignments SET status = 'INACTIVE', updated_at = NOW()
		WHERE user_id = $1 AND employer_id = $2 AND status = 'ACTIVE'`, userID, employerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ActiveEmployerIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := r.db.SelectContext(ctx, &ids, `
		SELECT employer_id FROM user_assignments
		WHERE user_id = $1 AND status = 'ACTIVE'`, userID)
	return ids, err
}

func (r *repository) ActiveUserIDsByEmployer(ctx context.Context, employerID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := r.db.SelectContext(ctx, &ids, `
		SELECT user_id FROM user_assignments
		WHERE employer_id = $1 AND status = 'ACTIVE'`, employerID)
	return ids, err
}

func (r *repository) CreateGiftAssignment(ctx context.Context, a *GiftAssignment) error {
	return r.db.GetContext(ctx, a, `
		INSERT INTO gift_assignments (id, gift_id, assigned_to_id, assigned_to_role, assigned_by,
			points_available, points_required, is_available, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+giftAssignmentColumns,
		a.ID, a.GiftID, a.AssignedToID, a.AssignedToRole, a.AssignedBy,
		a.PointsAvailable, a.PointsRequired, a.IsAvailable, a.Status)
}

func (r *repository) GetGiftAssignment(ctx context.Context, id uuid.UUID) (*GiftAssignment, error) {
	var a GiftAssignment
	err := r.db.GetContext(ctx, &a,
		`SELECT `+giftAssignmentColumns+` FROM gift_assignments WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *repository) GetOutstandingGiftAssignment(ctx context.Context, giftID, assigneeID uuid.UUID, role string) (*GiftAssignment, error) {
	var a GiftAssignment
	err := r.db.GetContext(ctx, &a, `
		SELECT `+giftAssignmentColumns+` FROM gift_assignments
		WHERE gift_id = $1 AND assigned_to_id = $2 AND assigned_to_role = $3
		  AND status IN ('PENDING', 'AVAILABLE')`, giftID, assigneeID, role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *repository) UpdateGiftAssignment(ctx context.Context, a *GiftAssignment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE gift_assignments
		SET assigned_by = $1, points_available = $2, points_required = $3,
		    is_available = $4, status = $5, assigned_at = NOW(), updated_at = NOW()
		WHERE id = $6`,
		a.AssignedBy, a.PointsAvailable, a.PointsRequired, a.IsAvailable, a.Status, a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ListGiftAssignmentsByAssignee(ctx context.Context, assigneeID uuid.UUID, role string) ([]GiftAssignment, error) {
	items := []GiftAssignment{}
	err := r.db.SelectContext(ctx, &items, `
		SELECT `+giftAssignmentColumns+` FROM gift_assignments
		WHERE assigned_to_id = $1 AND assigned_to_role = $2
		ORDER BY assigned_at DESC`, assigneeID, role)
	return items, err
}

func (r *repository) ListGiftAssignmentsByAssigner(ctx context.Context, assignedBy uuid.UUID) ([]GiftAssignment, error) {
	items := []GiftAssignment{}
	err := r.db.SelectContext(ctx, &items, `
		SELECT `+giftAssignmentColumns+` FROM gift_assignments
		WHERE assigned_by = $1
		ORDER BY assigned_at DESC`, assignedBy)
	return items, err
}

func (r *repository) SupervisorIDsForPumps(ctx context.Context, pumpIDs []uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if len(pumpIDs) == 0 {
		return ids, nil
	}
	err := r.db.SelectContext(ctx, &ids, `
		SELECT DISTINCT supervisor_id FROM pumps
		WHERE id = ANY($1) AND supervisor_id IS NOT NULL`, pq.Array(pumpIDs))
	return ids, err
}

func (r *repository) GiftIDsAssignedBy(ctx context.Context, supervisorIDs []uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if len(supervisorIDs) == 0 {
		return ids, nil
	}
	err := r.db.SelectContext(ctx, &ids, `
		SELECT DISTINCT gift_id FROM gift_assignments
		WHERE assigned_by = ANY($1)`, pq.Array(supervisorIDs))
	return ids, err
}

func (r *repository) UserIDsAssignedGiftsBy(ctx context.Context, supervisorID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := r.db.SelectContext(ctx, &ids, `
		SELECT DISTINCT assigned_to_id FROM gift_assignments
		WHERE assigned_by = $1 AND assigned_to_role = 'user'`, supervisorID)
	return ids, err
}

func (r *repository) UserIDsWithTransactionsAtSupervisorEmployers(ctx context.Context, supervisorID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := r.db.SelectContext(ctx, &ids, `
		SELECT DISTINCT t.user_id
		FROM transactions t
		WHERE t.user_id IS NOT NULL
		  AND t.employer_id IN (
			SELECT pa.employer_id FROM pump_assignments pa
			JOIN pumps p ON p.id = pa.pump_id
			WHERE p.supervisor_id = $1 AND pa.status = 'ACTIVE'
		  )`, supervisorID)
	return ids, err
}
