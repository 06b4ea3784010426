package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fuelpoint/fuelpoint-api/internal/domain/tier"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/database"
)

// TierApplier folds a completed transaction into the customer's tier row
// inside the same DB transaction. Satisfied by tier.Repository.
type TierApplier interface {
	Apply(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, delta int64, at time.Time) (*tier.CustomerTier, error)
}

type Repository interface {
	// Create writes the ledger row and, for completed transactions with a
	// known customer, the tier update in one DB transaction.
	Create(ctx context.Context, t *Transaction, tiers TierApplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	GetByInvoice(ctx context.Context, invoiceNumber string) (*Transaction, error)
	List(ctx context.Context, f ListFilter) ([]Transaction, int, error)
	Recent(ctx context.Context, limit int) ([]Transaction, error)
	NextInvoiceNumber(ctx context.Context) (string, error)
	RewardPointsByEmployer(ctx context.Context, employerID uuid.UUID) ([]RewardPointRow, error)
	TotalCompletedPointsByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	Stats(ctx context.Context) (*Stats, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const txColumns = `id, invoice_number, description, customer_email, amount, liters,
	payment, status, type, user_id, pump_id, employer_id, reward_points, created_at, updated_at`

func (r *repository) Create(ctx context.Context, t *Transaction, tiers TierApplier) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.GetContext(ctx, t, `
		INSERT INTO transactions (id, invoice_number, description, customer_email, amount, liters,
			payment, status, type, user_id, pump_id, employer_id, reward_points)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+txColumns,
		t.ID, t.InvoiceNumber, t.Description, t.CustomerEmail, t.Amount, t.Liters,
		t.Payment, t.Status, t.Type, t.UserID, t.PumpID, t.EmployerID, t.RewardPoints)
	if database.IsUniqueViolation(err) {
		return ErrDuplicateInvoice
	}
	if err != nil {
		return err
	}

	if t.UserID != nil && t.Status == StatusCompleted {
		var pts int64
		if t.RewardPoints != nil {
			pts = *t.RewardPoints
		}
		if _, err := tiers.Apply(ctx, tx, *t.UserID, pts, t.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	var t Transaction
	err := r.db.GetContext(ctx, &t, `SELECT `+txColumns+` FROM transactions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) GetByInvoice(ctx context.Context, invoiceNumber string) (*Transaction, error) {
	var t Transaction
	err := r.db.GetContext(ctx, &t,
		`SELECT `+txColumns+` FROM transactions WHERE invoice_number = $1`, invoiceNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Transaction, int, error) {
	conds := []string{"1=1"}
	args := []interface{}{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.EmployerID != nil {
		add("employer_id = $%d", *f.EmployerID)
	}
	if f.UserID != nil {
		add("user_id = $%d", *f.UserID)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	where := strings.Join(conds, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM transactions WHERE `+where, args...); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	args = append(args, limit, f.Offset)

	items := []Transaction{}
	err := r.db.SelectContext(ctx, &items, fmt.Sprintf(`
		SELECT `+txColumns+` FROM transactions
		WHERE `+where+`
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, len(args)-1, len(args)), args...)
	return items, total, err
}

func (r *repository) Recent(ctx context.Context, limit int) ([]Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	items := []Transaction{}
	err := r.db.SelectContext(ctx, &items,
		`SELECT `+txColumns+` FROM transactions ORDER BY created_at DESC LIMIT $1`, limit)
	return items, err
}

// NextInvoiceNumber returns the next free INV-NNNNNN number. Concurrent
// callers may receive the same suggestion; the unique index on
// invoice_number settles the race at insert time.
func (r *repository) NextInvoiceNumber(ctx context.Context) (string, error) {
	var max int64
	err := r.db.GetContext(ctx, &max, `
		SELECT COALESCE(MAX(NULLIF(regexp_replace(invoice_number, '\D', '', 'g'), '')::bigint), 0)
		FROM transactions
		WHERE invoice_number LIKE 'INV-%'`)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%06d", max+1), nil
}

func (r *repository) RewardPointsByEmployer(ctx context.Context, employerID uuid.UUID) ([]RewardPointRow, error) {
	rows := []RewardPointRow{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, customer_email, amount, liters,
		       COALESCE(reward_points, FLOOR(amount / 100)::bigint) AS points,
		       created_at
		FROM transactions
		WHERE employer_id = $1 AND status = 'Completed'
		ORDER BY created_at DESC`, employerID)
	return rows, err
}

func (r *repository) TotalCompletedPointsByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(COALESCE(reward_points, FLOOR(amount / 100)::bigint)), 0)
		FROM transactions
		WHERE user_id = $1 AND status = 'Completed'`, userID)
	return total, err
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := r.db.GetContext(ctx, &s, `
		SELECT COALESCE(SUM(amount) FILTER (WHERE created_at >= CURRENT_DATE AND status = 'Completed'), 0) AS today_revenue,
		       COUNT(*) FILTER (WHERE created_at >= CURRENT_DATE) AS today_count,
		       COALESCE(SUM(amount) FILTER (WHERE status = 'Completed'), 0) AS total_revenue,
		       COUNT(*) AS total_count,
		       COUNT(*) FILTER (WHERE status = 'Completed') AS completed_count,
		       COUNT(*) FILTER (WHERE status = 'Pending') AS pending_count,
		       COALESCE(SUM(COALESCE(reward_points, FLOOR(amount / 100)::bigint)) FILTER (WHERE status = 'Completed'), 0) AS total_reward_points
		FROM transactions`)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
