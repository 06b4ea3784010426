package tier

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fuelpoint/fuelpoint-api/internal/domain/reward"
)

var ErrNotFound = errors.New("customer tier not found")

type Repository interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*CustomerTier, error)
	ListAll(ctx context.Context) ([]CustomerTier, error)
	// Apply credits delta points to the user's running total inside the
	// caller's transaction and recomputes the tier label from the new total.
	Apply(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, delta int64, at time.Time) (*CustomerTier, error)
	// Debit removes points after a redemption completes, clamping at zero.
	Debit(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, points int64) error
	// Backfill rebuilds every row from the completed transaction ledger.
	Backfill(ctx context.Context) (int, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUser(ctx context.Context, userID uuid.UUID) (*CustomerTier, error) {
	var t CustomerTier
	err := r.db.GetContext(ctx, &t, `
		SELECT user_id, tier, points, transactions, last_activity, created_at, updated_at
		FROM customer_tiers WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) ListAll(ctx context.Context) ([]CustomerTier, error) {
	tiers := []CustomerTier{}
	err := r.db.SelectContext(ctx, &tiers, `
		SELECT user_id, tier, points, transactions, last_activity, created_at, updated_at
		FROM customer_tiers ORDER BY points DESC`)
	return tiers, err
}

func (r *repository) Apply(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, delta int64, at time.Time) (*CustomerTier, error) {
	var t CustomerTier
	err := tx.GetContext(ctx, &t, `
		INSERT INTO customer_tiers (user_id, tier, points, transactions, last_activity)
		VALUES ($1, $2, $3, 1, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			points = customer_tiers.points + EXCLUDED.points,
			transactions = customer_tiers.transactions + 1,
			last_activity = EXCLUDED.last_activity,
			updated_at = NOW()
		RETURNING user_id, tier, points, transactions, last_activity, created_at, updated_at`,
		userID, reward.TierFor(delta), delta, at)
	if err != nil {
		return nil, err
	}
	// The upsert sums points before the label can be recomputed, so fix
	// the label from the new total in a second statement.
	label := reward.TierFor(t.Points)
	if label != t.Tier {
		if _, err := tx.ExecContext(ctx,
			`UPDATE customer_tiers SET tier = $1, updated_at = NOW() WHERE user_id = $2`,
			label, userID); err != nil {
			return nil, err
		}
		t.Tier = label
	}
	return &t, nil
}

func (r *repository) Debit(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, points int64) error {
	var total int64
	err := tx.GetContext(ctx, &total, `
		UPDATE customer_tiers
		SET points = GREATEST(points - $1, 0), updated_at = NOW()
		WHERE user_id = $2
		RETURNING points`, points, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE customer_tiers SET tier = $1 WHERE user_id = $2`,
		reward.TierFor(total), userID)
	return err
}

func (r *repository) Backfill(ctx context.Context) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	type row struct {
		UserID       uuid.UUID  `db:"user_id"`
		Points       int64      `db:"points"`
		Transactions int64      `db:"transactions"`
		LastActivity *time.Time `db:"last_activity"`
	}
	rows := []row{}
	// Older ledger rows predate stored reward points; fall back to the
	// legacy amount rule for those.
	err = tx.SelectContext(ctx, &rows, `
		SELECT user_id,
		       COALESCE(SUM(COALESCE(reward_points, FLOOR(amount / 100)::bigint)), 0) AS points,
		       COUNT(*) AS transactions,
		       MAX(created_at) AS last_activity
		FROM transactions
		WHERE user_id IS NOT NULL AND status = 'Completed'
		GROUP BY user_id`)
	if err != nil {
		return 0, err
	}

	for _, rw := range rows {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO customer_tiers (user_id, tier, points, transactions, last_activity)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id) DO UPDATE SET
				tier = EXCLUDED.tier,
				points = EXCLUDED.points,
				transactions = EXCLUDED.transactions,
				last_activity = EXCLUDED.last_activity,
				updated_at = NOW()`,
			rw.UserID, reward.TierFor(rw.Points), rw.Points, rw.Transactions, rw.LastActivity)
		if err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(rows), nil
}
