package redemption

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fuelpoint/fuelpoint-api/internal/domain/gift"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/tier"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/database"
)

// GiftStore is the slice of the gift repository the approval transaction
// needs: a locked read and the guarded stock decrement.
type GiftStore interface {
	GetForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*gift.Gift, error)
	DecrementStock(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, qty int) error
}

// TierDebitor removes points from a customer's tier row, clamping at zero.
type TierDebitor interface {
	Debit(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, points int64) error
}

type Repository interface {
	Create(ctx context.Context, rd *Redemption) error
	GetByID(ctx context.Context, id uuid.UUID) (*Redemption, error)
	ListAll(ctx context.Context) ([]Redemption, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Redemption, error)
	ListByUsers(ctx context.Context, userIDs []uuid.UUID) ([]Redemption, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Redemption, error)
	// Approve runs the whole approval in one DB transaction: the gift row
	// is locked, stock is checked and decremented, the customer's points
	// are debited, and the status flips to Approved.
	Approve(ctx context.Context, id uuid.UUID, gifts GiftStore, tiers TierDebitor) (*Redemption, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const columns = `id, user_id, gift_id, points_used, quantity, status, created_at, updated_at`

func (r *repository) Create(ctx context.Context, rd *Redemption) error {
	err := r.db.GetContext(ctx, rd, `
		INSERT INTO redemptions (id, user_id, gift_id, points_used, quantity, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+columns,
		rd.ID, rd.UserID, rd.GiftID, rd.PointsUsed, rd.Quantity, rd.Status)
	if database.IsUniqueViolation(err) {
		return ErrDuplicateOutstanding
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Redemption, error) {
	var rd Redemption
	err := r.db.GetContext(ctx, &rd, `SELECT `+columns+` FROM redemptions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rd, nil
}

func (r *repository) ListAll(ctx context.Context) ([]Redemption, error) {
	items := []Redemption{}
	err := r.db.SelectContext(ctx, &items,
		`SELECT `+columns+` FROM redemptions ORDER BY created_at DESC`)
	return items, err
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Redemption, error) {
	items := []Redemption{}
	err := r.db.SelectContext(ctx, &items,
		`SELECT `+columns+` FROM redemptions WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	return items, err
}

func (r *repository) ListByUsers(ctx context.Context, userIDs []uuid.UUID) ([]Redemption, error) {
	items := []Redemption{}
	if len(userIDs) == 0 {
		return items, nil
	}
	err := r.db.SelectContext(ctx, &items, `
		SELECT `+columns+` FROM redemptions
		WHERE user_id = ANY($1) ORDER BY created_at DESC`, pq.Array(userIDs))
	return items, err
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Redemption, error) {
	var rd Redemption
	err := r.db.GetContext(ctx, &rd, `
		UPDATE redemptions SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+columns, status, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rd, nil
}

func (r *repository) Approve(ctx context.Context, id uuid.UUID, gifts GiftStore, tiers TierDebitor) (*Redemption, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var rd Redemption
	err = tx.GetContext(ctx, &rd, `SELECT `+columns+` FROM redemptions WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !CanTransition(rd.Status, StatusApproved) {
		return nil, ErrInvalidTransition
	}

	g, err := gifts.GetForUpdate(ctx, tx, rd.GiftID)
	if err != nil {
		return nil, err
	}
	if g.Stock < rd.Quantity {
		return nil, ErrInsufficientStock
	}
	if err := gifts.DecrementStock(ctx, tx, rd.GiftID, rd.Quantity); err != nil {
		if errors.Is(err, gift.ErrInsufficientStock) {
			return nil, ErrInsufficientStock
		}
		return nil, err
	}

	if rd.UserID != nil {
		if err := tiers.Debit(ctx, tx, *rd.UserID, rd.PointsUsed); err != nil {
			// A customer without a tier row has nothing to debit.
			if !errors.Is(err, tier.ErrNotFound) {
				return nil, err
			}
		}
	}

	err = tx.GetContext(ctx, &rd, `
		UPDATE redemptions SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+columns, StatusApproved, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &rd, nil
}
