package gift

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
	Create(ctx context.Context, g *Gift) error
	GetByID(ctx context.Context, id uuid.UUID) (*Gift, error)
	List(ctx context.Context, activeOnly bool) ([]Gift, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]Gift, error)
	Update(ctx context.Context, g *Gift) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)

	// GetForUpdate locks the gift row inside the caller's transaction.
	// Used by redemption approval so concurrent approvals serialize on
	// the stock check.
	GetForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Gift, error)
	DecrementStock(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, qty int) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const giftColumns = `id, name, description, points_required, value, category, stock, active, created_at, updated_at`

func (r *repository) Create(ctx context.Context, g *Gift) error {
	err := r.db.GetContext(ctx, g, `
		INSERT INTO gifts (id, name, description, points_required, value, category, stock, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+giftColumns,
		g.ID, g.Name, g.Description, g.PointsRequired, g.Value, g.Category, g.Stock, g.Active)
	if database.IsUniqueViolation(err) {
		return ErrNameTaken
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Gift, error) {
	var g Gift
	err := r.db.GetContext(ctx, &g, `SELECT `+giftColumns+` FROM gifts WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *repository) List(ctx context.Context, activeOnly bool) ([]Gift, error) {
	gifts := []Gift{}
	query := `SELECT ` + giftColumns + ` FROM gifts`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name`
	err := r.db.SelectContext(ctx, &gifts, query)
	return gifts, err
}

func (r *repository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]Gift, error) {
	gifts := []Gift{}
	if len(ids) == 0 {
		return gifts, nil
	}
	err := r.db.SelectContext(ctx, &gifts, `
		SELECT `+giftColumns+` FROM gifts WHERE id = ANY($1) ORDER BY name`, pq.Array(ids))
	return gifts, err
}

func (r *repository) Update(ctx context.Context, g *Gift) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE gifts
		SET name = $1, description = $2, points_required = $3, value = $4,
		    category = $5, stock = $6, active = $7, updated_at = NOW()
		WHERE id = $8`,
		g.Name, g.Description, g.PointsRequired, g.Value, g.Category, g.Stock, g.Active, g.ID)
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM gifts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM gifts`)
	return n, err
}

func (r *repository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Gift, error) {
	var g Gift
	err := tx.GetContext(ctx, &g, `SELECT `+giftColumns+` FROM gifts WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *repository) DecrementStock(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, qty int) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE gifts SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1`, qty, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInsufficientStock
	}
	return nil
}
