package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fuelpoint/fuelpoint-api/internal/pkg/database"
)

// Repository defines user data access interface
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmailAndRole(ctx context.Context, email string, role Role) (*User, error)
	List(ctx context.Context, role Role, email string) ([]*User, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*User, error)
	Update(ctx context.Context, user *User) error
	EmailRoleTaken(ctx context.Context, email string, role Role, excludeID uuid.UUID) (bool, error)
	DeleteCascade(ctx context.Context, id uuid.UUID) error
	CountByRole(ctx context.Context, role Role) (int, error)
	CountExcludingRole(ctx context.Context, role Role) (int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new user repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("user repository create: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT * FROM users WHERE id = $1`
	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetByEmailAndRole(ctx context.Context, email string, role Role) (*User, error) {
	query := `SELECT * FROM users WHERE email = $1 AND role = $2`
	var user User
	err := r.db.GetContext(ctx, &user, query, email, role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) List(ctx context.Context, role Role, email string) ([]*User, error) {
	query := `SELECT * FROM users WHERE ($1 = '' OR role = $1) AND ($2 = '' OR email = $2) ORDER BY created_at DESC`
	users := []*User{}
	err := r.db.SelectContext(ctx, &users, query, string(role), email)
	return users, err
}

func (r *repository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*User, error) {
	users := []*User{}
	if len(ids) == 0 {
		return users, nil
	}
	query := `SELECT * FROM users WHERE id = ANY($1) ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &users, query, pq.Array(ids))
	return users, err
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET email = $2, password_hash = $3, role = $4, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Role,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("user repository update: %w", err)
	}
	return nil
}

func (r *repository) EmailRoleTaken(ctx context.Context, email string, role Role, excludeID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND role = $2 AND id <> $3)`
	var taken bool
	err := r.db.GetContext(ctx, &taken, query, email, role, excludeID)
	return taken, err
}

// DeleteCascade removes the user and every dependent record in one
// transaction: assignments, tier, redemptions, transactions, notifications.
func (r *repository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	statements := []string{
		`DELETE FROM user_assignments WHERE user_id = $1`,
		`DELETE FROM customer_tiers WHERE user_id = $1`,
		`DELETE FROM redemptions WHERE user_id = $1`,
		`DELETE FROM transactions WHERE user_id = $1`,
		`DELETE FROM notifications WHERE user_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("user repository cascade delete: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("user repository delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

func (r *repository) CountByRole(ctx context.Context, role Role) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE role = $1`, role)
	return count, err
}

func (r *repository) CountExcludingRole(ctx context.Context, role Role) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE role <> $1`, role)
	return count, err
}
