package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fuelpoint/fuelpoint-api/internal/domain/pump"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/reward"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/settings"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/tier"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/user"
)

// Notifier sends best-effort notifications
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message, typ, category string, metadata map[string]interface{})
}

// Service handles transaction business logic
type Service struct {
	repo     Repository
	tiers    tier.Repository
	users    user.Repository
	pumps    pump.Repository
	settings settings.Repository
	notifier Notifier
}

// NewService creates transaction service
func NewService(repo Repository, tiers tier.Repository, users user.Repository, pumps pump.Repository, settingsRepo settings.Repository, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		tiers:    tiers,
		users:    users,
		pumps:    pumps,
		settings: settingsRepo,
		notifier: notifier,
	}
}

// Create records a fuel sale. Reward points are computed from the settings
// in force right now and persisted; the ledger row and the customer's tier
// update commit atomically.
func (s *Service) Create(ctx context.Context, employerID uuid.UUID, req *CreateTransactionRequest) (*Transaction, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.UserID != nil {
		u, err := s.users.GetByID(ctx, *req.UserID)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, user.ErrNotFound
		}
	}
	if req.PumpID != nil {
		if _, err := s.pumps.GetByID(ctx, *req.PumpID); err != nil {
			return nil, err
		}
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	var liters float64
	if req.Liters != nil {
		liters = *req.Liters
	}
	points := reward.Points(liters, req.Amount, reward.Settings{
		PointsPerLiter:   cfg.PointsPerLiter,
		RewardMultiplier: cfg.RewardMultiplier,
	})

	t := &Transaction{
		ID:            uuid.New(),
		InvoiceNumber: req.InvoiceNumber,
		Description:   req.Description,
		CustomerEmail: req.CustomerEmail,
		Amount:        req.Amount,
		Liters:        req.Liters,
		Payment:       orDefault(req.Payment, "Cash"),
		Status:        orDefault(req.Status, StatusCompleted),
		Type:          orDefault(req.Type, TypeFuel),
		UserID:        req.UserID,
		PumpID:        req.PumpID,
		EmployerID:    &employerID,
		RewardPoints:  &points,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.Create(ctx, t, s.tiers); err != nil {
		return nil, err
	}

	if t.UserID != nil && t.Status == StatusCompleted {
		s.notifier.Notify(ctx, *t.UserID, "Points earned",
			"Your fuel purchase has been recorded", "success", "transaction",
			map[string]interface{}{
				"transaction_id": t.ID.String(),
				"points":         points,
			})
	}
	return t, nil
}

// Get returns a transaction by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByInvoice returns a transaction by invoice number
func (s *Service) GetByInvoice(ctx context.Context, invoiceNumber string) (*Transaction, error) {
	return s.repo.GetByInvoice(ctx, invoiceNumber)
}

// List returns transactions matching the filter, with the total count
func (s *Service) List(ctx context.Context, f ListFilter) ([]Transaction, int, error) {
	return s.repo.List(ctx, f)
}

// Recent returns the latest transactions
func (s *Service) Recent(ctx context.Context, limit int) ([]Transaction, error) {
	return s.repo.Recent(ctx, limit)
}

// NextInvoiceNumber suggests the next invoice number
func (s *Service) NextInvoiceNumber(ctx context.Context) (string, error) {
	return s.repo.NextInvoiceNumber(ctx)
}

// RewardPoints lists per-transaction points for an employer
func (s *Service) RewardPoints(ctx context.Context, employerID uuid.UUID) ([]RewardPointRow, error) {
	return s.repo.RewardPointsByEmployer(ctx, employerID)
}

// TotalCompletedPointsByUser sums a customer's points over the completed
// ledger. Implements user.PointsProvider.
func (s *Service) TotalCompletedPointsByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.TotalCompletedPointsByUser(ctx, userID)
}

// Stats returns ledger summary numbers
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
