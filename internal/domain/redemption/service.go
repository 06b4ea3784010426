package redemption

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/fuelpoint/fuelpoint-api/internal/domain/assignment"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/gift"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/tier"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/user"
)

// Notifier sends best-effort notifications
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message, typ, category string, metadata map[string]interface{})
}

// Service handles redemption business logic
type Service struct {
	repo     Repository
	gifts    gift.Repository
	tiers    tier.Repository
	scope    *assignment.Resolver
	notifier Notifier
}

// NewService creates redemption service
func NewService(repo Repository, gifts gift.Repository, tiers tier.Repository, scope *assignment.Resolver, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		gifts:    gifts,
		tiers:    tiers,
		scope:    scope,
		notifier: notifier,
	}
}

// Create opens a pending redemption. Stock and point sufficiency are checked
// up front but nothing is reserved; the authoritative checks run again at
// approval under the gift row lock.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *CreateRedemptionRequest) (*Redemption, error) {
	g, err := s.gifts.GetByID(ctx, req.GiftID)
	if err != nil {
		return nil, err
	}

	qty := req.Quantity
	if qty <= 0 {
		qty = 1
	}
	if g.Stock < qty {
		return nil, ErrInsufficientStock
	}

	pointsUsed := g.PointsRequired * int64(qty)
	var points int64
	t, err := s.tiers.GetByUser(ctx, userID)
	if err != nil && !errors.Is(err, tier.ErrNotFound) {
		return nil, err
	}
	if t != nil {
		points = t.Points
	}
	if points < pointsUsed {
		return nil, ErrInsufficientPoints
	}

	rd := &Redemption{
		ID:         uuid.New(),
		UserID:     &userID,
		GiftID:     req.GiftID,
		PointsUsed: pointsUsed,
		Quantity:   qty,
		Status:     StatusPending,
	}
	if err := s.repo.Create(ctx, rd); err != nil {
		return nil, err
	}
	return rd, nil
}

// EnsurePending opens a pending redemption on a customer's behalf when a
// supervisor assigns them a gift. An existing outstanding redemption for the
// same gift is left untouched. Implements assignment.RedemptionCreator.
func (s *Service) EnsurePending(ctx context.Context, userID, giftID uuid.UUID, pointsUsed int64) error {
	rd := &Redemption{
		ID:         uuid.New(),
		UserID:     &userID,
		GiftID:     giftID,
		PointsUsed: pointsUsed,
		Quantity:   1,
		Status:     StatusPending,
	}
	err := s.repo.Create(ctx, rd)
	if errors.Is(err, ErrDuplicateOutstanding) {
		return nil
	}
	return err
}

// List returns the redemptions visible to the principal: admins see all,
// supervisors see their scoped customers', everyone else their own.
func (s *Service) List(ctx context.Context, principalID uuid.UUID, role string) ([]Redemption, error) {
	switch role {
	case string(user.RoleAdmin):
		return s.repo.ListAll(ctx)
	case string(user.RoleSupervisor):
		userIDs, err := s.scope.SupervisorRedemptionUserIDs(ctx, principalID)
		if err != nil {
			return nil, err
		}
		return s.repo.ListByUsers(ctx, userIDs)
	default:
		return s.repo.ListByUser(ctx, principalID)
	}
}

// ListMine returns the principal's own redemptions
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]Redemption, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UpdateStatus drives the redemption state machine. Approval runs the full
// stock/points transaction; rejection and completion are plain status moves
// guarded by the transition table. A rejection after approval does NOT
// restore stock or points.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Redemption, error) {
	if status == StatusApproved {
		rd, err := s.repo.Approve(ctx, id, s.gifts, s.tiers)
		if err != nil {
			return nil, err
		}
		s.notifyStatus(ctx, rd, "Redemption approved", "success")
		return rd, nil
	}

	rd, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(rd.Status, status) {
		return nil, ErrInvalidTransition
	}

	rd, err = s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	switch status {
	case StatusRejected:
		s.notifyStatus(ctx, rd, "Redemption rejected", "warning")
	case StatusCompleted:
		s.notifyStatus(ctx, rd, "Redemption completed", "success")
	}
	return rd, nil
}

func (s *Service) notifyStatus(ctx context.Context, rd *Redemption, title, typ string) {
	if rd.UserID == nil {
		return
	}
	s.notifier.Notify(ctx, *rd.UserID, title,
		"Your redemption is now "+rd.Status, typ, "redemption",
		map[string]interface{}{"redemption_id": rd.ID.String()})
}
