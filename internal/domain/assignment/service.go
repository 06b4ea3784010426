package assignment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/fuelpoint/fuelpoint-api/internal/domain/gift"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/pump"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/tier"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/user"
)

// Notifier sends best-effort notifications. Satisfied by the notification
// service.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message, typ, category string, metadata map[string]interface{})
}

// RedemptionCreator opens a pending redemption when a gift lands on a
// customer. Satisfied by the redemption service.
type RedemptionCreator interface {
	EnsurePending(ctx context.Context, userID, giftID uuid.UUID, pointsUsed int64) error
}

// Service handles assignment business logic
type Service struct {
	repo        Repository
	users       user.Repository
	pumps       pump.Repository
	gifts       gift.Repository
	tiers       tier.Repository
	redemptions RedemptionCreator
	notifier    Notifier
}

// NewService creates assignment service
func NewService(repo Repository, users user.Repository, pumps pump.Repository, gifts gift.Repository, tiers tier.Repository, redemptions RedemptionCreator, notifier Notifier) *Service {
	return &Service{
		repo:        repo,
		users:       users,
		pumps:       pumps,
		gifts:       gifts,
		tiers:       tiers,
		redemptions: redemptions,
		notifier:    notifier,
	}
}

// AssignPump gives a pump to an employer, retiring any previous active
// assignment of that pump.
func (s *Service) AssignPump(ctx context.Context, adminID uuid.UUID, req *AssignPumpRequest) (*PumpAssignment, error) {
	if _, err := s.pumps.GetByID(ctx, req.PumpID); err != nil {
		return nil, err
	}
	if err := s.requireRole(ctx, req.EmployerID, user.RoleEmployer); err != nil {
		return nil, err
	}

	// Re-assigning the pump to its current operator is a no-op conflict,
	// not a silent re-insert.
	current, err := s.repo.GetActivePumpAssignment(ctx, req.PumpID)
	if err != nil {
		return nil, err
	}
	if current != nil && current.EmployerID == req.EmployerID {
		return nil, ErrPumpAlreadyAssigned
	}

	a := &PumpAssignment{
		ID:         uuid.New(),
		PumpID:     req.PumpID,
		EmployerID: req.EmployerID,
		AssignedBy: adminID,
	}
	if err := s.repo.CreatePumpAssignment(ctx, a); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, req.EmployerID, "Pump assigned",
		"A pump has been assigned to you", "info", "pump",
		map[string]interface{}{"pump_id": req.PumpID.String()})
	return a, nil
}

// ListPumpAssignments returns all pump assignments
func (s *Service) ListPumpAssignments(ctx context.Context) ([]PumpAssignment, error) {
	return s.repo.ListPumpAssignments(ctx)
}

// UpdatePumpAssignment changes an assignment's status
func (s *Service) UpdatePumpAssignment(ctx context.Context, id uuid.UUID, status string) (*PumpAssignment, error) {
	if err := s.repo.UpdatePumpAssignmentStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.GetPumpAssignment(ctx, id)
}

// DeletePumpAssignment removes an assignment record
func (s *Service) DeletePumpAssignment(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeletePumpAssignment(ctx, id)
}

// AssignUser links a customer to an employer
func (s *Service) AssignUser(ctx context.Context, supervisorID uuid.UUID, req *AssignUserRequest) (*UserAssignment, error) {
	if err := s.requireRole(ctx, req.UserID, user.RoleUser); err != nil {
		return nil, err
	}
	if err := s.requireRole(ctx, req.EmployerID, user.RoleEmployer); err != nil {
		return nil, err
	}

	a := &UserAssignment{
		ID:         uuid.New(),
		UserID:     req.UserID,
		EmployerID: req.EmployerID,
		AssignedBy: supervisorID,
	}
	if err := s.repo.CreateUserAssignment(ctx, a); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, req.UserID, "Station membership",
		"You have been enrolled with a fuel station", "info", "user",
		map[string]interface{}{"employer_id": req.EmployerID.String()})
	return a, nil
}

// ListUserAssignments returns user assignments created by a supervisor
func (s *Service) ListUserAssignments(ctx context.Context, supervisorID uuid.UUID) ([]UserAssignment, error) {
	return s.repo.ListUserAssignmentsBySupervisor(ctx, supervisorID)
}

// AssignGift offers a gift to an employer or customer. Availability is
// computed now and stored on the row; an outstanding row for the same
// (gift, assignee) is updated in place instead of duplicated.
func (s *Service) AssignGift(ctx context.Context, supervisorID uuid.UUID, req *AssignGiftRequest) (*GiftAssignment, error) {
	g, err := s.gifts.GetByID(ctx, req.GiftID)
	if err != nil {
		return nil, err
	}

	targetRole := user.RoleEmployer
	if req.AssignedToRole == string(user.RoleUser) {
		targetRole = user.RoleUser
	}
	if err := s.requireRole(ctx, req.AssignedToID, targetRole); err != nil {
		return nil, err
	}

	var points int64
	if targetRole == user.RoleUser {
		t, err := s.tiers.GetByUser(ctx, req.AssignedToID)
		if err != nil && !errors.Is(err, tier.ErrNotFound) {
			return nil, err
		}
		if t != nil {
			points = t.Points
		}
	}

	available := g.Stock > 0
	if targetRole == user.RoleUser {
		available = available && points >= g.PointsRequired
	}
	status := GiftStatusPending
	if available {
		status = GiftStatusAvailable
	}

	a, err := s.repo.GetOutstandingGiftAssignment(ctx, req.GiftID, req.AssignedToID, req.AssignedToRole)
	if err != nil {
		return nil, err
	}
	if a != nil {
		a.AssignedBy = supervisorID
		a.PointsAvailable = points
		a.PointsRequired = g.PointsRequired
		a.IsAvailable = available
		a.Status = status
		if err := s.repo.UpdateGiftAssignment(ctx, a); err != nil {
			return nil, err
		}
	} else {
		a = &GiftAssignment{
			ID:              uuid.New(),
			GiftID:          req.GiftID,
			AssignedToID:    req.AssignedToID,
			AssignedToRole:  req.AssignedToRole,
			AssignedBy:      supervisorID,
			PointsAvailable: points,
			PointsRequired:  g.PointsRequired,
			IsAvailable:     available,
			Status:          status,
		}
		if err := s.repo.CreateGiftAssignment(ctx, a); err != nil {
			return nil, err
		}
	}

	// Customer targets get a pending redemption opened for them so the
	// approval workflow can pick it up.
	if targetRole == user.RoleUser {
		if err := s.redemptions.EnsurePending(ctx, req.AssignedToID, req.GiftID, g.PointsRequired); err != nil {
			return nil, err
		}
	}

	s.notifier.Notify(ctx, req.AssignedToID, "Gift assigned",
		"You have been offered: "+g.Name, "info", "gift",
		map[string]interface{}{"gift_id": g.ID.String()})
	return a, nil
}

// ListGiftAssignments returns gift assignments created by a supervisor
func (s *Service) ListGiftAssignments(ctx context.Context, supervisorID uuid.UUID) ([]GiftAssignment, error) {
	return s.repo.ListGiftAssignmentsByAssigner(ctx, supervisorID)
}

// ListEmployerGifts returns gift assignments targeting an employer
func (s *Service) ListEmployerGifts(ctx context.Context, employerID uuid.UUID) ([]GiftAssignment, error) {
	return s.repo.ListGiftAssignmentsByAssignee(ctx, employerID, string(user.RoleEmployer))
}

// SetGiftAvailability toggles an employer's gift assignment availability
func (s *Service) SetGiftAvailability(ctx context.Context, id, employerID uuid.UUID, available bool) (*GiftAssignment, error) {
	a, err := s.repo.GetGiftAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.AssignedToID != employerID {
		return nil, ErrNotAssignee
	}

	a.IsAvailable = available
	if available && a.Status == GiftStatusPending {
		a.Status = GiftStatusAvailable
	}
	if err := s.repo.UpdateGiftAssignment(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// AcceptGift moves an employer's PENDING gift assignment to AVAILABLE and
// tells the assigning supervisor.
func (s *Service) AcceptGift(ctx context.Context, id, employerID uuid.UUID) (*GiftAssignment, error) {
	a, err := s.repo.GetGiftAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.AssignedToID != employerID {
		return nil, ErrNotAssignee
	}
	if a.Status != GiftStatusPending {
		return nil, ErrNotPending
	}

	a.Status = GiftStatusAvailable
	a.IsAvailable = true
	if err := s.repo.UpdateGiftAssignment(ctx, a); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, a.AssignedBy, "Gift accepted",
		"An employer accepted a gift assignment", "success", "gift",
		map[string]interface{}{"gift_assignment_id": a.ID.String()})
	return a, nil
}

func (s *Service) requireRole(ctx context.Context, id uuid.UUID, role user.Role) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return user.ErrNotFound
	}
	if u.Role != role {
		return ErrInvalidTargetRole
	}
	return nil
}
