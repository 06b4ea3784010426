package pump

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AssignmentChecker answers which pumps an employer currently operates.
// Implemented by the assignment repository.
type AssignmentChecker interface {
	HasActivePumpAssignment(ctx context.Context, pumpID, employerID uuid.UUID) (bool, error)
	ActivePumpIDsByEmployer(ctx context.Context, employerID uuid.UUID) ([]uuid.UUID, error)
}

// Service handles pump business logic
type Service struct {
	repo        Repository
	assignments AssignmentChecker
}

// NewService creates pump service
func NewService(repo Repository, assignments AssignmentChecker) *Service {
	return &Service{repo: repo, assignments: assignments}
}

// Create registers a new pump
func (s *Service) Create(ctx context.Context, req *CreatePumpRequest) (*Pump, error) {
	status := req.Status
	if status == "" {
		status = StatusActive
	}
	p := &Pump{
		ID:           uuid.New(),
		Name:         req.Name,
		FuelTypes:    pq.StringArray(req.FuelTypes),
		Status:       status,
		SupervisorID: req.SupervisorID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns a pump by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Pump, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all pumps
func (s *Service) List(ctx context.Context) ([]Pump, error) {
	return s.repo.List(ctx)
}

// ListByEmployer returns the pumps currently assigned to an employer
func (s *Service) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]Pump, error) {
	ids, err := s.assignments.ActivePumpIDsByEmployer(ctx, employerID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByIDs(ctx, ids)
}

// Update applies partial changes to a pump
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdatePumpRequest) (*Pump, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.FuelTypes != nil {
		p.FuelTypes = pq.StringArray(req.FuelTypes)
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.SupervisorID != nil {
		p.SupervisorID = req.SupervisorID
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a pump
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Stats returns fleet counts by status
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}

// RecordMeterReading stores a shift reading. The employer must currently
// operate the pump.
func (s *Service) RecordMeterReading(ctx context.Context, employerID uuid.UUID, req *MeterReadingRequest) (*MeterReading, error) {
	if _, err := s.repo.GetByID(ctx, req.PumpID); err != nil {
		return nil, err
	}
	ok, err := s.assignments.HasActivePumpAssignment(ctx, req.PumpID, employerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAssigned
	}

	m := &MeterReading{
		ID:           uuid.New(),
		PumpID:       req.PumpID,
		StartReading: req.StartReading,
		EndReading:   req.EndReading,
		Difference:   req.EndReading - req.StartReading,
		RecordedBy:   &employerID,
		RecordedAt:   time.Now(),
	}
	if err := s.repo.CreateMeterReading(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ReportMaintenance files a maintenance issue against an assigned pump and
// flips the pump into MAINTENANCE status.
func (s *Service) ReportMaintenance(ctx context.Context, employerID uuid.UUID, req *MaintenanceReportRequest) (*MaintenanceReport, error) {
	p, err := s.repo.GetByID(ctx, req.PumpID)
	if err != nil {
		return nil, err
	}
	ok, err := s.assignments.HasActivePumpAssignment(ctx, req.PumpID, employerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAssigned
	}

	m := &MaintenanceReport{
		ID:          uuid.New(),
		PumpID:      req.PumpID,
		Issue:       req.Issue,
		Description: req.Description,
		ReportedBy:  &employerID,
		Status:      ReportPending,
		ReportedAt:  time.Now(),
	}
	if err := s.repo.CreateMaintenanceReport(ctx, m); err != nil {
		return nil, err
	}

	if p.Status != StatusMaintenance {
		p.Status = StatusMaintenance
		if err := s.repo.Update(ctx, p); err != nil {
			return nil, err
		}
	}
	return m, nil
}
