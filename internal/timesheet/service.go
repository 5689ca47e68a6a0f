package timesheet

import (
	"log/slog"
	"time"
)

// Repository defines the data access methods for timesheet records
type Repository interface {
	Create(t *Timesheet) error
	GetByID(id int64) (*Timesheet, error)
	ListByOwner(ownerID int64) ([]*Timesheet, error)
	Update(t *Timesheet) error
	UpdateStatus(id int64, status string) error
}

// Defaults are applied when a timesheet is created without client/manager.
type Defaults struct {
	Client  string
	Manager string
}

// Service handles timesheet business logic
type Service struct {
	repo     Repository
	defaults Defaults
	logger   *slog.Logger
}

// NewService creates a new timesheet service
func NewService(repo Repository, defaults Defaults, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		defaults: defaults,
		logger:   logger,
	}
}

// Create validates and aggregates the entries, applies configured defaults
// and persists the record as a draft.
func (s *Service) Create(ownerID int64, dto CreateTimesheetDTO) (*Timesheet, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("timesheet validation failed", "error", err, "owner_id", ownerID)
		return nil, err
	}

	agg, err := AggregateEntries(dto.Entries)
	if err != nil {
		s.logger.Error("entry aggregation failed", "error", err, "owner_id", ownerID)
		return nil, err
	}

	client := dto.Client
	if client == "" {
		client = s.defaults.Client
	}
	manager := dto.Manager
	if manager == "" {
		manager = s.defaults.Manager
	}

	now := time.Now()
	t := &Timesheet{
		OwnerID:    ownerID,
		Client:     client,
		Manager:    manager,
		WeekStart:  agg.WeekStart,
		WeekEnd:    agg.WeekEnd,
		TotalHours: agg.TotalHours,
		Status:     StatusDraft,
		Entries:    dto.Entries,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(t); err != nil {
		s.logger.Error("failed to create timesheet", "error", err, "owner_id", ownerID)
		return nil, err
	}

	s.logger.Info("timesheet created",
		"timesheet_id", t.ID,
		"owner_id", ownerID,
		"week_start", t.WeekStart.Format(time.DateOnly),
		"week_end", t.WeekEnd.Format(time.DateOnly),
		"total_hours", t.TotalHours)

	return t, nil
}

// List returns summaries of all records owned by ownerID, most recent
// first (id descending).
func (s *Service) List(ownerID int64) ([]Summary, error) {
	records, err := s.repo.ListByOwner(ownerID)
	if err != nil {
		s.logger.Error("failed to list timesheets", "error", err, "owner_id", ownerID)
		return nil, err
	}

	summaries := make([]Summary, len(records))
	for i, t := range records {
		summaries[i] = ToSummary(t)
	}
	return summaries, nil
}

// Get returns the full record. Ownership is enforced here, not in the
// store: a foreign record reads as not found.
func (s *Service) Get(ownerID, id int64) (*Timesheet, error) {
	t, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrTimesheetNotFound
	}

	if t.OwnerID != ownerID {
		s.logger.Warn("timesheet access denied", "timesheet_id", id, "owner_id", ownerID, "record_owner_id", t.OwnerID)
		return nil, ErrTimesheetNotFound
	}

	return t, nil
}

// Submit transitions a draft to submitted. Submitting an already submitted
// sheet is a no-op; approved and rejected sheets cannot go back.
func (s *Service) Submit(ownerID, id int64) (*Timesheet, error) {
	t, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}

	switch t.Status {
	case StatusSubmitted:
		return t, nil
	case StatusDraft:
	default:
		s.logger.Warn("cannot submit timesheet in current status",
			"timesheet_id", id,
			"current_status", t.Status)
		return nil, ErrInvalidTimesheetStatus
	}

	if err := s.repo.UpdateStatus(id, StatusSubmitted); err != nil {
		s.logger.Error("failed to submit timesheet", "error", err, "timesheet_id", id)
		return nil, err
	}

	t.Status = StatusSubmitted
	s.logger.Info("timesheet submitted", "timesheet_id", id, "owner_id", ownerID)
	return t, nil
}

// Approve moves a submitted sheet forward. The caller's manager role is
// checked at the transport boundary.
func (s *Service) Approve(id int64) error {
	return s.transition(id, StatusApproved)
}

// Reject moves a submitted sheet to rejected.
func (s *Service) Reject(id int64) error {
	return s.transition(id, StatusRejected)
}

func (s *Service) transition(id int64, status string) error {
	t, err := s.repo.GetByID(id)
	if err != nil {
		return ErrTimesheetNotFound
	}

	allowed := false
	switch status {
	case StatusApproved:
		allowed = t.CanBeApproved()
	case StatusRejected:
		allowed = t.CanBeRejected()
	}
	if !allowed {
		s.logger.Warn("invalid status transition",
			"timesheet_id", id,
			"current_status", t.Status,
			"target_status", status)
		return ErrInvalidTimesheetStatus
	}

	if err := s.repo.UpdateStatus(id, status); err != nil {
		s.logger.Error("failed to update timesheet status", "error", err, "timesheet_id", id, "status", status)
		return err
	}

	s.logger.Info("timesheet status updated", "timesheet_id", id, "status", status)
	return nil
}

// GetForRender fetches a record for document generation without ownership
// enforcement. The PDF route accepts an optional token so documents can be
// downloaded by link.
func (s *Service) GetForRender(id int64) (*Timesheet, error) {
	t, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrTimesheetNotFound
	}
	return t, nil
}
