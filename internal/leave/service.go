package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/auth"
	"github.com/nattapongw/fieldservice/internal/core/common/validation"
	"github.com/nattapongw/fieldservice/internal/core/events"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/core/sanitize"
	leaveDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/leave"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*leaveDatamodel.LeaveRequest, pagination.Descriptor, error)
	GetByID(ctx context.Context, id string) (*leaveDatamodel.LeaveRequest, error)
	Create(ctx context.Context, req *leaveDatamodel.LeaveRequest) error
	HasOverlap(ctx context.Context, employeeID string, from, to time.Time, excludeID string) (bool, error)
	Update(ctx context.Context, id string, patch map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	Decide(ctx context.Context, id, status, decidedBy, rejectReason string) (*leaveDatamodel.LeaveRequest, error)
}

// Decision fields are owned by the approve/reject flow, never by PUT.
var writableColumns = sanitize.MustWritableColumns(&leaveDatamodel.LeaveRequest{},
	"employee_id", "status", "decided_by", "decided_at", "reject_reason")

type Service struct {
	repo     RepositoryAPI
	eventBus *events.EventBus
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *Service) GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*leaveDatamodel.LeaveRequest, pagination.Descriptor, error) {
	requests, desc, err := s.repo.GetAll(ctx, params, filters)
	if err != nil {
		s.logger.Error("failed to list leave requests", "error", err)
		return nil, pagination.Descriptor{}, err
	}
	return requests, desc, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*leaveDatamodel.LeaveRequest, error) {
	if err := validation.RequireUUID(id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Create files a leave request. Technicians file for themselves; filing
// on behalf of another employee takes supervisor level.
func (s *Service) Create(ctx context.Context, actor *auth.Actor, dto *CreateLeaveRequestDTO) (*leaveDatamodel.LeaveRequest, error) {
	if dto.EmployeeID == "" {
		dto.EmployeeID = actor.EmployeeID
	}
	if dto.EmployeeID != actor.EmployeeID {
		if err := auth.RequireLevel(actor, auth.LevelSupervisor); err != nil {
			return nil, err
		}
	}
	if err := validation.RequireUUID(dto.EmployeeID); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	overlaps, err := s.repo.HasOverlap(ctx, dto.EmployeeID, dto.DateFrom, dto.DateTo, "")
	if err != nil {
		s.logger.Error("failed to check overlapping leave", "employee_id", dto.EmployeeID, "error", err)
		return nil, err
	}
	if overlaps {
		return nil, internal.NewValidationError("leave request overlaps an existing pending or approved request", internal.ErrCodeLeaveOverlap)
	}

	req := dto.ToModel()
	if err := s.repo.Create(ctx, req); err != nil {
		s.logger.Error("failed to create leave request", "employee_id", dto.EmployeeID, "error", err)
		return nil, err
	}

	s.logger.Info("leave request created",
		"leave_request_id", req.ID,
		"employee_id", req.EmployeeID,
		"leave_type", req.LeaveType)
	return req, nil
}

// Update patches a pending request. Owners edit their own; supervisors
// edit anyone's. Decided requests are immutable.
func (s *Service) Update(ctx context.Context, actor *auth.Actor, id string, patch map[string]interface{}) (*leaveDatamodel.LeaveRequest, error) {
	if err := validation.RequireUUID(id); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerOrSupervisor(actor, current); err != nil {
		return nil, err
	}
	if current.IsDecided() {
		return nil, internal.NewValidationError("leave request is already decided", internal.ErrCodeLeaveDecided)
	}

	clean := sanitize.Sanitize(patch, writableColumns)
	if len(clean) == 0 {
		return current, nil
	}
	from, to, err := validatePatchedRange(current, clean)
	if err != nil {
		return nil, err
	}

	_, movedFrom := clean["date_from"]
	_, movedTo := clean["date_to"]
	if movedFrom || movedTo {
		overlaps, err := s.repo.HasOverlap(ctx, current.EmployeeID, from, to, current.ID)
		if err != nil {
			s.logger.Error("failed to check overlapping leave", "leave_request_id", id, "error", err)
			return nil, err
		}
		if overlaps {
			return nil, internal.NewValidationError("leave request overlaps an existing pending or approved request", internal.ErrCodeLeaveOverlap)
		}
	}

	if err := s.repo.Update(ctx, id, clean); err != nil {
		s.logger.Error("failed to update leave request", "leave_request_id", id, "error", err)
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, actor *auth.Actor, id string) error {
	if err := validation.RequireUUID(id); err != nil {
		return err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireOwnerOrSupervisor(actor, current); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete leave request", "leave_request_id", id, "error", err)
		return err
	}

	s.logger.Info("leave request deleted", "leave_request_id", id)
	return nil
}

func (s *Service) Approve(ctx context.Context, actor *auth.Actor, id string) (*leaveDatamodel.LeaveRequest, error) {
	return s.decide(ctx, actor, id, leaveDatamodel.StatusApproved, "")
}

func (s *Service) Reject(ctx context.Context, actor *auth.Actor, id, reason string) (*leaveDatamodel.LeaveRequest, error) {
	return s.decide(ctx, actor, id, leaveDatamodel.StatusRejected, reason)
}

func (s *Service) decide(ctx context.Context, actor *auth.Actor, id, status, reason string) (*leaveDatamodel.LeaveRequest, error) {
	if err := validation.RequireUUID(id); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.IsDecided() {
		return nil, internal.NewValidationError("leave request is already decided", internal.ErrCodeLeaveDecided)
	}

	decided, err := s.repo.Decide(ctx, id, status, actor.EmployeeID, reason)
	if err != nil {
		s.logger.Error("failed to decide leave request", "leave_request_id", id, "status", status, "error", err)
		return nil, err
	}

	s.logger.Info("leave request decided",
		"leave_request_id", decided.ID,
		"status", decided.Status,
		"decided_by", actor.EmployeeID)

	if s.eventBus != nil {
		event := events.NewLeaveDecidedEvent(decided.ID, decided.EmployeeID, decided.Status, actor.EmployeeID, decided.RejectReason)
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish leave decided event", "leave_request_id", decided.ID, "error", err)
		}
	}

	return decided, nil
}

func (s *Service) requireOwnerOrSupervisor(actor *auth.Actor, req *leaveDatamodel.LeaveRequest) error {
	if actor != nil && actor.EmployeeID == req.EmployeeID {
		return nil
	}
	return auth.RequireLevel(actor, auth.LevelSupervisor)
}

// validatePatchedRange re-checks date_from <= date_to with the patch
// applied, since either side may move independently. It returns the
// effective range so the caller can test it for overlaps.
func validatePatchedRange(current *leaveDatamodel.LeaveRequest, patch map[string]interface{}) (time.Time, time.Time, error) {
	from := current.DateFrom
	to := current.DateTo

	if raw, ok := patch["date_from"]; ok {
		parsed, err := parsePatchDate(raw)
		if err != nil {
			return from, to, internal.NewValidationError("date_from is not a valid date", internal.ErrCodeInvalidDateRange)
		}
		from = parsed
		patch["date_from"] = parsed
	}
	if raw, ok := patch["date_to"]; ok {
		parsed, err := parsePatchDate(raw)
		if err != nil {
			return from, to, internal.NewValidationError("date_to is not a valid date", internal.ErrCodeInvalidDateRange)
		}
		to = parsed
		patch["date_to"] = parsed
	}

	if appErr := validation.ValidateDateRange(from, to); appErr != nil {
		return from, to, appErr
	}
	if raw, ok := patch["leave_type"]; ok {
		if v, isStr := raw.(string); !isStr || !isKnownType(v) {
			return from, to, internal.NewValidationError("leave_type is invalid", internal.ErrCodeInvalidStatus)
		}
	}
	return from, to, nil
}

func parsePatchDate(raw interface{}) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t, nil
		}
		return time.Parse("2006-01-02", v)
	default:
		return time.Time{}, fmt.Errorf("unsupported date value %T", raw)
	}
}

func isKnownType(v string) bool {
	for _, t := range leaveDatamodel.Types() {
		if v == t {
			return true
		}
	}
	return false
}
