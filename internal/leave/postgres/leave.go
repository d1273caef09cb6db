package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/core/database"
	leaveDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/leave"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/leave"
)

type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) GetAll(ctx context.Context, params pagination.Params, filters leave.Filters) ([]*leaveDatamodel.LeaveRequest, pagination.Descriptor, error) {
	tx := r.db.WithContext(ctx).Model(&leaveDatamodel.LeaveRequest{})

	if filters.Status != "" {
		tx = tx.Where("status = ?", filters.Status)
	}
	if filters.EmployeeID != "" {
		tx = tx.Where("employee_id = ?", filters.EmployeeID)
	}

	var requests []*leaveDatamodel.LeaveRequest
	desc, err := pagination.List(tx, "date_from DESC, created_at DESC", &requests, params)
	if err != nil {
		return nil, pagination.Descriptor{}, database.Translate(err, "leave request")
	}
	return requests, desc, nil
}

func (r *LeaveRepository) GetByID(ctx context.Context, id string) (*leaveDatamodel.LeaveRequest, error) {
	var req leaveDatamodel.LeaveRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.NewNotFoundError("leave request not found", internal.ErrCodeLeaveNotFound)
		}
		return nil, database.Translate(err, "leave request")
	}
	return &req, nil
}

func (r *LeaveRepository) Create(ctx context.Context, req *leaveDatamodel.LeaveRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return database.Translate(err, "leave request")
	}
	return nil
}

// HasOverlap reports whether the employee already has a pending or
// approved request intersecting [from, to]. Rejected requests do not
// block the range. excludeID skips the request being edited.
func (r *LeaveRepository) HasOverlap(ctx context.Context, employeeID string, from, to time.Time, excludeID string) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&leaveDatamodel.LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{leaveDatamodel.StatusPending, leaveDatamodel.StatusApproved}).
		Where("date_from <= ? AND date_to >= ?", to, from)
	if excludeID != "" {
		tx = tx.Where("id <> ?", excludeID)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return false, database.Translate(err, "leave request")
	}
	return count > 0, nil
}

func (r *LeaveRepository) Update(ctx context.Context, id string, patch map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&leaveDatamodel.LeaveRequest{}).
		Where("id = ?", id).
		Updates(patch)
	if res.Error != nil {
		return database.Translate(res.Error, "leave request")
	}
	if res.RowsAffected == 0 {
		return internal.NewNotFoundError("leave request not found", internal.ErrCodeLeaveNotFound)
	}
	return nil
}

func (r *LeaveRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&leaveDatamodel.LeaveRequest{})
	if res.Error != nil {
		return database.Translate(res.Error, "leave request")
	}
	if res.RowsAffected == 0 {
		return internal.NewNotFoundError("leave request not found", internal.ErrCodeLeaveNotFound)
	}
	return nil
}

// Decide flips a pending request to its final status. The status guard
// in the WHERE clause makes concurrent decisions race-safe: the loser
// matches zero rows.
func (r *LeaveRepository) Decide(ctx context.Context, id, status, decidedBy, rejectReason string) (*leaveDatamodel.LeaveRequest, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&leaveDatamodel.LeaveRequest{}).
		Where("id = ? AND status = ?", id, leaveDatamodel.StatusPending).
		Updates(map[string]interface{}{
			"status":        status,
			"decided_by":    decidedBy,
			"decided_at":    now,
			"reject_reason": rejectReason,
		})
	if res.Error != nil {
		return nil, database.Translate(res.Error, "leave request")
	}
	if res.RowsAffected == 0 {
		// either missing or already decided; re-read to tell them apart
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.IsDecided() {
			return nil, internal.NewValidationError("leave request is already decided", internal.ErrCodeLeaveDecided)
		}
		return nil, internal.NewNotFoundError("leave request not found", internal.ErrCodeLeaveNotFound)
	}

	return r.GetByID(ctx, id)
}
