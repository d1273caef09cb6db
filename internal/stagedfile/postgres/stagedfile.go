package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/core/database"
	linechatDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/linechat"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/stagedfile"
)

type StagedFileRepository struct {
	db *gorm.DB
}

func NewStagedFileRepository(db *gorm.DB) *StagedFileRepository {
	return &StagedFileRepository{db: db}
}

func (r *StagedFileRepository) GetAll(ctx context.Context, params pagination.Params, filters stagedfile.Filters) ([]*linechatDatamodel.StagedFile, pagination.Descriptor, error) {
	tx := r.db.WithContext(ctx).Model(&linechatDatamodel.StagedFile{})

	if filters.Status != "" {
		tx = tx.Where("status = ?", filters.Status)
	}
	if filters.EmployeeID != "" {
		tx = tx.Where("employee_id = ?", filters.EmployeeID)
	}

	var files []*linechatDatamodel.StagedFile
	desc, err := pagination.List(tx, "created_at DESC", &files, params)
	if err != nil {
		return nil, pagination.Descriptor{}, database.Translate(err, "staged file")
	}
	return files, desc, nil
}

func (r *StagedFileRepository) GetByID(ctx context.Context, id string) (*linechatDatamodel.StagedFile, error) {
	var file linechatDatamodel.StagedFile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.NewNotFoundError("staged file not found", internal.ErrCodeFileNotFound)
		}
		return nil, database.Translate(err, "staged file")
	}
	return &file, nil
}

// Review moves a pending or linked file to its decided status. The
// status guard in the WHERE clause makes concurrent reviews race-safe:
// the loser matches zero rows and gets the already-reviewed error.
func (r *StagedFileRepository) Review(ctx context.Context, id, status string) (*linechatDatamodel.StagedFile, error) {
	res := r.db.WithContext(ctx).
		Model(&linechatDatamodel.StagedFile{}).
		Where("id = ? AND status IN ?", id, []string{linechatDatamodel.FileStatusPending, linechatDatamodel.FileStatusLinked}).
		Update("status", status)
	if res.Error != nil {
		return nil, database.Translate(res.Error, "staged file")
	}

	if res.RowsAffected == 0 {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, internal.NewValidationError(
			"staged file is already "+current.Status, internal.ErrCodeInvalidStatus)
	}

	return r.GetByID(ctx, id)
}

func (r *StagedFileRepository) ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&linechatDatamodel.StagedFile{}).
		Where("status = ? AND created_at < ?", linechatDatamodel.FileStatusPending, cutoff).
		Update("status", linechatDatamodel.FileStatusExpired)
	if res.Error != nil {
		return 0, database.Translate(res.Error, "staged file")
	}
	return res.RowsAffected, nil
}
