package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/core/database"
	linechatDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/linechat"
)

// LineRepository backs both sides of the bot's state: the account
// mapping and the staged files the bot creates and links. Reviewer
// operations on staged files live in the stagedfile package.
type LineRepository struct {
	db *gorm.DB
}

func NewLineRepository(db *gorm.DB) *LineRepository {
	return &LineRepository{db: db}
}

func (r *LineRepository) GetByLineUserID(ctx context.Context, lineUserID string) (*linechatDatamodel.LineAccount, error) {
	var account linechatDatamodel.LineAccount
	err := r.db.WithContext(ctx).Where("line_user_id = ?", lineUserID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.NewNotFoundError("line account not found", internal.ErrCodeRecordNotFound)
		}
		return nil, database.Translate(err, "line account")
	}
	return &account, nil
}

func (r *LineRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*linechatDatamodel.LineAccount, error) {
	var account linechatDatamodel.LineAccount
	err := r.db.WithContext(ctx).Where("employee_id = ?", employeeID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.NewNotFoundError("line account not found", internal.ErrCodeRecordNotFound)
		}
		return nil, database.Translate(err, "line account")
	}
	return &account, nil
}

func (r *LineRepository) UpdateProfile(ctx context.Context, lineUserID, displayName, pictureURL string) error {
	res := r.db.WithContext(ctx).
		Model(&linechatDatamodel.LineAccount{}).
		Where("line_user_id = ?", lineUserID).
		Updates(map[string]interface{}{
			"display_name": displayName,
			"picture_url":  pictureURL,
		})
	if res.Error != nil {
		return database.Translate(res.Error, "line account")
	}
	if res.RowsAffected == 0 {
		return internal.NewNotFoundError("line account not found", internal.ErrCodeRecordNotFound)
	}
	return nil
}

// SetFollowing flags follow state. Zero matched rows is fine here:
// unmapped users have no row to flag.
func (r *LineRepository) SetFollowing(ctx context.Context, lineUserID string, following bool) error {
	res := r.db.WithContext(ctx).
		Model(&linechatDatamodel.LineAccount{}).
		Where("line_user_id = ?", lineUserID).
		Update("is_following", following)
	if res.Error != nil {
		return database.Translate(res.Error, "line account")
	}
	return nil
}

func (r *LineRepository) SetActiveTicket(ctx context.Context, accountID string, ticketID *string) error {
	res := r.db.WithContext(ctx).
		Model(&linechatDatamodel.LineAccount{}).
		Where("id = ?", accountID).
		Update("active_ticket_id", ticketID)
	if res.Error != nil {
		return database.Translate(res.Error, "line account")
	}
	if res.RowsAffected == 0 {
		return internal.NewNotFoundError("line account not found", internal.ErrCodeRecordNotFound)
	}
	return nil
}

func (r *LineRepository) CreateStagedFile(ctx context.Context, file *linechatDatamodel.StagedFile) error {
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		return database.Translate(err, "staged file")
	}
	return nil
}

// PendingFiles returns oldest first so the numbering technicians see
// in list replies stays stable while new uploads arrive.
func (r *LineRepository) PendingFiles(ctx context.Context, employeeID string) ([]*linechatDatamodel.StagedFile, error) {
	files := make([]*linechatDatamodel.StagedFile, 0)
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND status = ?", employeeID, linechatDatamodel.FileStatusPending).
		Order("created_at ASC").
		Find(&files).Error
	if err != nil {
		return nil, database.Translate(err, "staged file")
	}
	return files, nil
}

// LinkPendingFiles ties the employee's pending uploads to a ticket.
// The selection flag is transient and resets once consumed.
func (r *LineRepository) LinkPendingFiles(ctx context.Context, employeeID, ticketID string, selectedOnly bool, linkedAt time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&linechatDatamodel.StagedFile{}).
		Where("employee_id = ? AND status = ?", employeeID, linechatDatamodel.FileStatusPending)
	if selectedOnly {
		tx = tx.Where("selected = ?", true)
	}

	res := tx.Updates(map[string]interface{}{
		"status":    linechatDatamodel.FileStatusLinked,
		"ticket_id": ticketID,
		"linked_at": linkedAt,
		"selected":  false,
	})
	if res.Error != nil {
		return 0, database.Translate(res.Error, "staged file")
	}
	return res.RowsAffected, nil
}

// CountTicketFiles counts every file the employee has tied to the
// ticket; a later review decision does not un-submit a file.
func (r *LineRepository) CountTicketFiles(ctx context.Context, employeeID, ticketID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&linechatDatamodel.StagedFile{}).
		Where("employee_id = ? AND ticket_id = ?", employeeID, ticketID).
		Count(&count).Error
	if err != nil {
		return 0, database.Translate(err, "staged file")
	}
	return count, nil
}

// SetSelected only touches pending files; selection is meaningless
// once a file is linked or reviewed.
func (r *LineRepository) SetSelected(ctx context.Context, fileID string, selected bool) error {
	res := r.db.WithContext(ctx).
		Model(&linechatDatamodel.StagedFile{}).
		Where("id = ? AND status = ?", fileID, linechatDatamodel.FileStatusPending).
		Update("selected", selected)
	if res.Error != nil {
		return database.Translate(res.Error, "staged file")
	}
	if res.RowsAffected == 0 {
		return internal.NewNotFoundError("staged file not found", internal.ErrCodeFileNotFound)
	}
	return nil
}

func (r *LineRepository) SetAllSelected(ctx context.Context, employeeID string, selected bool) error {
	res := r.db.WithContext(ctx).
		Model(&linechatDatamodel.StagedFile{}).
		Where("employee_id = ? AND status = ?", employeeID, linechatDatamodel.FileStatusPending).
		Update("selected", selected)
	if res.Error != nil {
		return database.Translate(res.Error, "staged file")
	}
	return nil
}

func (r *LineRepository) DeletePendingFiles(ctx context.Context, employeeID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("employee_id = ? AND status = ?", employeeID, linechatDatamodel.FileStatusPending).
		Delete(&linechatDatamodel.StagedFile{})
	if res.Error != nil {
		return 0, database.Translate(res.Error, "staged file")
	}
	return res.RowsAffected, nil
}
