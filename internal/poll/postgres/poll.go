package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/core/database"
	pollDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/poll"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/poll"
)

type PollRepository struct {
	db *gorm.DB
}

func NewPollRepository(db *gorm.DB) *PollRepository {
	return &PollRepository{db: db}
}

func (r *PollRepository) GetAll(ctx context.Context, params pagination.Params, filters poll.Filters) ([]*pollDatamodel.Poll, pagination.Descriptor, error) {
	tx := r.db.WithContext(ctx).Model(&pollDatamodel.Poll{})

	if filters.IsOpen != nil {
		tx = tx.Where("is_open = ?", *filters.IsOpen)
	}
	if params.Query != "" {
		tx = pagination.SearchILike(tx, params.Query, "question")
	}

	var polls []*pollDatamodel.Poll
	desc, err := pagination.List(tx, "created_at DESC", &polls, params)
	if err != nil {
		return nil, pagination.Descriptor{}, database.Translate(err, "poll")
	}
	return polls, desc, nil
}

func (r *PollRepository) GetByID(ctx context.Context, id string) (*pollDatamodel.Poll, error) {
	var p pollDatamodel.Poll
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.NewNotFoundError("poll not found", internal.ErrCodePollNotFound)
		}
		return nil, database.Translate(err, "poll")
	}
	return &p, nil
}

func (r *PollRepository) Create(ctx context.Context, p *pollDatamodel.Poll) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return database.Translate(err, "poll")
	}
	return nil
}

func (r *PollRepository) Update(ctx context.Context, id string, patch map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&pollDatamodel.Poll{}).
		Where("id = ?", id).
		Updates(patch)
	if res.Error != nil {
		return database.Translate(res.Error, "poll")
	}
	if res.RowsAffected == 0 {
		return internal.NewNotFoundError("poll not found", internal.ErrCodePollNotFound)
	}
	return nil
}

func (r *PollRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&pollDatamodel.Poll{})
	if res.Error != nil {
		return database.Translate(res.Error, "poll")
	}
	if res.RowsAffected == 0 {
		return internal.NewNotFoundError("poll not found", internal.ErrCodePollNotFound)
	}
	return nil
}

// UpsertVote inserts the vote unless the (poll, employee) pair already
// has one, then returns the row that survived. The caller compares the
// surviving choice against the requested one.
func (r *PollRepository) UpsertVote(ctx context.Context, vote *pollDatamodel.PollVote) (*pollDatamodel.PollVote, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "poll_id"}, {Name: "employee_id"}},
			DoNothing: true,
		}).
		Create(vote).Error
	if err != nil {
		return nil, database.Translate(err, "poll vote")
	}

	var out pollDatamodel.PollVote
	err = r.db.WithContext(ctx).
		Where("poll_id = ? AND employee_id = ?", vote.PollID, vote.EmployeeID).
		First(&out).Error
	if err != nil {
		return nil, database.Translate(err, "poll vote")
	}
	return &out, nil
}
