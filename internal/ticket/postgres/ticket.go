package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/core/database"
	ticketDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/ticket"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/ticket"
)

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) GetAll(ctx context.Context, params pagination.Params, filters ticket.Filters) ([]*ticketDatamodel.Ticket, pagination.Descriptor, error) {
	tx := r.db.WithContext(ctx).Model(&ticketDatamodel.Ticket{})

	if filters.Status != "" {
		tx = tx.Where("status = ?", filters.Status)
	}
	if filters.AssigneeID != "" {
		tx = tx.Where("assignee_id = ?", filters.AssigneeID)
	}
	if filters.SiteID != "" {
		tx = tx.Where("site_id = ?", filters.SiteID)
	}
	if params.Query != "" {
		tx = pagination.SearchILike(tx, params.Query, "code", "title", "detail")
	}

	var tickets []*ticketDatamodel.Ticket
	desc, err := pagination.List(tx, "created_at DESC", &tickets, params)
	if err != nil {
		return nil, pagination.Descriptor{}, database.Translate(err, "ticket")
	}
	return tickets, desc, nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id string) (*ticketDatamodel.Ticket, error) {
	var t ticketDatamodel.Ticket
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.NewNotFoundError("ticket not found", internal.ErrCodeTicketNotFound)
		}
		return nil, database.Translate(err, "ticket")
	}
	return &t, nil
}

func (r *TicketRepository) GetByCode(ctx context.Context, code string) (*ticketDatamodel.Ticket, error) {
	var t ticketDatamodel.Ticket
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.NewNotFoundError("ticket not found", internal.ErrCodeTicketNotFound)
		}
		return nil, database.Translate(err, "ticket")
	}
	return &t, nil
}

// Create inserts the ticket, allocating the next PDE code inside the
// same transaction. The counter row update takes a row lock, so
// concurrent creates get distinct numbers.
func (r *TicketRepository) Create(ctx context.Context, t *ticketDatamodel.Ticket) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if t.Code == "" {
			var next int64
			err := tx.Raw("UPDATE ticket_counters SET value = value + 1 WHERE id = 1 RETURNING value").Scan(&next).Error
			if err != nil {
				return err
			}
			t.Code = fmt.Sprintf("PDE-%d", next)
		}
		return tx.Create(t).Error
	})
	if err != nil {
		return database.Translate(err, "ticket")
	}
	return nil
}

func (r *TicketRepository) Update(ctx context.Context, id string, patch map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&ticketDatamodel.Ticket{}).
		Where("id = ?", id).
		Updates(patch)
	if res.Error != nil {
		return database.Translate(res.Error, "ticket")
	}
	if res.RowsAffected == 0 {
		return internal.NewNotFoundError("ticket not found", internal.ErrCodeTicketNotFound)
	}
	return nil
}

func (r *TicketRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ticketDatamodel.Ticket{})
	if res.Error != nil {
		return database.Translate(res.Error, "ticket")
	}
	if res.RowsAffected == 0 {
		return internal.NewNotFoundError("ticket not found", internal.ErrCodeTicketNotFound)
	}
	return nil
}

// OpenTicketCodes lists codes of tickets still open for work, newest
// first, for the chat bot's quick replies.
func (r *TicketRepository) OpenTicketCodes(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&ticketDatamodel.Ticket{}).
		Where("status IN ?", []string{ticketDatamodel.StatusOpen, ticketDatamodel.StatusAssigned, ticketDatamodel.StatusInProgress}).
		Order("created_at DESC").
		Limit(limit).
		Pluck("code", &codes).Error
	if err != nil {
		return nil, database.Translate(err, "ticket")
	}
	return codes, nil
}
