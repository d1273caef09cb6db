package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	ticketDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/ticket"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/ticket"
)

func setupTicketDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ticketDatamodel.Ticket{}, &ticketDatamodel.Counter{}))
	require.NoError(t, db.Create(&ticketDatamodel.Counter{ID: 1, Value: 0}).Error)
	return db
}

func TestTicketCodesAreSequential(t *testing.T) {
	db := setupTicketDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()

	first := &ticketDatamodel.Ticket{Title: "Pump inspection", Status: ticketDatamodel.StatusOpen, Priority: ticketDatamodel.PriorityNormal}
	require.NoError(t, repo.Create(ctx, first))
	assert.Equal(t, "PDE-1", first.Code)

	second := &ticketDatamodel.Ticket{Title: "Valve replacement", Status: ticketDatamodel.StatusOpen, Priority: ticketDatamodel.PriorityHigh}
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, "PDE-2", second.Code)

	byCode, err := repo.GetByCode(ctx, "PDE-2")
	require.NoError(t, err)
	assert.Equal(t, second.ID, byCode.ID)
}

func TestTicketFiltersAndSearch(t *testing.T) {
	db := setupTicketDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()

	assignee := "a1e2c3d4-0001-4abc-8def-000000000001"
	siteID := "3f1d8a20-9c4b-4f6e-8d2a-1b5c7e9f0a3d"

	seed := []*ticketDatamodel.Ticket{
		{Title: "Pump inspection", Status: ticketDatamodel.StatusOpen, Priority: ticketDatamodel.PriorityNormal, AssigneeID: &assignee, SiteID: &siteID},
		{Title: "Valve replacement", Status: ticketDatamodel.StatusDone, Priority: ticketDatamodel.PriorityNormal, AssigneeID: &assignee},
		{Title: "Meter calibration", Status: ticketDatamodel.StatusOpen, Priority: ticketDatamodel.PriorityLow},
	}
	for _, tk := range seed {
		require.NoError(t, repo.Create(ctx, tk))
	}

	open, desc, err := repo.GetAll(ctx, pagination.Params{Page: 1, Limit: 50}, ticket.Filters{Status: ticketDatamodel.StatusOpen})
	require.NoError(t, err)
	assert.Len(t, open, 2)
	assert.Equal(t, int64(2), desc.Total)

	mine, _, err := repo.GetAll(ctx, pagination.Params{Page: 1, Limit: 50}, ticket.Filters{AssigneeID: assignee})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	atSite, _, err := repo.GetAll(ctx, pagination.Params{Page: 1, Limit: 50}, ticket.Filters{SiteID: siteID})
	require.NoError(t, err)
	require.Len(t, atSite, 1)
	assert.Equal(t, "Pump inspection", atSite[0].Title)

	found, _, err := repo.GetAll(ctx, pagination.Params{Page: 1, Limit: 50, Query: "valve"}, ticket.Filters{})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Valve replacement", found[0].Title)

	// searching by the assigned code also hits
	byCode, _, err := repo.GetAll(ctx, pagination.Params{Page: 1, Limit: 50, Query: "pde-3"}, ticket.Filters{})
	require.NoError(t, err)
	require.Len(t, byCode, 1)
	assert.Equal(t, "Meter calibration", byCode[0].Title)
}

func TestOpenTicketCodes(t *testing.T) {
	db := setupTicketDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()

	statuses := []string{
		ticketDatamodel.StatusOpen,
		ticketDatamodel.StatusDone,
		ticketDatamodel.StatusInProgress,
		ticketDatamodel.StatusCancelled,
	}
	for _, status := range statuses {
		tk := &ticketDatamodel.Ticket{Title: "T", Status: status, Priority: ticketDatamodel.PriorityNormal}
		require.NoError(t, repo.Create(ctx, tk))
	}

	codes, err := repo.OpenTicketCodes(ctx, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"PDE-1", "PDE-3"}, codes)
}
