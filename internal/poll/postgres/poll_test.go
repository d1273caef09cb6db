package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	pollDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/poll"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/poll"
)

func setupPollDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&pollDatamodel.Poll{}, &pollDatamodel.PollVote{}))
	return db
}

func seedPoll(t *testing.T, repo *PollRepository) *pollDatamodel.Poll {
	t.Helper()

	p := &pollDatamodel.Poll{
		Question: "Where should the year-end party be?",
		Choices: pollDatamodel.ChoiceList{
			{ID: "khaoyai", Label: "Khao Yai"},
			{ID: "huahin", Label: "Hua Hin"},
		},
		IsOpen: true,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestPollChoicesRoundTrip(t *testing.T) {
	db := setupPollDB(t)
	repo := NewPollRepository(db)
	ctx := context.Background()

	created := seedPoll(t, repo)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Choices, 2)
	assert.Equal(t, "khaoyai", got.Choices[0].ID)
	assert.Equal(t, "Hua Hin", got.Choices[1].Label)
	assert.True(t, got.Choices.HasChoice("huahin"))
	assert.False(t, got.Choices.HasChoice("pattaya"))
}

func TestPollUpsertVoteKeepsFirstAnswer(t *testing.T) {
	db := setupPollDB(t)
	repo := NewPollRepository(db)
	ctx := context.Background()

	p := seedPoll(t, repo)
	employeeID := "a1e2c3d4-0001-4abc-8def-000000000001"

	first, err := repo.UpsertVote(ctx, &pollDatamodel.PollVote{
		PollID:     p.ID,
		EmployeeID: employeeID,
		ChoiceID:   "khaoyai",
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	// a second insert for the same (poll, employee) pair must not replace
	// the stored answer
	second, err := repo.UpsertVote(ctx, &pollDatamodel.PollVote{
		PollID:     p.ID,
		EmployeeID: employeeID,
		ChoiceID:   "huahin",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "khaoyai", second.ChoiceID)

	var count int64
	require.NoError(t, db.Model(&pollDatamodel.PollVote{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPollVotesAreIndependentPerPoll(t *testing.T) {
	db := setupPollDB(t)
	repo := NewPollRepository(db)
	ctx := context.Background()

	first := seedPoll(t, repo)
	second := seedPoll(t, repo)
	employeeID := "a1e2c3d4-0001-4abc-8def-000000000001"

	_, err := repo.UpsertVote(ctx, &pollDatamodel.PollVote{PollID: first.ID, EmployeeID: employeeID, ChoiceID: "khaoyai"})
	require.NoError(t, err)
	_, err = repo.UpsertVote(ctx, &pollDatamodel.PollVote{PollID: second.ID, EmployeeID: employeeID, ChoiceID: "huahin"})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&pollDatamodel.PollVote{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestPollListFilter(t *testing.T) {
	db := setupPollDB(t)
	repo := NewPollRepository(db)
	ctx := context.Background()

	open := seedPoll(t, repo)

	closed := &pollDatamodel.Poll{
		Question: "Old question",
		Choices: pollDatamodel.ChoiceList{
			{ID: "a", Label: "A"},
			{ID: "b", Label: "B"},
		},
		IsOpen:    false,
		CreatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.Create(ctx, closed))

	all, desc, err := repo.GetAll(ctx, pagination.Params{Page: 1, Limit: 50}, poll.Filters{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, int64(2), desc.Total)

	isOpen := true
	onlyOpen, _, err := repo.GetAll(ctx, pagination.Params{Page: 1, Limit: 50}, poll.Filters{IsOpen: &isOpen})
	require.NoError(t, err)
	require.Len(t, onlyOpen, 1)
	assert.Equal(t, open.ID, onlyOpen[0].ID)

	found, _, err := repo.GetAll(ctx, pagination.Params{Page: 1, Limit: 50, Query: "year-end"}, poll.Filters{})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, open.ID, found[0].ID)
}

func TestPollUpdateAndDelete(t *testing.T) {
	db := setupPollDB(t)
	repo := NewPollRepository(db)
	ctx := context.Background()

	p := seedPoll(t, repo)

	require.NoError(t, repo.Update(ctx, p.ID, map[string]interface{}{"is_open": false}))
	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsOpen)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.GetByID(ctx, p.ID)
	require.Error(t, err)
}
