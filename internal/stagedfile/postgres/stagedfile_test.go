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

	linechatDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/linechat"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/stagedfile"
)

func setupStagedFileDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&linechatDatamodel.StagedFile{}))
	return db
}

func seedFile(t *testing.T, db *gorm.DB, employeeID, status string, createdAt time.Time) *linechatDatamodel.StagedFile {
	t.Helper()

	file := &linechatDatamodel.StagedFile{
		EmployeeID: employeeID,
		FileURL:    "https://files.example.com/" + status + ".jpg",
		Status:     status,
	}
	require.NoError(t, db.Create(file).Error)
	if !createdAt.IsZero() {
		require.NoError(t, db.Model(file).Update("created_at", createdAt).Error)
	}
	return file
}

func TestStagedFileReviewTransitions(t *testing.T) {
	db := setupStagedFileDB(t)
	repo := NewStagedFileRepository(db)
	ctx := context.Background()

	employeeID := "a1e2c3d4-0001-4abc-8def-000000000001"
	pending := seedFile(t, db, employeeID, linechatDatamodel.FileStatusPending, time.Time{})
	linked := seedFile(t, db, employeeID, linechatDatamodel.FileStatusLinked, time.Time{})

	approved, err := repo.Review(ctx, pending.ID, linechatDatamodel.FileStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, linechatDatamodel.FileStatusApproved, approved.Status)

	rejected, err := repo.Review(ctx, linked.ID, linechatDatamodel.FileStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, linechatDatamodel.FileStatusRejected, rejected.Status)

	// a second decision must be refused
	_, err = repo.Review(ctx, pending.ID, linechatDatamodel.FileStatusRejected)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already approved")
}

func TestStagedFileReviewMissing(t *testing.T) {
	db := setupStagedFileDB(t)
	repo := NewStagedFileRepository(db)

	_, err := repo.Review(context.Background(), "99999999-8888-4777-8666-555555555555", linechatDatamodel.FileStatusApproved)
	require.Error(t, err)
}

func TestStagedFileListFilters(t *testing.T) {
	db := setupStagedFileDB(t)
	repo := NewStagedFileRepository(db)
	ctx := context.Background()

	anan := "a1e2c3d4-0001-4abc-8def-000000000001"
	busaba := "a1e2c3d4-0002-4abc-8def-000000000002"
	seedFile(t, db, anan, linechatDatamodel.FileStatusPending, time.Time{})
	seedFile(t, db, anan, linechatDatamodel.FileStatusLinked, time.Time{})
	seedFile(t, db, busaba, linechatDatamodel.FileStatusPending, time.Time{})

	all, desc, err := repo.GetAll(ctx, pagination.Params{Page: 1, Limit: 50}, stagedfile.Filters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, int64(3), desc.Total)

	pendings, _, err := repo.GetAll(ctx, pagination.Params{Page: 1, Limit: 50}, stagedfile.Filters{Status: linechatDatamodel.FileStatusPending})
	require.NoError(t, err)
	assert.Len(t, pendings, 2)

	mine, _, err := repo.GetAll(ctx, pagination.Params{Page: 1, Limit: 50}, stagedfile.Filters{EmployeeID: busaba})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, busaba, mine[0].EmployeeID)
}

func TestStagedFileExpireOlderThan(t *testing.T) {
	db := setupStagedFileDB(t)
	repo := NewStagedFileRepository(db)
	ctx := context.Background()

	employeeID := "a1e2c3d4-0001-4abc-8def-000000000001"
	now := time.Now().UTC()

	stale := seedFile(t, db, employeeID, linechatDatamodel.FileStatusPending, now.Add(-96*time.Hour))
	fresh := seedFile(t, db, employeeID, linechatDatamodel.FileStatusPending, now.Add(-time.Hour))
	// linked files never expire, however old
	staleLinked := seedFile(t, db, employeeID, linechatDatamodel.FileStatusLinked, now.Add(-96*time.Hour))

	expired, err := repo.ExpireOlderThan(ctx, now.Add(-72*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	got, err := repo.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, linechatDatamodel.FileStatusExpired, got.Status)

	got, err = repo.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, linechatDatamodel.FileStatusPending, got.Status)

	got, err = repo.GetByID(ctx, staleLinked.ID)
	require.NoError(t, err)
	assert.Equal(t, linechatDatamodel.FileStatusLinked, got.Status)
}
