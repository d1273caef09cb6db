package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	siteDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/site"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/site"
)

func setupSiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&siteDatamodel.Site{}))
	return db
}

func TestSiteFindOrCreate(t *testing.T) {
	db := setupSiteDB(t)
	repo := NewSiteRepository(db)
	ctx := context.Background()

	first, err := repo.FindOrCreate(ctx, &siteDatamodel.Site{Code: "BKK-01", Name: "Bangkok HQ", Province: "Bangkok", IsActive: true})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	// same code again: must converge on the existing row, not insert
	second, err := repo.FindOrCreate(ctx, &siteDatamodel.Site{Code: "BKK-01", Name: "Bangkok Duplicate", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Bangkok HQ", second.Name)

	var count int64
	require.NoError(t, db.Model(&siteDatamodel.Site{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSiteListSearchAndFilters(t *testing.T) {
	db := setupSiteDB(t)
	repo := NewSiteRepository(db)
	ctx := context.Background()

	seed := []*siteDatamodel.Site{
		{Code: "BKK-01", Name: "Bangkok HQ", Province: "Bangkok", IsActive: true},
		{Code: "CNX-01", Name: "Chiang Mai Depot", Province: "Chiang Mai", IsActive: true},
		{Code: "BKK-02", Name: "Bangkok Warehouse", Province: "Bangkok", IsActive: false},
	}
	for _, s := range seed {
		require.NoError(t, repo.Create(ctx, s))
	}

	all, desc, err := repo.GetAll(ctx, pagination.Params{Page: 1, Limit: 50}, site.Filters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, int64(3), desc.Total)

	byProvince, _, err := repo.GetAll(ctx, pagination.Params{Page: 1, Limit: 50}, site.Filters{Province: "Bangkok"})
	require.NoError(t, err)
	assert.Len(t, byProvince, 2)

	active := true
	activeBangkok, _, err := repo.GetAll(ctx, pagination.Params{Page: 1, Limit: 50}, site.Filters{Province: "Bangkok", IsActive: &active})
	require.NoError(t, err)
	require.Len(t, activeBangkok, 1)
	assert.Equal(t, "BKK-01", activeBangkok[0].Code)

	found, _, err := repo.GetAll(ctx, pagination.Params{Page: 1, Limit: 50, Query: "chiang"}, site.Filters{})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "CNX-01", found[0].Code)
}

func TestSiteUpdateAndDelete(t *testing.T) {
	db := setupSiteDB(t)
	repo := NewSiteRepository(db)
	ctx := context.Background()

	s := &siteDatamodel.Site{Code: "BKK-01", Name: "Bangkok HQ", IsActive: true}
	require.NoError(t, repo.Create(ctx, s))

	require.NoError(t, repo.Update(ctx, s.ID, map[string]interface{}{"name": "Bangkok Head Office"}))
	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bangkok Head Office", got.Name)

	require.NoError(t, repo.Delete(ctx, s.ID))
	_, err = repo.GetByID(ctx, s.ID)
	require.Error(t, err)
}
