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

	fleetDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/fleet"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/fleet"
)

func setupFleetDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&fleetDatamodel.Vehicle{}, &fleetDatamodel.VehiclePosition{}))
	return db
}

func TestVehicleCRUD(t *testing.T) {
	db := setupFleetDB(t)
	repo := NewVehicleRepository(db)
	ctx := context.Background()

	v := &fleetDatamodel.Vehicle{PlateNumber: "1กข-1234", Model: "Isuzu D-Max", IsActive: true}
	require.NoError(t, repo.Create(ctx, v))
	require.NotEmpty(t, v.ID)

	got, err := repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "1กข-1234", got.PlateNumber)

	require.NoError(t, repo.Update(ctx, v.ID, map[string]interface{}{"model": "Isuzu MU-X"}))
	got, err = repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Isuzu MU-X", got.Model)

	require.NoError(t, repo.Delete(ctx, v.ID))
	_, err = repo.GetByID(ctx, v.ID)
	require.Error(t, err)
}

func TestVehicleListFilters(t *testing.T) {
	db := setupFleetDB(t)
	repo := NewVehicleRepository(db)
	ctx := context.Background()

	assignee := "a1e2c3d4-0001-4abc-8def-000000000001"
	seed := []*fleetDatamodel.Vehicle{
		{PlateNumber: "1กข-1234", Model: "Isuzu D-Max", AssigneeID: &assignee, IsActive: true},
		{PlateNumber: "2ขค-5678", Model: "Toyota Hilux", IsActive: true},
		{PlateNumber: "3คง-9012", Model: "Ford Ranger", IsActive: false},
	}
	for _, v := range seed {
		require.NoError(t, repo.Create(ctx, v))
	}

	all, desc, err := repo.GetAll(ctx, pagination.Params{Page: 1, Limit: 50}, fleet.Filters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, int64(3), desc.Total)

	active := true
	onlyActive, _, err := repo.GetAll(ctx, pagination.Params{Page: 1, Limit: 50}, fleet.Filters{IsActive: &active})
	require.NoError(t, err)
	assert.Len(t, onlyActive, 2)

	mine, _, err := repo.GetAll(ctx, pagination.Params{Page: 1, Limit: 50}, fleet.Filters{AssigneeID: assignee})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "1กข-1234", mine[0].PlateNumber)

	found, _, err := repo.GetAll(ctx, pagination.Params{Page: 1, Limit: 50, Query: "hilux"}, fleet.Filters{})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "2ขค-5678", found[0].PlateNumber)
}

func TestVehiclePositionsNewestFirst(t *testing.T) {
	db := setupFleetDB(t)
	repo := NewVehicleRepository(db)
	ctx := context.Background()

	v := &fleetDatamodel.Vehicle{PlateNumber: "1กข-1234", IsActive: true}
	require.NoError(t, repo.Create(ctx, v))

	base := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreatePosition(ctx, &fleetDatamodel.VehiclePosition{
			VehicleID:  v.ID,
			Latitude:   13.75 + float64(i)*0.01,
			Longitude:  100.50,
			RecordedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	// a second vehicle's track must not bleed in
	other := &fleetDatamodel.Vehicle{PlateNumber: "2ขค-5678", IsActive: true}
	require.NoError(t, repo.Create(ctx, other))
	require.NoError(t, repo.CreatePosition(ctx, &fleetDatamodel.VehiclePosition{
		VehicleID:  other.ID,
		Latitude:   18.79,
		Longitude:  98.98,
		RecordedAt: base,
	}))

	track, desc, err := repo.GetPositions(ctx, v.ID, pagination.Params{Page: 1, Limit: 50})
	require.NoError(t, err)
	require.Len(t, track, 3)
	assert.Equal(t, int64(3), desc.Total)
	assert.True(t, track[0].RecordedAt.After(track[1].RecordedAt))
	assert.True(t, track[1].RecordedAt.After(track[2].RecordedAt))
}
