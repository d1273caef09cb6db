package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	departmentDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/department"
	employeeDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/employee"
	siteDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/site"
	ticketDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/ticket"
)

func setupSearchDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&departmentDatamodel.Department{},
		&siteDatamodel.Site{},
		&employeeDatamodel.Employee{},
		&ticketDatamodel.Ticket{},
	))
	return db
}

func TestSearchAcrossResources(t *testing.T) {
	db := setupSearchDB(t)
	repo := NewSearchRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&departmentDatamodel.Department{
		Code: "METER-OPS", NameTH: "ฝ่ายมาตรวัด", NameEN: "Meter Operations", IsActive: true,
	}).Error)
	require.NoError(t, db.Create(&siteDatamodel.Site{
		Code: "BKK-01", Name: "Meter depot Bangkok", IsActive: true,
	}).Error)
	require.NoError(t, db.Create(&employeeDatamodel.Employee{
		Code: "EMP-001", FullName: "Anan Srisuwan", IsActive: true,
	}).Error)
	require.NoError(t, db.Create(&ticketDatamodel.Ticket{
		Code: "PDE-1", Title: "Meter calibration", Status: "open", Priority: "normal",
	}).Error)

	departments, err := repo.SearchDepartments(ctx, "meter", 5)
	require.NoError(t, err)
	require.Len(t, departments, 1)
	assert.Equal(t, "METER-OPS", departments[0].Code)

	sites, err := repo.SearchSites(ctx, "meter", 5)
	require.NoError(t, err)
	assert.Len(t, sites, 1)

	tickets, err := repo.SearchTickets(ctx, "METER", 5)
	require.NoError(t, err)
	assert.Len(t, tickets, 1)

	// no employee matches; the group comes back empty, not nil
	employees, err := repo.SearchEmployees(ctx, "meter", 5)
	require.NoError(t, err)
	assert.NotNil(t, employees)
	assert.Empty(t, employees)
}

func TestSearchHonorsGroupLimit(t *testing.T) {
	db := setupSearchDB(t)
	repo := NewSearchRepository(db)
	ctx := context.Background()

	codes := []string{"ALPHA", "BRAVO", "CHARLIE"}
	for _, code := range codes {
		require.NoError(t, db.Create(&departmentDatamodel.Department{
			Code: code, NameTH: "ฝ่ายทดสอบ " + code, NameEN: "Test dept " + code, IsActive: true,
		}).Error)
	}

	limited, err := repo.SearchDepartments(ctx, "test dept", 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "ALPHA", limited[0].Code)
	assert.Equal(t, "BRAVO", limited[1].Code)
}
