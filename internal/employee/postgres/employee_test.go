package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	employeeDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/employee"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/employee"
)

func setupEmployeeDB(t *testing.T) (*gorm.DB, *employeeDatamodel.Role) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&employeeDatamodel.Role{}, &employeeDatamodel.Employee{}))

	role := &employeeDatamodel.Role{Code: "technician", Name: "Technician", Level: 1}
	require.NoError(t, db.Create(role).Error)
	return db, role
}

func TestEmployeeFiltersAndSearch(t *testing.T) {
	db, role := setupEmployeeDB(t)
	repo := NewEmployeeRepository(db)
	ctx := context.Background()

	deptA := "3f1d8a20-9c4b-4f6e-8d2a-1b5c7e9f0a3d"
	deptB := "5a2e9b31-0d5c-4a7f-9e3b-2c6d8f0a1b4e"

	seed := []*employeeDatamodel.Employee{
		{Code: "EMP-001", FullName: "Anan Srisuwan", Nickname: "Nan", RoleID: &role.ID, DepartmentID: &deptA, IsActive: true},
		{Code: "EMP-002", FullName: "Busaba Kittikorn", DepartmentID: &deptA, IsActive: false},
		{Code: "EMP-003", FullName: "Chai Wongsa", DepartmentID: &deptB, IsActive: true},
	}
	for _, emp := range seed {
		require.NoError(t, repo.Create(ctx, emp))
	}

	byDept, desc, err := repo.GetAll(ctx, pagination.Params{Page: 1, Limit: 50}, employee.Filters{DepartmentID: deptA})
	require.NoError(t, err)
	assert.Len(t, byDept, 2)
	assert.Equal(t, int64(2), desc.Total)

	active := true
	activeInA, _, err := repo.GetAll(ctx, pagination.Params{Page: 1, Limit: 50}, employee.Filters{DepartmentID: deptA, IsActive: &active})
	require.NoError(t, err)
	require.Len(t, activeInA, 1)
	assert.Equal(t, "EMP-001", activeInA[0].Code)

	byRole, _, err := repo.GetAll(ctx, pagination.Params{Page: 1, Limit: 50}, employee.Filters{RoleID: role.ID})
	require.NoError(t, err)
	require.Len(t, byRole, 1)
	assert.Equal(t, "EMP-001", byRole[0].Code)

	// case-insensitive free-text search across name columns
	found, _, err := repo.GetAll(ctx, pagination.Params{Page: 1, Limit: 50, Query: "BUSABA"}, employee.Filters{})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "EMP-002", found[0].Code)
}

func TestEmployeeCRUD(t *testing.T) {
	db, _ := setupEmployeeDB(t)
	repo := NewEmployeeRepository(db)
	ctx := context.Background()

	emp := &employeeDatamodel.Employee{Code: "EMP-010", FullName: "Duangjai Phrom", IsActive: true}
	require.NoError(t, repo.Create(ctx, emp))

	require.NoError(t, repo.Update(ctx, emp.ID, map[string]interface{}{"nickname": "Jai"}))
	got, err := repo.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jai", got.Nickname)

	require.NoError(t, repo.Delete(ctx, emp.ID))
	_, err = repo.GetByID(ctx, emp.ID)
	require.Error(t, err)
}
