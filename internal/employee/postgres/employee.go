package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/core/database"
	employeeDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/employee"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/employee"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) GetAll(ctx context.Context, params pagination.Params, filters employee.Filters) ([]*employeeDatamodel.Employee, pagination.Descriptor, error) {
	tx := r.db.WithContext(ctx).Model(&employeeDatamodel.Employee{})

	if filters.IsActive != nil {
		tx = tx.Where("is_active = ?", *filters.IsActive)
	}
	if filters.DepartmentID != "" {
		tx = tx.Where("department_id = ?", filters.DepartmentID)
	}
	if filters.RoleID != "" {
		tx = tx.Where("role_id = ?", filters.RoleID)
	}
	if params.Query != "" {
		tx = pagination.SearchILike(tx, params.Query, "code", "full_name", "nickname", "email", "phone")
	}

	var employees []*employeeDatamodel.Employee
	desc, err := pagination.List(tx, "code ASC", &employees, params)
	if err != nil {
		return nil, pagination.Descriptor{}, database.Translate(err, "employee")
	}
	return employees, desc, nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*employeeDatamodel.Employee, error) {
	var emp employeeDatamodel.Employee
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound)
		}
		return nil, database.Translate(err, "employee")
	}
	return &emp, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, emp *employeeDatamodel.Employee) error {
	if err := r.db.WithContext(ctx).Create(emp).Error; err != nil {
		return database.Translate(err, "employee")
	}
	return nil
}

func (r *EmployeeRepository) Update(ctx context.Context, id string, patch map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&employeeDatamodel.Employee{}).
		Where("id = ?", id).
		Updates(patch)
	if res.Error != nil {
		return database.Translate(res.Error, "employee")
	}
	if res.RowsAffected == 0 {
		return internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound)
	}
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&employeeDatamodel.Employee{})
	if res.Error != nil {
		return database.Translate(res.Error, "employee")
	}
	if res.RowsAffected == 0 {
		return internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound)
	}
	return nil
}
