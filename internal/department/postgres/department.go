package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/core/database"
	departmentDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/department"
	employeeDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/employee"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/department"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) GetAll(ctx context.Context, params pagination.Params, filters department.Filters) ([]*departmentDatamodel.Department, pagination.Descriptor, error) {
	tx := r.db.WithContext(ctx).Model(&departmentDatamodel.Department{})

	if filters.IsActive != nil {
		tx = tx.Where("is_active = ?", *filters.IsActive)
	}
	if params.Query != "" {
		tx = pagination.SearchILike(tx, params.Query, "code", "name_th", "name_en")
	}

	var depts []*departmentDatamodel.Department
	desc, err := pagination.List(tx, "code ASC", &depts, params)
	if err != nil {
		return nil, pagination.Descriptor{}, database.Translate(err, "department")
	}
	return depts, desc, nil
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id string) (*departmentDatamodel.Department, error) {
	var dept departmentDatamodel.Department
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dept).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.NewNotFoundError("department not found", internal.ErrCodeDepartmentNotFound)
		}
		return nil, database.Translate(err, "department")
	}
	return &dept, nil
}

func (r *DepartmentRepository) Create(ctx context.Context, dept *departmentDatamodel.Department) error {
	if err := r.db.WithContext(ctx).Create(dept).Error; err != nil {
		return database.Translate(err, "department")
	}
	return nil
}

func (r *DepartmentRepository) Update(ctx context.Context, id string, patch map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&departmentDatamodel.Department{}).
		Where("id = ?", id).
		Updates(patch)
	if res.Error != nil {
		return database.Translate(res.Error, "department")
	}
	if res.RowsAffected == 0 {
		return internal.NewNotFoundError("department not found", internal.ErrCodeDepartmentNotFound)
	}
	return nil
}

func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&departmentDatamodel.Department{})
	if res.Error != nil {
		return database.Translate(res.Error, "department")
	}
	if res.RowsAffected == 0 {
		return internal.NewNotFoundError("department not found", internal.ErrCodeDepartmentNotFound)
	}
	return nil
}

// Summary loads all departments plus the employee activity columns and
// tallies them in memory, sorted by the department's Thai display name
// through the ORDER BY.
func (r *DepartmentRepository) Summary(ctx context.Context) ([]department.SummaryRow, error) {
	var depts []*departmentDatamodel.Department
	if err := r.db.WithContext(ctx).Order("name_th ASC").Find(&depts).Error; err != nil {
		return nil, err
	}

	var employees []struct {
		DepartmentID *string
		IsActive     bool
	}
	err := r.db.WithContext(ctx).
		Model(&employeeDatamodel.Employee{}).
		Select("department_id", "is_active").
		Where("department_id IS NOT NULL").
		Find(&employees).Error
	if err != nil {
		return nil, err
	}

	type tally struct {
		total  int
		active int
	}
	tallies := make(map[string]*tally, len(depts))
	for _, emp := range employees {
		if emp.DepartmentID == nil {
			continue
		}
		t, ok := tallies[*emp.DepartmentID]
		if !ok {
			t = &tally{}
			tallies[*emp.DepartmentID] = t
		}
		t.total++
		if emp.IsActive {
			t.active++
		}
	}

	rows := make([]department.SummaryRow, 0, len(depts))
	for _, dept := range depts {
		row := department.SummaryRow{
			DepartmentID: dept.ID,
			Code:         dept.Code,
			NameTH:       dept.NameTH,
			NameEN:       dept.NameEN,
		}
		if t, ok := tallies[dept.ID]; ok {
			row.TotalEmployees = t.total
			row.ActiveEmployees = t.active
			row.InactiveEmployees = t.total - t.active
		}
		rows = append(rows, row)
	}
	return rows, nil
}
