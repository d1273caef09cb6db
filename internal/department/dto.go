package department

import (
	"github.com/nattapongw/fieldservice/internal/core/common/validation"
	departmentDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/department"
)

type CreateDepartmentDTO struct {
	Code     string `json:"code"`
	NameTH   string `json:"name_th"`
	NameEN   string `json:"name_en"`
	IsActive *bool  `json:"is_active"`
}

func (d *CreateDepartmentDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("code", d.Code).Required().MaxLength(50)
	validator.Field("name_th", d.NameTH).Required().MaxLength(255)
	validator.Field("name_en", d.NameEN).MaxLength(255)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (d *CreateDepartmentDTO) ToModel() *departmentDatamodel.Department {
	dept := &departmentDatamodel.Department{
		Code:     d.Code,
		NameTH:   d.NameTH,
		NameEN:   d.NameEN,
		IsActive: true,
	}
	if d.IsActive != nil {
		dept.IsActive = *d.IsActive
	}
	return dept
}

// Filters narrows department listings. Zero values mean "no filter".
type Filters struct {
	IsActive *bool
}

// SummaryRow is one department with its employee tallies.
type SummaryRow struct {
	DepartmentID      string `json:"department_id"`
	Code              string `json:"code"`
	NameTH            string `json:"name_th"`
	NameEN            string `json:"name_en"`
	TotalEmployees    int    `json:"total_employees"`
	ActiveEmployees   int    `json:"active_employees"`
	InactiveEmployees int    `json:"inactive_employees"`
}
