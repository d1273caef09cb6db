package employee

import (
	"fmt"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/core/common/validation"
	employeeDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/employee"
)

type CreateEmployeeDTO struct {
	Code         string  `json:"code"`
	AuthSubject  *string `json:"auth_subject"`
	FullName     string  `json:"full_name"`
	Nickname     string  `json:"nickname"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	RoleID       *string `json:"role_id"`
	DepartmentID *string `json:"department_id"`
	IsActive     *bool   `json:"is_active"`
}

func uuidWhenPresent(name string) func(interface{}) *internal.AppError {
	return func(value interface{}) *internal.AppError {
		v, ok := value.(*string)
		if !ok || v == nil || *v == "" {
			return nil
		}
		if !validation.IsUUID(*v) {
			return internal.NewValidationFieldError(name, fmt.Sprintf("%s must be a valid id", name), internal.ErrCodeInvalidID)
		}
		return nil
	}
}

func (d *CreateEmployeeDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("code", d.Code).Required().MaxLength(50)
	validator.Field("full_name", d.FullName).Required().MaxLength(255)
	validator.Field("email", d.Email).MaxLength(255)
	validator.Field("phone", d.Phone).MaxLength(50)
	validator.Field("role_id", d.RoleID).Custom(uuidWhenPresent("role_id"))
	validator.Field("department_id", d.DepartmentID).Custom(uuidWhenPresent("department_id"))

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (d *CreateEmployeeDTO) ToModel() *employeeDatamodel.Employee {
	emp := &employeeDatamodel.Employee{
		Code:         d.Code,
		AuthSubject:  d.AuthSubject,
		FullName:     d.FullName,
		Nickname:     d.Nickname,
		Email:        d.Email,
		Phone:        d.Phone,
		RoleID:       d.RoleID,
		DepartmentID: d.DepartmentID,
		IsActive:     true,
	}
	if d.IsActive != nil {
		emp.IsActive = *d.IsActive
	}
	return emp
}

type Filters struct {
	IsActive     *bool
	DepartmentID string
	RoleID       string
}
