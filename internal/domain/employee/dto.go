package employee

import (
	"time"

	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/validator"
)

type EmployeeResponse struct {
	ID             int64  `json:"id"`
	EmployeeCode   string `json:"employee_code"`
	Email          string `json:"email"`
	FullName       string `json:"full_name,omitempty"`
	Position       string `json:"position"`
	DepartmentID   *int64 `json:"department_id,omitempty"`
	DepartmentName string `json:"department_name"`
	HireDate       string `json:"hire_date"`
	CreatedAt      string `json:"created_at"`
}

// NewEmployeeResponse maps an employee; departmentName is NoDepartment when the reference is unset or dangling.
func NewEmployeeResponse(e Employee, fullName string, departmentName string) EmployeeResponse {
	return EmployeeResponse{
		ID:             e.ID,
		EmployeeCode:   e.EmployeeCode,
		Email:          e.Email,
		FullName:       fullName,
		Position:       e.Position,
		DepartmentID:   e.DepartmentID,
		DepartmentName: departmentName,
		HireDate:       e.HireDate,
		CreatedAt:      e.CreatedAt.Format(time.RFC3339),
	}
}

type CreateEmployeeRequest struct {
	EmployeeCode string `json:"employee_code"`
	Email        string `json:"email"`
	Position     string `json:"position"`
	DepartmentID *int64 `json:"department_id,omitempty"`
	HireDate     string `json:"hire_date"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	// Employee Code
	if validator.IsEmpty(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code is required",
		})
	} else if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code may only contain letters, numbers and dashes (2-20 characters)",
		})
	}

	// Email
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(validator.NormalizeEmail(r.Email)) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	// Position
	if validator.IsEmpty(r.Position) {
		errs = append(errs, validator.ValidationError{
			Field:   "position",
			Message: "position is required",
		})
	}

	// Hire Date
	if validator.IsEmpty(r.HireDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "hire_date",
			Message: "hire_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.HireDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "hire_date",
			Message: "hire_date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateEmployeeRequest struct {
	ID           int64   `json:"-"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	Email        *string `json:"email,omitempty"`
	Position     *string `json:"position,omitempty"`
	DepartmentID *int64  `json:"department_id,omitempty"`
	// ClearDepartment unsets the department reference
	ClearDepartment bool    `json:"clear_department,omitempty"`
	HireDate        *string `json:"hire_date,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.EmployeeCode != nil && !validator.IsValidEmployeeCode(*r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code may only contain letters, numbers and dashes (2-20 characters)",
		})
	}

	if r.Email != nil && !validator.IsValidEmail(validator.NormalizeEmail(*r.Email)) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if r.Position != nil && validator.IsEmpty(*r.Position) {
		errs = append(errs, validator.ValidationError{
			Field:   "position",
			Message: "position must not be empty",
		})
	}

	if r.HireDate != nil {
		if _, ok := validator.IsValidDate(*r.HireDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "hire_date",
				Message: "hire_date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.DepartmentID != nil && r.ClearDepartment {
		errs = append(errs, validator.ValidationError{
			Field:   "department_id",
			Message: "department_id and clear_department are mutually exclusive",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
