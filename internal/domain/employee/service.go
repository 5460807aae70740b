package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// ListEmployees lists employees with their department name resolved
	ListEmployees(ctx context.Context) ([]EmployeeResponse, error)

	// CreateEmployee requires the email to belong to an existing account
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	DeleteEmployee(ctx context.Context, id int64) error
}
