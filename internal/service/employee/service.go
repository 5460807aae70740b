package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hris-portal-go/internal/domain/account"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/department"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-portal-go/internal/repository/store"
)

type EmployeeServiceImpl struct {
	store *store.Store
}

func NewEmployeeService(st *store.Store) employee.EmployeeService {
	return &EmployeeServiceImpl{store: st}
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context) ([]employee.EmployeeResponse, error) {
	var responses []employee.EmployeeResponse
	_ = s.store.Read(func() error {
		employees := s.store.Employees.List()
		responses = make([]employee.EmployeeResponse, 0, len(employees))
		for _, e := range employees {
			responses = append(responses, s.toResponse(e))
		}
		return nil
	})
	return responses, nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var resp employee.EmployeeResponse
	err := s.store.Mutate(ctx, func() error {
		email := validator.NormalizeEmail(req.Email)
		if !s.accountExists(email) {
			return employee.ErrAccountNotFound
		}
		if req.DepartmentID != nil && !s.departmentExists(*req.DepartmentID) {
			return employee.ErrDepartmentNotFound
		}

		created, err := s.store.Employees.Insert(employee.Employee{
			EmployeeCode: strings.TrimSpace(req.EmployeeCode),
			Email:        email,
			Position:     strings.TrimSpace(req.Position),
			DepartmentID: req.DepartmentID,
			HireDate:     req.HireDate,
		})
		if err != nil {
			return err
		}
		resp = s.toResponse(created)
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, mapStoreError(err)
	}

	slog.Info("Employee created", "employee_id", resp.ID, "employee_code", resp.EmployeeCode)
	return resp, nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var resp employee.EmployeeResponse
	err := s.store.Mutate(ctx, func() error {
		if req.Email != nil && !s.accountExists(validator.NormalizeEmail(*req.Email)) {
			return employee.ErrAccountNotFound
		}
		if req.DepartmentID != nil && !s.departmentExists(*req.DepartmentID) {
			return employee.ErrDepartmentNotFound
		}

		updated, err := s.store.Employees.Update(req.ID, func(e *employee.Employee) error {
			if req.EmployeeCode != nil {
				e.EmployeeCode = strings.TrimSpace(*req.EmployeeCode)
			}
			if req.Email != nil {
				e.Email = validator.NormalizeEmail(*req.Email)
			}
			if req.Position != nil {
				e.Position = strings.TrimSpace(*req.Position)
			}
			if req.DepartmentID != nil {
				id := *req.DepartmentID
				e.DepartmentID = &id
			}
			if req.ClearDepartment {
				e.DepartmentID = nil
			}
			if req.HireDate != nil {
				e.HireDate = *req.HireDate
			}
			return nil
		})
		if err != nil {
			return err
		}
		resp = s.toResponse(updated)
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, mapStoreError(err)
	}

	return resp, nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id int64) error {
	err := s.store.Mutate(ctx, func() error {
		return s.store.Employees.Delete(id)
	})
	if err != nil {
		return mapStoreError(err)
	}
	return nil
}

// toResponse resolves the account name and department name. Callers hold the store lock.
func (s *EmployeeServiceImpl) toResponse(e employee.Employee) employee.EmployeeResponse {
	var fullName string
	email := validator.NormalizeEmail(e.Email)
	if acc, ok := s.store.Accounts.Find(func(a account.Account) bool {
		return validator.NormalizeEmail(a.Email) == email
	}); ok {
		fullName = acc.FullName()
	}

	deptName := employee.NoDepartment
	if e.DepartmentID != nil {
		if d, err := s.store.Departments.Get(*e.DepartmentID); err == nil {
			deptName = d.Name
		}
	}

	return employee.NewEmployeeResponse(e, fullName, deptName)
}

func (s *EmployeeServiceImpl) accountExists(email string) bool {
	_, ok := s.store.Accounts.Find(func(a account.Account) bool {
		return validator.NormalizeEmail(a.Email) == email
	})
	return ok
}

func (s *EmployeeServiceImpl) departmentExists(id int64) bool {
	_, ok := s.store.Departments.Find(func(d department.Department) bool {
		return d.ID == id
	})
	return ok
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return employee.ErrEmployeeNotFound
	case errors.Is(err, store.ErrDuplicateKey):
		return employee.ErrEmployeeCodeExists
	case errors.Is(err, employee.ErrAccountNotFound), errors.Is(err, employee.ErrDepartmentNotFound):
		return err
	default:
		return fmt.Errorf("employee store: %w", err)
	}
}
