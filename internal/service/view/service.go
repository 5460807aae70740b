// Package view supplies the render callbacks the router runs when a location is entered.
package view

import (
	"context"

	"github.com/cmlabs-hris/hris-portal-go/internal/domain/account"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/department"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-portal-go/internal/router"
	"github.com/cmlabs-hris/hris-portal-go/internal/session"
)

type HomeView struct {
	Authenticated bool `json:"authenticated"`
}

type EmployeesView struct {
	Employees   []employee.EmployeeResponse     `json:"employees"`
	Departments []department.DepartmentResponse `json:"departments"`
}

type AccountsView struct {
	Accounts []account.AccountResponse `json:"accounts"`
	Roles    []account.Role            `json:"roles"`
}

type DepartmentsView struct {
	Departments []department.DepartmentResponse `json:"departments"`
}

type RequestsView struct {
	Requests []request.RequestResponse `json:"requests"`
	Types    []string                  `json:"types,omitempty"`
}

type Services struct {
	Auth        auth.AuthService
	Accounts    account.AccountService
	Departments department.DepartmentService
	Employees   employee.EmployeeService
	Requests    request.RequestService
}

// Register installs a render callback for every location that shows data.
func Register(r *router.Router, svc Services) {
	r.Render(router.Home, func(ctx context.Context, s *session.Session) (any, error) {
		return HomeView{Authenticated: s.IsAuthenticated()}, nil
	})

	r.Render(router.Profile, func(ctx context.Context, s *session.Session) (any, error) {
		return svc.Auth.Profile(ctx, s)
	})

	r.Render(router.Employees, func(ctx context.Context, s *session.Session) (any, error) {
		employees, err := svc.Employees.ListEmployees(ctx)
		if err != nil {
			return nil, err
		}
		departments, err := svc.Departments.List(ctx)
		if err != nil {
			return nil, err
		}
		return EmployeesView{Employees: employees, Departments: departments}, nil
	})

	r.Render(router.Accounts, func(ctx context.Context, s *session.Session) (any, error) {
		accounts, err := svc.Accounts.List(ctx)
		if err != nil {
			return nil, err
		}
		return AccountsView{Accounts: accounts, Roles: []account.Role{account.RoleUser, account.RoleAdmin}}, nil
	})

	r.Render(router.Departments, func(ctx context.Context, s *session.Session) (any, error) {
		departments, err := svc.Departments.List(ctx)
		if err != nil {
			return nil, err
		}
		return DepartmentsView{Departments: departments}, nil
	})

	r.Render(router.AdminRequests, func(ctx context.Context, s *session.Session) (any, error) {
		all, err := svc.Requests.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		return RequestsView{Requests: all}, nil
	})

	r.Render(router.MyRequests, func(ctx context.Context, s *session.Session) (any, error) {
		identity, ok := s.Identity()
		if !ok {
			return nil, auth.ErrNotAuthenticated
		}
		mine, err := svc.Requests.ListMine(ctx, identity)
		if err != nil {
			return nil, err
		}
		return RequestsView{Requests: mine, Types: request.Types}, nil
	})
}
