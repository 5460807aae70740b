package department

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-portal-go/internal/domain/department"
	"github.com/cmlabs-hris/hris-portal-go/internal/repository/store"
)

type DepartmentServiceImpl struct {
	store *store.Store
}

func NewDepartmentService(st *store.Store) department.DepartmentService {
	return &DepartmentServiceImpl{store: st}
}

// List implements department.DepartmentService.
func (s *DepartmentServiceImpl) List(ctx context.Context) ([]department.DepartmentResponse, error) {
	var departments []department.Department
	_ = s.store.Read(func() error {
		departments = s.store.Departments.List()
		return nil
	})

	responses := make([]department.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		responses = append(responses, department.NewDepartmentResponse(d))
	}
	return responses, nil
}

// Create implements department.DepartmentService.
func (s *DepartmentServiceImpl) Create(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	var created department.Department
	err := s.store.Mutate(ctx, func() error {
		var err error
		created, err = s.store.Departments.Insert(department.Department{
			Name:        strings.TrimSpace(req.Name),
			Description: trimmed(req.Description),
		})
		return err
	})
	if err != nil {
		return department.DepartmentResponse{}, fmt.Errorf("failed to create department: %w", err)
	}

	return department.NewDepartmentResponse(created), nil
}

// Update implements department.DepartmentService.
func (s *DepartmentServiceImpl) Update(ctx context.Context, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	var updated department.Department
	err := s.store.Mutate(ctx, func() error {
		var err error
		updated, err = s.store.Departments.Update(req.ID, func(d *department.Department) error {
			if req.Name != nil {
				d.Name = strings.TrimSpace(*req.Name)
			}
			if req.Description != nil {
				d.Description = trimmed(req.Description)
			}
			return nil
		})
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return department.DepartmentResponse{}, department.ErrDepartmentNotFound
		}
		return department.DepartmentResponse{}, fmt.Errorf("failed to update department: %w", err)
	}

	return department.NewDepartmentResponse(updated), nil
}

// Delete implements department.DepartmentService. Employees keep their
// reference and show no department afterwards.
func (s *DepartmentServiceImpl) Delete(ctx context.Context, id int64) error {
	err := s.store.Mutate(ctx, func() error {
		return s.store.Departments.Delete(id)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return department.ErrDepartmentNotFound
		}
		return fmt.Errorf("failed to delete department: %w", err)
	}
	return nil
}

// trimmed returns nil for blank descriptions.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
