package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeCodeExists = errors.New("employee code already exists")
	ErrAccountNotFound    = errors.New("no account found with that email")
	ErrDepartmentNotFound = errors.New("department not found")
)
