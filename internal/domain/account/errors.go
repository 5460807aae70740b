package account

import "errors"

var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrEmailExists            = errors.New("an account with that email already exists")
	ErrSelfDelete             = errors.New("you cannot delete your own account")
	ErrAccountInUse           = errors.New("account is still linked to an employee record")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)
