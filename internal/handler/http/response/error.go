package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hris-portal-go/internal/domain/account"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/department"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-portal-go/internal/repository/store"
	"github.com/cmlabs-hris/hris-portal-go/internal/router"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password.")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrNotAuthenticated):
		SetNext(w, router.Login)
		Unauthorized(w, "Please log in")
	case errors.Is(err, auth.ErrEmailNotVerified):
		Forbidden(w, "Email not verified")
	case errors.Is(err, auth.ErrNoPendingVerification):
		SetNext(w, router.Register)
		BadRequest(w, "No email is waiting for verification", nil)
	case errors.Is(err, auth.ErrInvalidCode):
		ValidationError(w, map[string]string{"code": "Incorrect code. Please try again."})
	case errors.Is(err, auth.ErrTooManyCodeAttempts):
		ValidationError(w, map[string]string{"code": "Too many incorrect attempts. Request a new code."})

	// Account domain errors
	case errors.Is(err, account.ErrEmailExists):
		Conflict(w, "An account with that email already exists.")
	case errors.Is(err, account.ErrSelfDelete):
		Conflict(w, "You cannot delete your own account.")
	case errors.Is(err, account.ErrAccountInUse):
		Conflict(w, "Account is still linked to an employee record.")
	case errors.Is(err, account.ErrAdminPrivilegeRequired):
		Forbidden(w, router.MessageAdminsOnly)
	case errors.Is(err, account.ErrAccountNotFound):
		notFound(w, "Account not found.")

	// Department domain errors
	case errors.Is(err, department.ErrDepartmentNotFound):
		notFound(w, "Department not found.")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		notFound(w, "Employee not found.")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrAccountNotFound):
		ValidationError(w, map[string]string{"email": "No account found with that email."})
	case errors.Is(err, employee.ErrDepartmentNotFound):
		ValidationError(w, map[string]string{"department_id": "Department not found."})

	// Request domain errors
	case errors.Is(err, request.ErrRequestNotFound):
		notFound(w, "Request not found.")
	case errors.Is(err, request.ErrRequestAlreadyProcessed):
		Conflict(w, "Request already processed")
	case errors.Is(err, request.ErrNotRequestOwner):
		Forbidden(w, "Request belongs to another account")

	// Store errors that escaped a service
	case errors.Is(err, store.ErrDuplicateKey):
		Conflict(w, "Duplicate record")
	case errors.Is(err, store.ErrNotFound):
		notFound(w, "Record not found.")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

// notFound abandons the action: the client is told and sent back to the current view.
func notFound(w http.ResponseWriter, message string) {
	Notifier(w).Notify(message, router.SeverityDanger)
	NotFound(w, message)
}
