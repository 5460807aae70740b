package fixtures

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-portal-go/internal/domain/account"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/department"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/password"
	"github.com/cmlabs-hris/hris-portal-go/internal/repository/store"
)

// ==========================================
// DEFAULT ADMIN
// ==========================================

const (
	AdminEmail     = "admin@example.com"
	AdminPassword  = "Password123!"
	adminFirstName = "Admin"
	adminLastName  = "User"
)

// ==========================================
// DEFAULT DEPARTMENTS
// ==========================================

// DefaultDepartments are created on first start.
var DefaultDepartments = []string{"Engineering", "HR"}

// PortalDefaults returns the seeder for an empty or unreadable store: one
// verified admin account and the default departments, no employees or requests.
func PortalDefaults(hasher password.Hasher) store.Seeder {
	return func(now time.Time) (store.Document, error) {
		hash, err := hasher.Hash(AdminPassword)
		if err != nil {
			return store.Document{}, fmt.Errorf("failed to hash default admin password: %w", err)
		}

		base := now.UnixMilli()
		doc := store.Document{
			Accounts: []account.Account{{
				ID:           base,
				FirstName:    adminFirstName,
				LastName:     adminLastName,
				Email:        AdminEmail,
				PasswordHash: hash,
				Role:         account.RoleAdmin,
				Verified:     true,
				CreatedAt:    now,
			}},
			Departments: make([]department.Department, 0, len(DefaultDepartments)),
			Employees:   nil,
			Requests:    nil,
		}
		for i, name := range DefaultDepartments {
			doc.Departments = append(doc.Departments, department.Department{
				ID:        base + int64(i) + 1,
				Name:      name,
				CreatedAt: now,
			})
		}
		return doc, nil
	}
}
