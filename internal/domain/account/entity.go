package account

import "time"

type Role string

const (
	RoleUser  Role = "user"  // Submits and tracks their own requests
	RoleAdmin Role = "admin" // Manages accounts, employees, departments and approves requests
)

type Account struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         Role      `json:"role"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a *Account) Key() int64 {
	return a.ID
}

func (a *Account) Stamp(id int64, createdAt time.Time) {
	a.ID = id
	a.CreatedAt = createdAt
}

// IsAdmin checks if account has the admin role
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a *Account) FullName() string {
	return a.FirstName + " " + a.LastName
}

// Identity is the authenticated account a session acts as.
type Identity struct {
	AccountID int64
	Email     string
	FirstName string
	LastName  string
	Role      Role
}

func NewIdentity(a Account) Identity {
	return Identity{
		AccountID: a.ID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Role:      a.Role,
	}
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

func IsValidRole(role string) bool {
	return Role(role) == RoleUser || Role(role) == RoleAdmin
}
