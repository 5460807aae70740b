package employee

import "time"

// NoDepartment is shown for employees without a (still existing) department.
const NoDepartment = "—"

type Employee struct {
	ID           int64     `json:"id"`
	EmployeeCode string    `json:"employee_code"`
	Email        string    `json:"email"`
	Position     string    `json:"position"`
	DepartmentID *int64    `json:"department_id,omitempty"`
	HireDate     string    `json:"hire_date"`
	CreatedAt    time.Time `json:"created_at"`
}

func (e *Employee) Key() int64 {
	return e.ID
}

func (e *Employee) Stamp(id int64, createdAt time.Time) {
	e.ID = id
	e.CreatedAt = createdAt
}
