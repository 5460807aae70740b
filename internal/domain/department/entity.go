package department

import "time"

type Department struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (d *Department) Key() int64 {
	return d.ID
}

func (d *Department) Stamp(id int64, createdAt time.Time) {
	d.ID = id
	d.CreatedAt = createdAt
}
