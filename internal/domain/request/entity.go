package request

import "time"

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Types offered by the submission form. Other non-empty labels are accepted.
var Types = []string{"Equipment", "Leave", "Resources"}

type LineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type Request struct {
	ID             int64      `json:"id"`
	RequesterEmail string     `json:"requester_email"`
	Type           string     `json:"type"`
	Items          []LineItem `json:"items"`
	Status         Status     `json:"status"`
	Date           string     `json:"date"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (r *Request) Key() int64 {
	return r.ID
}

func (r *Request) Stamp(id int64, createdAt time.Time) {
	r.ID = id
	r.CreatedAt = createdAt
}

// IsPending checks if the request can still be approved or rejected
func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}
