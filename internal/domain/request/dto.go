package request

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/validator"
)

type RequestResponse struct {
	ID             int64      `json:"id"`
	RequesterEmail string     `json:"requester_email"`
	Type           string     `json:"type"`
	Items          []LineItem `json:"items"`
	Status         string     `json:"status"`
	Date           string     `json:"date"`
	CreatedAt      string     `json:"created_at"`
}

func NewRequestResponse(r Request) RequestResponse {
	items := make([]LineItem, len(r.Items))
	copy(items, r.Items)
	return RequestResponse{
		ID:             r.ID,
		RequesterEmail: r.RequesterEmail,
		Type:           r.Type,
		Items:          items,
		Status:         string(r.Status),
		Date:           r.Date,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
}

type LineItemInput struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type SubmitRequest struct {
	Type  string          `json:"type"`
	Items []LineItemInput `json:"items"`
}

// NamedItems returns the rows with a name, trimmed, in form order. Blank rows are dropped.
func (r *SubmitRequest) NamedItems() []LineItem {
	var items []LineItem
	for _, in := range r.Items {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			continue
		}
		items = append(items, LineItem{Name: name, Quantity: in.Quantity})
	}
	return items
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Type) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type is required",
		})
	}

	items := r.NamedItems()
	if len(items) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "items",
			Message: "at least one item is required",
		})
	}
	for i, item := range items {
		if item.Quantity < 1 {
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "quantity must be at least 1",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
