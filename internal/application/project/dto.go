package project

import (
	"bytes"
	"encoding/json"
	"time"

	partnerapp "github.com/crm/backend/internal/application/partner"
	"github.com/crm/backend/internal/domain/project"
)

// ProjectRequest is the body of both create and update. On update an absent
// description or customer_ids leaves the stored value alone; an empty
// customer_ids list detaches every customer.
type ProjectRequest struct {
	Name        string           `json:"name" binding:"required,max=255"`
	Description Optional[string] `json:"description"`
	CustomerIDs Optional[[]uint] `json:"customer_ids"`
}

// Optional is a request field that remembers whether its key was sent.
// An explicit null sets both Set and Null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a present, non-null field
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// UnmarshalJSON is only invoked when the key is present
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// Ptr returns nil for an absent or null field
func (o Optional[T]) Ptr() *T {
	if !o.Set || o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// ProjectResponse represents a project with its customers
type ProjectResponse struct {
	ID          uint                          `json:"id"`
	Name        string                        `json:"name"`
	Description *string                       `json:"description"`
	CreatedAt   time.Time                     `json:"created_at"`
	UpdatedAt   time.Time                     `json:"updated_at"`
	Customers   []partnerapp.CustomerResponse `json:"customers"`
}

// ProjectEnvelope wraps a project, with a confirmation message on writes
type ProjectEnvelope struct {
	Message string          `json:"message,omitempty"`
	Project ProjectResponse `json:"project"`
}

// ToProjectResponse converts a domain Project and its loaded customers
func ToProjectResponse(p project.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Customers:   partnerapp.ToCustomerResponses(p.Customers),
	}
}
