package project

import (
	"context"

	"github.com/crm/backend/internal/domain/partner"
)

// ProjectRepository defines the interface for project persistence
type ProjectRepository interface {
	// FindByID finds a project by its ID, optionally with its customers
	FindByID(ctx context.Context, id uint, includeCustomers bool) (*Project, error)

	// FindAll finds all projects ordered by ID
	FindAll(ctx context.Context, includeCustomers bool) ([]Project, error)

	// FindByCustomerID finds the projects a customer is attached to
	FindByCustomerID(ctx context.Context, customerID uint) ([]Project, error)

	// CustomerIDs returns the IDs of the customers attached to a project
	CustomerIDs(ctx context.Context, projectID uint) ([]uint, error)

	// LoadCustomers returns the customers attached to a project
	LoadCustomers(ctx context.Context, projectID uint) ([]partner.Customer, error)

	// Create inserts the project and attaches the given customers in one transaction
	Create(ctx context.Context, project *Project, customerIDs []uint) error

	// Update saves the project's fields and, when plan is non-nil, applies it
	// in the same transaction
	Update(ctx context.Context, project *Project, plan *CustomerSyncPlan) error

	// Delete detaches all customers and removes the project in one transaction
	Delete(ctx context.Context, id uint) error
}
