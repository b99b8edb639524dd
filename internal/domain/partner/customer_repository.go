package partner

import (
	"context"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by its ID, optionally with its addresses
	FindByID(ctx context.Context, id uint, includeAddresses bool) (*Customer, error)

	// FindAll finds all customers ordered by ID
	FindAll(ctx context.Context, includeAddresses bool) ([]Customer, error)

	// Search finds customers whose name or email contains query.
	// An empty query returns all customers.
	Search(ctx context.Context, query string, includeAddresses bool) ([]Customer, error)

	// FindByIDs finds the customers among ids that exist
	FindByIDs(ctx context.Context, ids []uint) ([]Customer, error)

	// ExistsByEmail checks if any customer has the given email
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create inserts the customer and its addresses in one transaction
	Create(ctx context.Context, customer *Customer) error

	// Update saves the customer's fields and applies the address plan in one transaction
	Update(ctx context.Context, customer *Customer, plan AddressPlan) error

	// Delete removes the customer, its addresses and its project links in one transaction
	Delete(ctx context.Context, id uint) error
}

// AddressRepository defines the interface for address persistence
type AddressRepository interface {
	// FindByID finds an address by its ID
	FindByID(ctx context.Context, id uint) (*Address, error)

	// FindByCustomerID loads a customer's addresses
	FindByCustomerID(ctx context.Context, customerID uint) ([]Address, error)

	// Delete deletes a single address
	Delete(ctx context.Context, id uint) error
}

// StatusRepository reads the status lookup table
type StatusRepository interface {
	FindAll(ctx context.Context) ([]Status, error)
}
