package partner

import (
	"context"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uint, includeAddresses bool) (*partner.Customer, error) {
	args := m.Called(ctx, id, includeAddresses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, includeAddresses bool) ([]partner.Customer, error) {
	args := m.Called(ctx, includeAddresses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Search(ctx context.Context, query string, includeAddresses bool) ([]partner.Customer, error) {
	args := m.Called(ctx, query, includeAddresses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDs(ctx context.Context, ids []uint) ([]partner.Customer, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *partner.Customer, plan partner.AddressPlan) error {
	args := m.Called(ctx, customer, plan)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAddressRepository is a mock implementation of AddressRepository
type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) FindByID(ctx context.Context, id uint) (*partner.Address, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Address), args.Error(1)
}

func (m *MockAddressRepository) FindByCustomerID(ctx context.Context, customerID uint) ([]partner.Address, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Address), args.Error(1)
}

func (m *MockAddressRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockStatusRepository is a mock implementation of StatusRepository
type MockStatusRepository struct {
	mock.Mock
}

func (m *MockStatusRepository) FindAll(ctx context.Context) ([]partner.Status, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Status), args.Error(1)
}

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uint, includeCustomers bool) (*project.Project, error) {
	args := m.Called(ctx, id, includeCustomers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindAll(ctx context.Context, includeCustomers bool) ([]project.Project, error) {
	args := m.Called(ctx, includeCustomers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindByCustomerID(ctx context.Context, customerID uint) ([]project.Project, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Project), args.Error(1)
}

func (m *MockProjectRepository) CustomerIDs(ctx context.Context, projectID uint) ([]uint, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockProjectRepository) LoadCustomers(ctx context.Context, projectID uint) ([]partner.Customer, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockProjectRepository) Create(ctx context.Context, p *project.Project, customerIDs []uint) error {
	args := m.Called(ctx, p, customerIDs)
	return args.Error(0)
}

func (m *MockProjectRepository) Update(ctx context.Context, p *project.Project, plan *project.CustomerSyncPlan) error {
	args := m.Called(ctx, p, plan)
	return args.Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var (
	_ partner.CustomerRepository = (*MockCustomerRepository)(nil)
	_ partner.AddressRepository  = (*MockAddressRepository)(nil)
	_ partner.StatusRepository   = (*MockStatusRepository)(nil)
	_ project.ProjectRepository  = (*MockProjectRepository)(nil)
)
