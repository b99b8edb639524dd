package project

import (
	"context"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

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

// MockCustomerRepository only implements the lookups the project service uses.
// The remaining methods panic if called.
type MockCustomerRepository struct {
	mock.Mock
	partner.CustomerRepository
}

func (m *MockCustomerRepository) FindByIDs(ctx context.Context, ids []uint) ([]partner.Customer, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}
