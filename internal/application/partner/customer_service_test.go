package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/project"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func newTestCustomerService() (*CustomerService, *MockCustomerRepository, *MockProjectRepository) {
	customerRepo := new(MockCustomerRepository)
	projectRepo := new(MockProjectRepository)
	return NewCustomerService(customerRepo, projectRepo), customerRepo, projectRepo
}

func validCustomerRequest() CustomerRequest {
	return CustomerRequest{
		Name:    "Test Customer",
		Email:   "test@example.com",
		Company: "Test Co",
		Contact: "1234567890",
		Country: "Testland",
		Addresses: []AddressRequest{
			{No: "123", Street: "Test St", City: "Test City", State: "TS"},
		},
	}
}

func existingCustomer() *partner.Customer {
	return &partner.Customer{
		ID:       7,
		Name:     "Old Name",
		Email:    "test@example.com",
		Company:  "Old Co",
		Contact:  "000",
		Country:  "Oldland",
		StatusID: partner.StatusInactiveID,
		Addresses: []partner.Address{
			{ID: 1, CustomerID: 7, No: "1", Street: "A St", City: "A City", State: "AA"},
			{ID: 2, CustomerID: 7, No: "2", Street: "B St", City: "B City", State: "BB"},
		},
	}
}

func requireValidationError(t *testing.T, err error) *shared.ValidationError {
	t.Helper()
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr
}

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates customer with addresses", func(t *testing.T) {
		svc, repo, _ := newTestCustomerService()
		repo.On("ExistsByEmail", mock.Anything, "test@example.com").Return(false, nil)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*partner.Customer")).
			Run(func(args mock.Arguments) {
				c := args.Get(1).(*partner.Customer)
				c.ID = 1
				for i := range c.Addresses {
					c.Addresses[i].ID = uint(i + 1)
					c.Addresses[i].CustomerID = 1
				}
			}).
			Return(nil)

		resp, err := svc.Create(ctx, validCustomerRequest())

		require.NoError(t, err)
		assert.Equal(t, uint(1), resp.ID)
		assert.Equal(t, partner.StatusActiveID, resp.StatusID)
		require.Len(t, resp.Addresses, 1)
		assert.Equal(t, "Test City", resp.Addresses[0].City)
		assert.Equal(t, uint(1), resp.Addresses[0].CustomerID)
		repo.AssertExpectations(t)
	})

	t.Run("trims whitespace before storing", func(t *testing.T) {
		svc, repo, _ := newTestCustomerService()
		req := validCustomerRequest()
		req.Name = "  Padded  "
		req.Email = " test@example.com "
		repo.On("ExistsByEmail", mock.Anything, "test@example.com").Return(false, nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(c *partner.Customer) bool {
			return c.Name == "Padded" && c.Email == "test@example.com"
		})).Return(nil)

		_, err := svc.Create(ctx, req)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("rejects taken email", func(t *testing.T) {
		svc, repo, _ := newTestCustomerService()
		repo.On("ExistsByEmail", mock.Anything, "test@example.com").Return(true, nil)

		resp, err := svc.Create(ctx, validCustomerRequest())

		assert.Nil(t, resp)
		verr := requireValidationError(t, err)
		assert.Equal(t, []string{EmailTakenMessage}, verr.Fields["email"])
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("maps unique violation to taken email", func(t *testing.T) {
		svc, repo, _ := newTestCustomerService()
		repo.On("ExistsByEmail", mock.Anything, "test@example.com").Return(false, nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists)

		_, err := svc.Create(ctx, validCustomerRequest())

		verr := requireValidationError(t, err)
		assert.Equal(t, []string{EmailTakenMessage}, verr.Fields["email"])
	})

	t.Run("rejects empty address list", func(t *testing.T) {
		svc, repo, _ := newTestCustomerService()
		req := validCustomerRequest()
		req.Addresses = nil
		repo.On("ExistsByEmail", mock.Anything, "test@example.com").Return(false, nil)

		_, err := svc.Create(ctx, req)

		verr := requireValidationError(t, err)
		assert.Contains(t, verr.Fields, "addresses")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("collects field errors with dotted keys", func(t *testing.T) {
		svc, _, _ := newTestCustomerService()
		req := validCustomerRequest()
		req.Email = "not-an-email"
		req.Company = ""
		req.Addresses[0].City = ""

		_, err := svc.Create(ctx, req)

		verr := requireValidationError(t, err)
		assert.Equal(t, []string{"The company field is required."}, verr.Fields["company"])
		assert.Equal(t, []string{"The addresses.0.city field is required."}, verr.Fields["addresses.0.city"])
		assert.Contains(t, verr.Fields, "email")
	})

	t.Run("propagates storage errors", func(t *testing.T) {
		svc, repo, _ := newTestCustomerService()
		repo.On("ExistsByEmail", mock.Anything, "test@example.com").Return(false, errors.New("connection refused"))

		_, err := svc.Create(ctx, validCustomerRequest())

		assert.EqualError(t, err, "connection refused")
	})
}

func TestCustomerService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("reconciles addresses and resets status", func(t *testing.T) {
		svc, repo, _ := newTestCustomerService()
		req := validCustomerRequest()
		req.Addresses = []AddressRequest{
			{ID: uintPtr(1), No: "1", Street: "A St", City: "New City", State: "AA"},
			{No: "9", Street: "New St", City: "C City", State: "CC"},
		}

		repo.On("FindByID", mock.Anything, uint(7), true).Return(existingCustomer(), nil).Once()
		repo.On("ExistsByEmail", mock.Anything, "test@example.com").Return(true, nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(c *partner.Customer) bool {
			return c.Name == "Test Customer" && c.StatusID == partner.StatusActiveID
		}), mock.MatchedBy(func(plan partner.AddressPlan) bool {
			return len(plan.Updates) == 1 && plan.Updates[0].ID == 1 && plan.Updates[0].City == "New City" &&
				len(plan.Creates) == 1 && plan.Creates[0].City == "C City" &&
				assert.ObjectsAreEqual([]uint{2}, plan.Deletes)
		})).Return(nil)

		reloaded := existingCustomer()
		reloaded.Name = "Test Customer"
		reloaded.StatusID = partner.StatusActiveID
		repo.On("FindByID", mock.Anything, uint(7), true).Return(reloaded, nil).Once()

		resp, err := svc.Update(ctx, 7, req)

		require.NoError(t, err)
		assert.Equal(t, "Test Customer", resp.Name)
		repo.AssertExpectations(t)
	})

	t.Run("returns not found for unknown customer", func(t *testing.T) {
		svc, repo, _ := newTestCustomerService()
		repo.On("FindByID", mock.Anything, uint(99), true).Return(nil, shared.ErrNotFound)

		_, err := svc.Update(ctx, 99, validCustomerRequest())

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("requires the email to exist", func(t *testing.T) {
		svc, repo, _ := newTestCustomerService()
		req := validCustomerRequest()
		req.Email = "nobody@example.com"
		repo.On("FindByID", mock.Anything, uint(7), true).Return(existingCustomer(), nil)
		repo.On("ExistsByEmail", mock.Anything, "nobody@example.com").Return(false, nil)

		_, err := svc.Update(ctx, 7, req)

		verr := requireValidationError(t, err)
		assert.Equal(t, []string{EmailUnknownMessage}, verr.Fields["email"])
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("maps unique violation to taken email", func(t *testing.T) {
		svc, repo, _ := newTestCustomerService()
		req := validCustomerRequest()
		req.Email = "other@example.com"
		repo.On("FindByID", mock.Anything, uint(7), true).Return(existingCustomer(), nil)
		repo.On("ExistsByEmail", mock.Anything, "other@example.com").Return(true, nil)
		repo.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists)

		_, err := svc.Update(ctx, 7, req)

		verr := requireValidationError(t, err)
		assert.Equal(t, []string{EmailTakenMessage}, verr.Fields["email"])
	})
}

func TestCustomerService_Show(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestCustomerService()
	repo.On("FindByID", mock.Anything, uint(7), true).Return(existingCustomer(), nil)
	repo.On("FindByID", mock.Anything, uint(8), true).Return(nil, shared.ErrNotFound)

	resp, err := svc.Show(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, uint(7), resp.Customer.ID)
	assert.Len(t, resp.Addresses, 2)

	_, err = svc.Show(ctx, 8)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCustomerService_ListAndSearch(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestCustomerService()
	john := partner.Customer{ID: 1, Name: "John Doe", Email: "john@example.com"}
	jane := partner.Customer{ID: 2, Name: "Jane Doe", Email: "jane@example.com", Addresses: []partner.Address{{ID: 5}}}

	repo.On("FindAll", mock.Anything, true).Return([]partner.Customer{john, jane}, nil)
	repo.On("Search", mock.Anything, "John", false).Return([]partner.Customer{john}, nil)
	repo.On("Search", mock.Anything, "nobody", false).Return([]partner.Customer{}, nil)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.NotNil(t, list[0].Addresses)
	assert.Len(t, list[1].Addresses, 1)

	found, err := svc.Search(ctx, "John")
	require.NoError(t, err)
	require.Len(t, found.Customers, 1)
	assert.Equal(t, "John Doe", found.Customers[0].Name)

	none, err := svc.Search(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none.Customers)
	assert.Empty(t, none.Customers)
}

func TestCustomerService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestCustomerService()
	repo.On("Delete", mock.Anything, uint(7)).Return(nil)
	repo.On("Delete", mock.Anything, uint(8)).Return(shared.ErrNotFound)

	assert.NoError(t, svc.Delete(ctx, 7))
	assert.ErrorIs(t, svc.Delete(ctx, 8), shared.ErrNotFound)
}

func TestCustomerService_ListProjects(t *testing.T) {
	ctx := context.Background()

	t.Run("returns linked projects", func(t *testing.T) {
		svc, repo, projectRepo := newTestCustomerService()
		repo.On("FindByID", mock.Anything, uint(7), false).Return(existingCustomer(), nil)
		projectRepo.On("FindByCustomerID", mock.Anything, uint(7)).Return([]project.Project{{ID: 3, Name: "Website"}}, nil)

		resp, err := svc.ListProjects(ctx, 7)

		require.NoError(t, err)
		require.Len(t, resp.Projects, 1)
		assert.Equal(t, "Website", resp.Projects[0].Name)
	})

	t.Run("returns not found for unknown customer", func(t *testing.T) {
		svc, repo, projectRepo := newTestCustomerService()
		repo.On("FindByID", mock.Anything, uint(9), false).Return(nil, shared.ErrNotFound)

		_, err := svc.ListProjects(ctx, 9)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		projectRepo.AssertNotCalled(t, "FindByCustomerID", mock.Anything, mock.Anything)
	})
}
