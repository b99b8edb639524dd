package partner

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/project"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Messages for the storage-backed email rules
const (
	EmailTakenMessage   = "The email has already been taken."
	EmailUnknownMessage = "The selected email is invalid."
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo    partner.CustomerRepository
	projectRepo     project.ProjectRepository
	businessMetrics *telemetry.BusinessMetrics
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, projectRepo project.ProjectRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		projectRepo:  projectRepo,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *CustomerService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create validates the request, rejects a taken email and stores the customer
// with its addresses
func (s *CustomerService) Create(ctx context.Context, req CustomerRequest) (_ *CustomerWithAddressesResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "CustomerService", "Create")
	defer endSpan(span, &err)

	in := req.toInput().Normalize()
	verr := in.Validate()
	if _, bad := verr.Fields["email"]; !bad {
		exists, err := s.customerRepo.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			verr.Add("email", EmailTakenMessage)
		}
	}
	if verr.HasErrors() {
		return nil, verr
	}

	customer, err := partner.NewCustomer(in)
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, emailTaken()
		}
		return nil, err
	}

	s.businessMetrics.RecordCustomerCreated(ctx)
	span.SetAttributes(attribute.Int64("customer.id", int64(customer.ID)))

	resp := ToCustomerWithAddressesResponse(*customer)
	return &resp, nil
}

// Update replaces the customer's fields and reconciles its addresses against
// the submitted list. The email only has to belong to some customer.
func (s *CustomerService) Update(ctx context.Context, id uint, req CustomerRequest) (_ *CustomerWithAddressesResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "CustomerService", "Update",
		attribute.Int64("customer.id", int64(id)))
	defer endSpan(span, &err)

	customer, err := s.customerRepo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}

	in := req.toInput().Normalize()
	verr := in.Validate()
	if _, bad := verr.Fields["email"]; !bad {
		exists, err := s.customerRepo.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if !exists {
			verr.Add("email", EmailUnknownMessage)
		}
	}
	if verr.HasErrors() {
		return nil, verr
	}

	if err := customer.UpdateDetails(in); err != nil {
		return nil, err
	}
	plan := partner.ReconcileAddresses(customer.ID, customer.Addresses, in.Addresses)

	if err := s.customerRepo.Update(ctx, customer, plan); err != nil {
		// the email belongs to another customer
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, emailTaken()
		}
		return nil, err
	}
	s.businessMetrics.RecordAddressChanges(ctx, len(plan.Updates), len(plan.Creates), len(plan.Deletes))

	updated, err := s.customerRepo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerWithAddressesResponse(*updated)
	return &resp, nil
}

// Show returns the customer and its addresses side by side
func (s *CustomerService) Show(ctx context.Context, id uint) (_ *ShowCustomerResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "CustomerService", "Show",
		attribute.Int64("customer.id", int64(id)))
	defer endSpan(span, &err)

	customer, err := s.customerRepo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	return &ShowCustomerResponse{
		Customer:  ToCustomerResponse(*customer),
		Addresses: ToAddressResponses(customer.Addresses),
	}, nil
}

// List returns every customer with its addresses
func (s *CustomerService) List(ctx context.Context) (_ []CustomerWithAddressesResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "CustomerService", "List")
	defer endSpan(span, &err)

	customers, err := s.customerRepo.FindAll(ctx, true)
	if err != nil {
		return nil, err
	}
	return lo.Map(customers, func(c partner.Customer, _ int) CustomerWithAddressesResponse {
		return ToCustomerWithAddressesResponse(c)
	}), nil
}

// Search returns customers whose name or email contains query. An empty
// query matches everyone.
func (s *CustomerService) Search(ctx context.Context, query string) (_ *SearchCustomersResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "CustomerService", "Search",
		attribute.String("search.query", query))
	defer endSpan(span, &err)

	customers, err := s.customerRepo.Search(ctx, query, false)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("search.results", len(customers)))
	return &SearchCustomersResponse{Customers: ToCustomerResponses(customers)}, nil
}

// Delete removes the customer together with its addresses and project links
func (s *CustomerService) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "CustomerService", "Delete",
		attribute.Int64("customer.id", int64(id)))
	defer endSpan(span, &err)

	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.businessMetrics.RecordCustomerDeleted(ctx)
	return nil
}

// ListProjects returns the projects the customer is attached to
func (s *CustomerService) ListProjects(ctx context.Context, id uint) (_ *CustomerProjectsResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "CustomerService", "ListProjects",
		attribute.Int64("customer.id", int64(id)))
	defer endSpan(span, &err)

	if _, err := s.customerRepo.FindByID(ctx, id, false); err != nil {
		return nil, err
	}
	projects, err := s.projectRepo.FindByCustomerID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CustomerProjectsResponse{
		Projects: lo.Map(projects, func(p project.Project, _ int) ProjectSummaryResponse {
			return ToProjectSummaryResponse(p)
		}),
	}, nil
}

func emailTaken() *shared.ValidationError {
	verr := shared.NewValidationError()
	verr.Add("email", EmailTakenMessage)
	return verr
}

func endSpan(span trace.Span, err *error) {
	telemetry.RecordError(span, *err)
	span.End()
}
