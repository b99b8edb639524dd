package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/project"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CustomerIDsArrayMessage is returned when customer_ids is sent as null
const CustomerIDsArrayMessage = "The customer_ids must be an array."

// ProjectService handles project operations and the project/customer links
type ProjectService struct {
	projectRepo     project.ProjectRepository
	customerRepo    partner.CustomerRepository
	businessMetrics *telemetry.BusinessMetrics
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo project.ProjectRepository, customerRepo partner.CustomerRepository) *ProjectService {
	return &ProjectService{
		projectRepo:  projectRepo,
		customerRepo: customerRepo,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *ProjectService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create stores the project and attaches the requested customers
func (s *ProjectService) Create(ctx context.Context, req ProjectRequest) (_ *ProjectResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ProjectService", "Create")
	defer endSpan(span, &err)

	verr := shared.NewValidationError()
	p, err := project.NewProject(req.Name, req.Description.Ptr())
	if err != nil && !collect(verr, err) {
		return nil, err
	}
	customerIDs := req.CustomerIDs.Value
	if err := s.checkCustomerIDs(ctx, req.CustomerIDs, verr); err != nil {
		return nil, err
	}
	if verr.HasErrors() {
		return nil, verr
	}

	if err := s.projectRepo.Create(ctx, p, customerIDs); err != nil {
		return nil, err
	}
	s.businessMetrics.RecordProjectCreated(ctx)
	s.businessMetrics.RecordProjectLinks(ctx, len(lo.Uniq(customerIDs)), 0)
	span.SetAttributes(attribute.Int64("project.id", int64(p.ID)))

	return s.load(ctx, p.ID)
}

// Update renames the project and, when sent, replaces the description.
// When CustomerIDs is present the linked customers are synced to exactly
// that set.
func (s *ProjectService) Update(ctx context.Context, id uint, req ProjectRequest) (_ *ProjectResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ProjectService", "Update",
		attribute.Int64("project.id", int64(id)))
	defer endSpan(span, &err)

	p, err := s.projectRepo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}

	verr := shared.NewValidationError()
	if err := p.Rename(req.Name); err != nil && !collect(verr, err) {
		return nil, err
	}
	if req.Description.Set {
		p.Describe(req.Description.Ptr())
	}
	if err := s.checkCustomerIDs(ctx, req.CustomerIDs, verr); err != nil {
		return nil, err
	}
	if verr.HasErrors() {
		return nil, verr
	}

	var plan *project.CustomerSyncPlan
	if req.CustomerIDs.Set {
		sync := project.SyncCustomerIDs(p.CustomerIDs(), req.CustomerIDs.Value)
		plan = &sync
	}
	if err := s.projectRepo.Update(ctx, p, plan); err != nil {
		return nil, err
	}
	if plan != nil {
		s.businessMetrics.RecordProjectLinks(ctx, len(plan.Attach), len(plan.Detach))
	}

	return s.load(ctx, id)
}

// Show returns the project with its customers
func (s *ProjectService) Show(ctx context.Context, id uint) (_ *ProjectResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ProjectService", "Show",
		attribute.Int64("project.id", int64(id)))
	defer endSpan(span, &err)

	return s.load(ctx, id)
}

// List returns every project with its customers
func (s *ProjectService) List(ctx context.Context) (_ []ProjectResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ProjectService", "List")
	defer endSpan(span, &err)

	projects, err := s.projectRepo.FindAll(ctx, true)
	if err != nil {
		return nil, err
	}
	return lo.Map(projects, func(p project.Project, _ int) ProjectResponse {
		return ToProjectResponse(p)
	}), nil
}

// Delete detaches every customer and removes the project
func (s *ProjectService) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ProjectService", "Delete",
		attribute.Int64("project.id", int64(id)))
	defer endSpan(span, &err)

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.businessMetrics.RecordProjectDeleted(ctx)
	return nil
}

func (s *ProjectService) load(ctx context.Context, id uint) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	resp := ToProjectResponse(*p)
	return &resp, nil
}

// checkCustomerIDs rejects an explicit null and adds a customer_ids.N error
// for every id that does not reference a stored customer
func (s *ProjectService) checkCustomerIDs(ctx context.Context, field Optional[[]uint], verr *shared.ValidationError) error {
	if field.Null {
		verr.Add("customer_ids", CustomerIDsArrayMessage)
		return nil
	}
	ids := field.Value
	if len(ids) == 0 {
		return nil
	}
	found, err := s.customerRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	known := lo.SliceToMap(found, func(c partner.Customer) (uint, struct{}) { return c.ID, struct{}{} })
	for i, id := range ids {
		if _, ok := known[id]; !ok {
			key := fmt.Sprintf("customer_ids.%d", i)
			verr.Add(key, fmt.Sprintf("The selected %s is invalid.", key))
		}
	}
	return nil
}

// collect merges err into verr when it is a validation error
func collect(verr *shared.ValidationError, err error) bool {
	var fieldErr *shared.ValidationError
	if !errors.As(err, &fieldErr) {
		return false
	}
	verr.Merge(fieldErr)
	return true
}

func endSpan(span trace.Span, err *error) {
	telemetry.RecordError(span, *err)
	span.End()
}
