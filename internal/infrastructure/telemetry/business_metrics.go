package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// BusinessMetrics counts customer and project changes.
// All methods are safe on a nil receiver.
type BusinessMetrics struct {
	customersCreated *Counter
	customersDeleted *Counter
	projectsCreated  *Counter
	projectsDeleted  *Counter
	addressChanges   *Counter
	projectLinks     *Counter
}

// NewBusinessMetrics registers the counters on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	bm := &BusinessMetrics{}
	specs := []struct {
		dst  **Counter
		name string
		desc string
		unit string
	}{
		{&bm.customersCreated, "crm_customer_created_total", "Customers created", "{customers}"},
		{&bm.customersDeleted, "crm_customer_deleted_total", "Customers deleted", "{customers}"},
		{&bm.projectsCreated, "crm_project_created_total", "Projects created", "{projects}"},
		{&bm.projectsDeleted, "crm_project_deleted_total", "Projects deleted", "{projects}"},
		{&bm.addressChanges, "crm_address_changes_total", "Address rows written by customer reconciliation", "{addresses}"},
		{&bm.projectLinks, "crm_project_customer_links_total", "Customer links attached to or detached from projects", "{links}"},
	}
	for _, s := range specs {
		c, err := NewCounter(meter, s.name, s.desc, s.unit)
		if err != nil {
			return nil, err
		}
		*s.dst = c
	}
	return bm, nil
}

// RecordCustomerCreated counts one new customer
func (bm *BusinessMetrics) RecordCustomerCreated(ctx context.Context) {
	if bm == nil {
		return
	}
	bm.customersCreated.Inc(ctx)
}

// RecordCustomerDeleted counts one deleted customer
func (bm *BusinessMetrics) RecordCustomerDeleted(ctx context.Context) {
	if bm == nil {
		return
	}
	bm.customersDeleted.Inc(ctx)
}

// RecordAddressChanges counts the rows touched by one reconciliation
func (bm *BusinessMetrics) RecordAddressChanges(ctx context.Context, updated, created, deleted int) {
	if bm == nil {
		return
	}
	addNonZero(ctx, bm.addressChanges, "update", updated)
	addNonZero(ctx, bm.addressChanges, "create", created)
	addNonZero(ctx, bm.addressChanges, "delete", deleted)
}

// RecordProjectCreated counts one new project
func (bm *BusinessMetrics) RecordProjectCreated(ctx context.Context) {
	if bm == nil {
		return
	}
	bm.projectsCreated.Inc(ctx)
}

// RecordProjectDeleted counts one deleted project
func (bm *BusinessMetrics) RecordProjectDeleted(ctx context.Context) {
	if bm == nil {
		return
	}
	bm.projectsDeleted.Inc(ctx)
}

// RecordProjectLinks counts attached and detached customer links
func (bm *BusinessMetrics) RecordProjectLinks(ctx context.Context, attached, detached int) {
	if bm == nil {
		return
	}
	addNonZero(ctx, bm.projectLinks, "attach", attached)
	addNonZero(ctx, bm.projectLinks, "detach", detached)
}

func addNonZero(ctx context.Context, c *Counter, action string, n int) {
	if n > 0 {
		c.Add(ctx, int64(n), AttrAction.String(action))
	}
}
