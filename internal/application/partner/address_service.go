package partner

import (
	"context"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// AddressService handles address reads and single-address deletes
type AddressService struct {
	addressRepo     partner.AddressRepository
	customerRepo    partner.CustomerRepository
	businessMetrics *telemetry.BusinessMetrics
}

// NewAddressService creates a new AddressService
func NewAddressService(addressRepo partner.AddressRepository, customerRepo partner.CustomerRepository) *AddressService {
	return &AddressService{
		addressRepo:  addressRepo,
		customerRepo: customerRepo,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *AddressService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Delete removes one address
func (s *AddressService) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "AddressService", "Delete",
		attribute.Int64("address.id", int64(id)))
	defer endSpan(span, &err)

	if err := s.addressRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.businessMetrics.RecordAddressChanges(ctx, 0, 0, 1)
	return nil
}

// ListByCustomer returns a customer's addresses
func (s *AddressService) ListByCustomer(ctx context.Context, customerID uint) (_ *CustomerAddressesResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "AddressService", "ListByCustomer",
		attribute.Int64("customer.id", int64(customerID)))
	defer endSpan(span, &err)

	if _, err := s.customerRepo.FindByID(ctx, customerID, false); err != nil {
		return nil, err
	}
	addresses, err := s.addressRepo.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &CustomerAddressesResponse{Addresses: ToAddressResponses(addresses)}, nil
}
