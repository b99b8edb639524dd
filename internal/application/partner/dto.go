package partner

import (
	"time"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/project"
	"github.com/samber/lo"
)

// =============================================================================
// Customer DTOs
// =============================================================================

// AddressRequest is one entry of a customer's submitted address list.
// ID refers to an existing address when set.
type AddressRequest struct {
	ID     *uint  `json:"id"`
	No     string `json:"no" binding:"required,max=255"`
	Street string `json:"street" binding:"required,max=255"`
	City   string `json:"city" binding:"required,max=255"`
	State  string `json:"state" binding:"required,max=255"`
}

// CustomerRequest is the body of both create and update
type CustomerRequest struct {
	Name      string           `json:"name" binding:"required,max=255"`
	Email     string           `json:"email" binding:"required,email,max=255"`
	Company   string           `json:"company" binding:"required,max=255"`
	Contact   string           `json:"contact" binding:"required,max=255"`
	Country   string           `json:"country" binding:"required,max=255"`
	Addresses []AddressRequest `json:"addresses" binding:"required,min=1,dive"`
}

func (r CustomerRequest) toInput() partner.CustomerInput {
	return partner.CustomerInput{
		Name:    r.Name,
		Email:   r.Email,
		Company: r.Company,
		Contact: r.Contact,
		Country: r.Country,
		Addresses: lo.Map(r.Addresses, func(a AddressRequest, _ int) partner.AddressInput {
			return partner.AddressInput{ID: a.ID, No: a.No, Street: a.Street, City: a.City, State: a.State}
		}),
	}
}

// AddressResponse represents an address in API responses
type AddressResponse struct {
	ID         uint      `json:"id"`
	CustomerID uint      `json:"customer_id"`
	No         string    `json:"no"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CustomerResponse represents a customer without its relations
type CustomerResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	Contact   string    `json:"contact"`
	Country   string    `json:"country"`
	StatusID  uint      `json:"status_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerWithAddressesResponse is a customer with its addresses inlined
type CustomerWithAddressesResponse struct {
	CustomerResponse
	Addresses []AddressResponse `json:"addresses"`
}

// ShowCustomerResponse is the body of GET /customers/:id
type ShowCustomerResponse struct {
	Customer  CustomerResponse  `json:"customer"`
	Addresses []AddressResponse `json:"addresses"`
}

// SearchCustomersResponse wraps search results
type SearchCustomersResponse struct {
	Customers []CustomerResponse `json:"customers"`
}

// CustomerAddressesResponse wraps a customer's addresses
type CustomerAddressesResponse struct {
	Addresses []AddressResponse `json:"addresses"`
}

// ProjectSummaryResponse is a project listed from the customer side
type ProjectSummaryResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CustomerProjectsResponse wraps a customer's projects
type CustomerProjectsResponse struct {
	Projects []ProjectSummaryResponse `json:"projects"`
}

// StatusResponse represents a status lookup row
type StatusResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ToAddressResponse converts a domain Address to AddressResponse
func ToAddressResponse(a partner.Address) AddressResponse {
	return AddressResponse{
		ID:         a.ID,
		CustomerID: a.CustomerID,
		No:         a.No,
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// ToAddressResponses converts addresses. The result is never nil.
func ToAddressResponses(addresses []partner.Address) []AddressResponse {
	return lo.Map(addresses, func(a partner.Address, _ int) AddressResponse {
		return ToAddressResponse(a)
	})
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Company:   c.Company,
		Contact:   c.Contact,
		Country:   c.Country,
		StatusID:  c.StatusID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToCustomerResponses converts customers. The result is never nil.
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	return lo.Map(customers, func(c partner.Customer, _ int) CustomerResponse {
		return ToCustomerResponse(c)
	})
}

// ToCustomerWithAddressesResponse converts a customer and its loaded addresses
func ToCustomerWithAddressesResponse(c partner.Customer) CustomerWithAddressesResponse {
	return CustomerWithAddressesResponse{
		CustomerResponse: ToCustomerResponse(c),
		Addresses:        ToAddressResponses(c.Addresses),
	}
}

// ToProjectSummaryResponse converts a domain Project without its customers
func ToProjectSummaryResponse(p project.Project) ProjectSummaryResponse {
	return ProjectSummaryResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
