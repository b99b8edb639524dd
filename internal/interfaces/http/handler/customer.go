package handler

import (
	partnerapp "github.com/crm/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles customer-related API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Index lists every customer with its addresses. With a search query
// parameter (even empty) it returns {customers} matching name or email.
//
// GET /api/customers[?search=q]
func (h *CustomerHandler) Index(c *gin.Context) {
	if query, ok := c.GetQuery("search"); ok {
		resp, err := h.customerService.Search(c.Request.Context(), query)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, resp)
		return
	}

	customers, err := h.customerService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customers)
}

// Store creates a customer with its addresses
//
// POST /api/customers
func (h *CustomerHandler) Store(c *gin.Context) {
	var req partnerapp.CustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// Show returns {customer, addresses}
//
// GET /api/customers/:id
func (h *CustomerHandler) Show(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	resp, err := h.customerService.Show(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update replaces the customer's fields and reconciles its addresses
//
// PUT|PATCH /api/customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req partnerapp.CustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Destroy deletes the customer, its addresses and its project links
//
// DELETE /api/customers/:id
func (h *CustomerHandler) Destroy(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Customer deleted successfully!")
}

// Projects lists the projects the customer belongs to
//
// GET /api/customers/:id/projects
func (h *CustomerHandler) Projects(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	resp, err := h.customerService.ListProjects(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
