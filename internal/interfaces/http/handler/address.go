package handler

import (
	partnerapp "github.com/crm/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// AddressHandler handles address endpoints
type AddressHandler struct {
	BaseHandler
	addressService *partnerapp.AddressService
}

// NewAddressHandler creates a new AddressHandler
func NewAddressHandler(addressService *partnerapp.AddressService) *AddressHandler {
	return &AddressHandler{addressService: addressService}
}

// ListByCustomer returns {addresses} of one customer
//
// GET /api/customers/:id/addresses
func (h *AddressHandler) ListByCustomer(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	resp, err := h.addressService.ListByCustomer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Destroy deletes a single address
//
// DELETE /api/addresses/:id
func (h *AddressHandler) Destroy(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.addressService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Address is deleted!")
}
