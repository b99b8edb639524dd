package handler

import (
	partnerapp "github.com/crm/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// StatusHandler serves the status lookup table
type StatusHandler struct {
	BaseHandler
	statusService *partnerapp.StatusService
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(statusService *partnerapp.StatusService) *StatusHandler {
	return &StatusHandler{statusService: statusService}
}

// Index lists every status
//
// GET /api/statuses
func (h *StatusHandler) Index(c *gin.Context) {
	statuses, err := h.statusService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, statuses)
}
