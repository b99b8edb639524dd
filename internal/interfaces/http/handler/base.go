package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response with body as-is
func (h *BaseHandler) Success(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, body any) {
	c.JSON(http.StatusCreated, body)
}

// Message sends a 200 response carrying only a confirmation message
func (h *BaseHandler) Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.MessageResponse{Message: message})
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message, middleware.GetRequestID(c)))
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, shared.ErrNotFound.Message)
}

// ValidationFailed sends a 422 response listing messages per field
func (h *BaseHandler) ValidationFailed(c *gin.Context, fields map[string][]string) {
	c.JSON(http.StatusUnprocessableEntity, dto.NewValidationErrorResponse(middleware.GetRequestID(c), fields))
}

// HandleError maps service errors to HTTP responses. Anything that is not a
// validation or domain error is logged and reported as a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var verr *shared.ValidationError
	if errors.As(err, &verr) {
		h.ValidationFailed(c, verr.Fields)
		return
	}

	if errors.Is(err, shared.ErrNotFound) {
		h.NotFound(c)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message)
		return
	}

	logger.GetGinLogger(c).Error("Request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "Internal server error")
}

// BindJSON decodes the body into req and answers 422 on failure. Returns
// false when a response has already been written.
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	if fields, ok := middleware.FormatValidationErrors(err); ok {
		h.ValidationFailed(c, fields)
		return false
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge, "Request body exceeds maximum allowed size")
		return false
	}

	h.ValidationFailed(c, map[string][]string{
		"body": {"The body must be a valid JSON object."},
	})
	return false
}

// ParseID reads the :id path parameter. Non-numeric or zero ids answer 404
// and return false.
func (h *BaseHandler) ParseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		h.NotFound(c)
		return 0, false
	}
	return uint(id), true
}
