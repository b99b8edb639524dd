package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader is the request header carrying the client's key
const IdempotencyKeyHeader = "Idempotency-Key"

// IdempotencyConfig configures the Idempotency middleware
type IdempotencyConfig struct {
	Store  shared.IdempotencyStore
	TTL    time.Duration
	Logger *zap.Logger
}

// Idempotency rejects a request whose Idempotency-Key was already accepted
// for the same route within TTL. Keys are released again when the handler
// does not answer 2xx, so failed requests can be retried. Requests without
// the header pass through. Store failures fail open.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.Store == nil {
		return passThrough
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		scoped := c.Request.Method + " " + c.FullPath() + " " + key
		ctx := c.Request.Context()

		fresh, err := cfg.Store.MarkProcessed(ctx, scoped, cfg.TTL)
		if err != nil {
			logger.Warn("Idempotency store unavailable",
				zap.String("request_id", GetRequestID(c)),
				zap.Error(err),
			)
			c.Next()
			return
		}
		if !fresh {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponse(
				dto.ErrCodeDuplicateRequest,
				shared.ErrDuplicateRequest.Message,
				GetRequestID(c),
			))
			return
		}

		c.Next()

		if status := c.Writer.Status(); status < 200 || status >= 300 {
			if err := cfg.Store.Forget(context.WithoutCancel(ctx), scoped); err != nil {
				logger.Warn("Failed to release idempotency key",
					zap.String("request_id", GetRequestID(c)),
					zap.Error(err),
				)
			}
		}
	}
}
