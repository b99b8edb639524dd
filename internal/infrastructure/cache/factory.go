package cache

import (
	"context"
	"fmt"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore builds the store selected by cfg.Backend. When Redis
// is unreachable it logs a warning and falls back to memory, since keys only
// guard against client retries.
func NewIdempotencyStore(ctx context.Context, cfg config.IdempotencyConfig, logger *zap.Logger) (shared.IdempotencyStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Backend {
	case config.IdempotencyBackendMemory, "":
		logger.Info("Using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(0), nil

	case config.IdempotencyBackendRedis:
		store, err := NewRedisIdempotencyStore(ctx, RedisConfig{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Warn("Redis unavailable, falling back to in-memory idempotency store",
				zap.String("addr", cfg.RedisAddr()),
				zap.Error(err),
			)
			return NewInMemoryIdempotencyStore(0), nil
		}
		logger.Info("Using Redis idempotency store", zap.String("addr", cfg.RedisAddr()))
		return store, nil

	default:
		return nil, fmt.Errorf("unknown idempotency backend %q", cfg.Backend)
	}
}
