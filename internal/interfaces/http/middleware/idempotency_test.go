package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type mockIdempotencyStore struct {
	mock.Mock
}

func (m *mockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdempotencyStore) Forget(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

func newIdempotentRouter(cfg IdempotencyConfig, status *int) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.POST("/customers", Idempotency(cfg), func(c *gin.Context) {
		c.JSON(*status, gin.H{"ok": *status < 300})
	})
	return router
}

func postWithKey(router *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(`{}`))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency(t *testing.T) {
	t.Run("rejects a repeated key", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore(time.Minute)
		defer store.Close()
		status := http.StatusCreated
		router := newIdempotentRouter(IdempotencyConfig{Store: store, TTL: time.Hour}, &status)

		first := postWithKey(router, "abc")
		second := postWithKey(router, "abc")
		other := postWithKey(router, "def")

		assert.Equal(t, http.StatusCreated, first.Code)
		assert.Equal(t, http.StatusConflict, second.Code)
		assert.Contains(t, second.Body.String(), `"code":"DUPLICATE_REQUEST"`)
		assert.Contains(t, second.Body.String(), `"message":"Duplicate request"`)
		assert.Equal(t, http.StatusCreated, other.Code)
	})

	t.Run("requests without key pass through", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore(time.Minute)
		defer store.Close()
		status := http.StatusCreated
		router := newIdempotentRouter(IdempotencyConfig{Store: store}, &status)

		assert.Equal(t, http.StatusCreated, postWithKey(router, "").Code)
		assert.Equal(t, http.StatusCreated, postWithKey(router, "").Code)
	})

	t.Run("failed request releases the key", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore(time.Minute)
		defer store.Close()
		status := http.StatusUnprocessableEntity
		router := newIdempotentRouter(IdempotencyConfig{Store: store}, &status)

		assert.Equal(t, http.StatusUnprocessableEntity, postWithKey(router, "retry").Code)

		status = http.StatusCreated
		assert.Equal(t, http.StatusCreated, postWithKey(router, "retry").Code)
		assert.Equal(t, http.StatusConflict, postWithKey(router, "retry").Code)
	})

	t.Run("store failure fails open", func(t *testing.T) {
		store := new(mockIdempotencyStore)
		store.On("MarkProcessed", mock.Anything, "POST /customers k", 24*time.Hour).
			Return(false, errors.New("redis down"))
		core, logs := observer.New(zap.WarnLevel)
		status := http.StatusCreated
		router := newIdempotentRouter(IdempotencyConfig{Store: store, Logger: zap.New(core)}, &status)

		w := postWithKey(router, "k")

		assert.Equal(t, http.StatusCreated, w.Code)
		require.Equal(t, 1, logs.FilterMessage("Idempotency store unavailable").Len())
		store.AssertExpectations(t)
	})

	t.Run("nil store disables the check", func(t *testing.T) {
		status := http.StatusCreated
		router := newIdempotentRouter(IdempotencyConfig{}, &status)

		assert.Equal(t, http.StatusCreated, postWithKey(router, "x").Code)
		assert.Equal(t, http.StatusCreated, postWithKey(router, "x").Code)
	})
}
