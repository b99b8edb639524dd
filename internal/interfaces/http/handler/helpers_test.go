package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	partnerapp "github.com/crm/backend/internal/application/partner"
	projectapp "github.com/crm/backend/internal/application/project"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// testServer wires real services over an in-memory SQLite database
type testServer struct {
	engine *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, persistence.AutoMigrate(db))
	require.NoError(t, persistence.SeedStatuses(context.Background(), db))

	customerRepo := persistence.NewGormCustomerRepository(db)
	addressRepo := persistence.NewGormAddressRepository(db)
	projectRepo := persistence.NewGormProjectRepository(db)
	statusRepo := persistence.NewGormStatusRepository(db)

	customers := NewCustomerHandler(partnerapp.NewCustomerService(customerRepo, projectRepo))
	addresses := NewAddressHandler(partnerapp.NewAddressService(addressRepo, customerRepo))
	projects := NewProjectHandler(projectapp.NewProjectService(projectRepo, customerRepo))
	statuses := NewStatusHandler(partnerapp.NewStatusService(statusRepo))

	engine := gin.New()
	engine.Use(middleware.RequestID())
	api := engine.Group("/api")
	api.GET("/customers", customers.Index)
	api.POST("/customers", customers.Store)
	api.GET("/customers/:id", customers.Show)
	api.PUT("/customers/:id", customers.Update)
	api.PATCH("/customers/:id", customers.Update)
	api.DELETE("/customers/:id", customers.Destroy)
	api.GET("/customers/:id/projects", customers.Projects)
	api.GET("/customers/:id/addresses", addresses.ListByCustomer)
	api.DELETE("/addresses/:id", addresses.Destroy)
	api.GET("/projects", projects.Index)
	api.POST("/projects", projects.Store)
	api.GET("/projects/:id", projects.Show)
	api.PUT("/projects/:id", projects.Update)
	api.PATCH("/projects/:id", projects.Update)
	api.DELETE("/projects/:id", projects.Destroy)
	api.GET("/statuses", statuses.Index)

	return &testServer{engine: engine, db: db}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func customerBody(name, email string, cities ...string) map[string]any {
	addresses := make([]map[string]any, 0, len(cities))
	for i, city := range cities {
		addresses = append(addresses, map[string]any{
			"no":     string(rune('1' + i)),
			"street": "Main St",
			"city":   city,
			"state":  "Test State",
		})
	}
	return map[string]any{
		"name":      name,
		"email":     email,
		"company":   "Test Co",
		"contact":   "123",
		"country":   "X",
		"addresses": addresses,
	}
}

// createCustomer posts a customer and returns the decoded body
func (s *testServer) createCustomer(t *testing.T, name, email string, cities ...string) partnerapp.CustomerWithAddressesResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/customers", customerBody(name, email, cities...))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[partnerapp.CustomerWithAddressesResponse](t, w)
}

func (s *testServer) createProject(t *testing.T, name string, customerIDs ...uint) projectapp.ProjectResponse {
	t.Helper()
	body := map[string]any{"name": name}
	if len(customerIDs) > 0 {
		body["customer_ids"] = customerIDs
	}
	w := s.do(t, http.MethodPost, "/api/projects", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[projectapp.ProjectEnvelope](t, w).Project
}
