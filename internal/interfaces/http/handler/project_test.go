package handler

import (
	"fmt"
	"net/http"
	"testing"

	partnerapp "github.com/crm/backend/internal/application/partner"
	projectapp "github.com/crm/backend/internal/application/project"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customerIDsOf(p projectapp.ProjectResponse) []uint {
	return lo.Map(p.Customers, func(c partnerapp.CustomerResponse, _ int) uint { return c.ID })
}

func TestProjectHandler_Store(t *testing.T) {
	s := newTestServer(t)
	a := s.createCustomer(t, "A", "a@example.com", "Wellington")

	t.Run("created with customers", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/projects", map[string]any{
			"name":         "Alpha",
			"description":  "first",
			"customer_ids": []uint{a.ID},
		})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resp := decode[projectapp.ProjectEnvelope](t, w)
		assert.Equal(t, "Project created successfully!", resp.Message)
		assert.Equal(t, "Alpha", resp.Project.Name)
		require.NotNil(t, resp.Project.Description)
		assert.Equal(t, "first", *resp.Project.Description)
		assert.Equal(t, []uint{a.ID}, customerIDsOf(resp.Project))
	})

	t.Run("unknown customer id", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/projects", map[string]any{
			"name":         "Beta",
			"customer_ids": []uint{a.ID, 999},
		})

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decode[dto.ErrorResponse](t, w)
		assert.Equal(t, []string{"The selected customer_ids.1 is invalid."}, resp.Errors["customer_ids.1"])
	})

	t.Run("name required", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/projects", map[string]any{"description": "x"})

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decode[dto.ErrorResponse](t, w)
		assert.Equal(t, []string{"The name field is required."}, resp.Errors["name"])
	})
}

func TestProjectHandler_UpdateSync(t *testing.T) {
	s := newTestServer(t)
	x := s.createCustomer(t, "X", "x@example.com", "Wellington")
	y := s.createCustomer(t, "Y", "y@example.com", "Wellington")
	z := s.createCustomer(t, "Z", "z@example.com", "Wellington")
	p := s.createProject(t, "Alpha", x.ID, y.ID)
	path := fmt.Sprintf("/api/projects/%d", p.ID)

	w := s.do(t, http.MethodPut, path, map[string]any{"name": "Alpha", "customer_ids": []uint{y.ID, z.ID}})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[projectapp.ProjectEnvelope](t, w)
	assert.Equal(t, "Project updated successfully!", resp.Message)
	assert.ElementsMatch(t, []uint{y.ID, z.ID}, customerIDsOf(resp.Project))

	t.Run("omitting customer_ids keeps the set", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, path, map[string]any{"name": "Renamed"})

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[projectapp.ProjectEnvelope](t, w)
		assert.Equal(t, "Renamed", resp.Project.Name)
		assert.ElementsMatch(t, []uint{y.ID, z.ID}, customerIDsOf(resp.Project))
	})

	t.Run("null customer_ids is rejected", func(t *testing.T) {
		w := s.do(t, http.MethodPut, path, `{"name":"Renamed","customer_ids":null}`)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decode[dto.ErrorResponse](t, w)
		assert.Equal(t, []string{"The customer_ids must be an array."}, resp.Errors["customer_ids"])

		show := decode[projectapp.ProjectEnvelope](t, s.do(t, http.MethodGet, path, nil))
		assert.ElementsMatch(t, []uint{y.ID, z.ID}, customerIDsOf(show.Project))
	})

	t.Run("empty list detaches everyone", func(t *testing.T) {
		w := s.do(t, http.MethodPut, path, map[string]any{"name": "Renamed", "customer_ids": []uint{}})

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[projectapp.ProjectEnvelope](t, w)
		assert.Empty(t, resp.Project.Customers)
	})

	t.Run("unknown id", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/api/projects/999", map[string]any{"name": "x"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestProjectHandler_UpdateDescription(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/projects", map[string]any{"name": "Alpha", "description": "keep me"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	path := fmt.Sprintf("/api/projects/%d", decode[projectapp.ProjectEnvelope](t, w).Project.ID)

	t.Run("omitting description keeps it", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, path, map[string]any{"name": "Renamed"})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decode[projectapp.ProjectEnvelope](t, w)
		assert.Equal(t, "Renamed", resp.Project.Name)
		require.NotNil(t, resp.Project.Description)
		assert.Equal(t, "keep me", *resp.Project.Description)
	})

	t.Run("new description replaces it", func(t *testing.T) {
		w := s.do(t, http.MethodPut, path, map[string]any{"name": "Renamed", "description": "fresh"})

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[projectapp.ProjectEnvelope](t, w)
		require.NotNil(t, resp.Project.Description)
		assert.Equal(t, "fresh", *resp.Project.Description)
	})

	t.Run("null clears it", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, path, `{"name":"Renamed","description":null}`)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[projectapp.ProjectEnvelope](t, w)
		assert.Nil(t, resp.Project.Description)
	})
}

func TestProjectHandler_ShowIndexDestroy(t *testing.T) {
	s := newTestServer(t)
	a := s.createCustomer(t, "A", "a@example.com", "Wellington")
	p := s.createProject(t, "Alpha", a.ID)
	s.createProject(t, "Beta")
	path := fmt.Sprintf("/api/projects/%d", p.ID)

	w := s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	shown := decode[projectapp.ProjectEnvelope](t, w)
	assert.Empty(t, shown.Message)
	assert.Equal(t, "Alpha", shown.Project.Name)
	assert.Equal(t, []uint{a.ID}, customerIDsOf(shown.Project))

	w = s.do(t, http.MethodGet, "/api/projects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]projectapp.ProjectResponse](t, w), 2)

	w = s.do(t, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Project deleted successfully!"}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, nil).Code)
	// the customer survives the project
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, fmt.Sprintf("/api/customers/%d", a.ID), nil).Code)
}
