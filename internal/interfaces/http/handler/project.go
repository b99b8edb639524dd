package handler

import (
	projectapp "github.com/crm/backend/internal/application/project"
	"github.com/gin-gonic/gin"
)

// ProjectHandler handles project endpoints
type ProjectHandler struct {
	BaseHandler
	projectService *projectapp.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *projectapp.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// Index lists every project with its customers
//
// GET /api/projects
func (h *ProjectHandler) Index(c *gin.Context) {
	projects, err := h.projectService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, projects)
}

// Store creates a project and attaches customer_ids
//
// POST /api/projects
func (h *ProjectHandler) Store(c *gin.Context) {
	var req projectapp.ProjectRequest
	if !h.BindJSON(c, &req) {
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, projectapp.ProjectEnvelope{Message: "Project created successfully!", Project: *project})
}

// Show returns {project} with its customers
//
// GET /api/projects/:id
func (h *ProjectHandler) Show(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	project, err := h.projectService.Show(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, projectapp.ProjectEnvelope{Project: *project})
}

// Update renames the project and, when customer_ids is sent, syncs its customers
//
// PUT|PATCH /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req projectapp.ProjectRequest
	if !h.BindJSON(c, &req) {
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, projectapp.ProjectEnvelope{Message: "Project updated successfully!", Project: *project})
}

// Destroy detaches all customers and deletes the project
//
// DELETE /api/projects/:id
func (h *ProjectHandler) Destroy(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Project deleted successfully!")
}
