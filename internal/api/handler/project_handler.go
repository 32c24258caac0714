package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/research-tracker/dashboard/internal/core/domain"
	"github.com/research-tracker/dashboard/internal/core/ports"
	"github.com/research-tracker/dashboard/internal/core/service"
)

type ProjectHandler struct {
	api   ports.ProjectAPI
	guard Guard
}

func NewProjectHandler(api ports.ProjectAPI, guard Guard) *ProjectHandler {
	return &ProjectHandler{api: api, guard: guard}
}

func (h *ProjectHandler) actions() projectActions {
	manage := h.guard.Permit(service.ManageProjects...)
	return projectActions{
		Create:       manage,
		Edit:         manage,
		ChangeStatus: manage,
		Delete:       h.guard.Permit(service.DeleteProjects...),
	}
}

// List returns the projects page.
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Success      200  {object}  projectsView
// @Failure      401  {object}  map[string]string
// @Router       /projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	projects, err := h.api.ListProjects(c.Request().Context())
	if err != nil {
		return err
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	return c.JSON(http.StatusOK, projectsView{
		Projects: projects,
		Statuses: domain.ProjectStatuses,
		Actions:  h.actions(),
	})
}

// Get returns one project.
//
// @Summary      Get project
// @Tags         projects
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  projectView
// @Failure      404  {object}  map[string]string
// @Router       /projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	p, err := h.api.GetProject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projectView{Project: p, Actions: h.actions()})
}

// Create adds a project.
//
// @Summary      Create project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        body  body      projectRequest  true  "Project"
// @Success      201   {object}  domain.Project
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	var req projectRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.api.CreateProject(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// Update replaces a project's editable fields.
//
// @Summary      Update project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Project ID"
// @Param        body  body      projectRequest  true  "Project"
// @Success      200   {object}  domain.Project
// @Router       /projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	var req projectRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.api.UpdateProject(c.Request().Context(), c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// UpdateStatus moves a project through its lifecycle.
//
// @Summary      Update project status
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Project ID"
// @Param        body  body      projectStatusRequest  true  "Status"
// @Success      200   {object}  domain.Project
// @Router       /projects/{id}/status [patch]
func (h *ProjectHandler) UpdateStatus(c echo.Context) error {
	var req projectStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := h.api.UpdateProjectStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Delete removes a project.
//
// @Summary      Delete project
// @Tags         projects
// @Param        id   path  string  true  "Project ID"
// @Success      204
// @Router       /projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	if err := h.api.DeleteProject(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
