package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/research-tracker/dashboard/internal/core/domain"
	"github.com/research-tracker/dashboard/internal/core/ports"
	"github.com/research-tracker/dashboard/internal/core/service"
)

type MilestoneHandler struct {
	projects   ports.ProjectAPI
	milestones ports.MilestoneAPI
	guard      Guard
}

func NewMilestoneHandler(projects ports.ProjectAPI, milestones ports.MilestoneAPI, guard Guard) *MilestoneHandler {
	return &MilestoneHandler{projects: projects, milestones: milestones, guard: guard}
}

// selectProject resolves the project a per-project page shows: the requested
// one, or the first project when none was asked for.
func selectProject(ctx context.Context, api ports.ProjectAPI, requested string) ([]domain.Project, string, error) {
	projects, err := api.ListProjects(ctx)
	if err != nil {
		return nil, "", err
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	if requested != "" {
		return projects, requested, nil
	}
	if len(projects) > 0 {
		return projects, projects[0].ID, nil
	}
	return projects, "", nil
}

// List returns the milestones page for a project.
//
// @Summary      List milestones
// @Tags         milestones
// @Produce      json
// @Param        projectId  query     string  false  "Project ID (defaults to the first project)"
// @Success      200        {object}  milestonesView
// @Router       /milestones [get]
func (h *MilestoneHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	projects, selected, err := selectProject(ctx, h.projects, c.QueryParam("projectId"))
	if err != nil {
		return err
	}

	milestones := []domain.Milestone{}
	if selected != "" {
		if milestones, err = h.milestones.ListMilestones(ctx, selected); err != nil {
			return err
		}
		if milestones == nil {
			milestones = []domain.Milestone{}
		}
	}

	return c.JSON(http.StatusOK, milestonesView{
		Projects:          projects,
		SelectedProjectID: selected,
		Milestones:        milestones,
		Actions:           milestoneActions{Manage: h.guard.Permit(service.ManageMilestones...)},
	})
}

// Create adds a milestone to a project.
//
// @Summary      Create milestone
// @Tags         milestones
// @Accept       json
// @Produce      json
// @Param        body  body      milestoneRequest  true  "Milestone"
// @Success      201   {object}  domain.Milestone
// @Router       /milestones [post]
func (h *MilestoneHandler) Create(c echo.Context) error {
	var req milestoneRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.ProjectID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "projectId is required")
	}
	in := req.input()
	in.Completed = nil
	m, err := h.milestones.CreateMilestone(c.Request().Context(), req.ProjectID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

// Update replaces a milestone.
//
// @Summary      Update milestone
// @Tags         milestones
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "Milestone ID"
// @Param        body  body      milestoneRequest  true  "Milestone"
// @Success      200   {object}  domain.Milestone
// @Router       /milestones/{id} [put]
func (h *MilestoneHandler) Update(c echo.Context) error {
	var req milestoneRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	m, err := h.milestones.UpdateMilestone(c.Request().Context(), c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

// SetCompleted toggles completion. The API replaces milestones wholesale, so
// the current fields are read back and sent along.
//
// @Summary      Mark milestone completed
// @Tags         milestones
// @Accept       json
// @Produce      json
// @Param        id    path      string                     true  "Milestone ID"
// @Param        body  body      milestoneCompletedRequest  true  "Completion"
// @Success      200   {object}  domain.Milestone
// @Failure      404   {object}  map[string]string
// @Router       /milestones/{id}/completed [patch]
func (h *MilestoneHandler) SetCompleted(c echo.Context) error {
	var req milestoneCompletedRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	id := c.Param("id")

	existing, err := h.milestones.ListMilestones(ctx, req.ProjectID)
	if err != nil {
		return err
	}
	for _, m := range existing {
		if m.ID != id {
			continue
		}
		updated, err := h.milestones.UpdateMilestone(ctx, id, ports.MilestoneInput{
			Title:       m.Title,
			Description: m.Description,
			DueDate:     m.DueDate,
			Completed:   req.Completed,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, updated)
	}
	return domain.ErrNotFound
}

// Delete removes a milestone.
//
// @Summary      Delete milestone
// @Tags         milestones
// @Param        id   path  string  true  "Milestone ID"
// @Success      204
// @Router       /milestones/{id} [delete]
func (h *MilestoneHandler) Delete(c echo.Context) error {
	if err := h.milestones.DeleteMilestone(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
