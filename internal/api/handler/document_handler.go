package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/research-tracker/dashboard/internal/core/domain"
	"github.com/research-tracker/dashboard/internal/core/ports"
	"github.com/research-tracker/dashboard/internal/core/service"
)

type DocumentHandler struct {
	projects  ports.ProjectAPI
	documents ports.DocumentAPI
	guard     Guard
}

func NewDocumentHandler(projects ports.ProjectAPI, documents ports.DocumentAPI, guard Guard) *DocumentHandler {
	return &DocumentHandler{projects: projects, documents: documents, guard: guard}
}

// List returns the documents page for a project.
//
// @Summary      List documents
// @Tags         documents
// @Produce      json
// @Param        projectId  query     string  false  "Project ID (defaults to the first project)"
// @Success      200        {object}  documentsView
// @Router       /documents [get]
func (h *DocumentHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	projects, selected, err := selectProject(ctx, h.projects, c.QueryParam("projectId"))
	if err != nil {
		return err
	}

	documents := []domain.Document{}
	if selected != "" {
		if documents, err = h.documents.ListDocuments(ctx, selected); err != nil {
			return err
		}
		if documents == nil {
			documents = []domain.Document{}
		}
	}

	return c.JSON(http.StatusOK, documentsView{
		Projects:          projects,
		SelectedProjectID: selected,
		Documents:         documents,
		Actions:           documentActions{Delete: h.guard.Permit(service.DeleteDocuments...)},
	})
}

// Delete removes a document.
//
// @Summary      Delete document
// @Tags         documents
// @Param        id   path  string  true  "Document ID"
// @Success      204
// @Router       /documents/{id} [delete]
func (h *DocumentHandler) Delete(c echo.Context) error {
	if err := h.documents.DeleteDocument(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
