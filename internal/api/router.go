package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/research-tracker/dashboard/internal/api/handler"
	"github.com/research-tracker/dashboard/internal/api/middleware"
	"github.com/research-tracker/dashboard/internal/core/ports"
	"github.com/research-tracker/dashboard/internal/core/service"

	_ "github.com/research-tracker/dashboard/docs"
)

// Dependencies are the collaborators the dashboard routes need.
type Dependencies struct {
	Session    ports.SessionManager
	Guard      *service.AccessGuard
	Projects   ports.ProjectAPI
	Milestones ports.MilestoneAPI
	Documents  ports.DocumentAPI
	Users      ports.UserAPI
	Log        zerolog.Logger
}

// Register mounts the dashboard routes on e. Infrastructure routes
// (/health, /metrics) are expected to be registered already and stay
// outside the access guard.
func Register(e *echo.Echo, d Dependencies) {
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Session, d.Guard, d.Log)
	projectHandler := handler.NewProjectHandler(d.Projects, d.Guard)
	milestoneHandler := handler.NewMilestoneHandler(d.Projects, d.Milestones, d.Guard)
	documentHandler := handler.NewDocumentHandler(d.Projects, d.Documents, d.Guard)
	adminHandler := handler.NewAdminHandler(d.Users)

	requireRoute := func(path string) echo.MiddlewareFunc {
		r, _ := d.Guard.RouteFor(path)
		return middleware.RequireRoles(d.Guard, r.Roles...)
	}

	// --- Session introspection and logout (outside the redirect protocol) ---
	e.GET("/api/session", authHandler.Session)
	e.GET("/api/menu", authHandler.Menu)
	e.POST("/logout", authHandler.Logout)

	// --- Guarded dashboard ---
	g := e.Group("", middleware.Guard(d.Session, d.Guard))

	g.GET("/", func(c echo.Context) error { return c.Redirect(http.StatusSeeOther, service.LandingPath) })
	g.GET("/login", authHandler.LoginPage)
	g.POST("/login", authHandler.Login)
	g.GET("/register", authHandler.RegisterPage)
	g.POST("/register", authHandler.Register)

	projects := g.Group("/projects", requireRoute("/projects"))
	projects.GET("", projectHandler.List)
	projects.GET("/:id", projectHandler.Get)
	projects.POST("", projectHandler.Create, middleware.RequireRoles(d.Guard, service.ManageProjects...))
	projects.PUT("/:id", projectHandler.Update, middleware.RequireRoles(d.Guard, service.ManageProjects...))
	projects.PATCH("/:id/status", projectHandler.UpdateStatus, middleware.RequireRoles(d.Guard, service.ManageProjects...))
	projects.DELETE("/:id", projectHandler.Delete, middleware.RequireRoles(d.Guard, service.DeleteProjects...))

	milestones := g.Group("/milestones", requireRoute("/milestones"))
	milestones.GET("", milestoneHandler.List)
	milestones.POST("", milestoneHandler.Create, middleware.RequireRoles(d.Guard, service.ManageMilestones...))
	milestones.PUT("/:id", milestoneHandler.Update, middleware.RequireRoles(d.Guard, service.ManageMilestones...))
	milestones.PATCH("/:id/completed", milestoneHandler.SetCompleted, middleware.RequireRoles(d.Guard, service.ManageMilestones...))
	milestones.DELETE("/:id", milestoneHandler.Delete, middleware.RequireRoles(d.Guard, service.ManageMilestones...))

	documents := g.Group("/documents", requireRoute("/documents"))
	documents.GET("", documentHandler.List)
	documents.DELETE("/:id", documentHandler.Delete, middleware.RequireRoles(d.Guard, service.DeleteDocuments...))

	admin := g.Group("/admin", requireRoute("/admin"))
	admin.GET("", adminHandler.Users)
	admin.POST("/users", adminHandler.CreateUser)
	admin.PUT("/users/:id", adminHandler.UpdateUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
}
