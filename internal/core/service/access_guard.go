package service

import (
	"context"
	"path"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/research-tracker/dashboard/internal/api/metrics"
	"github.com/research-tracker/dashboard/internal/core/domain"
	"github.com/research-tracker/dashboard/internal/core/ports"
)

const (
	LoginPath    = "/login"
	RegisterPath = "/register"
	// LandingPath is where authenticated users land after login.
	LandingPath = "/projects"
)

// Route is a navigable dashboard surface. An empty Roles set means any
// authenticated user.
type Route struct {
	Path  string         `json:"path"`
	Label string         `json:"label"`
	Roles domain.RoleSet `json:"roles,omitempty"`
}

// Routes is the sidebar of the dashboard, in display order.
var Routes = []Route{
	{Path: "/projects", Label: "Projects", Roles: domain.RoleSet{domain.RoleAdmin, domain.RolePI, domain.RoleMember, domain.RoleViewer}},
	{Path: "/milestones", Label: "Milestones", Roles: domain.RoleSet{domain.RoleAdmin, domain.RolePI, domain.RoleMember}},
	{Path: "/documents", Label: "Documents", Roles: domain.RoleSet{domain.RoleAdmin, domain.RolePI, domain.RoleMember, domain.RoleViewer}},
	{Path: "/admin", Label: "Admin", Roles: domain.RoleSet{domain.RoleAdmin}},
}

// Action requirements. The API enforces its own rules; these only decide
// what the dashboard offers.
var (
	ManageProjects   = domain.RoleSet{domain.RoleAdmin, domain.RolePI}
	DeleteProjects   = domain.RoleSet{domain.RoleAdmin}
	ManageMilestones = domain.RoleSet{domain.RoleAdmin, domain.RolePI}
	DeleteDocuments  = domain.RoleSet{domain.RoleAdmin, domain.RolePI}
	ManageUsers      = domain.RoleSet{domain.RoleAdmin}
)

// IsPublicOnly reports whether p is only meant for logged-out users.
func IsPublicOnly(p string) bool {
	switch normalizePath(p) {
	case LoginPath, RegisterPath:
		return true
	}
	return false
}

// Decide applies the redirect protocol to a session phase and a path. It
// never redirects while the session is loading.
func Decide(phase domain.SessionPhase, p string) (target string, redirect bool) {
	public := IsPublicOnly(p)
	switch {
	case phase == domain.PhaseLoading:
		return "", false
	case phase == domain.PhaseAuthenticated && public:
		return LandingPath, true
	case phase == domain.PhaseUnauthenticated && !public:
		return LoginPath, true
	}
	return "", false
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// AccessGuard gates navigation and actions on the session. It tracks the
// location the dashboard is currently showing so that session changes made
// elsewhere (an invalidation seen by the transport) can move it.
type AccessGuard struct {
	session ports.SessionReader
	log     zerolog.Logger

	mu       sync.Mutex
	location string
}

// NewAccessGuard returns a guard reading session.
func NewAccessGuard(session ports.SessionReader, log zerolog.Logger) *AccessGuard {
	return &AccessGuard{
		session:  session,
		log:      log.With().Str("component", "access_guard").Logger(),
		location: "/",
	}
}

// Navigate moves the dashboard to p, applying the redirect protocol. It
// returns the resulting location and whether a redirect happened.
func (g *AccessGuard) Navigate(p string) (string, bool) {
	p = normalizePath(p)

	g.mu.Lock()
	defer g.mu.Unlock()

	target, redirect := Decide(g.session.Phase(), p)
	if !redirect {
		g.location = p
		return p, false
	}
	g.location = target
	metrics.GuardRedirectsTotal.WithLabelValues(target).Inc()
	g.log.Debug().Str("from", p).Str("to", target).Msg("redirect")
	return target, true
}

// Location returns the path the dashboard is currently on.
func (g *AccessGuard) Location() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.location
}

// Permit reports whether the session satisfies required. No requirement
// means any authenticated user.
func (g *AccessGuard) Permit(required ...domain.Role) bool {
	if len(required) == 0 {
		return g.session.IsAuthenticated()
	}
	return g.session.HasRole(required...)
}

// RouteFor looks up the route registered for p.
func (g *AccessGuard) RouteFor(p string) (Route, bool) {
	p = normalizePath(p)
	for _, r := range Routes {
		if r.Path == p {
			return r, true
		}
	}
	return Route{}, false
}

// Menu returns the routes the current user may open.
func (g *AccessGuard) Menu() []Route {
	out := make([]Route, 0, len(Routes))
	for _, r := range Routes {
		if g.Permit(r.Roles...) {
			out = append(out, r)
		}
	}
	return out
}

// HandleSessionEvent is subscribed to the session event bus. An invalidation
// forces the login screen; other changes re-run the redirect protocol on the
// current location.
func (g *AccessGuard) HandleSessionEvent(_ context.Context, ev domain.SessionEvent) {
	g.mu.Lock()
	defer g.mu.Unlock()

	from := g.location
	switch ev.Kind {
	case domain.EventInvalidated:
		g.location = LoginPath
	default:
		if target, redirect := Decide(g.session.Phase(), g.location); redirect {
			g.location = target
		}
	}

	if g.location != from {
		metrics.GuardRedirectsTotal.WithLabelValues(g.location).Inc()
		g.log.Info().
			Str("event", string(ev.Kind)).
			Str("from", from).
			Str("to", g.location).
			Msg("session change moved the dashboard")
	}
}
