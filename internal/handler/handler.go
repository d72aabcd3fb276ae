package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/adsaga-console/internal/api"
	"github.com/iliyamo/adsaga-console/internal/middleware"
	"github.com/iliyamo/adsaga-console/internal/service"
	"github.com/iliyamo/adsaga-console/internal/session"
	"github.com/iliyamo/adsaga-console/internal/theme"
)

// AppInfo is shown in the navigation shell.
type AppInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Handler bundles the backend services every page and action uses.
type Handler struct {
	App           AppInfo
	Auth          *service.AuthService
	Organisations *service.OrganisationService
	Users         *service.UserService
	Locations     *service.LocationService
	Subscriptions *service.SubscriptionService
	Workflows     *service.WorkflowConfigService
	Log           *slog.Logger
}

// New builds a Handler whose services all talk through client.
func New(app AppInfo, client *api.Client, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		App:           app,
		Auth:          service.NewAuthService(client),
		Organisations: service.NewOrganisationService(client),
		Users:         service.NewUserService(client),
		Locations:     service.NewLocationService(client),
		Subscriptions: service.NewSubscriptionService(client),
		Workflows:     service.NewWorkflowConfigService(client),
		Log:           log,
	}
}

// NavItem is one sidebar entry.
type NavItem struct {
	Name    string `json:"name"`
	Href    string `json:"href"`
	Current bool   `json:"current"`
}

var navigation = []NavItem{
	{Name: "Dashboard", Href: "/"},
	{Name: "Organisations", Href: "/organisation"},
	{Name: "Users", Href: "/users"},
	{Name: "Locations", Href: "/locations"},
	{Name: "Workflow", Href: "/workflow"},
	{Name: "Settings", Href: "/settings"},
}

// aliases of sidebar targets, so the entry stays highlighted
var navAliases = map[string]string{
	"/dashboard":              "/",
	"/dashboard/organisation": "/organisation",
	"/dashboard/users":        "/users",
	"/dashboard/locations":    "/locations",
	"/dashboard/settings":     "/settings",
	"/dashboard/workflow":     "/workflow",
}

func navFor(path string) []NavItem {
	if alias, ok := navAliases[path]; ok {
		path = alias
	}
	out := make([]NavItem, len(navigation))
	for i, item := range navigation {
		item.Current = item.Href == path
		out[i] = item
	}
	return out
}

// Page is the model every page route renders.
type Page struct {
	App       AppInfo          `json:"app"`
	Title     string           `json:"title"`
	RootClass string           `json:"root_class"`
	DarkMode  bool             `json:"dark_mode"`
	Session   session.Snapshot `json:"session"`
	Nav       []NavItem        `json:"nav,omitempty"`
	Modals    []string         `json:"modals,omitempty"`
	Data      any              `json:"data,omitempty"`
	Message   string           `json:"message,omitempty"`
	Error     string           `json:"error,omitempty"`
}

func (h *Handler) page(c echo.Context, title string, data any) Page {
	p := Page{App: h.App, Title: title, Data: data, Modals: middleware.Modals(c)}
	if t := middleware.Theme(c); t != nil {
		p.DarkMode = t.IsDarkMode(c.Request().Context())
		p.RootClass = theme.RootClass(p.DarkMode)
	}
	if e := middleware.Entry(c); e != nil {
		p.Session = e.Store.Snapshot()
		if p.Session.IsAuthenticated {
			p.Nav = navFor(c.Request().URL.Path)
		}
	}
	return p
}

// render writes a page.  A fetch error is shown inline on the page; an
// expired session leaves the page for the login screen instead.
func (h *Handler) render(c echo.Context, title string, data any, err error) error {
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return c.Redirect(http.StatusSeeOther, middleware.LoginURL(c.Request().URL.RequestURI()))
		}
		p := h.page(c, title, data)
		p.Error = err.Error()
		return c.JSON(statusOf(err), p)
	}
	return c.JSON(http.StatusOK, h.page(c, title, data))
}

// fail answers a failed action.  An expired session tells the client to
// navigate to the login screen.
func (h *Handler) fail(c echo.Context, err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": err.Error(), "redirect": "/login"})
	}
	body := echo.Map{"message": err.Error()}
	var in *session.InputError
	if errors.As(err, &in) {
		body["field"] = in.Field
	}
	return c.JSON(statusOf(err), body)
}

// statusOf maps an error to the status the console answers with.  Backend
// client errors pass through; transport and server failures become 502.
func statusOf(err error) int {
	var in *session.InputError
	switch {
	case errors.As(err, &in):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrStep), errors.Is(err, session.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, session.ErrNotAuthenticated), errors.Is(err, api.ErrUnauthorized):
		return http.StatusUnauthorized
	}
	if s := api.StatusOf(err); s >= 400 && s < 500 {
		return s
	}
	return http.StatusBadGateway
}

func bad(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"message": msg})
}

func entry(c echo.Context) *session.Entry { return middleware.Entry(c) }

// localPath accepts only same-origin absolute paths as redirect targets.
func localPath(p, def string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return def
	}
	return p
}
