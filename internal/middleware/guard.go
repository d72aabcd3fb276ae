package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

// PublicPaths are reachable without signing in.  Signed-in clients are sent
// to the dashboard instead.
var PublicPaths = []string{"/login", "/register", "/forgot-password", "/reset-password"}

// Modal names placed in page models.
const ModalCreateOrganisation = "create_organisation"

const ctxModals = "modals"

// RequireAuth gates a route on the session state.  While a sign-in is in
// flight it answers 202 with a loading indicator.  When requireAuth is set
// and the client is anonymous it redirects to /login, carrying the original
// path in "from".  When requireAuth is not set and the client is signed in
// it redirects to /.
func RequireAuth(requireAuth bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			entry := Entry(c)
			if entry == nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "client identity missing"})
			}
			snap := entry.Store.Snapshot()
			switch {
			case snap.Loading:
				return c.JSON(http.StatusAccepted, echo.Map{"loading": true})
			case requireAuth && !snap.IsAuthenticated:
				return c.Redirect(http.StatusSeeOther, LoginURL(c.Request().URL.RequestURI()))
			case !requireAuth && snap.IsAuthenticated:
				return c.Redirect(http.StatusSeeOther, "/")
			}
			return next(c)
		}
	}
}

// AuthWrapper is the console-wide gate.  Public paths and the paths below
// them behave like RequireAuth(false), every other path like
// RequireAuth(true).
func AuthWrapper(public ...string) echo.MiddlewareFunc {
	if len(public) == 0 {
		public = PublicPaths
	}
	anon, authed := RequireAuth(false), RequireAuth(true)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		anonNext, authedNext := anon(next), authed(next)
		return func(c echo.Context) error {
			if isPublic(c.Request().URL.Path, public) {
				return anonNext(c)
			}
			return authedNext(c)
		}
	}
}

func isPublic(path string, public []string) bool {
	for _, p := range public {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// OrganisationCheck flags the create-organisation modal for a signed-in
// user without an organisation.  The page itself is still served.
func OrganisationCheck() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if entry := Entry(c); entry != nil {
				snap := entry.Store.Snapshot()
				if snap.IsAuthenticated && !snap.User.HasOrganisation() {
					c.Set(ctxModals, []string{ModalCreateOrganisation})
				}
			}
			return next(c)
		}
	}
}

// Modals returns the modals flagged for this request.
func Modals(c echo.Context) []string {
	m, _ := c.Get(ctxModals).([]string)
	return m
}

// LoginURL is the login page remembering where the client was headed.
func LoginURL(from string) string {
	if from == "" || from == "/" || from == "/login" {
		return "/login"
	}
	return "/login?from=" + url.QueryEscape(from)
}
