package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/adsaga-console/internal/api"
	"github.com/iliyamo/adsaga-console/internal/session"
	"github.com/iliyamo/adsaga-console/internal/theme"
	"github.com/iliyamo/adsaga-console/internal/utils"
)

// Context keys set by ClientIdentity.
const (
	ctxClientID = "client_id"
	ctxEntry    = "session_entry"
	ctxTheme    = "theme"
)

// ClientConfig controls the identity cookie.
type ClientConfig struct {
	Secret string
	Name   string
	TTL    time.Duration
	Secure bool
}

// ClientIdentity resolves the browser client behind a request.  The client
// is identified by a signed cookie whose subject is a random id; a missing
// or invalid cookie gets a fresh id.  The client's session entry is looked
// up in reg and bound to the request so backend calls carry its token and
// a 401 resets it.
func ClientIdentity(cfg ClientConfig, reg *session.Registry) echo.MiddlewareFunc {
	if cfg.Name == "" {
		cfg.Name = "console_client"
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if ck, err := c.Cookie(cfg.Name); err == nil {
				if sub, err := utils.ParseClientToken(cfg.Secret, ck.Value); err == nil {
					id = sub
				}
			}
			if id == "" {
				id = uuid.NewString()
				tok, err := utils.NewClientToken(cfg.Secret, id, cfg.TTL)
				if err != nil {
					return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not issue client identity"})
				}
				c.SetCookie(&http.Cookie{
					Name:     cfg.Name,
					Value:    tok.Token,
					Path:     "/",
					Expires:  tok.Exp,
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			req := c.Request()
			entry := reg.Get(req.Context(), id)
			c.SetRequest(req.WithContext(api.WithSession(req.Context(), entry.Store)))

			// ask for the colour-scheme hint on subsequent requests
			c.Response().Header().Set("Accept-CH", theme.PreferenceHeader)
			c.Response().Header().Add("Vary", theme.PreferenceHeader)

			c.Set(ctxClientID, id)
			c.Set(ctxEntry, entry)
			c.Set(ctxTheme, theme.New(entry.Local, req.Header.Get(theme.PreferenceHeader)))
			return next(c)
		}
	}
}

// ClientID returns the id resolved by ClientIdentity, or "".
func ClientID(c echo.Context) string {
	s, _ := c.Get(ctxClientID).(string)
	return s
}

// Entry returns the session entry bound by ClientIdentity.
func Entry(c echo.Context) *session.Entry {
	e, _ := c.Get(ctxEntry).(*session.Entry)
	return e
}

// Theme returns the theme store bound by ClientIdentity.
func Theme(c echo.Context) *theme.Store {
	t, _ := c.Get(ctxTheme).(*theme.Store)
	return t
}
