package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/adsaga-console/internal/session"
)

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	From     string `json:"from" form:"from"`
}

type forgotReq struct {
	Email string `json:"email" form:"email"`
}

// LoginPage renders the sign-in form.  "from" is echoed back so the form
// can return the user where they were headed.
// LoginPage drops the error left by an earlier attempt.
func (h *Handler) LoginPage(c echo.Context) error {
	entry(c).Store.ClearError()
	return h.render(c, "Login", echo.Map{"from": localPath(c.QueryParam("from"), "")}, nil)
}

// Login signs the client in.  The session keeps the error of a failed
// attempt, which is also returned to the form.
func (h *Handler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return bad(c, "invalid body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return bad(c, "Email and password are required")
	}

	store := entry(c).Store
	if err := store.Login(c.Request().Context(), req.Email, req.Password); err != nil {
		return c.JSON(statusOf(err), echo.Map{"message": err.Error(), "session": store.Snapshot()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Login successful",
		"redirect": localPath(req.From, "/dashboard"),
		"session":  store.Snapshot(),
	})
}

// Logout always ends the session, even when the backend call fails.
func (h *Handler) Logout(c echo.Context) error {
	e := entry(c)
	if err := e.Store.Logout(c.Request().Context()); err != nil {
		h.Log.Warn("logout: clear persisted token", "client", e.Store.ClientID(), "err", err)
	}
	e.Wizard.Reset()
	return c.JSON(http.StatusOK, echo.Map{"redirect": "/login"})
}

func (h *Handler) ForgotPasswordPage(c echo.Context) error {
	return h.render(c, "Forgot password", echo.Map{"submitted": false}, nil)
}

// ForgotPassword asks the backend to mail a reset link.  A failure keeps
// the form open.
func (h *Handler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil {
		return bad(c, "invalid body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		return bad(c, "Email is required")
	}
	if err := h.Auth.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		h.Log.Warn("forgot password failed", "err", err)
		return c.JSON(statusOf(err), echo.Map{"submitted": false, "message": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"submitted": true, "email": req.Email})
}

// Session returns the client's session snapshot.
func (h *Handler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"session": entry(c).Store.Snapshot()})
}

// sessionOf is the snapshot of the client behind c.
func sessionOf(c echo.Context) session.Snapshot { return entry(c).Store.Snapshot() }
