package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/adsaga-console/internal/middleware"
	"github.com/iliyamo/adsaga-console/internal/model"
	"github.com/iliyamo/adsaga-console/internal/session"
	"github.com/iliyamo/adsaga-console/internal/theme"
)

type passwordReq struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type themeReq struct {
	Theme string `json:"theme" form:"theme"`
}

// SettingsPage shows the profile and the subscription tiers.
func (h *Handler) SettingsPage(c echo.Context) error {
	subs, err := h.Subscriptions.List(c.Request().Context())
	if subs == nil {
		subs = []model.Subscription{}
	}
	return h.render(c, "Settings", echo.Map{"user": sessionOf(c).User, "subscriptions": subs}, err)
}

// UpdateProfile saves the signed-in user's name and email through the user
// service and then merges them into the cached user.  The user is not
// fetched again.
func (h *Handler) UpdateProfile(c echo.Context) error {
	var req userReq
	if err := c.Bind(&req); err != nil {
		return bad(c, "invalid body")
	}
	upd, msg := req.update()
	if msg != "" {
		return bad(c, msg)
	}
	me := sessionOf(c).User
	if me == nil {
		return h.fail(c, session.ErrNotAuthenticated)
	}
	if _, err := h.Users.Update(c.Request().Context(), me.UserID, upd); err != nil {
		return h.fail(c, err)
	}
	entry(c).Store.UpdateUser(model.UserPatch{Fullname: &upd.Fullname, Email: &upd.Email})
	return c.JSON(http.StatusOK, echo.Map{"message": "Profile updated successfully!", "session": sessionOf(c)})
}

// ChangePassword validates the form only.  The backend has no endpoint for
// it yet.
func (h *Handler) ChangePassword(c echo.Context) error {
	var req passwordReq
	if err := c.Bind(&req); err != nil {
		return bad(c, "invalid body")
	}
	switch {
	case req.NewPassword != req.ConfirmPassword:
		return bad(c, "New passwords do not match")
	case len(req.NewPassword) < session.MinPasswordLength:
		return bad(c, "New password must be at least 6 characters long")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password change functionality will be implemented with backend support"})
}

// ToggleTheme flips dark mode, or sets it when "theme" is given.  An empty
// body toggles.
func (h *Handler) ToggleTheme(c echo.Context) error {
	var req themeReq
	if err := c.Bind(&req); err != nil {
		return bad(c, "invalid body")
	}
	switch req.Theme {
	case "", theme.Dark, theme.Light:
	default:
		return bad(c, `theme must be "dark" or "light"`)
	}
	t := middleware.Theme(c)
	ctx := c.Request().Context()

	var (
		dark bool
		err  error
	)
	switch req.Theme {
	case theme.Dark, theme.Light:
		dark, err = t.Set(ctx, req.Theme == theme.Dark)
	default:
		dark, err = t.Toggle(ctx)
	}
	if err != nil {
		h.Log.Warn("theme: persist failed", "client", middleware.ClientID(c), "err", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"dark_mode": dark, "root_class": theme.RootClass(dark)})
}
