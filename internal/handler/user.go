package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/adsaga-console/internal/model"
)

type userReq struct {
	Fullname string `json:"fullname" form:"fullname"`
	Email    string `json:"email" form:"email"`
}

func (r userReq) update() (model.UserUpdate, string) {
	u := model.UserUpdate{Fullname: strings.TrimSpace(r.Fullname), Email: strings.TrimSpace(r.Email)}
	switch {
	case u.Fullname == "":
		return u, "Full name is required"
	case u.Email == "":
		return u, "Email is required"
	}
	return u, ""
}

func (h *Handler) UsersPage(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if users == nil {
		users = []model.User{}
	}
	return h.render(c, "Users", echo.Map{"users": users}, err)
}

// UserByEmail looks a user up by email address.
func (h *Handler) UserByEmail(c echo.Context) error {
	u, err := h.Users.GetByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

func (h *Handler) UpdateUser(c echo.Context) error {
	var req userReq
	if err := c.Bind(&req); err != nil {
		return bad(c, "invalid body")
	}
	upd, msg := req.update()
	if msg != "" {
		return bad(c, msg)
	}
	id := model.ID(c.Param("id"))
	if _, err := h.Users.Update(c.Request().Context(), id, upd); err != nil {
		return h.fail(c, err)
	}
	// editing yourself from the users list keeps the cached user in step
	if me := sessionOf(c).User; me != nil && me.UserID == id {
		entry(c).Store.UpdateUser(model.UserPatch{Fullname: &upd.Fullname, Email: &upd.Email})
	}
	return h.refetchUsers(c, "User updated successfully")
}

func (h *Handler) DeleteUser(c echo.Context) error {
	if err := h.Users.Delete(c.Request().Context(), model.ID(c.Param("id"))); err != nil {
		return h.fail(c, err)
	}
	return h.refetchUsers(c, "User deleted successfully")
}

func (h *Handler) refetchUsers(c echo.Context, msg string) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	if users == nil {
		users = []model.User{}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg, "users": users})
}

func (h *Handler) UserDetail(c echo.Context) error {
	u, err := h.Users.Get(c.Request().Context(), model.ID(c.Param("id")))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

// CurrentUser asks the backend for the signed-in user.  The session's
// cached copy is left alone.
func (h *Handler) CurrentUser(c echo.Context) error {
	u, err := h.Users.Me(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}
