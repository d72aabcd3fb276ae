package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/adsaga-console/internal/session"
)

type initiateReq struct {
	Email string `json:"email" form:"email"`
}

type verifyReq struct {
	OTP string `json:"otp" form:"otp"`
}

type completeReq struct {
	Fullname        string `json:"fullname" form:"fullname"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

// RegisterPage renders the wizard at its current step.
func (h *Handler) RegisterPage(c echo.Context) error {
	return h.render(c, "Register", entry(c).Wizard.View(), nil)
}

// RegisterInitiate sends the verification code.
func (h *Handler) RegisterInitiate(c echo.Context) error {
	var req initiateReq
	if err := c.Bind(&req); err != nil {
		return bad(c, "invalid body")
	}
	w := entry(c).Wizard
	return h.step(c, w, w.Initiate(c.Request().Context(), req.Email), "Verification code sent to your email")
}

// RegisterVerify checks the code.
func (h *Handler) RegisterVerify(c echo.Context) error {
	var req verifyReq
	if err := c.Bind(&req); err != nil {
		return bad(c, "invalid body")
	}
	w := entry(c).Wizard
	return h.step(c, w, w.Verify(c.Request().Context(), req.OTP), "Email verified")
}

// RegisterComplete creates the account; the client is signed in with it.
func (h *Handler) RegisterComplete(c echo.Context) error {
	var req completeReq
	if err := c.Bind(&req); err != nil {
		return bad(c, "invalid body")
	}
	w := entry(c).Wizard
	err := w.Complete(c.Request().Context(), req.Fullname, req.Password, req.ConfirmPassword)
	if err != nil {
		return h.step(c, w, err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Registration completed successfully",
		"wizard":   w.View(),
		"session":  sessionOf(c),
		"redirect": "/dashboard",
	})
}

// RegisterBack moves the wizard one step back.
func (h *Handler) RegisterBack(c echo.Context) error {
	w := entry(c).Wizard
	w.Back()
	return c.JSON(http.StatusOK, echo.Map{"wizard": w.View()})
}

// RegisterReset starts the wizard over.
func (h *Handler) RegisterReset(c echo.Context) error {
	w := entry(c).Wizard
	w.Reset()
	return c.JSON(http.StatusOK, echo.Map{"wizard": w.View()})
}

func (h *Handler) step(c echo.Context, w *session.Wizard, err error, ok string) error {
	if err != nil {
		body := echo.Map{"message": err.Error(), "wizard": w.View()}
		var in *session.InputError
		if errors.As(err, &in) {
			body["field"] = in.Field
		}
		return c.JSON(statusOf(err), body)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": ok, "wizard": w.View()})
}

type signupReq struct {
	Fullname        string `json:"fullname" form:"fullname"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

// Register creates an account in one call, for backends without the
// verification code flow, and signs the client in with it.
func (h *Handler) Register(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return bad(c, "invalid body")
	}
	email := strings.TrimSpace(req.Email)
	fullname := strings.TrimSpace(req.Fullname)
	if err := session.ValidateSignup(fullname, email, req.Password, req.ConfirmPassword); err != nil {
		return h.fail(c, err)
	}
	ctx := c.Request().Context()
	res, err := h.Auth.Register(ctx, fullname, email, req.Password)
	if err != nil {
		return h.fail(c, err)
	}
	if res.User.Email == "" {
		res.User.Email = email
	}
	if res.User.Fullname == "" {
		res.User.Fullname = fullname
	}
	if err := entry(c).Store.RegisterUser(ctx, res); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Registration completed successfully",
		"session":  sessionOf(c),
		"redirect": "/dashboard",
	})
}
