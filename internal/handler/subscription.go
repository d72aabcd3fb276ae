package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/adsaga-console/internal/model"
)

// SubscriptionList lists the plans an organisation can be created with.
func (h *Handler) SubscriptionList(c echo.Context) error {
	subs, err := h.Subscriptions.List(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	if subs == nil {
		subs = []model.Subscription{}
	}
	return c.JSON(http.StatusOK, echo.Map{"subscriptions": subs})
}

func (h *Handler) SubscriptionDetail(c echo.Context) error {
	sub, err := h.Subscriptions.Get(c.Request().Context(), c.Param("code"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"subscription": sub})
}
