package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/adsaga-console/internal/model"
)

type dashboardData struct {
	Organisations []model.Organisation `json:"organisations"`
	Stats         dashboardStats       `json:"stats"`
}

type dashboardStats struct {
	Organisations int `json:"organisations"`
	Users         int `json:"users"`
	Locations     int `json:"locations"`
}

// Dashboard greets the user with their organisations.  When the user has
// no organisation yet the create-organisation modal is flagged on top.
func (h *Handler) Dashboard(c echo.Context) error {
	orgs, err := h.Organisations.List(c.Request().Context())
	if orgs == nil {
		orgs = []model.Organisation{}
	}
	return h.render(c, "Dashboard", dashboardData{
		Organisations: orgs,
		Stats:         dashboardStats{Organisations: len(orgs)},
	}, err)
}
