package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/adsaga-console/internal/api"
	"github.com/iliyamo/adsaga-console/internal/model"
)

type locationReq struct {
	OrganisationID string `json:"organisation_id" form:"organisation_id"`
	Address        string `json:"address" form:"address"`
	City           string `json:"city" form:"city"`
	State          string `json:"state" form:"state"`
	Country        string `json:"country" form:"country"`
}

func (r locationReq) input() model.LocationInput {
	return model.LocationInput{
		Address: strings.TrimSpace(r.Address),
		City:    strings.TrimSpace(r.City),
		State:   strings.TrimSpace(r.State),
		Country: strings.TrimSpace(r.Country),
	}
}

type locationData struct {
	Organisations []model.Organisation         `json:"organisations"`
	Locations     []model.OrganisationLocation `json:"locations"`
}

// loadLocations fetches the organisations and then the locations of each,
// one organisation at a time.  An organisation whose locations cannot be
// fetched is logged and left out; an expired session aborts the whole page.
func (h *Handler) loadLocations(ctx context.Context) (locationData, error) {
	d := locationData{Organisations: []model.Organisation{}, Locations: []model.OrganisationLocation{}}
	orgs, err := h.Organisations.List(ctx)
	if err != nil {
		return d, err
	}
	if orgs != nil {
		d.Organisations = orgs
	}
	for _, org := range d.Organisations {
		locs, err := h.Locations.ListByOrganisation(ctx, org.OrganisationID)
		if err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return d, err
			}
			h.Log.Warn("locations: skip organisation", "organisation_id", org.OrganisationID, "err", err)
			continue
		}
		for _, l := range locs {
			d.Locations = append(d.Locations, model.OrganisationLocation{Location: l, OrganisationName: org.OrganisationName})
		}
	}
	return d, nil
}

func (h *Handler) LocationsPage(c echo.Context) error {
	d, err := h.loadLocations(c.Request().Context())
	return h.render(c, "Locations", d, err)
}

// AllLocations lists every location the backend exposes, unannotated.
func (h *Handler) AllLocations(c echo.Context) error {
	locs, err := h.Locations.ListAll(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	if locs == nil {
		locs = []model.Location{}
	}
	return c.JSON(http.StatusOK, echo.Map{"locations": locs})
}

// CreateLocation adds a location to the organisation picked in the form.
func (h *Handler) CreateLocation(c echo.Context) error {
	var req locationReq
	if err := c.Bind(&req); err != nil {
		return bad(c, "invalid body")
	}
	orgID := model.ID(strings.TrimSpace(req.OrganisationID))
	if orgID == "" {
		return bad(c, "Please select an organisation")
	}
	if _, err := h.Locations.Create(c.Request().Context(), orgID, req.input()); err != nil {
		return h.fail(c, err)
	}
	return h.refetchLocations(c, http.StatusCreated, "Location created successfully")
}

func (h *Handler) UpdateLocation(c echo.Context) error {
	var req locationReq
	if err := c.Bind(&req); err != nil {
		return bad(c, "invalid body")
	}
	if _, err := h.Locations.Update(c.Request().Context(), model.ID(c.Param("id")), req.input()); err != nil {
		return h.fail(c, err)
	}
	return h.refetchLocations(c, http.StatusOK, "Location updated successfully")
}

func (h *Handler) DeleteLocation(c echo.Context) error {
	if err := h.Locations.Delete(c.Request().Context(), model.ID(c.Param("id"))); err != nil {
		return h.fail(c, err)
	}
	return h.refetchLocations(c, http.StatusOK, "Location deleted successfully")
}

func (h *Handler) refetchLocations(c echo.Context, status int, msg string) error {
	d, err := h.loadLocations(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(status, echo.Map{"message": msg, "data": d})
}

func (h *Handler) LocationDetail(c echo.Context) error {
	loc, err := h.Locations.Get(c.Request().Context(), model.ID(c.Param("id")))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"location": loc})
}
