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

type organisationReq struct {
	OrganisationName string                `json:"organisation_name" form:"organisation_name"`
	Website          string                `json:"website" form:"website"`
	SubscriptionCode string                `json:"subscription_code" form:"subscription_code"`
	Locations        []model.LocationInput `json:"locations"`
}

func (r organisationReq) input() model.OrganisationInput {
	return model.OrganisationInput{
		OrganisationName: strings.TrimSpace(r.OrganisationName),
		Website:          strings.TrimSpace(r.Website),
		SubscriptionCode: strings.TrimSpace(r.SubscriptionCode),
		Locations:        r.Locations,
	}
}

type organisationData struct {
	Organisations []model.Organisation `json:"organisations"`
	Subscriptions []model.Subscription `json:"subscriptions"`
}

func (h *Handler) loadOrganisations(ctx context.Context) (organisationData, error) {
	d := organisationData{Organisations: []model.Organisation{}, Subscriptions: []model.Subscription{}}
	orgs, err := h.Organisations.List(ctx)
	if err != nil {
		return d, err
	}
	if orgs != nil {
		d.Organisations = orgs
	}
	subs, err := h.Subscriptions.List(ctx)
	if err != nil {
		return d, err
	}
	if subs != nil {
		d.Subscriptions = subs
	}
	return d, nil
}

// OrganisationPage lists organisations with the subscription choices.
func (h *Handler) OrganisationPage(c echo.Context) error {
	d, err := h.loadOrganisations(c.Request().Context())
	return h.render(c, "Organisations", d, err)
}

// OrganisationsBySubscription lists the organisations on one subscription.
func (h *Handler) OrganisationsBySubscription(c echo.Context) error {
	orgs, err := h.Organisations.ListBySubscription(c.Request().Context(), c.Param("code"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"organisations": orgs})
}

// CreateOrganisation creates an organisation and returns the refreshed list.
func (h *Handler) CreateOrganisation(c echo.Context) error {
	var req organisationReq
	if err := c.Bind(&req); err != nil {
		return bad(c, "invalid body")
	}
	in := req.input()
	if in.OrganisationName == "" {
		return bad(c, "Organisation name is required")
	}
	ctx := c.Request().Context()
	if _, err := h.Organisations.Create(ctx, in); err != nil {
		return h.fail(c, err)
	}
	return h.refetchOrganisations(c, http.StatusCreated, "Organisation created successfully")
}

// UpdateOrganisation edits name, website and subscription.  It also serves
// the edit-organisation modal, which sends name and website only.
func (h *Handler) UpdateOrganisation(c echo.Context) error {
	var req organisationReq
	if err := c.Bind(&req); err != nil {
		return bad(c, "invalid body")
	}
	in := req.input()
	if in.OrganisationName == "" {
		return bad(c, "Organisation name is required")
	}
	if _, err := h.Organisations.Update(c.Request().Context(), model.ID(c.Param("id")), in); err != nil {
		return h.fail(c, err)
	}
	return h.refetchOrganisations(c, http.StatusOK, "Organisation updated successfully")
}

func (h *Handler) DeleteOrganisation(c echo.Context) error {
	if err := h.Organisations.Delete(c.Request().Context(), model.ID(c.Param("id"))); err != nil {
		return h.fail(c, err)
	}
	return h.refetchOrganisations(c, http.StatusOK, "Organisation deleted successfully")
}

// OnboardOrganisation backs the create-organisation modal shown to users
// without an organisation.  After the organisation is created the signed-in
// user is fetched again so the new organisation_id is picked up.  The
// organisation exists once Create returns, so a failed re-fetch falls back
// to patching the cached user instead of failing the request.
func (h *Handler) OnboardOrganisation(c echo.Context) error {
	var req organisationReq
	if err := c.Bind(&req); err != nil {
		return bad(c, "invalid body")
	}
	in := req.input()
	if in.OrganisationName == "" {
		return bad(c, "Organisation name is required")
	}
	ctx := c.Request().Context()
	org, err := h.Organisations.Create(ctx, in)
	if err != nil {
		return h.fail(c, err)
	}
	store := entry(c).Store
	if err := store.Refresh(ctx); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return h.fail(c, err)
		}
		h.Log.Warn("onboard: refresh user failed, patching session", "client", store.ClientID(), "err", err)
		id := org.OrganisationID
		store.UpdateUser(model.UserPatch{OrganisationID: &id})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":      "Organisation created successfully",
		"organisation": org,
		"session":      sessionOf(c),
	})
}

// refetchOrganisations answers a mutation with the list as it stands after
// the mutation resolved.
func (h *Handler) refetchOrganisations(c echo.Context, status int, msg string) error {
	d, err := h.loadOrganisations(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(status, echo.Map{"message": msg, "data": d})
}

// OrganisationDetail answers with one organisation and its locations.
func (h *Handler) OrganisationDetail(c echo.Context) error {
	ctx := c.Request().Context()
	id := model.ID(c.Param("id"))
	org, err := h.Organisations.Get(ctx, id)
	if err != nil {
		return h.fail(c, err)
	}
	locs, err := h.Organisations.Locations(ctx, id)
	if err != nil {
		return h.fail(c, err)
	}
	if locs == nil {
		locs = []model.Location{}
	}
	return c.JSON(http.StatusOK, echo.Map{"organisation": org, "locations": locs})
}

// AddOrganisationLocation adds a location through the organisation and
// answers with that organisation's locations as they stand afterwards.
func (h *Handler) AddOrganisationLocation(c echo.Context) error {
	var req locationReq
	if err := c.Bind(&req); err != nil {
		return bad(c, "invalid body")
	}
	ctx := c.Request().Context()
	id := model.ID(c.Param("id"))
	if _, err := h.Organisations.AddLocation(ctx, id, req.input()); err != nil {
		return h.fail(c, err)
	}
	locs, err := h.Organisations.Locations(ctx, id)
	if err != nil {
		return h.fail(c, err)
	}
	if locs == nil {
		locs = []model.Location{}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Location added successfully", "locations": locs})
}
