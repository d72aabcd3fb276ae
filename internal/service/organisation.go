package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/iliyamo/adsaga-console/internal/api"
	"github.com/iliyamo/adsaga-console/internal/model"
)

// OrganisationService wraps /organisations.
type OrganisationService struct {
	api *api.Client
}

func NewOrganisationService(c *api.Client) *OrganisationService {
	return &OrganisationService{api: c}
}

func (s *OrganisationService) List(ctx context.Context) ([]model.Organisation, error) {
	var out []model.Organisation
	err := s.api.Do(ctx, http.MethodGet, "/organisations", nil, &out, "Failed to fetch organisations")
	return out, err
}

func (s *OrganisationService) Get(ctx context.Context, id model.ID) (model.Organisation, error) {
	var out model.Organisation
	err := s.api.Do(ctx, http.MethodGet, "/organisations/"+escape(id), nil, &out, "Failed to fetch organisation")
	return out, err
}

// Create applies the default subscription code and sends an empty
// location list when none is given.
func (s *OrganisationService) Create(ctx context.Context, in model.OrganisationInput) (model.Organisation, error) {
	if in.SubscriptionCode == "" {
		in.SubscriptionCode = model.DefaultSubscriptionCode
	}
	body := struct {
		model.OrganisationInput
		Locations []model.LocationInput `json:"locations"`
	}{OrganisationInput: in, Locations: in.Locations}
	if body.Locations == nil {
		body.Locations = []model.LocationInput{}
	}
	var out model.Organisation
	err := s.api.Do(ctx, http.MethodPost, "/organisations", body, &out, "Failed to create organisation")
	return out, err
}

func (s *OrganisationService) Update(ctx context.Context, id model.ID, in model.OrganisationInput) (model.Organisation, error) {
	in.Locations = nil
	var out model.Organisation
	err := s.api.Do(ctx, http.MethodPut, "/organisations/"+escape(id), in, &out, "Failed to update organisation")
	return out, err
}

func (s *OrganisationService) Delete(ctx context.Context, id model.ID) error {
	return s.api.Do(ctx, http.MethodDelete, "/organisations/"+escape(id), nil, nil, "Failed to delete organisation")
}

func (s *OrganisationService) ListBySubscription(ctx context.Context, code string) ([]model.Organisation, error) {
	var out []model.Organisation
	err := s.api.Do(ctx, http.MethodGet, "/organisations/subscription/"+url.PathEscape(code), nil, &out, "Failed to fetch organisations by subscription")
	return out, err
}

func (s *OrganisationService) Locations(ctx context.Context, id model.ID) ([]model.Location, error) {
	var out []model.Location
	err := s.api.Do(ctx, http.MethodGet, "/organisations/"+escape(id)+"/locations", nil, &out, "Failed to fetch organisation locations")
	return out, err
}

func (s *OrganisationService) AddLocation(ctx context.Context, id model.ID, in model.LocationInput) (model.Location, error) {
	var out model.Location
	err := s.api.Do(ctx, http.MethodPost, "/organisations/"+escape(id)+"/locations", in, &out, "Failed to add location")
	return out, err
}

func escape(id model.ID) string { return url.PathEscape(id.String()) }
