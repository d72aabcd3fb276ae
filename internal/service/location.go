package service

import (
	"context"
	"net/http"

	"github.com/iliyamo/adsaga-console/internal/api"
	"github.com/iliyamo/adsaga-console/internal/model"
)

// LocationService wraps /locations and the organisation-scoped location
// endpoints.
type LocationService struct {
	api *api.Client
}

func NewLocationService(c *api.Client) *LocationService { return &LocationService{api: c} }

func (s *LocationService) ListByOrganisation(ctx context.Context, orgID model.ID) ([]model.Location, error) {
	var out []model.Location
	err := s.api.Do(ctx, http.MethodGet, "/organisations/"+escape(orgID)+"/locations", nil, &out, "Failed to fetch locations")
	return out, err
}

func (s *LocationService) Get(ctx context.Context, id model.ID) (model.Location, error) {
	var out model.Location
	err := s.api.Do(ctx, http.MethodGet, "/locations/"+escape(id), nil, &out, "Failed to fetch location")
	return out, err
}

func (s *LocationService) Create(ctx context.Context, orgID model.ID, in model.LocationInput) (model.Location, error) {
	var out model.Location
	err := s.api.Do(ctx, http.MethodPost, "/organisations/"+escape(orgID)+"/locations", in, &out, "Failed to create location")
	return out, err
}

func (s *LocationService) Update(ctx context.Context, id model.ID, in model.LocationInput) (model.Location, error) {
	var out model.Location
	err := s.api.Do(ctx, http.MethodPut, "/locations/"+escape(id), in, &out, "Failed to update location")
	return out, err
}

func (s *LocationService) Delete(ctx context.Context, id model.ID) error {
	return s.api.Do(ctx, http.MethodDelete, "/locations/"+escape(id), nil, nil, "Failed to delete location")
}

// ListAll is an admin-only listing across organisations.
func (s *LocationService) ListAll(ctx context.Context) ([]model.Location, error) {
	var out []model.Location
	err := s.api.Do(ctx, http.MethodGet, "/locations", nil, &out, "Failed to fetch all locations")
	return out, err
}
