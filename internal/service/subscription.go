package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/iliyamo/adsaga-console/internal/api"
	"github.com/iliyamo/adsaga-console/internal/model"
)

// SubscriptionService reads subscription reference data.
type SubscriptionService struct {
	api *api.Client
}

func NewSubscriptionService(c *api.Client) *SubscriptionService {
	return &SubscriptionService{api: c}
}

func (s *SubscriptionService) List(ctx context.Context) ([]model.Subscription, error) {
	var out []model.Subscription
	err := s.api.Do(ctx, http.MethodGet, "/subscriptions", nil, &out, "Failed to fetch subscriptions")
	return out, err
}

func (s *SubscriptionService) Get(ctx context.Context, code string) (model.Subscription, error) {
	var out model.Subscription
	err := s.api.Do(ctx, http.MethodGet, "/subscriptions/"+url.PathEscape(code), nil, &out, "Failed to fetch subscription")
	return out, err
}
