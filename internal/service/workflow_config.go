package service

import (
	"context"
	"net/http"

	"github.com/iliyamo/adsaga-console/internal/api"
	"github.com/iliyamo/adsaga-console/internal/model"
)

// WorkflowConfigService wraps /workflow-configs.
type WorkflowConfigService struct {
	api *api.Client
}

func NewWorkflowConfigService(c *api.Client) *WorkflowConfigService {
	return &WorkflowConfigService{api: c}
}

func (s *WorkflowConfigService) List(ctx context.Context) ([]model.WorkflowConfig, error) {
	var out []model.WorkflowConfig
	err := s.api.Do(ctx, http.MethodGet, "/workflow-configs", nil, &out, "Failed to fetch workflow configs")
	return out, err
}

func (s *WorkflowConfigService) Get(ctx context.Context, id model.ID) (model.WorkflowConfig, error) {
	var out model.WorkflowConfig
	err := s.api.Do(ctx, http.MethodGet, "/workflow-configs/"+escape(id), nil, &out, "Failed to fetch workflow config")
	return out, err
}

func (s *WorkflowConfigService) ListByOrganisation(ctx context.Context) ([]model.WorkflowConfig, error) {
	var out []model.WorkflowConfig
	err := s.api.Do(ctx, http.MethodGet, "/workflow-configs/organisation", nil, &out, "Failed to fetch workflow configs by organisation")
	return out, err
}

// ListMine lists the configurations owned by the token's user.
func (s *WorkflowConfigService) ListMine(ctx context.Context) ([]model.WorkflowConfig, error) {
	var out []model.WorkflowConfig
	err := s.api.Do(ctx, http.MethodGet, "/workflow-configs/user/me", nil, &out, "Failed to fetch workflow configs by user")
	return out, err
}

func (s *WorkflowConfigService) Create(ctx context.Context, in model.WorkflowConfigInput) (model.WorkflowConfig, error) {
	var out model.WorkflowConfig
	err := s.api.Do(ctx, http.MethodPost, "/workflow-configs", in.Normalize(), &out, "Failed to create workflow config")
	return out, err
}

func (s *WorkflowConfigService) Update(ctx context.Context, id model.ID, in model.WorkflowConfigInput) (model.WorkflowConfig, error) {
	var out model.WorkflowConfig
	err := s.api.Do(ctx, http.MethodPut, "/workflow-configs/"+escape(id), in.Normalize(), &out, "Failed to update workflow config")
	return out, err
}

func (s *WorkflowConfigService) Delete(ctx context.Context, id model.ID) error {
	return s.api.Do(ctx, http.MethodDelete, "/workflow-configs/"+escape(id), nil, nil, "Failed to delete workflow config")
}
