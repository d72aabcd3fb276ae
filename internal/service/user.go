package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/iliyamo/adsaga-console/internal/api"
	"github.com/iliyamo/adsaga-console/internal/model"
)

// UserService wraps /users.
type UserService struct {
	api *api.Client
}

func NewUserService(c *api.Client) *UserService { return &UserService{api: c} }

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	var out []model.User
	err := s.api.Do(ctx, http.MethodGet, "/users", nil, &out, "Failed to fetch users")
	return out, err
}

func (s *UserService) Get(ctx context.Context, id model.ID) (model.User, error) {
	var out model.User
	err := s.api.Do(ctx, http.MethodGet, "/users/"+escape(id), nil, &out, "Failed to fetch user")
	return out, err
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var out model.User
	err := s.api.Do(ctx, http.MethodGet, "/users/email/"+url.PathEscape(email), nil, &out, "Failed to fetch user by email")
	return out, err
}

// Update persists fullname and email.  The session's cached copy is not
// touched here; callers merge the patch into the session afterwards.
func (s *UserService) Update(ctx context.Context, id model.ID, in model.UserUpdate) (model.User, error) {
	var out model.User
	err := s.api.Do(ctx, http.MethodPut, "/users/"+escape(id), in, &out, "Failed to update user")
	return out, err
}

func (s *UserService) Delete(ctx context.Context, id model.ID) error {
	return s.api.Do(ctx, http.MethodDelete, "/users/"+escape(id), nil, nil, "Failed to delete user")
}

func (s *UserService) Me(ctx context.Context) (model.User, error) {
	var out model.User
	err := s.api.Do(ctx, http.MethodGet, "/users/me", nil, &out, "Failed to get current user")
	return out, err
}
