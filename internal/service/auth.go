// Package service holds one typed client per backend resource.  Each
// operation unwraps the backend payload into a model type or returns an
// *api.Error whose message is the backend's, or the operation's fallback.
package service

import (
	"context"
	"net/http"

	"github.com/iliyamo/adsaga-console/internal/api"
	"github.com/iliyamo/adsaga-console/internal/model"
)

// AuthService wraps the /users authentication endpoints.
type AuthService struct {
	api *api.Client
}

func NewAuthService(c *api.Client) *AuthService { return &AuthService{api: c} }

// Login posts credentials and returns the authenticated user and token.
func (s *AuthService) Login(ctx context.Context, email, password string) (model.AuthResult, error) {
	var out model.AuthResult
	err := s.api.Do(ctx, http.MethodPost, "/users/login", credentials{Email: email, Password: password}, &out, "Login failed")
	return out, err
}

// Register creates an account in a single call.  The OTP flow below is
// the primary path; this endpoint is kept for backends without it.
func (s *AuthService) Register(ctx context.Context, fullname, email, password string) (model.AuthResult, error) {
	var out model.AuthResult
	body := map[string]string{"fullname": fullname, "email": email, "password": password}
	err := s.api.Do(ctx, http.MethodPost, "/users/register", body, &out, "Registration failed")
	return out, err
}

// InitiateRegistration asks the backend to email a one-time code.
func (s *AuthService) InitiateRegistration(ctx context.Context, email string) error {
	return s.api.Do(ctx, http.MethodPost, "/users/register/initiate", map[string]string{"email": email}, nil, "Failed to send verification code")
}

// VerifyOTP checks a one-time code.  Expiry is enforced by the backend.
func (s *AuthService) VerifyOTP(ctx context.Context, email, otp string) error {
	body := map[string]string{"email": email, "otp": otp}
	return s.api.Do(ctx, http.MethodPost, "/users/register/verify-otp", body, nil, "Invalid verification code")
}

// CompleteRegistration creates the account and returns the same payload as
// Login.
func (s *AuthService) CompleteRegistration(ctx context.Context, email, otp, fullname, password string) (model.AuthResult, error) {
	var out model.AuthResult
	body := map[string]string{"email": email, "otp": otp, "fullname": fullname, "password": password}
	err := s.api.Do(ctx, http.MethodPost, "/users/register/complete", body, &out, "Registration failed")
	return out, err
}

// CurrentUser fetches the profile of the token's owner.
func (s *AuthService) CurrentUser(ctx context.Context) (model.User, error) {
	var out model.User
	err := s.api.Do(ctx, http.MethodGet, "/users/me", nil, &out, "Failed to get user data")
	return out, err
}

// Logout notifies the backend.  Callers treat failure as non-fatal.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.api.Do(ctx, http.MethodPost, "/users/logout", nil, nil, "Logout failed")
}

// ForgotPassword requests a password reset email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	return s.api.Do(ctx, http.MethodPost, "/users/forgot-password", map[string]string{"email": email}, nil, "Failed to send reset email")
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
