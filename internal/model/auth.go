package model

// AuthResult is the normalized payload of a successful login or completed
// registration: the authenticated user and the bearer token issued for it.
type AuthResult struct {
	User    User   `json:"user"`
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}
