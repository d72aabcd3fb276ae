package api

import "context"

// Session is the per-client state the client consults on every call.  Token
// returns the bearer token from persisted storage ("" when none).  Expire is
// invoked once for each 401 response: it must clear the persisted token
// and reset the session so the caller is sent back to the login page.
type Session interface {
	Token(ctx context.Context) string
	Expire(ctx context.Context)
}

type sessionKey struct{}

// WithSession binds s to ctx for calls made through a Client.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session bound to ctx, if any.
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok && s != nil
}
