// Package session holds the per-client authentication state of the
// console: who is signed in, with which token, and whether a sign-in is in
// flight.  A Store is the single source of truth for "is this client
// authenticated".
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/iliyamo/adsaga-console/internal/model"
	"github.com/iliyamo/adsaga-console/internal/storage"
	"github.com/iliyamo/adsaga-console/internal/utils"
)

// State is the position of a Store in its state machine.
type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ErrNoToken is returned when the backend reports success without issuing
// a token.
var ErrNoToken = errors.New("authentication response carried no token")

// ErrNotAuthenticated is returned by operations that need a signed-in user.
var ErrNotAuthenticated = errors.New("not authenticated")

// Authenticator is the slice of the auth service the store depends on.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (model.AuthResult, error)
	CurrentUser(ctx context.Context) (model.User, error)
	Logout(ctx context.Context) error
}

// Snapshot is a consistent copy of a Store's state.
type Snapshot struct {
	State           State       `json:"state"`
	User            *model.User `json:"user"`
	Token           string      `json:"-"`
	IsAuthenticated bool        `json:"is_authenticated"`
	Loading         bool        `json:"loading"`
	Error           string      `json:"error,omitempty"`
	TokenExpiresAt  *time.Time  `json:"token_expires_at,omitempty"`
}

// Store is the session state container of one client.
//
// Invariant: state == Authenticated implies user != nil and token != "".
type Store struct {
	mu      sync.Mutex
	state   State
	user    *model.User
	token   string
	loading bool
	err     string

	local    *storage.Local
	auth     Authenticator
	events   Publisher
	log      *slog.Logger
	onExpire []func()
}

// NewStore creates the store for the client behind local.  A persisted
// token is loaded but never authenticates on its own: the store starts
// anonymous until a login or registration succeeds.
func NewStore(ctx context.Context, local *storage.Local, auth Authenticator, events Publisher, log *slog.Logger) *Store {
	if events == nil {
		events = NopPublisher{}
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Store{local: local, auth: auth, events: events, log: log}
	if tok, err := local.GetItem(ctx, storage.KeyToken); err == nil {
		s.token = tok
	} else {
		log.Warn("session: load persisted token", "client", local.ClientID(), "err", err)
	}
	return s
}

// Token returns the bearer token from persisted storage.
func (s *Store) Token(ctx context.Context) string {
	tok, err := s.local.GetItem(ctx, storage.KeyToken)
	if err != nil {
		s.log.Warn("session: read persisted token", "client", s.local.ClientID(), "err", err)
		return ""
	}
	return tok
}

// OnExpire registers fn to run when an authenticated session is expired
// by the backend.
func (s *Store) OnExpire(fn func()) {
	s.mu.Lock()
	s.onExpire = append(s.onExpire, fn)
	s.mu.Unlock()
}

// Expire handles a 401 from the backend: the session is reset and the
// persisted token removed.  The OnExpire hooks run only when the session
// was authenticated, so a 401 answering an anonymous form leaves them be.
func (s *Store) Expire(ctx context.Context) {
	snap := s.Snapshot()
	_ = s.ClearAuth(ctx)
	if !snap.IsAuthenticated {
		return
	}
	s.mu.Lock()
	hooks := append([]func(){}, s.onExpire...)
	s.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
	s.publish(ctx, EventExpired, snap.User)
}

// Login posts credentials.  On success user, token and the authenticated
// flag are set together and the token is persisted; on failure the error
// is recorded and the store is left anonymous.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.begin()
	res, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.fail(err)
		return err
	}
	if err := s.setCredentials(ctx, res); err != nil {
		s.fail(err)
		return err
	}
	s.publish(ctx, EventLogin, &res.User)
	return nil
}

// RegisterUser authenticates the store with the result of a completed
// registration.
func (s *Store) RegisterUser(ctx context.Context, res model.AuthResult) error {
	s.begin()
	if err := s.setCredentials(ctx, res); err != nil {
		s.fail(err)
		return err
	}
	s.publish(ctx, EventRegistered, &res.User)
	return nil
}

// Logout notifies the backend, logging any failure, and then clears the
// session and persisted token regardless of the outcome.  A logout event
// is published only when the session was still authenticated after the
// backend call; a 401 from it has already published expired.
func (s *Store) Logout(ctx context.Context) error {
	snap := s.Snapshot()
	if err := s.auth.Logout(ctx); err != nil {
		s.log.Warn("session: backend logout failed", "client", s.local.ClientID(), "err", err)
	}
	still := s.Snapshot().IsAuthenticated
	err := s.ClearAuth(ctx)
	if still {
		s.publish(ctx, EventLogout, snap.User)
	}
	return err
}

// ClearAuth resets the store to anonymous and removes the persisted token.
func (s *Store) ClearAuth(ctx context.Context) error {
	s.mu.Lock()
	s.state = Anonymous
	s.user = nil
	s.token = ""
	s.loading = false
	s.err = ""
	s.mu.Unlock()

	if err := s.local.RemoveItem(ctx, storage.KeyToken); err != nil {
		s.log.Error("session: remove persisted token", "client", s.local.ClientID(), "err", err)
		return err
	}
	return nil
}

// UpdateUser merges patch into the cached user.  Nothing is fetched; the
// caller has already persisted the change through the user service.
func (s *Store) UpdateUser(patch model.UserPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return
	}
	merged := s.user.Merge(patch)
	s.user = &merged
}

// Refresh re-fetches the signed-in user, replacing the cached copy.  It is
// used after mutations that change the user on the backend, such as
// creating an organisation.
func (s *Store) Refresh(ctx context.Context) error {
	if !s.Snapshot().IsAuthenticated {
		return ErrNotAuthenticated
	}
	u, err := s.auth.CurrentUser(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// a 401 during the fetch may have cleared the session
	if s.state == Authenticated {
		s.user = &u
	}
	return nil
}

func (s *Store) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		State:           s.state,
		Token:           s.token,
		IsAuthenticated: s.state == Authenticated,
		Loading:         s.loading,
		Error:           s.err,
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	if exp, ok := utils.TokenExpiry(s.token); ok && snap.IsAuthenticated {
		snap.TokenExpiresAt = &exp
	}
	return snap
}

// ClientID returns the client this store belongs to.
func (s *Store) ClientID() string { return s.local.ClientID() }

func (s *Store) begin() {
	s.mu.Lock()
	s.state = Authenticating
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *Store) fail(err error) {
	s.mu.Lock()
	s.state = Anonymous
	s.user = nil
	s.loading = false
	s.err = err.Error()
	s.mu.Unlock()
}

func (s *Store) setCredentials(ctx context.Context, res model.AuthResult) error {
	if res.Token == "" {
		return ErrNoToken
	}
	if err := s.local.SetItem(ctx, storage.KeyToken, res.Token); err != nil {
		return err
	}
	u := res.User
	s.mu.Lock()
	s.user = &u
	s.token = res.Token
	s.state = Authenticated
	s.loading = false
	s.err = ""
	s.mu.Unlock()
	return nil
}

func (s *Store) publish(ctx context.Context, typ EventType, u *model.User) {
	ev := Event{Type: typ, ClientID: s.local.ClientID(), At: time.Now().UTC()}
	if u != nil {
		ev.UserID = u.UserID.String()
		ev.Email = u.Email
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("session: publish event", "type", typ, "err", err)
	}
}
