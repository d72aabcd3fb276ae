package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/adsaga-console/internal/api"
	"github.com/iliyamo/adsaga-console/internal/config"
	"github.com/iliyamo/adsaga-console/internal/model"
	"github.com/iliyamo/adsaga-console/internal/session"
	"github.com/iliyamo/adsaga-console/internal/storage"
	"github.com/iliyamo/adsaga-console/internal/utils"
)

const secret = "test-secret"

type stubAuth struct{ user model.User }

func (a stubAuth) Login(context.Context, string, string) (model.AuthResult, error) {
	return model.AuthResult{User: a.user, Token: "tok"}, nil
}
func (a stubAuth) CurrentUser(context.Context) (model.User, error) { return a.user, nil }
func (stubAuth) Logout(context.Context) error                      { return nil }

// heldAuth keeps every login in flight until release is closed.
type heldAuth struct {
	stubAuth
	started chan struct{}
	release chan struct{}
}

func (a heldAuth) Login(ctx context.Context, email, pw string) (model.AuthResult, error) {
	a.started <- struct{}{}
	<-a.release
	return a.stubAuth.Login(ctx, email, pw)
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newRegistry(u model.User) *session.Registry {
	return session.NewRegistry(session.Deps{
		Storage: storage.NewMemoryStore(),
		Sealer:  storage.NewSealer(secret),
		Auth:    stubAuth{user: u},
		Logger:  quiet,
	}, time.Hour)
}

// newServer mounts a page at each path behind ClientIdentity, AuthWrapper
// and OrganisationCheck.
func newServer(reg *session.Registry, paths ...string) *echo.Echo {
	e := echo.New()
	e.Use(ClientIdentity(ClientConfig{Secret: secret, TTL: time.Hour}, reg))
	g := e.Group("", AuthWrapper(), OrganisationCheck())
	for _, p := range paths {
		g.GET(p, func(c echo.Context) error {
			_, bound := api.SessionFrom(c.Request().Context())
			return c.JSON(http.StatusOK, echo.Map{"client": ClientID(c), "modals": Modals(c), "bound": bound})
		})
	}
	return e
}

func do(e *echo.Echo, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func clientCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "console_client" {
			return ck
		}
	}
	t.Fatal("no client cookie issued")
	return nil
}

func TestFreshClientIsSentToLogin(t *testing.T) {
	e := newServer(newRegistry(model.User{}), "/dashboard", "/login")

	rec := do(e, "/dashboard")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?from=%2Fdashboard", rec.Header().Get("Location"))
	clientCookie(t, rec)

	assert.Equal(t, http.StatusOK, do(e, "/login").Code)
}

func TestPersistedTokenAloneDoesNotAuthorize(t *testing.T) {
	reg := newRegistry(model.User{})
	e := newServer(reg, "/dashboard")
	ck := clientCookie(t, do(e, "/dashboard"))

	// token present in storage, but the in-memory session starts anonymous
	entry := reg.Get(context.Background(), mustClient(t, ck))
	require.NoError(t, entry.Local.SetItem(context.Background(), storage.KeyToken, "stale"))

	rec := do(e, "/dashboard", ck)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestSignedInClientSkipsLoginAndSeesOrganisationModal(t *testing.T) {
	reg := newRegistry(model.User{UserID: "1", Email: "a@b.c"})
	e := newServer(reg, "/", "/login")
	ck := clientCookie(t, do(e, "/login"))
	require.NoError(t, reg.Get(context.Background(), mustClient(t, ck)).Store.Login(context.Background(), "a@b.c", "pw"))

	rec := do(e, "/login", ck)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = do(e, "/", ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"client":"`+mustClient(t, ck)+`","modals":["create_organisation"],"bound":true}`, rec.Body.String())
}

func TestProtectedRouteShowsLoadingWhileLoginInFlight(t *testing.T) {
	org := model.ID("4")
	auth := heldAuth{
		stubAuth: stubAuth{user: model.User{UserID: "1", OrganisationID: &org}},
		started:  make(chan struct{}, 1),
		release:  make(chan struct{}),
	}
	reg := session.NewRegistry(session.Deps{
		Storage: storage.NewMemoryStore(),
		Sealer:  storage.NewSealer(secret),
		Auth:    auth,
		Logger:  quiet,
	}, time.Hour)
	e := newServer(reg, "/dashboard")
	ck := clientCookie(t, do(e, "/dashboard"))
	store := reg.Get(context.Background(), mustClient(t, ck)).Store

	done := make(chan error, 1)
	go func() { done <- store.Login(context.Background(), "a@b.c", "pw") }()
	<-auth.started

	rec := do(e, "/dashboard", ck)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"loading":true}`, rec.Body.String())

	close(auth.release)
	require.NoError(t, <-done)
	assert.Equal(t, http.StatusOK, do(e, "/dashboard", ck).Code)
}

func TestMemberOfOrganisationGetsNoModal(t *testing.T) {
	org := model.ID("4")
	reg := newRegistry(model.User{UserID: "1", OrganisationID: &org})
	e := newServer(reg, "/")
	ck := clientCookie(t, do(e, "/"))
	require.NoError(t, reg.Get(context.Background(), mustClient(t, ck)).Store.Login(context.Background(), "a@b.c", "pw"))

	rec := do(e, "/", ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"modals":null`)
}

func TestTamperedCookieGetsNewIdentity(t *testing.T) {
	e := newServer(newRegistry(model.User{}), "/login")
	rec := do(e, "/login", &http.Cookie{Name: "console_client", Value: "forged"})
	assert.NotEqual(t, "forged", clientCookie(t, rec).Value)
}

func TestLoginURL(t *testing.T) {
	assert.Equal(t, "/login", LoginURL("/"))
	assert.Equal(t, "/login?from=%2Fusers%3Fpage%3D2", LoginURL("/users?page=2"))
}

func TestTokenBucketBlocksPerClient(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.RateLimitConfig{
		Enabled: true, Capacity: 2, RefillTokens: 1,
		RefillInterval: time.Minute, TTL: 10 * time.Minute,
		KeyStrategy: config.KeyClientRoute, Prefix: "rl",
	}
	e := echo.New()
	e.Use(ClientIdentity(ClientConfig{Secret: secret, TTL: time.Hour}, newRegistry(model.User{})))
	e.POST("/login", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, NewTokenBucket(cfg, rdb, quiet))

	post := func(ck *http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		if ck != nil {
			req.AddCookie(ck)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	first := post(nil)
	ck := clientCookie(t, first)
	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, http.StatusNoContent, post(ck).Code)

	blocked := post(ck)
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))

	// another client has its own bucket
	assert.Equal(t, http.StatusNoContent, post(nil).Code)
}

func TestTokenBucketDisabledWithoutRedis(t *testing.T) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, quiet))
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(e, "/").Code)
	}
}

func mustClient(t *testing.T, ck *http.Cookie) string {
	t.Helper()
	id, err := utils.ParseClientToken(secret, ck.Value)
	require.NoError(t, err)
	return id
}

func TestAuthWrapperTreatsSubpathsAsPublic(t *testing.T) {
	assert.True(t, isPublic("/register/initiate", PublicPaths))
	assert.True(t, isPublic("/login", PublicPaths))
	assert.False(t, isPublic("/registered", PublicPaths))
	assert.False(t, isPublic("/", PublicPaths))
}
