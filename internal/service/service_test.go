package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/adsaga-console/internal/api"
	"github.com/iliyamo/adsaga-console/internal/model"
)

type recorded struct {
	method string
	path   string
	body   map[string]any
}

// backend serves canned responses keyed by "METHOD path" and records
// every request it receives.
func backend(t *testing.T, routes map[string]string) (*api.Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &rec.body)
		}
		calls = append(calls, rec)
		resp, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, resp)
	}))
	t.Cleanup(srv.Close)
	return api.New(srv.URL, api.WithHTTPClient(srv.Client())), &calls
}

func TestLoginUnwrapsNestedPayload(t *testing.T) {
	c, calls := backend(t, map[string]string{
		"POST /users/login": `{"success":true,"data":{"user":{"user_id":1,"email":"a@b.c"},"token":"jwt"}}`,
	})
	res, err := NewAuthService(c).Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt", res.Token)
	assert.Equal(t, "a@b.c", res.User.Email)
	assert.Equal(t, "secret", (*calls)[0].body["password"])
}

func TestCompleteRegistrationAcceptsFlatPayload(t *testing.T) {
	c, calls := backend(t, map[string]string{
		"POST /users/register/complete": `{"message":"ok","user":{"user_id":"u1","email":"n@x.io"},"token":"t"}`,
	})
	res, err := NewAuthService(c).CompleteRegistration(context.Background(), "n@x.io", "123456", "New User", "pw1234")
	require.NoError(t, err)
	assert.Equal(t, "t", res.Token)
	assert.Equal(t, "n@x.io", res.User.Email)
	assert.Equal(t, "123456", (*calls)[0].body["otp"])
	assert.Equal(t, "New User", (*calls)[0].body["fullname"])
}

func TestFallbackMessagePerOperation(t *testing.T) {
	c, _ := backend(t, nil)
	_, err := NewOrganisationService(c).List(context.Background())
	assert.EqualError(t, err, "Failed to fetch organisations")
	_, err = NewWorkflowConfigService(c).ListMine(context.Background())
	assert.EqualError(t, err, "Failed to fetch workflow configs by user")
	err = NewAuthService(c).VerifyOTP(context.Background(), "a@b.c", "1")
	assert.EqualError(t, err, "Invalid verification code")
}

func TestCreateOrganisationDefaults(t *testing.T) {
	c, calls := backend(t, map[string]string{
		"POST /organisations": `{"data":{"organisation_id":5,"organisation_name":"Acme"}}`,
	})
	org, err := NewOrganisationService(c).Create(context.Background(), model.OrganisationInput{OrganisationName: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, model.ID("5"), org.OrganisationID)

	body := (*calls)[0].body
	assert.Equal(t, model.DefaultSubscriptionCode, body["subscription_code"])
	assert.Equal(t, []any{}, body["locations"])
}

func TestUpdateOrganisationOmitsLocations(t *testing.T) {
	c, calls := backend(t, map[string]string{
		"PUT /organisations/5": `{"organisation_id":5,"organisation_name":"Acme 2"}`,
	})
	_, err := NewOrganisationService(c).Update(context.Background(), "5", model.OrganisationInput{
		OrganisationName: "Acme 2",
		Locations:        []model.LocationInput{{City: "x"}},
	})
	require.NoError(t, err)
	_, has := (*calls)[0].body["locations"]
	assert.False(t, has)
}

func TestLocationPaths(t *testing.T) {
	c, calls := backend(t, map[string]string{
		"GET /organisations/7/locations":  `[{"location_id":1,"organisation_id":7,"city":"Pune"}]`,
		"POST /organisations/7/locations": `{"location_id":2}`,
		"PUT /locations/2":                `{"location_id":2}`,
		"DELETE /locations/2":             ``,
	})
	svc := NewLocationService(c)
	ctx := context.Background()

	locs, err := svc.ListByOrganisation(ctx, "7")
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "Pune", locs[0].City)

	_, err = svc.Create(ctx, "7", model.LocationInput{City: "Delhi"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, "2", model.LocationInput{City: "Goa"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "2"))
	assert.Len(t, *calls, 4)
	assert.Equal(t, "Goa", (*calls)[2].body["city"])
}

func TestWorkflowConfigCreateSendsEmptyArrays(t *testing.T) {
	c, calls := backend(t, map[string]string{
		"POST /workflow-configs": `{"workflow_config_id":3,"domains":["ai"]}`,
	})
	cfg, err := NewWorkflowConfigService(c).Create(context.Background(), model.WorkflowConfigInput{
		Domains: []string{"ai", " "},
		RunsAt:  "2025-01-01T09:00",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ID("3"), cfg.WorkflowConfigID)

	body := (*calls)[0].body
	assert.Equal(t, []any{"ai"}, body["domains"])
	assert.Equal(t, []any{}, body["locations"])
	assert.EqualValues(t, 0, body["leads_count"])
}

func TestSubscriptionsAndUsers(t *testing.T) {
	c, _ := backend(t, map[string]string{
		"GET /subscriptions":     `{"data":[{"subscription_code":"PROT","subscription_name":"Prototype"}]}`,
		"GET /users/email/a@b.c": `{"user_id":1,"email":"a@b.c"}`,
		"PUT /users/1":           `{"user_id":1,"fullname":"Z"}`,
		"GET /users/me":          `{"data":{"user_id":1,"organisation_id":4}}`,
	})
	ctx := context.Background()

	subs, err := NewSubscriptionService(c).List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Prototype", subs[0].SubscriptionName)

	users := NewUserService(c)
	u, err := users.GetByEmail(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, model.ID("1"), u.UserID)

	u, err = users.Update(ctx, "1", model.UserUpdate{Fullname: "Z", Email: "a@b.c"})
	require.NoError(t, err)
	assert.Equal(t, "Z", u.Fullname)

	me, err := NewAuthService(c).CurrentUser(ctx)
	require.NoError(t, err)
	assert.True(t, me.HasOrganisation())
}

func TestSingleResourceLookups(t *testing.T) {
	c, calls := backend(t, map[string]string{
		"GET /organisations/4":                 `{"organisation_id":4,"organisation_name":"Acme"}`,
		"GET /organisations/subscription/PROT": `[{"organisation_id":4}]`,
		"GET /organisations/4/locations":       `{"data":[{"location_id":9,"city":"Pune"}]}`,
		"POST /organisations/4/locations":      `{"location_id":10,"city":"Goa"}`,
		"GET /locations":                       `[{"location_id":9},{"location_id":10}]`,
		"GET /locations/9":                     `{"location_id":9,"city":"Pune"}`,
		"GET /subscriptions/PROT":              `{"subscription_code":"PROT","subscription_name":"Prototype"}`,
		"GET /workflow-configs/3":              `{"workflow_config_id":3,"leads_count":20}`,
		"GET /users/1":                         `{"user_id":1,"email":"a@b.c"}`,
		"GET /users/me":                        `{"user_id":1}`,
		"POST /users/register":                 `{"user":{"user_id":2,"email":"n@x.io"},"token":"t2"}`,
	})
	ctx := context.Background()
	orgs := NewOrganisationService(c)

	org, err := orgs.Get(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, "Acme", org.OrganisationName)

	bySub, err := orgs.ListBySubscription(ctx, "PROT")
	require.NoError(t, err)
	assert.Len(t, bySub, 1)

	locs, err := orgs.Locations(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, "Pune", locs[0].City)

	added, err := orgs.AddLocation(ctx, "4", model.LocationInput{City: "Goa"})
	require.NoError(t, err)
	assert.Equal(t, model.ID("10"), added.LocationID)

	all, err := NewLocationService(c).ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	loc, err := NewLocationService(c).Get(ctx, "9")
	require.NoError(t, err)
	assert.Equal(t, "Pune", loc.City)

	sub, err := NewSubscriptionService(c).Get(ctx, "PROT")
	require.NoError(t, err)
	assert.Equal(t, "Prototype", sub.SubscriptionName)

	wf, err := NewWorkflowConfigService(c).Get(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, 20, wf.LeadsCount)

	u, err := NewUserService(c).Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", u.Email)

	me, err := NewUserService(c).Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ID("1"), me.UserID)

	res, err := NewAuthService(c).Register(ctx, "New", "n@x.io", "pw1234")
	require.NoError(t, err)
	assert.Equal(t, "t2", res.Token)
	assert.Equal(t, "New", (*calls)[len(*calls)-1].body["fullname"])
}
