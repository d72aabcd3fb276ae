package router // package router defines how HTTP routes are registered for the console

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/adsaga-console/internal/handler"    // page and action handlers
	"github.com/iliyamo/adsaga-console/internal/middleware" // client identity, guards and rate limiting
)

// RegisterRoutes registers routes that need no client identity.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring poll this; it never touches the backend.
	e.GET("/healthz", handler.Health)
}

// RegisterConsole registers every console route.  client resolves the
// browser client and must run first; limit guards the credential actions.
func RegisterConsole(e *echo.Echo, h *handler.Handler, client, limit echo.MiddlewareFunc) {
	root := e.Group("", client)

	// Available whatever the session state: the theme switch sits on the
	// login screen too.
	root.GET("/session", h.Session)
	root.POST("/theme", h.ToggleTheme)

	// AuthWrapper sends anonymous clients to /login and signed-in clients
	// away from the public-only pages.
	gated := root.Group("", middleware.AuthWrapper(middleware.PublicPaths...))

	gated.GET("/login", h.LoginPage)
	gated.POST("/login", h.Login, limit)
	gated.GET("/register", h.RegisterPage)
	gated.POST("/register", h.Register, limit)
	gated.POST("/register/initiate", h.RegisterInitiate, limit)
	gated.POST("/register/verify", h.RegisterVerify, limit)
	gated.POST("/register/complete", h.RegisterComplete)
	gated.POST("/register/back", h.RegisterBack)
	gated.POST("/register/reset", h.RegisterReset)
	gated.GET("/forgot-password", h.ForgotPasswordPage)
	gated.POST("/forgot-password", h.ForgotPassword, limit)

	// Users without an organisation get the create-organisation modal
	// over the page.
	app := gated.Group("", middleware.OrganisationCheck())
	app.POST("/logout", h.Logout)

	page(app, "", h.Dashboard)
	page(app, "/organisation", h.OrganisationPage)
	page(app, "/users", h.UsersPage)
	page(app, "/locations", h.LocationsPage)
	page(app, "/settings", h.SettingsPage)
	page(app, "/workflow", h.WorkflowPage)

	app.POST("/organisation", h.CreateOrganisation)
	app.POST("/organisation/onboard", h.OnboardOrganisation)
	app.PUT("/organisation/:id", h.UpdateOrganisation)
	app.DELETE("/organisation/:id", h.DeleteOrganisation)
	app.GET("/organisation/:id", h.OrganisationDetail)
	app.POST("/organisation/:id/locations", h.AddOrganisationLocation)
	app.GET("/organisation/subscription/:code", h.OrganisationsBySubscription)

	app.PUT("/users/:id", h.UpdateUser)
	app.DELETE("/users/:id", h.DeleteUser)
	app.GET("/users/email/:email", h.UserByEmail)
	app.GET("/users/me", h.CurrentUser)
	app.GET("/users/:id", h.UserDetail)

	app.GET("/locations/all", h.AllLocations)
	app.POST("/locations", h.CreateLocation)
	app.PUT("/locations/:id", h.UpdateLocation)
	app.DELETE("/locations/:id", h.DeleteLocation)
	app.GET("/locations/:id", h.LocationDetail)

	app.GET("/subscriptions", h.SubscriptionList)
	app.GET("/subscriptions/:code", h.SubscriptionDetail)

	app.POST("/workflow", h.CreateWorkflow)
	app.PUT("/workflow/:id", h.UpdateWorkflow)
	app.DELETE("/workflow/:id", h.DeleteWorkflow)
	app.GET("/workflow/organisation", h.OrganisationWorkflows)
	app.GET("/workflow/all", h.AllWorkflows)
	app.GET("/workflow/:id", h.WorkflowDetail)
	app.POST("/workflow/tags", h.EditTags)

	app.PUT("/settings/profile", h.UpdateProfile)
	app.POST("/settings/password", h.ChangePassword)
}

// page mounts a page at path and at its /dashboard alias.
func page(g *echo.Group, path string, fn echo.HandlerFunc) {
	if path == "" {
		g.GET("/", fn)
	} else {
		g.GET(path, fn)
	}
	g.GET("/dashboard"+path, fn)
}
