package registerapp

import (
	"net/http"

	"github.com/ardanlabs/signup/register/app/sdk/registry"
	"github.com/ardanlabs/signup/register/foundation/web"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Registry *registry.Registry
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	api := newApp(cfg.Registry)

	app.HandlerFunc(http.MethodPost, "", "/register", api.register)
	app.HandlerFunc(http.MethodGet, "", "/users/{name}", api.queryByName)
}
