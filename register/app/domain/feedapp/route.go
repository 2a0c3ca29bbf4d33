package feedapp

import (
	"net/http"

	"github.com/ardanlabs/signup/register/app/sdk/feed"
	"github.com/ardanlabs/signup/register/foundation/web"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Feed *feed.Feed
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	api := newApp(cfg.Feed)

	app.HandlerFunc(http.MethodGet, "", "/feed", api.connect)
}
