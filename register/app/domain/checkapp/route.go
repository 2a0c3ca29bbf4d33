package checkapp

import (
	"context"
	"net/http"

	"github.com/ardanlabs/signup/register/foundation/logger"
	"github.com/ardanlabs/signup/register/foundation/web"
)

// Checker defines the behavior required to confirm the storage is reachable.
type Checker interface {
	StatusCheck(ctx context.Context) error
}

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Build    string
	Log      *logger.Logger
	Checker  Checker
	Watchers func() int
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	api := newApp(cfg)

	app.HandlerFunc(http.MethodGet, "", "/readiness", api.readiness)
	app.HandlerFunc(http.MethodGet, "", "/liveness", api.liveness)
}
