// Package mux provides support to bind domain level routes
// to the application mux.
package mux

import (
	"context"
	"net/http"

	"github.com/ardanlabs/signup/register/app/domain/checkapp"
	"github.com/ardanlabs/signup/register/app/domain/feedapp"
	"github.com/ardanlabs/signup/register/app/domain/registerapp"
	"github.com/ardanlabs/signup/register/app/sdk/feed"
	"github.com/ardanlabs/signup/register/app/sdk/metrics"
	"github.com/ardanlabs/signup/register/app/sdk/mid"
	"github.com/ardanlabs/signup/register/app/sdk/registry"
	"github.com/ardanlabs/signup/register/foundation/logger"
	"github.com/ardanlabs/signup/register/foundation/web"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Build       string
	Log         *logger.Logger
	Registry    *registry.Registry
	Checker     checkapp.Checker
	Feed        *feed.Feed
	Metrics     *metrics.Metrics
	CORSOrigins []string
}

// WebAPI constructs a http.Handler with all application routes bound.
func WebAPI(cfg Config) http.Handler {
	logger := func(ctx context.Context, msg string, args ...any) {
		cfg.Log.Info(ctx, msg, args...)
	}

	app := web.NewApp(
		logger,
		mid.Cors(cfg.CORSOrigins),
		mid.Logger(cfg.Log),
		mid.Errors(cfg.Log),
		mid.Metrics(cfg.Metrics),
		mid.Panics(cfg.Metrics.AddPanics),
	)

	app.EnableCORS()

	checkapp.Routes(app, checkapp.Config{
		Build:    cfg.Build,
		Log:      cfg.Log,
		Checker:  cfg.Checker,
		Watchers: cfg.Feed.Count,
	})

	registerapp.Routes(app, registerapp.Config{
		Registry: cfg.Registry,
	})

	feedapp.Routes(app, feedapp.Config{
		Feed: cfg.Feed,
	})

	return app
}
