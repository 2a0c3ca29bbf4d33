// Package checkapp maintains the app layer api for the check domain.
package checkapp

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/ardanlabs/signup/register/app/sdk/errs"
	"github.com/ardanlabs/signup/register/foundation/logger"
	"github.com/ardanlabs/signup/register/foundation/web"
)

type app struct {
	build    string
	log      *logger.Logger
	checker  Checker
	watchers func() int
}

func newApp(cfg Config) *app {
	return &app{
		build:    cfg.Build,
		log:      cfg.Log,
		checker:  cfg.Checker,
		watchers: cfg.Watchers,
	}
}

// readiness checks if the database is ready and if not will return a 500
// status.
func (a *app) readiness(ctx context.Context, r *http.Request) web.Encoder {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := a.checker.StatusCheck(ctx); err != nil {
		a.log.Info(ctx, "readiness failure", "ERROR", err)
		return errs.New(errs.Internal, err)
	}

	return status{
		Status: "ok",
	}
}

// liveness returns simple status info if the service is alive. Pod, node and
// namespace details come from the Kubernetes Downward API when set.
func (a *app) liveness(ctx context.Context, r *http.Request) web.Encoder {
	host, err := os.Hostname()
	if err != nil {
		host = "unavailable"
	}

	data := info{
		Status:     "up",
		Build:      a.build,
		Host:       host,
		Name:       os.Getenv("KUBERNETES_NAME"),
		PodIP:      os.Getenv("KUBERNETES_POD_IP"),
		Node:       os.Getenv("KUBERNETES_NODE_NAME"),
		Namespace:  os.Getenv("KUBERNETES_NAMESPACE"),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
	}

	if a.watchers != nil {
		data.Watchers = a.watchers()
	}

	return data
}
