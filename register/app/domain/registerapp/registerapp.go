// Package registerapp maintains the app layer api for registrations.
package registerapp

import (
	"context"
	"errors"
	"net/http"

	"github.com/ardanlabs/signup/register/app/sdk/errs"
	"github.com/ardanlabs/signup/register/app/sdk/registry"
	"github.com/ardanlabs/signup/register/foundation/web"
)

type app struct {
	registry *registry.Registry
}

func newApp(registry *registry.Registry) *app {
	return &app{
		registry: registry,
	}
}

func (a *app) register(ctx context.Context, r *http.Request) web.Encoder {
	var app NewRegistration
	if err := web.Decode(r, &app); err != nil {
		if errs.IsError(err) {
			return errs.GetError(err)
		}
		return errs.New(errs.InvalidArgument, err)
	}

	reg, err := a.registry.Register(ctx, toBusNewRegistration(app))
	if err != nil {
		if errors.Is(err, registry.ErrMissingFields) {
			return errs.Newf(errs.InvalidArgument, msgRequired)
		}
		return errs.New(errs.Internal, cause(err))
	}

	return toAppResult(reg)
}

func (a *app) queryByName(ctx context.Context, r *http.Request) web.Encoder {
	name := web.Param(r, "name")

	hist, err := a.registry.QueryByName(ctx, name)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return errs.Newf(errs.NotFound, "user %q not found", name)
		}
		return errs.New(errs.Internal, cause(err))
	}

	return toAppHistory(hist)
}

// cause returns the innermost error of a wrap chain, which carries the
// storage driver's own message.
func cause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
