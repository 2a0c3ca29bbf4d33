package mid

import (
	"context"
	"net/http"
	"runtime/debug"

	"github.com/ardanlabs/signup/register/app/sdk/errs"
	"github.com/ardanlabs/signup/register/foundation/web"
)

// Panics recovers from panics and converts the panic to an error so it is
// reported in Metrics and handled in Errors.
func Panics(onPanic func()) web.MidFunc {
	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) (resp web.Encoder) {

			// Defer a function to recover from a panic and set the err return
			// variable after the fact.
			defer func() {
				if rec := recover(); rec != nil {
					trace := debug.Stack()
					appErr := errs.Newf(errs.Internal, "PANIC [%v]", rec)
					appErr.FuncName = string(trace)
					resp = appErr

					if onPanic != nil {
						onPanic()
					}
				}
			}()

			return next(ctx, r)
		}

		return h
	}

	return m
}
