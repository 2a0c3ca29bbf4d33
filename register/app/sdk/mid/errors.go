// Package mid contains the set of middleware functions.
package mid

import (
	"context"
	"errors"
	"net/http"

	"github.com/ardanlabs/signup/register/app/sdk/errs"
	"github.com/ardanlabs/signup/register/foundation/logger"
	"github.com/ardanlabs/signup/register/foundation/web"
)

// Errors handles errors coming out of the call chain. Errors that are not
// already app errors keep their text and are reported as internal failures.
func Errors(log *logger.Logger) web.MidFunc {
	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			resp := next(ctx, r)

			err, isError := resp.(error)
			if !isError {
				return resp
			}

			var appErr *errs.Error
			if !errors.As(err, &appErr) {
				appErr = errs.New(errs.Internal, err)
			}

			log.Error(ctx, "handled error during request",
				"err", err,
				"source_err_file", appErr.FileName,
				"source_err_func", appErr.FuncName)

			return appErr
		}

		return h
	}

	return m
}
