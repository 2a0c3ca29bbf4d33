package mid

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/signup/register/foundation/logger"
	"github.com/ardanlabs/signup/register/foundation/web"
)

// Logger writes information about the request to the logs.
func Logger(log *logger.Logger) web.MidFunc {
	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			now := time.Now()

			path := r.URL.Path
			if r.URL.RawQuery != "" {
				path = fmt.Sprintf("%s?%s", path, r.URL.RawQuery)
			}

			log.Info(ctx, "request started", "method", r.Method, "path", path, "remoteaddr", r.RemoteAddr)

			resp := next(ctx, r)

			log.Info(ctx, "request completed", "method", r.Method, "path", path, "remoteaddr", r.RemoteAddr,
				"statuscode", statusCode(resp), "since", time.Since(now).String())

			return resp
		}

		return h
	}

	return m
}

func statusCode(resp web.Encoder) int {
	type httpStatus interface {
		HTTPStatus() int
	}

	switch v := resp.(type) {
	case web.NoResponse:
		return http.StatusSwitchingProtocols
	case httpStatus:
		return v.HTTPStatus()
	case error:
		return http.StatusInternalServerError
	case nil:
		return http.StatusNoContent
	}

	return http.StatusOK
}
