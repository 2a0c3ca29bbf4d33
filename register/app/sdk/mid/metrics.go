package mid

import (
	"context"
	"net/http"

	"github.com/ardanlabs/signup/register/app/sdk/metrics"
	"github.com/ardanlabs/signup/register/foundation/web"
)

// Metrics updates program counters.
func Metrics(m *metrics.Metrics) web.MidFunc {
	mw := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			resp := next(ctx, r)

			m.AddRequests()

			if _, isError := resp.(error); isError {
				m.AddErrors()
			}

			return resp
		}

		return h
	}

	return mw
}
