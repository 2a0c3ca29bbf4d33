package mid

import (
	"context"
	"net/http"

	"github.com/ardanlabs/signup/register/foundation/web"
)

// Cors sets the response headers needed for browsers to call the api from
// one of the allowed origins. An origin of "*" allows any origin.
func Cors(origins []string) web.MidFunc {
	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			w := web.GetWriter(ctx)

			reqOrigin := r.Header.Get("Origin")
			for _, origin := range origins {
				if origin == "*" || origin == reqOrigin {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					if origin != "*" {
						w.Header().Add("Vary", "Origin")
					}
					break
				}
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")
			w.Header().Set("Access-Control-Max-Age", "86400")

			return next(ctx, r)
		}

		return h
	}

	return m
}
