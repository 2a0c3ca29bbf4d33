// Package feedapp provides the app layer for the registration feed.
package feedapp

import (
	"context"
	"net/http"

	"github.com/ardanlabs/signup/register/app/sdk/errs"
	"github.com/ardanlabs/signup/register/app/sdk/feed"
	"github.com/ardanlabs/signup/register/foundation/web"
)

type app struct {
	feed *feed.Feed
}

func newApp(feed *feed.Feed) *app {
	return &app{
		feed: feed,
	}
}

func (a *app) connect(ctx context.Context, r *http.Request) web.Encoder {
	wtr, err := a.feed.Handshake(ctx, web.GetWriter(ctx), r)
	if err != nil {
		return errs.Newf(errs.FailedPrecondition, "handshake failed: %s", err)
	}

	a.feed.Listen(ctx, wtr)

	return web.NewNoResponse()
}
