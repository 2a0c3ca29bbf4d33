// Package feed provides support for streaming registrations to websocket
// watchers.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ardanlabs/signup/register/app/sdk/errs"
	"github.com/ardanlabs/signup/register/app/sdk/registry"
	"github.com/ardanlabs/signup/register/foundation/logger"
	"github.com/ardanlabs/signup/register/foundation/web"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Set of error variables.
var (
	ErrExists    = fmt.Errorf("watcher exists")
	ErrNotExists = fmt.Errorf("watcher doesn't exists")
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 16
)

// Feed represents the registration feed.
type Feed struct {
	log      *logger.Logger
	watchers *watchers
	upgrader websocket.Upgrader
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// New creates a new feed and starts the ping loop at the given interval.
func New(log *logger.Logger, pingInterval time.Duration) *Feed {
	f := Feed{
		log:      log,
		watchers: newWatchers(log),
		shutdown: make(chan struct{}),
	}

	f.ping(pingInterval)

	return &f
}

// Shutdown stops the ping loop and disconnects every watcher.
func (f *Feed) Shutdown(ctx context.Context) {
	close(f.shutdown)
	f.wg.Wait()

	for _, wtr := range f.watchers.all() {
		f.watchers.remove(ctx, wtr.ID)
	}
}

// Count returns the number of connected watchers.
func (f *Feed) Count() int {
	return f.watchers.count()
}

// Handshake upgrades the request to a websocket and registers the connection
// as a watcher.
func (f *Feed) Handshake(ctx context.Context, w http.ResponseWriter, r *http.Request) (Watcher, error) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return Watcher{}, errs.Newf(errs.FailedPrecondition, "unable to upgrade to websocket")
	}

	now := time.Now()

	wtr := Watcher{
		ID:       uuid.New(),
		Conn:     conn,
		LastPing: now,
		LastPong: now,
		mu:       &sync.Mutex{},
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
	}

	conn.SetPongHandler(f.pong(wtr.ID))

	if err := f.watchers.add(ctx, wtr); err != nil {
		conn.Close()
		return Watcher{}, fmt.Errorf("add watcher: %w", err)
	}

	if err := f.write(wtr, websocket.TextMessage, []byte("WELCOME")); err != nil {
		f.watchers.remove(ctx, wtr.ID)
		return Watcher{}, fmt.Errorf("write message: %w", err)
	}

	go f.writer(wtr)

	f.log.Info(ctx, "feed-handshake", "status", "complete", "id", wtr.ID)

	return wtr, nil
}

// Listen blocks until the watcher disconnects. Watchers only receive, so any
// message sent by the client is discarded.
func (f *Feed) Listen(ctx context.Context, wtr Watcher) {
	defer f.watchers.remove(ctx, wtr.ID)

	for {
		if _, _, err := wtr.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				f.log.Info(ctx, "feed-listen", "id", wtr.ID, "ERROR", err)
			}
			return
		}
	}
}

// Notify implements the registry notifier interface by queuing the
// registration for every connected watcher. A watcher whose queue is full is
// disconnected so a slow reader never holds up the caller.
func (f *Feed) Notify(ctx context.Context, reg registry.Registration) {
	data, err := json.Marshal(registry.NewEvent(reg))
	if err != nil {
		f.log.Error(ctx, "feed-notify", "status", "marshal", "ERROR", err)
		return
	}

	for _, wtr := range f.watchers.all() {
		select {
		case wtr.send <- data:
		default:
			f.log.Info(ctx, "feed-notify", "status", "queue full", "id", wtr.ID)
			f.watchers.remove(ctx, wtr.ID)
		}
	}
}

// =============================================================================

func (f *Feed) write(wtr Watcher, messageType int, data []byte) error {
	wtr.mu.Lock()
	defer wtr.mu.Unlock()

	wtr.Conn.SetWriteDeadline(time.Now().Add(writeWait))

	return wtr.Conn.WriteMessage(messageType, data)
}

// writer delivers queued events to the watcher until it is removed.
func (f *Feed) writer(wtr Watcher) {
	ctx := web.SetTraceID(context.Background(), uuid.New())

	for {
		select {
		case <-wtr.done:
			return

		case data := <-wtr.send:
			if err := f.write(wtr, websocket.TextMessage, data); err != nil {
				f.log.Info(ctx, "feed-writer", "status", "write failed", "id", wtr.ID, "ERROR", err)
				f.watchers.remove(ctx, wtr.ID)
				return
			}
		}
	}
}

func (f *Feed) pong(id uuid.UUID) func(appData string) error {
	h := func(appData string) error {
		ctx := web.SetTraceID(context.Background(), uuid.New())

		if err := f.watchers.updateLastPong(id); err != nil {
			f.log.Debug(ctx, "*** PONG ***", "id", id, "ERROR", err)
		}

		return nil
	}

	return h
}

func (f *Feed) ping(interval time.Duration) {
	ticker := time.NewTicker(interval)
	maxWait := 2 * interval

	f.wg.Add(1)

	go func() {
		defer f.wg.Done()
		defer ticker.Stop()

		ctx := web.SetTraceID(context.Background(), uuid.New())

		for {
			select {
			case <-f.shutdown:
				return
			case <-ticker.C:
			}

			f.log.Debug(ctx, "*** PING ***", "status", "started")

			for id, conn := range f.watchers.connections() {
				if since := time.Since(conn.LastPong); since > maxWait {
					f.log.Info(ctx, "*** PING ***", "status", "stale", "id", id, "since", since.String())
					f.watchers.remove(ctx, id)
					continue
				}

				if err := conn.Conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeWait)); err != nil {
					f.log.Info(ctx, "*** PING ***", "status", "failed", "id", id, "ERROR", err)
					continue
				}

				if err := f.watchers.updateLastPing(id); err != nil {
					f.log.Debug(ctx, "*** PING ***", "status", "failed", "id", id, "ERROR", err)
				}
			}

			f.log.Debug(ctx, "*** PING ***", "status", "completed")
		}
	}()
}
