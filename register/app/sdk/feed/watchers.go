package feed

import (
	"context"
	"sync"
	"time"

	"github.com/ardanlabs/signup/register/foundation/logger"
	"github.com/google/uuid"
)

// watchers provides watcher storage management.
type watchers struct {
	log        *logger.Logger
	watchers   map[uuid.UUID]Watcher
	muWatchers sync.RWMutex
}

func newWatchers(log *logger.Logger) *watchers {
	return &watchers{
		log:      log,
		watchers: make(map[uuid.UUID]Watcher),
	}
}

func (w *watchers) add(ctx context.Context, wtr Watcher) error {
	w.muWatchers.Lock()
	defer w.muWatchers.Unlock()

	if _, exists := w.watchers[wtr.ID]; exists {
		return ErrExists
	}

	w.watchers[wtr.ID] = wtr

	w.log.Info(ctx, "feed-addwatcher", "id", wtr.ID, "remoteaddr", wtr.Conn.RemoteAddr().String())

	return nil
}

func (w *watchers) updateLastPing(id uuid.UUID) error {
	w.muWatchers.Lock()
	defer w.muWatchers.Unlock()

	wtr, exists := w.watchers[id]
	if !exists {
		return ErrNotExists
	}

	wtr.LastPing = time.Now()
	w.watchers[id] = wtr

	return nil
}

func (w *watchers) updateLastPong(id uuid.UUID) error {
	w.muWatchers.Lock()
	defer w.muWatchers.Unlock()

	wtr, exists := w.watchers[id]
	if !exists {
		return ErrNotExists
	}

	wtr.LastPong = time.Now()
	w.watchers[id] = wtr

	return nil
}

func (w *watchers) remove(ctx context.Context, id uuid.UUID) {
	w.muWatchers.Lock()
	defer w.muWatchers.Unlock()

	wtr, exists := w.watchers[id]
	if !exists {
		return
	}

	delete(w.watchers, id)
	close(wtr.done)
	wtr.Conn.Close()

	w.log.Info(ctx, "feed-removewatcher", "id", id)
}

// connections returns a snapshot of every watcher with its connection.
func (w *watchers) connections() map[uuid.UUID]Connection {
	w.muWatchers.RLock()
	defer w.muWatchers.RUnlock()

	m := make(map[uuid.UUID]Connection, len(w.watchers))
	for id, wtr := range w.watchers {
		m[id] = Connection{
			Conn:     wtr.Conn,
			LastPing: wtr.LastPing,
			LastPong: wtr.LastPong,
		}
	}

	return m
}

// all returns a snapshot of the current watchers.
func (w *watchers) all() []Watcher {
	w.muWatchers.RLock()
	defer w.muWatchers.RUnlock()

	wtrs := make([]Watcher, 0, len(w.watchers))
	for _, wtr := range w.watchers {
		wtrs = append(wtrs, wtr)
	}

	return wtrs
}

func (w *watchers) count() int {
	w.muWatchers.RLock()
	defer w.muWatchers.RUnlock()

	return len(w.watchers)
}
