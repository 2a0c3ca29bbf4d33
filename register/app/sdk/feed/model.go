package feed

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Watcher represents a websocket connection receiving registration events.
type Watcher struct {
	ID       uuid.UUID
	Conn     *websocket.Conn
	LastPing time.Time
	LastPong time.Time
	mu       *sync.Mutex
	send     chan []byte
	done     chan struct{}
}

// Connection is a snapshot of a watcher used by the ping loop.
type Connection struct {
	Conn     *websocket.Conn
	LastPing time.Time
	LastPong time.Time
}
