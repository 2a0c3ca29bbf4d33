// Package natsbus publishes registrations onto a NATS subject.
package natsbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ardanlabs/signup/register/app/sdk/registry"
	"github.com/ardanlabs/signup/register/foundation/logger"
	"github.com/nats-io/nats.go"
)

// Publisher defines the behavior required to put a message on the bus.
// A *nats.Conn satisfies this interface.
type Publisher interface {
	Publish(subj string, data []byte) error
}

// Bus publishes registration events.
type Bus struct {
	log     *logger.Logger
	pub     Publisher
	subject string
}

// New constructs a bus that publishes on the specified subject.
func New(log *logger.Logger, pub Publisher, subject string) *Bus {
	return &Bus{
		log:     log,
		pub:     pub,
		subject: subject,
	}
}

// Connect opens a connection to the NATS server at the specified host.
func Connect(host string, name string) (*nats.Conn, error) {
	nc, err := nats.Connect(host, nats.Name(name), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return nc, nil
}

// Notify implements the registry notifier interface.
func (b *Bus) Notify(ctx context.Context, reg registry.Registration) {
	data, err := json.Marshal(registry.NewEvent(reg))
	if err != nil {
		b.log.Error(ctx, "natsbus-notify", "status", "marshal", "ERROR", err)
		return
	}

	if err := b.pub.Publish(b.subject, data); err != nil {
		b.log.Info(ctx, "natsbus-notify", "status", "publish failed", "subject", b.subject, "ERROR", err)
		return
	}

	b.log.Debug(ctx, "natsbus-notify", "status", "published", "subject", b.subject, "userID", reg.User.ID)
}
