package natsbus_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ardanlabs/signup/register/app/sdk/registry"
	"github.com/ardanlabs/signup/register/app/sdk/registry/notifiers/natsbus"
	"github.com/ardanlabs/signup/register/foundation/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publisher struct {
	subj string
	data []byte
	err  error
}

func (p *publisher) Publish(subj string, data []byte) error {
	p.subj = subj
	p.data = data
	return p.err
}

func TestNotifyPublishesEvent(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.LevelInfo, "TEST", func(context.Context) string { return "" })

	pub := publisher{}
	bus := natsbus.New(log, &pub, "registrations")

	reg := registry.Registration{
		User:    registry.User{ID: uuid.New(), Name: "Alice"},
		Address: registry.Address{ID: 1, Address: "1 Main St"},
		NewUser: true,
	}

	bus.Notify(context.Background(), reg)

	assert.Equal(t, "registrations", pub.subj)

	var evt registry.Event
	require.NoError(t, json.Unmarshal(pub.data, &evt))
	assert.Equal(t, reg.User.ID.String(), evt.UserID)
	assert.Equal(t, "1 Main St", evt.Address)
	assert.True(t, evt.NewUser)
	assert.Empty(t, buf.String())
}

func TestNotifyPublishFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.LevelInfo, "TEST", func(context.Context) string { return "" })

	pub := publisher{err: errors.New("nats: connection closed")}
	bus := natsbus.New(log, &pub, "registrations")

	bus.Notify(context.Background(), registry.Registration{})

	assert.Contains(t, buf.String(), "publish failed")
	assert.Contains(t, buf.String(), "nats: connection closed")
}
