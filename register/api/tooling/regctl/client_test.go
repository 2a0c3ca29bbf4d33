package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/signup/register/app/sdk/registry"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRegister(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/register", r.URL.Path)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"name": "Alice", "address": "1 Main St"}, body)

		w.Write([]byte(`{"success":true,"message":"New user created and address saved."}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, time.Second).Register("Alice", "1 Main St")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "New user created and address saved.", res.Message)
}

func TestClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"message":"user \"Bob\" not found"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).History("Bob")
	assert.EqualError(t, err, `status 404: user "Bob" not found`)
}

func TestWatcherRun(t *testing.T) {
	evt := registry.Event{
		Type:    "registration",
		UserID:  "6d1c4b8e-2a8f-4a4e-9a57-8f1c6b1e2d3f",
		Name:    "Alice",
		Address: "1 Main St",
		NewUser: true,
		Time:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var upgrader websocket.Upgrader
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		conn.WriteMessage(websocket.TextMessage, []byte("WELCOME"))
		conn.WriteJSON(evt)
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
	defer srv.Close()

	w := NewWatcher("ws" + strings.TrimPrefix(srv.URL, "http"))
	defer w.Close()

	require.NoError(t, w.Handshake())

	var out bytes.Buffer
	require.NoError(t, w.Run(&out))

	assert.Equal(t, "2026-01-02T03:04:05Z\tnew\t6d1c4b8e-2a8f-4a4e-9a57-8f1c6b1e2d3f\tAlice\t1 Main St\n", out.String())
}
