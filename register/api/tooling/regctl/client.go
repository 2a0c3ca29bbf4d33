package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ardanlabs/signup/register/app/domain/registerapp"
	"github.com/ardanlabs/signup/register/app/sdk/registry"
	"github.com/gorilla/websocket"
)

// Client talks to the registration api.
type Client struct {
	host string
	http *http.Client
}

// NewClient constructs a client for the api at the specified host.
func NewClient(host string, timeout time.Duration) *Client {
	return &Client{
		host: host,
		http: &http.Client{Timeout: timeout},
	}
}

// Register posts a registration.
func (c *Client) Register(name string, address string) (registerapp.Result, error) {
	data, err := json.Marshal(registerapp.NewRegistration{
		Name:    name,
		Address: address,
	})
	if err != nil {
		return registerapp.Result{}, fmt.Errorf("marshal: %w", err)
	}

	resp, err := c.http.Post(c.host+"/register", "application/json", bytes.NewReader(data))
	if err != nil {
		return registerapp.Result{}, fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	var res registerapp.Result
	if err := decode(resp, &res); err != nil {
		return registerapp.Result{}, err
	}

	return res, nil
}

// History retrieves a user's address history.
func (c *Client) History(name string) (registerapp.History, error) {
	resp, err := c.http.Get(c.host + "/users/" + url.PathEscape(name))
	if err != nil {
		return registerapp.History{}, fmt.Errorf("get: %w", err)
	}
	defer resp.Body.Close()

	var hist registerapp.History
	if err := decode(resp, &hist); err != nil {
		return registerapp.History{}, err
	}

	return hist, nil
}

func decode(resp *http.Response, v any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var res registerapp.Result
		if err := json.Unmarshal(body, &res); err == nil && res.Message != "" {
			return fmt.Errorf("status %d: %s", resp.StatusCode, res.Message)
		}
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	return nil
}

// =============================================================================

// Watcher follows the registration feed.
type Watcher struct {
	url  string
	conn *websocket.Conn
}

// NewWatcher constructs a watcher for the feed at the specified url.
func NewWatcher(url string) *Watcher {
	return &Watcher{
		url: url,
	}
}

// Close closes the feed connection.
func (w *Watcher) Close() error {
	if w.conn == nil {
		return nil
	}

	return w.conn.Close()
}

// Handshake connects to the feed and waits for the greeting.
func (w *Watcher) Handshake() error {
	conn, _, err := websocket.DefaultDialer.Dial(w.url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	w.conn = conn

	_, msg, err := conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	if string(msg) != "WELCOME" {
		return fmt.Errorf("unexpected message: %s", msg)
	}

	return nil
}

// Run prints every event received until the connection closes.
func (w *Watcher) Run(out io.Writer) error {
	for {
		var evt registry.Event
		if err := w.conn.ReadJSON(&evt); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		branch := "existing"
		if evt.NewUser {
			branch = "new"
		}

		fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\n", evt.Time.Format(time.RFC3339), branch, evt.UserID, evt.Name, evt.Address)
	}
}
