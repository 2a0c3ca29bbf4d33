package checkapp_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ardanlabs/signup/register/app/domain/checkapp"
	"github.com/ardanlabs/signup/register/foundation/logger"
	"github.com/ardanlabs/signup/register/foundation/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checker struct {
	err error
}

func (c checker) StatusCheck(ctx context.Context) error {
	return c.err
}

func newApp(t *testing.T, c checker) *web.App {
	t.Helper()

	log := logger.New(io.Discard, logger.LevelInfo, "TEST", func(context.Context) string { return "" })
	app := web.NewApp(func(ctx context.Context, msg string, args ...any) {})

	checkapp.Routes(app, checkapp.Config{
		Build:    "test",
		Log:      log,
		Checker:  c,
		Watchers: func() int { return 3 },
	})

	return app
}

func TestReadiness(t *testing.T) {
	w := httptest.NewRecorder()
	newApp(t, checker{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readiness", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestReadinessFailure(t *testing.T) {
	w := httptest.NewRecorder()
	newApp(t, checker{err: errors.New("ping: sql: database is closed")}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readiness", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"ping: sql: database is closed"}`, w.Body.String())
}

func TestLiveness(t *testing.T) {
	w := httptest.NewRecorder()
	newApp(t, checker{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/liveness", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var info struct {
		Status   string `json:"status"`
		Build    string `json:"build"`
		Watchers int    `json:"watchers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "up", info.Status)
	assert.Equal(t, "test", info.Build)
	assert.Equal(t, 3, info.Watchers)
}
