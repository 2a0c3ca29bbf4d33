package web

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type ctxKey int

const (
	key ctxKey = iota + 1
	writerKey
)

type values struct {
	TraceID    uuid.UUID
	Now        time.Time
	StatusCode int
}

func setValues(ctx context.Context, v *values) context.Context {
	return context.WithValue(ctx, key, v)
}

// GetTraceID returns the trace id from the context.
func GetTraceID(ctx context.Context) uuid.UUID {
	v, ok := ctx.Value(key).(*values)
	if !ok {
		return uuid.UUID{}
	}

	return v.TraceID
}

// SetTraceID sets the trace id into a new set of values for contexts that do
// not originate from a web request.
func SetTraceID(ctx context.Context, traceID uuid.UUID) context.Context {
	v, ok := ctx.Value(key).(*values)
	if !ok {
		return setValues(ctx, &values{
			TraceID: traceID,
			Now:     time.Now().UTC(),
		})
	}

	v.TraceID = traceID
	return ctx
}

// GetTime returns the time the request started from the context.
func GetTime(ctx context.Context) time.Time {
	v, ok := ctx.Value(key).(*values)
	if !ok {
		return time.Now()
	}

	return v.Now
}

// GetStatusCode returns the status code written for the request.
func GetStatusCode(ctx context.Context) int {
	v, ok := ctx.Value(key).(*values)
	if !ok {
		return 0
	}

	return v.StatusCode
}

func setStatusCode(ctx context.Context, statusCode int) {
	v, ok := ctx.Value(key).(*values)
	if !ok {
		return
	}

	v.StatusCode = statusCode
}

func setWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, writerKey, w)
}

// GetWriter returns the underlying writer for the request.
func GetWriter(ctx context.Context) http.ResponseWriter {
	v, ok := ctx.Value(writerKey).(http.ResponseWriter)
	if !ok {
		return nil
	}

	return v
}
