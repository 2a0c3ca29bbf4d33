package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ardanlabs/signup/register/app/sdk/errs"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code   errs.ErrCode
		status int
	}{
		{code: errs.InvalidArgument, status: http.StatusBadRequest},
		{code: errs.NotFound, status: http.StatusNotFound},
		{code: errs.FailedPrecondition, status: http.StatusPreconditionFailed},
		{code: errs.Internal, status: http.StatusInternalServerError},
		{code: errs.Unavailable, status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			err := errs.Newf(tt.code, "boom")
			assert.Equal(t, tt.status, err.HTTPStatus())
		})
	}
}

func TestEncode(t *testing.T) {
	err := errs.New(errs.Internal, errors.New("disk I/O error"))

	data, contentType, encErr := err.Encode()
	assert.NoError(t, encErr)
	assert.Equal(t, "application/json", contentType)
	assert.JSONEq(t, `{"success":false,"message":"disk I/O error"}`, string(data))
}

func TestGetError(t *testing.T) {
	appErr := errs.Newf(errs.NotFound, "user %q not found", "bill")
	wrapped := fmt.Errorf("query: %w", appErr)

	assert.True(t, errs.IsError(wrapped))
	assert.True(t, appErr.Equal(errs.GetError(wrapped)))

	assert.False(t, errs.IsError(errors.New("plain")))
	assert.Nil(t, errs.GetError(errors.New("plain")))
}
