// Package errs provides types and support related to web error functionality.
package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrCode represents an error code in the system.
type ErrCode struct {
	value int
}

// Value returns the integer value of the error code.
func (ec ErrCode) Value() int {
	return ec.value
}

// String returns the string representation of the error code.
func (ec ErrCode) String() string {
	return codeNames[ec]
}

// The set of error codes the service can respond with.
var (
	InvalidArgument    = ErrCode{value: 3}
	NotFound           = ErrCode{value: 5}
	FailedPrecondition = ErrCode{value: 9}
	Internal           = ErrCode{value: 13}
	Unavailable        = ErrCode{value: 14}
)

var codeNames = map[ErrCode]string{
	InvalidArgument:    "invalid_argument",
	NotFound:           "not_found",
	FailedPrecondition: "failed_precondition",
	Internal:           "internal",
	Unavailable:        "unavailable",
}

var httpStatus = map[ErrCode]int{
	InvalidArgument:    http.StatusBadRequest,
	NotFound:           http.StatusNotFound,
	FailedPrecondition: http.StatusPreconditionFailed,
	Internal:           http.StatusInternalServerError,
	Unavailable:        http.StatusServiceUnavailable,
}

// Error represents an error in the system.
type Error struct {
	Code     ErrCode
	Message  string
	FuncName string
	FileName string
}

// New constructs an error based on an app error.
func New(code ErrCode, err error) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  err.Error(),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// Newf constructs an error based on a error message.
func Newf(code ErrCode, format string, v ...any) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  fmt.Sprintf(format, v...),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Encode implements the encoder interface. Every error leaves the service
// in the same envelope the success responses use.
func (e *Error) Encode() ([]byte, string, error) {
	resp := struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{
		Success: false,
		Message: e.Message,
	}

	data, err := json.Marshal(resp)
	return data, "application/json", err
}

// HTTPStatus implements the web package httpStatus interface so the
// web framework can use the correct http status.
func (e *Error) HTTPStatus() int {
	if status, exists := httpStatus[e.Code]; exists {
		return status
	}

	return http.StatusInternalServerError
}

// Equal provides support for the go-cmp package and testing.
func (e *Error) Equal(e2 *Error) bool {
	return e.Code == e2.Code && e.Message == e2.Message
}

// IsError tests the concrete error is of the Error type.
func IsError(err error) bool {
	var er *Error
	return errors.As(err, &er)
}

// GetError returns a copy of the Error pointer.
func GetError(err error) *Error {
	var er *Error
	if !errors.As(err, &er) {
		return nil
	}
	return er
}
