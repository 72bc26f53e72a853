package req

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/xy-planning-network/paramconv"
)

// A ValidationError is an issue with a concrete value not matching the rule set on its field.
type ValidationError struct {
	Field string `json:"field"`
	Got   any    `json:"got"`
	Rule  string `json:"rule,omitempty"`
}

// ValidationErrors is a set of ValidationError.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msg := fmt.Sprintf("field=%q rule=%q got=%q", err.Field, err.Rule, fmt.Sprint(err.Got))
		msgs = append(msgs, msg)
	}

	return strings.Join(msgs, "\n")
}

func (v ValidationErrors) MarshalJSON() ([]byte, error) {
	var errs struct {
		E []ValidationError `json:"validationErrors,omitempty"`
	}

	errs.E = append(errs.E, v...)

	return json.Marshal(errs)
}

func (ValidationErrors) Unwrap() error { return paramconv.ErrNotValid }

// An Error is a request that could not be bound,
// carrying the HTTP status code the client ought to receive.
//
// Error reports the message of the failure that caused it, unchanged.
// Both that failure and one of [paramconv.ErrBadRequest], [paramconv.ErrNotExist],
// or [paramconv.ErrUnsupportedMediaType]
// are reachable through [errors.Is] and [errors.As].
type Error struct {
	Code int

	kind error
	err  error
}

func newError(code int, kind, err error) *Error {
	return &Error{Code: code, kind: kind, err: err}
}

// BadRequest constructs an *Error answering with 400 Bad Request.
func BadRequest(err error) *Error {
	return newError(http.StatusBadRequest, paramconv.ErrBadRequest, err)
}

// NotFound constructs an *Error answering with 404 Not Found.
func NotFound(err error) *Error {
	return newError(http.StatusNotFound, paramconv.ErrNotExist, err)
}

// UnsupportedMediaType constructs an *Error answering with 415 Unsupported Media Type.
func UnsupportedMediaType(err error) *Error {
	return newError(http.StatusUnsupportedMediaType, paramconv.ErrUnsupportedMediaType, err)
}

func (e *Error) Error() string { return e.err.Error() }

func (e *Error) Unwrap() []error { return []error{e.kind, e.err} }
