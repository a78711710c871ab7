package web

import (
	"net/http"

	"github.com/pkg/errors"
)

// FieldError describes a single invalid request field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ErrorResponse is the body sent for every failed request.
type ErrorResponse struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
	Status bool         `json:"status"`
}

// Error carries an error together with the http status it maps to. It is the
// single error currency between repositories, services and controllers.
type Error struct {
	Err    error
	Status int
	Fields []FieldError
}

// NewRequestError wraps err with an http status.
func NewRequestError(err error, status int) error {
	return &Error{Err: err, Status: status}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return http.StatusText(e.Status)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusOf reports the http status carried by err, or 500 when err does not
// carry one.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var webErr *Error
	if errors.As(err, &webErr) {
		return webErr.Status
	}

	return http.StatusInternalServerError
}
