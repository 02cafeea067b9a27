package apperr

import (
	"errors"
	"fmt"
)

// AppError is an error that carries the response code and HTTP status it
// should be reported with.
type AppError struct {
	Code       int
	Message    string
	HTTPStatus int
	Err        error
}

// New creates an AppError. cause may be nil.
func New(code int, msg string, httpStatus int, cause error) *AppError {
	return &AppError{Code: code, Message: msg, HTTPStatus: httpStatus, Err: cause}
}

// Wrap creates an AppError around err, or returns nil if err is nil.
func Wrap(err error, code int, msg string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return New(code, msg, httpStatus, err)
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var e *AppError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
