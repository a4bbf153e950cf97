package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP status mapping.
type Kind int

const (
	KindInvalidInput Kind = iota + 1
	KindNotFound
	KindUnauthorized
	KindConflict
	KindInternal
)

// AppError carries a machine-readable code alongside the human message.
type AppError struct {
	Kind    Kind   `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to its response status code.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func InvalidInput(code, message string) *AppError {
	return &AppError{Kind: KindInvalidInput, Code: code, Message: message}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Code:    "not_found",
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Code: "unauthorized", Message: message}
}

func Conflict(code, message string) *AppError {
	return &AppError{Kind: KindConflict, Code: code, Message: message}
}

func Internal(err error) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Code:    "internal_error",
		Message: "internal server error",
		Err:     err,
	}
}

// From returns err as an *AppError, wrapping unknown errors as internal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
