package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents an application error carrying the HTTP status it maps to.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error.
func New(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Wrap returns a copy of base carrying err as its cause, so the shared
// sentinel values are never mutated.
func Wrap(base *Error, err error) *Error {
	return &Error{Code: base.Code, Message: base.Message, Err: err}
}

// Is lets wrapped copies match their sentinel via errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// Validation errors
var (
	ErrValidation   = New(http.StatusBadRequest, "Validation error", nil)
	ErrInvalidInput = New(http.StatusBadRequest, "Invalid input", nil)
)

// Authentication / authorization errors
var (
	ErrDuplicateEmail     = New(http.StatusBadRequest, "Email already registered", nil)
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Invalid email or password", nil)
	ErrMissingToken       = New(http.StatusUnauthorized, "Access token required", nil)
	ErrInvalidToken       = New(http.StatusUnauthorized, "Invalid or expired token", nil)
	ErrForbidden          = New(http.StatusForbidden, "Forbidden", nil)
)

// Resource errors
var (
	ErrProductNotFound  = New(http.StatusNotFound, "Product not found", nil)
	ErrCartLineNotFound = New(http.StatusNotFound, "Item not found in cart", nil)
	ErrOrderNotFound    = New(http.StatusNotFound, "Order not found", nil)
	ErrUserNotFound     = New(http.StatusNotFound, "User not found", nil)
)

// Business rule errors
var (
	ErrOutOfStock        = New(http.StatusBadRequest, "Insufficient stock available", nil)
	ErrInsufficientStock = New(http.StatusBadRequest, "Insufficient stock", nil)
	ErrEmptyCart         = New(http.StatusBadRequest, "Cart is empty", nil)
	ErrConflict          = New(http.StatusConflict, "Concurrent modification, please retry", nil)
)

// Internal errors
var (
	ErrInternal = New(http.StatusInternalServerError, "Something went wrong", nil)
)

// AsAppError extracts an *Error from err, wrapping unknown errors as internal.
func AsAppError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(ErrInternal, err)
}
