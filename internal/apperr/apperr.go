package apperr

import "net/http"

// Error is a client-visible failure: a status code plus a message safe to
// return in the response body. Anything else surfaces as a generic 500.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func Validation(message string) *Error {
	return New(http.StatusBadRequest, message)
}

var (
	ErrInvalidCredentials = New(http.StatusUnauthorized, "invalid email or password")
	ErrUnauthorized       = New(http.StatusUnauthorized, "access token required")
	ErrInvalidToken       = New(http.StatusUnauthorized, "invalid or expired token")
	ErrInvalidRefresh     = New(http.StatusUnauthorized, "invalid refresh token")
	ErrForbidden          = New(http.StatusForbidden, "permission denied")

	ErrUserNotFound    = New(http.StatusNotFound, "user not found")
	ErrPostNotFound    = New(http.StatusNotFound, "post not found")
	ErrMethodNotFound  = New(http.StatusNotFound, "payment method not found")
	ErrInvoiceNotFound = New(http.StatusNotFound, "invoice not found")

	// Duplicate-state transitions are reported as 400, matching the API
	// contract clients already depend on, rather than 409.
	ErrDuplicateUser    = New(http.StatusBadRequest, "email or username already exists")
	ErrSelfFollow       = New(http.StatusBadRequest, "cannot follow yourself")
	ErrAlreadyFollowing = New(http.StatusBadRequest, "already following this user")
	ErrNotFollowing     = New(http.StatusBadRequest, "not following this user")
	ErrAlreadyLiked     = New(http.StatusBadRequest, "post already liked")
	ErrNotLiked         = New(http.StatusBadRequest, "post not liked")
	ErrDuplicateMethod  = New(http.StatusBadRequest, "payment method already added")
)
