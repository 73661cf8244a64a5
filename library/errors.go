package library

import "errors"

// Domain errors surfaced across the store boundary. Callers match them with
// errors.Is; anything else coming out of a store method is an infrastructure
// failure from the underlying database, wrapped with context.
var (
	ErrMissingField         = errors.New("all fields are required")
	ErrDuplicateUserName    = errors.New("username already taken")
	ErrInvalidCredentials   = errors.New("incorrect username or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrBookNotFound         = errors.New("book not found")
	ErrBookUnavailable      = errors.New("no copies available")
	ErrAlreadyCheckedOut    = errors.New("book already checked out by this user")
	ErrNoActiveCheckout     = errors.New("book was not checked out by this user")
	ErrNegativeAvailability = errors.New("availability cannot go below zero")
	ErrPermissionDenied     = errors.New("access level does not permit this action")
)
