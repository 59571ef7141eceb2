package errors

import (
	"errors"
)

// Common error types for the storefront
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("incorrect credentials")
	ErrNoSession          = errors.New("no session")
	ErrMalformedSession   = errors.New("malformed session")

	// Authorization errors
	ErrNotOwner = errors.New("resource does not belong to the session owner")

	// Lookup errors
	ErrOwnerNotFound = errors.New("owner not found")
	ErrStoreNotFound = errors.New("store not found")

	// Input errors
	ErrInvalidRequest = errors.New("invalid request")

	// General errors
	ErrInternal = errors.New("internal error")
)

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
