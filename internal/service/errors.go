// Package service provides application-level services for managing flashcard sets.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check for these with errors.Is(); the API layer maps them to HTTP
// status codes.
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrSetNotOwned indicates a set is owned by a different user than the
	// one making the request. Mutations always require ownership; public
	// visibility only opens the read path.
	// API layer should map this to HTTP 403 Forbidden.
	ErrSetNotOwned = errors.New("set is owned by another user")

	// ErrEditConflict indicates a concurrent writer modified the set between
	// this request's load and save.
	// API layer should map this to HTTP 409 Conflict.
	ErrEditConflict = errors.New("set was modified by another request")
)
