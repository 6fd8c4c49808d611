package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors. Every specific auth failure wraps ErrAuth so
	// callers can match the whole class with errors.Is.
	ErrAuth               = fmt.Errorf("authentication failed")
	ErrNotAuthenticated   = fmt.Errorf("%w: not authenticated", ErrAuth)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrAuth)
	ErrTokenExpired       = fmt.Errorf("%w: session expired", ErrAuth)
	ErrInvalidToken       = fmt.Errorf("%w: invalid session token", ErrAuth)

	// Persistence errors
	ErrNotFound = fmt.Errorf("not found")
	ErrConflict = fmt.Errorf("already exists")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrValidation      = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("%w: missing required argument", ErrValidation)
	ErrInvalidArgument = fmt.Errorf("%w: invalid argument", ErrValidation)
)
