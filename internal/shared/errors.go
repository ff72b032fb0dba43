package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session and authentication errors
	ErrUnauthenticated = fmt.Errorf("not signed in")
	ErrAuthFailed      = fmt.Errorf("authentication failed")
	ErrSessionStorage  = fmt.Errorf("session storage failed")

	// Gateway errors
	ErrTransport     = fmt.Errorf("request never reached the server")
	ErrServer        = fmt.Errorf("server rejected the request")
	ErrMovieNotFound = fmt.Errorf("movie not found")
	ErrUserNotFound  = fmt.Errorf("user not found")

	// Favorites errors
	ErrConflictInProgress = fmt.Errorf("a change for this movie is already in flight")
	ErrViewDiscarded      = fmt.Errorf("view no longer active")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
