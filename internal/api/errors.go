package api

import (
	"fmt"
	"net/http"

	"github.com/flixfile/flixctl/internal/shared"
)

// ServerError is the normalized form of any non-2xx response. The request
// reached the server and was rejected; Status and Body carry what came back.
type ServerError struct {
	Status int
	Body   []byte
}

func (e *ServerError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("server rejected the request: status %d: %s", e.Status, string(e.Body))
	}
	return fmt.Sprintf("server rejected the request: status %d", e.Status)
}

// Unwrap lets callers branch with errors.Is(err, shared.ErrServer) without
// caring about the concrete type.
func (e *ServerError) Unwrap() error {
	return shared.ErrServer
}

// Unauthorized reports whether the server rejected the call for lack of valid
// credentials.
func (e *ServerError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// Conflict reports whether the server rejected the call as a duplicate
// (409-class, e.g. registering an existing username).
func (e *ServerError) Conflict() bool {
	return e.Status == http.StatusConflict
}
