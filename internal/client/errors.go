package client

import (
	"errors"
	"fmt"
)

// ErrUnresolved indicates a resolution stage could not produce a result.
// Transport failures, non-200 statuses, and application-level envelope
// failures all degrade to this; nothing in the pipeline is fatal.
var ErrUnresolved = errors.New("unresolved")

// APIError reports an application-level failure from the API envelope
// (code != 0). Callers treat it exactly like a transport failure, so it
// matches ErrUnresolved under errors.Is; the code and message exist for
// diagnostics only.
type APIError struct {
	Endpoint string
	Code     int
	Message  string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api %s returned code %d: %s", e.Endpoint, e.Code, e.Message)
}

// Is allows for error checking with errors.Is().
func (e *APIError) Is(target error) bool {
	if target == ErrUnresolved {
		return true
	}
	_, ok := target.(*APIError)
	return ok
}
