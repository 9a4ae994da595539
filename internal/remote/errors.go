package remote

import "fmt"

// TransportError is a read failure at the HTTP layer: either the request
// timed out or the resource failed to load.
type TransportError struct {
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("remote read timed out: %v", e.Err)
	}
	return fmt.Sprintf("remote read failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError is a logical error encoded in the response payload itself
// ({"error": "..."}). It is not retried: the read succeeded, the remote
// store rejected the request.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote store error: %s", e.Message)
}
