package directory

import "fmt"

// TransportError means the authority was never reached: DNS, refused
// connection, timeout. The request may or may not have been seen remotely.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: remote authority unreachable: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AuthorityError is a non-success response from the remote authority.
// Message carries the server-supplied explanation when the body had one.
type AuthorityError struct {
	Status  int
	Message string
}

func (e *AuthorityError) Error() string {
	return fmt.Sprintf("authority rejected request (%d): %s", e.Status, e.Message)
}
