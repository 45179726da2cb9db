// Package domain contains entity without logic, just meta-data
package domain

import "errors"

var (
	ErrNoIdentity   = errors.New("no authenticated identity")
	ErrUserNotFound = errors.New("user not found")
)

type UserID int

// User is the authenticated identity as issued by the remote authority.
// The client never mutates it; it is read-only input to the engine.
type User struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}
