package domain

import "errors"

var (
	ErrNotMember     = errors.New("not a member of this room")
	ErrAlreadyMember = errors.New("already a member of this room")
)

// Member is one roster entry of a room. User IDs are unique within a
// roster; the email is optional in roster context.
type Member struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// NewMember avoids raw literals in callers and keeps construction obvious.
func NewMember(u *User) Member {
	return Member{ID: u.ID, Username: u.Username, Email: u.Email}
}
