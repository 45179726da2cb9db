package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gtuverse/clubdeck/internal/domain"
)

var ErrSessionExpired = errors.New("session expired")

// Claims is the subset of the authority's token payload the client
// cares about.
type Claims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Identity resolves the current user from a session. The user recorded
// at login wins; the token claims are the fallback for sessions written
// by older builds that stored only the token. The signature is not
// checked here: the authority verifies it on every call, the client only
// needs the identity and the expiry.
func Identity(sess *Session) (*domain.User, error) {
	if sess == nil || sess.Token == "" {
		return nil, ErrNoSession
	}

	claims, err := parseClaims(sess.Token)
	if err == nil && claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, ErrSessionExpired
	}

	if sess.User.ID != 0 {
		u := sess.User
		return &u, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.User{ID: domain.UserID(claims.UserID), Username: claims.Username}, nil
}

func parseClaims(token string) (*Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}
