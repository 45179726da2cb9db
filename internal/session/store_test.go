package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gtuverse/clubdeck/internal/domain"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "clubdeck", "session.json"))
}

func signedToken(t *testing.T, userID int, username string, ttl time.Duration) string {
	t.Helper()
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestStoreRoundTrip(t *testing.T) {
	store := testStore(t)

	sess := &Session{
		Token: signedToken(t, 9, "newcomer", time.Hour),
		User:  domain.User{ID: 9, Username: "newcomer", Email: "n@example.com"},
	}
	require.NoError(t, store.Save(sess))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, sess.Token, loaded.Token)
	assert.Equal(t, sess.User, loaded.User)
	assert.Equal(t, sess.Token, store.Token())
}

func TestStoreMissingFileIsLoggedOut(t *testing.T) {
	store := testStore(t)

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, store.Token())
}

func TestStoreClear(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.Save(&Session{Token: "tok", User: domain.User{ID: 1}}))

	require.NoError(t, store.Clear())
	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	// Clearing twice is fine.
	assert.NoError(t, store.Clear())
}

func TestIdentityFromStoredUser(t *testing.T) {
	sess := &Session{
		Token: signedToken(t, 9, "newcomer", time.Hour),
		User:  domain.User{ID: 9, Username: "newcomer"},
	}
	user, err := Identity(sess)
	require.NoError(t, err)
	assert.Equal(t, domain.UserID(9), user.ID)
	assert.Equal(t, "newcomer", user.Username)
}

func TestIdentityFallsBackToClaims(t *testing.T) {
	// Token-only session, as written by builds that predate storing the user.
	sess := &Session{Token: signedToken(t, 7, "oldtimer", time.Hour)}

	user, err := Identity(sess)
	require.NoError(t, err)
	assert.Equal(t, domain.UserID(7), user.ID)
	assert.Equal(t, "oldtimer", user.Username)
}

func TestIdentityExpiredToken(t *testing.T) {
	sess := &Session{
		Token: signedToken(t, 9, "newcomer", -time.Minute),
		User:  domain.User{ID: 9, Username: "newcomer"},
	}
	_, err := Identity(sess)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestIdentityNoSession(t *testing.T) {
	_, err := Identity(nil)
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = Identity(&Session{})
	assert.ErrorIs(t, err, ErrNoSession)
}
