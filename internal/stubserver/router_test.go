package stubserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gtuverse/clubdeck/internal/config"
	"github.com/gtuverse/clubdeck/internal/directory"
	"github.com/gtuverse/clubdeck/internal/domain"
)

// tokenHolder lets the test swap tokens after login, the way the real
// session store does.
type tokenHolder struct{ tok string }

func (h *tokenHolder) Token() string { return h.tok }

// startStub wires a directory.Client against a live stub, so these
// tests double as wire-contract tests for both sides.
func startStub(t *testing.T) (*directory.Client, *tokenHolder, *Store) {
	t.Helper()
	store := NewStore()
	cfg := &config.Config{Mode: "release", Secret: "test-secret"}
	srv := httptest.NewServer(SetupRouter(cfg, store))
	t.Cleanup(srv.Close)

	holder := &tokenHolder{}
	return directory.NewClient(srv.URL, 2*time.Second, holder), holder, store
}

func login(t *testing.T, client *directory.Client, holder *tokenHolder, username string) domain.User {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, client.Register(ctx, username, username+"@example.com", "hunter22"))
	res, err := client.Login(ctx, username, "hunter22")
	require.NoError(t, err)
	holder.tok = res.Token
	return res.User
}

func TestRegisterAndLogin(t *testing.T) {
	client, holder, _ := startStub(t)
	user := login(t, client, holder, "newcomer")

	assert.Equal(t, domain.UserID(1), user.ID)
	assert.Equal(t, "newcomer", user.Username)
	assert.NotEmpty(t, holder.tok)

	users, err := client.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "newcomer", users[0].Username)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	client, _, _ := startStub(t)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "dupe", "a@example.com", "hunter22"))
	err := client.Register(ctx, "dupe", "b@example.com", "hunter22")
	var ae *directory.AuthorityError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusConflict, ae.Status)
}

func TestLoginBadCredentials(t *testing.T) {
	client, _, _ := startStub(t)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "newcomer", "n@example.com", "hunter22"))
	_, err := client.Login(ctx, "newcomer", "wrong")
	var ae *directory.AuthorityError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	client, _, _ := startStub(t)

	_, err := client.ListRooms(context.Background())
	var ae *directory.AuthorityError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
}

func TestRoomLifecycle(t *testing.T) {
	client, holder, _ := startStub(t)
	login(t, client, holder, "host")
	ctx := context.Background()

	room, err := client.CreateRoom(ctx, "Neon Lounge")
	require.NoError(t, err)
	assert.Equal(t, domain.RoomID(1), room.ID)
	assert.Zero(t, room.Size)
	assert.Equal(t, DefaultCapacity, room.Capacity)

	got, err := client.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "Neon Lounge", got.Name)

	rooms, err := client.ListRooms(ctx)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)

	require.NoError(t, client.DeleteRoom(ctx, room.ID))
	_, err = client.GetRoom(ctx, room.ID)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestMembership(t *testing.T) {
	client, holder, _ := startStub(t)
	user := login(t, client, holder, "newcomer")
	ctx := context.Background()

	room, err := client.CreateRoom(ctx, "Neon Lounge")
	require.NoError(t, err)

	require.NoError(t, client.AddMember(ctx, room.ID, user.ID))

	members, err := client.GetMembers(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, user.ID, members[0].ID)

	got, err := client.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Size)

	mine, err := client.RoomsForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, room.ID, mine[0].ID)

	require.NoError(t, client.RemoveMember(ctx, room.ID, user.ID))
	got, err = client.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Size)
}

func TestDuplicateJoinRejected(t *testing.T) {
	client, holder, _ := startStub(t)
	user := login(t, client, holder, "newcomer")
	ctx := context.Background()

	room, err := client.CreateRoom(ctx, "Neon Lounge")
	require.NoError(t, err)
	require.NoError(t, client.AddMember(ctx, room.ID, user.ID))

	err = client.AddMember(ctx, room.ID, user.ID)
	var ae *directory.AuthorityError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusConflict, ae.Status)

	members, err := client.GetMembers(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1, "at most one roster entry per identity")
}

func TestCapacityEnforced(t *testing.T) {
	client, holder, store := startStub(t)
	login(t, client, holder, "watcher")
	ctx := context.Background()

	room := store.CreateRoom("Tiny", 2)
	for i := 0; i < 2; i++ {
		u, err := store.CreateUser(fmt.Sprintf("guest%d", i), "g@example.com", "hunter22")
		require.NoError(t, err)
		require.NoError(t, client.AddMember(ctx, room.ID, u.ID))
	}

	late, err := store.CreateUser("late", "late@example.com", "hunter22")
	require.NoError(t, err)
	err = client.AddMember(ctx, room.ID, late.ID)
	var ae *directory.AuthorityError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusConflict, ae.Status)
	assert.Equal(t, "room is full", ae.Message)

	got, err := client.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Size)
	assert.LessOrEqual(t, got.Size, got.Capacity)
}

func TestRemoveNonMember(t *testing.T) {
	client, holder, _ := startStub(t)
	user := login(t, client, holder, "stranger")
	ctx := context.Background()

	room, err := client.CreateRoom(ctx, "Neon Lounge")
	require.NoError(t, err)

	err = client.RemoveMember(ctx, room.ID, user.ID)
	var ae *directory.AuthorityError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusNotFound, ae.Status)
}
