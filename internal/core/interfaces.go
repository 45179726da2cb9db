// Package core holds the live session state of a viewed room: the
// mirrored roster and capacity, the local chat transcript, and the
// room listing cache. The remote directory stays the owner of the
// durable truth; this package only keeps a consistent local view of it.
package core

import (
	"context"

	"github.com/gtuverse/clubdeck/internal/domain"
)

// Directory is the slice of the remote authority the engine consumes.
// *directory.Client satisfies it; tests inject fakes.
type Directory interface {
	GetRoom(ctx context.Context, id domain.RoomID) (*domain.Room, error)
	GetMembers(ctx context.Context, roomID domain.RoomID) ([]domain.Member, error)
	AddMember(ctx context.Context, roomID domain.RoomID, userID domain.UserID) error
	RemoveMember(ctx context.Context, roomID domain.RoomID, userID domain.UserID) error
	CreateRoom(ctx context.Context, name string) (*domain.Room, error)
	ListRooms(ctx context.Context) ([]domain.Room, error)
}
