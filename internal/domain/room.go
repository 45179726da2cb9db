package domain

import "errors"

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomNameEmpty = errors.New("room name empty")
	ErrRoomFull      = errors.New("room is full")
)

type RoomID int

// Room mirrors one room of the remote directory. Size counts current
// members and never exceeds Capacity on the authority's side; local
// copies may lag behind until the next refresh.
type Room struct {
	ID       RoomID `json:"id"`
	Name     string `json:"name"`
	Size     int    `json:"size"`
	Capacity int    `json:"capacity"`
}

func (r *Room) IsFull() bool {
	return r.Size >= r.Capacity
}
