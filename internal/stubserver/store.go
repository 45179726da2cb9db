// Package stubserver is an in-memory stand-in for the remote room
// directory, speaking the same wire contract. It exists for local
// development and integration tests; nothing here is durable.
package stubserver

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/gtuverse/clubdeck/internal/domain"
)

var ErrUsernameTaken = errors.New("username already taken")

// DefaultCapacity is assigned to rooms created over the wire; the
// contract has no capacity field on the create request.
const DefaultCapacity = 8

type account struct {
	user domain.User
	hash []byte
}

// Store is the threadsafe in-memory state behind the stub routes.
type Store struct {
	mu       sync.RWMutex
	nextUser int
	nextRoom int
	accounts map[domain.UserID]*account
	byName   map[string]domain.UserID
	rooms    map[domain.RoomID]*domain.Room
	rosters  map[domain.RoomID][]domain.UserID
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[domain.UserID]*account),
		byName:   make(map[string]domain.UserID),
		rooms:    make(map[domain.RoomID]*domain.Room),
		rosters:  make(map[domain.RoomID][]domain.UserID),
	}
}

func (s *Store) CreateUser(username, email, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[username]; ok {
		return nil, ErrUsernameTaken
	}
	s.nextUser++
	u := domain.User{ID: domain.UserID(s.nextUser), Username: username, Email: email}
	s.accounts[u.ID] = &account{user: u, hash: hash}
	s.byName[username] = u.ID
	return &u, nil
}

func (s *Store) Authenticate(username, password string) (*domain.User, error) {
	s.mu.RLock()
	id, ok := s.byName[username]
	var acc *account
	if ok {
		acc = s.accounts[id]
	}
	s.mu.RUnlock()

	if acc == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return nil, domain.ErrUserNotFound
	}
	u := acc.user
	return &u, nil
}

func (s *Store) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.accounts))
	for i := 1; i <= s.nextUser; i++ {
		if acc, ok := s.accounts[domain.UserID(i)]; ok {
			out = append(out, acc.user)
		}
	}
	return out
}

func (s *Store) CreateRoom(name string, capacity int) *domain.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextRoom++
	room := &domain.Room{ID: domain.RoomID(s.nextRoom), Name: name, Size: 0, Capacity: capacity}
	s.rooms[room.ID] = room
	return room
}

func (s *Store) Room(id domain.RoomID) (*domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	r := *room
	return &r, nil
}

func (s *Store) Rooms() []domain.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Room, 0, len(s.rooms))
	for i := 1; i <= s.nextRoom; i++ {
		if room, ok := s.rooms[domain.RoomID(i)]; ok {
			out = append(out, *room)
		}
	}
	return out
}

func (s *Store) DeleteRoom(id domain.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[id]; !ok {
		return domain.ErrRoomNotFound
	}
	delete(s.rooms, id)
	delete(s.rosters, id)
	return nil
}

func (s *Store) AddMember(roomID domain.RoomID, userID domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return domain.ErrRoomNotFound
	}
	if _, ok := s.accounts[userID]; !ok {
		return domain.ErrUserNotFound
	}
	for _, id := range s.rosters[roomID] {
		if id == userID {
			return domain.ErrAlreadyMember
		}
	}
	if room.Size >= room.Capacity {
		return domain.ErrRoomFull
	}
	s.rosters[roomID] = append(s.rosters[roomID], userID)
	room.Size = len(s.rosters[roomID])
	return nil
}

func (s *Store) RemoveMember(roomID domain.RoomID, userID domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return domain.ErrRoomNotFound
	}
	roster := s.rosters[roomID]
	for i, id := range roster {
		if id == userID {
			s.rosters[roomID] = append(roster[:i], roster[i+1:]...)
			room.Size = len(s.rosters[roomID])
			return nil
		}
	}
	return domain.ErrNotMember
}

func (s *Store) Members(roomID domain.RoomID) ([]domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.rooms[roomID]; !ok {
		return nil, domain.ErrRoomNotFound
	}
	out := make([]domain.Member, 0, len(s.rosters[roomID]))
	for _, id := range s.rosters[roomID] {
		if acc, ok := s.accounts[id]; ok {
			u := acc.user
			out = append(out, domain.NewMember(&u))
		}
	}
	return out, nil
}

func (s *Store) RoomsForUser(userID domain.UserID) []domain.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Room
	for i := 1; i <= s.nextRoom; i++ {
		id := domain.RoomID(i)
		room, ok := s.rooms[id]
		if !ok {
			continue
		}
		for _, uid := range s.rosters[id] {
			if uid == userID {
				out = append(out, *room)
				break
			}
		}
	}
	return out
}
