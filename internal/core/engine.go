package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/gtuverse/clubdeck/internal/domain"
)

// Engine mirrors one room's roster and capacity for a single view.
// Mutations go optimistic-precheck first, then remote call, then a
// refetch of the authority's truth; a failed call never changes the
// held state. Each mounted view owns its own Engine, there is no
// cross-view sharing.
type Engine struct {
	dir Directory

	mu     sync.RWMutex
	active domain.RoomID
	room   *domain.Room
	roster []domain.Member
}

func NewEngine(dir Directory) *Engine {
	return &Engine{dir: dir}
}

// LoadRoom replaces the held state with a fresh snapshot of roomID.
// Room metadata and roster are fetched concurrently. Any state held for
// a previously viewed room is dropped, never merged.
func (e *Engine) LoadRoom(ctx context.Context, roomID domain.RoomID) error {
	e.mu.Lock()
	e.active = roomID
	e.room = nil
	e.roster = nil
	e.mu.Unlock()

	var (
		room    *domain.Room
		members []domain.Member
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := e.dir.GetRoom(gctx, roomID)
		room = r
		return err
	})
	g.Go(func() error {
		m, err := e.dir.GetMembers(gctx, roomID)
		members = m
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load room %d: %w", roomID, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active != roomID {
		// The view moved on while we were in flight.
		log.Debug().Str("module", "core.engine").Int("room", int(roomID)).Int("active", int(e.active)).Msg("stale load discarded")
		return nil
	}
	e.room = room
	e.roster = members
	log.Info().Str("module", "core.engine").Int("room", int(roomID)).Int("members", len(members)).Msg("room loaded")
	return nil
}

// Join adds user to the loaded room. The capacity check runs against
// the cached snapshot before any remote call; it exists to short-circuit
// the affordance, the authority remains the real invariant owner.
// Joining while already a member is a no-op.
func (e *Engine) Join(ctx context.Context, roomID domain.RoomID, user *domain.User) error {
	if user == nil {
		return domain.ErrNoIdentity
	}

	e.mu.RLock()
	room := e.room
	already := e.room != nil && e.room.ID == roomID && rosterHas(e.roster, user.ID)
	e.mu.RUnlock()

	if room == nil || room.ID != roomID {
		return fmt.Errorf("join: %w", domain.ErrRoomNotFound)
	}
	if already {
		return nil
	}
	if room.IsFull() {
		return domain.ErrRoomFull
	}

	if err := e.dir.AddMember(ctx, roomID, user.ID); err != nil {
		log.Warn().Str("module", "core.engine").Int("room", int(roomID)).Int("user", int(user.ID)).Err(err).Msg("join failed")
		return fmt.Errorf("join room %d: %w", roomID, err)
	}
	return e.refresh(ctx, roomID)
}

// Leave removes user from the loaded room. Leaving a room the user is
// not in is a local validation failure, no remote call is made.
func (e *Engine) Leave(ctx context.Context, roomID domain.RoomID, user *domain.User) error {
	if user == nil {
		return domain.ErrNoIdentity
	}

	e.mu.RLock()
	room := e.room
	member := e.room != nil && e.room.ID == roomID && rosterHas(e.roster, user.ID)
	e.mu.RUnlock()

	if room == nil || room.ID != roomID {
		return fmt.Errorf("leave: %w", domain.ErrRoomNotFound)
	}
	if !member {
		return domain.ErrNotMember
	}

	if err := e.dir.RemoveMember(ctx, roomID, user.ID); err != nil {
		log.Warn().Str("module", "core.engine").Int("room", int(roomID)).Int("user", int(user.ID)).Err(err).Msg("leave failed")
		return fmt.Errorf("leave room %d: %w", roomID, err)
	}
	return e.refresh(ctx, roomID)
}

// Create asks the authority for a new room and returns its id. It does
// not join: joining stays an explicit separate step for the caller.
func (e *Engine) Create(ctx context.Context, name string) (domain.RoomID, error) {
	if strings.TrimSpace(name) == "" {
		return 0, domain.ErrRoomNameEmpty
	}
	room, err := e.dir.CreateRoom(ctx, strings.TrimSpace(name))
	if err != nil {
		return 0, fmt.Errorf("create room: %w", err)
	}
	log.Info().Str("module", "core.engine").Int("room", int(room.ID)).Str("name", room.Name).Msg("room created")
	return room.ID, nil
}

// IsMember reports whether user is on the held roster. No remote call.
func (e *Engine) IsMember(user *domain.User) bool {
	if user == nil {
		return false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return rosterHas(e.roster, user.ID)
}

// IsFull reports whether the held snapshot is at capacity. No remote call.
func (e *Engine) IsFull() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.room != nil && e.room.IsFull()
}

// Snapshot returns copies of the held room and roster. Nil room means
// nothing is loaded.
func (e *Engine) Snapshot() (*domain.Room, []domain.Member) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.room == nil {
		return nil, nil
	}
	room := *e.room
	roster := append([]domain.Member(nil), e.roster...)
	return &room, roster
}

// refresh refetches the authority's truth after a successful mutation.
// Locally extrapolating size or roster would drift under concurrent
// joins by other clients; only a post-mutation refetch is sound. A
// response arriving after the view switched rooms is discarded.
func (e *Engine) refresh(ctx context.Context, roomID domain.RoomID) error {
	var (
		room    *domain.Room
		members []domain.Member
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := e.dir.GetRoom(gctx, roomID)
		room = r
		return err
	})
	g.Go(func() error {
		m, err := e.dir.GetMembers(gctx, roomID)
		members = m
		return err
	})
	err := g.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active != roomID {
		log.Debug().Str("module", "core.engine").Int("room", int(roomID)).Int("active", int(e.active)).Msg("stale refresh discarded")
		return nil
	}
	if err != nil {
		// Mutation landed but the refetch did not; keep last known good.
		return fmt.Errorf("refresh room %d: %w", roomID, err)
	}
	e.room = room
	e.roster = members
	return nil
}

func rosterHas(roster []domain.Member, id domain.UserID) bool {
	for _, m := range roster {
		if m.ID == id {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err stems from the authority not knowing
// the room.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrRoomNotFound)
}
