package core

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/gtuverse/clubdeck/internal/domain"
)

// Listing is the best-effort directory cache behind room browsing
// views. A failed fetch degrades to the last successful result (or an
// empty list) instead of an error: a listing view shows "no rooms", it
// never crashes.
type Listing struct {
	dir Directory

	mu   sync.Mutex
	last []domain.Room
}

func NewListing(dir Directory) *Listing {
	return &Listing{dir: dir}
}

// ListAll returns the full room directory in remote response order.
func (l *Listing) ListAll(ctx context.Context) []domain.Room {
	rooms, err := l.dir.ListRooms(ctx)
	if err != nil {
		log.Warn().Str("module", "core.listing").Err(err).Msg("room listing failed, serving last known")
		l.mu.Lock()
		defer l.mu.Unlock()
		return append([]domain.Room(nil), l.last...)
	}

	l.mu.Lock()
	l.last = append([]domain.Room(nil), rooms...)
	l.mu.Unlock()
	return rooms
}
