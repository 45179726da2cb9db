package core

import (
	"iter"
	"strings"
	"sync"

	"github.com/gtuverse/clubdeck/internal/domain"
)

// Transcript is the append-only chat log of the room session currently
// on screen. It is local to the session: nothing here touches the
// remote authority, and a room switch resets it.
type Transcript struct {
	mu   sync.Mutex
	seq  int
	msgs []domain.ChatMessage
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append records a message under the next sequence number. A body that
// is empty after trimming is silently ignored, mirroring a disabled
// send control rather than a protocol violation.
func (t *Transcript) Append(author, body string) (domain.ChatMessage, bool) {
	body = strings.TrimSpace(body)
	if body == "" {
		return domain.ChatMessage{}, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	msg := domain.ChatMessage{Seq: t.seq, Author: author, Body: body}
	t.msgs = append(t.msgs, msg)
	return msg, true
}

// Reset clears the log and restarts numbering; called when the viewed
// room changes.
func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq = 0
	t.msgs = nil
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.msgs)
}

// Messages returns a copy of the log in append order.
func (t *Transcript) Messages() []domain.ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.ChatMessage(nil), t.msgs...)
}

// All iterates the log in append order over a snapshot taken at call
// time; appends during iteration are not observed.
func (t *Transcript) All() iter.Seq[domain.ChatMessage] {
	msgs := t.Messages()
	return func(yield func(domain.ChatMessage) bool) {
		for _, m := range msgs {
			if !yield(m) {
				return
			}
		}
	}
}
