package dashboard

import (
	"context"
	"sync"
)

// Sequencer enforces latest-input-wins per key. Beginning a new load for a key
// cancels the one it supersedes, so a slow response can never overwrite a
// newer one.
type Sequencer struct {
	mu     sync.Mutex
	seq    uint64
	latest map[string]*Ticket
}

// NewSequencer constructs an empty Sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{latest: make(map[string]*Ticket)}
}

// Ticket identifies one load. Its context is cancelled when the load is
// superseded or finished.
type Ticket struct {
	owner  *Sequencer
	key    string
	seq    uint64
	ctx    context.Context
	cancel context.CancelFunc
}

// Begin registers a new load for key derived from parent.
func (s *Sequencer) Begin(parent context.Context, key string) *Ticket {
	ctx, cancel := context.WithCancel(parent)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &Ticket{owner: s, key: key, seq: s.seq, ctx: ctx, cancel: cancel}
	if prev := s.latest[key]; prev != nil {
		prev.cancel()
	}
	s.latest[key] = t
	return t
}

// Context returns the context every fetch of this load must use.
func (t *Ticket) Context() context.Context { return t.ctx }

// Seq returns the ticket's sequence number.
func (t *Ticket) Seq() uint64 { return t.seq }

// Current reports whether no newer load has begun for the same key.
func (t *Ticket) Current() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	return t.owner.latest[t.key] == t
}

// Done releases the ticket.
func (t *Ticket) Done() {
	t.owner.mu.Lock()
	if t.owner.latest[t.key] == t {
		delete(t.owner.latest, t.key)
	}
	t.owner.mu.Unlock()
	t.cancel()
}

// Pending returns the number of keys with a load in flight.
func (s *Sequencer) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.latest)
}
