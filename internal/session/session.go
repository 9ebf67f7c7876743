// Package session keeps the live prices observed during one run.
package session

import (
	"sort"
	"sync"
	"time"

	"QuantSuite/internal/model"

	"github.com/google/uuid"
)

// DefaultCapacity is the number of ticks kept per symbol.
const DefaultCapacity = 500

// tickRing is a fixed-size circular buffer of ticks. Not safe on its own;
// Session guards it.
type tickRing struct {
	buf  []model.Tick
	pos  int // next write position
	full bool
}

func newTickRing(capacity int) *tickRing {
	return &tickRing{buf: make([]model.Tick, capacity)}
}

func (r *tickRing) push(t model.Tick) {
	r.buf[r.pos] = t
	r.pos = (r.pos + 1) % len(r.buf)
	if r.pos == 0 {
		r.full = true
	}
}

func (r *tickRing) len() int {
	if r.full {
		return len(r.buf)
	}
	return r.pos
}

// snapshot copies the ticks oldest first.
func (r *tickRing) snapshot() []model.Tick {
	n := r.len()
	out := make([]model.Tick, n)
	start := 0
	if r.full {
		start = r.pos
	}
	for i := 0; i < n; i++ {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}

// Session owns one bounded tick history per symbol.
// Thread-safe for concurrent observers and readers.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.RWMutex
	capacity int
	rings    map[string]*tickRing
	closed   bool
}

// New creates a session keeping up to capacity ticks per symbol.
func New(capacity int) *Session {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		capacity:  capacity,
		rings:     make(map[string]*tickRing),
	}
}

// Capacity returns the per-symbol tick limit.
func (s *Session) Capacity() int { return s.capacity }

// Observe records a price. When the symbol's buffer is full the oldest tick is dropped.
// Observations after Close are ignored.
func (s *Session) Observe(symbol string, price float64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	r, ok := s.rings[symbol]
	if !ok {
		r = newTickRing(s.capacity)
		s.rings[symbol] = r
	}
	r.push(model.Tick{Time: at, Price: price})
}

// History returns the ticks of symbol, oldest first.
func (s *Session) History(symbol string) []model.Tick {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rings[symbol]
	if !ok {
		return nil
	}
	return r.snapshot()
}

// Last returns the most recent tick of symbol.
func (s *Session) Last(symbol string) (model.Tick, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rings[symbol]
	if !ok || r.len() == 0 {
		return model.Tick{}, false
	}
	return r.buf[(r.pos-1+len(r.buf))%len(r.buf)], true
}

// Symbols lists the observed symbols in sorted order.
func (s *Session) Symbols() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.rings))
	for sym := range s.rings {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// Close discards all history.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rings = make(map[string]*tickRing)
	s.closed = true
}
