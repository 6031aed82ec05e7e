// Package cache holds interview sessions between HTTP requests.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Olatundeadedeji/streamcati/internal/interview"
)

// ErrSessionNotFound means the interview has no live session; resume it.
var ErrSessionNotFound = errors.New("session not found")

// Sessions is a registry of live interview sessions keyed by interview id.
type Sessions interface {
	Get(ctx context.Context, id int64) (*interview.Session, error)
	Put(ctx context.Context, s *interview.Session) error
	Delete(ctx context.Context, id int64) error
}

type memoryEntry struct {
	session   *interview.Session
	expiresAt time.Time
}

// MemorySessions is an in-process registry for single-replica deployments.
type MemorySessions struct {
	mu      sync.Mutex
	entries map[int64]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemorySessions(ttl time.Duration) *MemorySessions {
	return &MemorySessions{entries: map[int64]memoryEntry{}, ttl: ttl, now: time.Now}
}

func (m *MemorySessions) Get(_ context.Context, id int64) (*interview.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if m.ttl > 0 {
		if m.now().After(e.expiresAt) {
			delete(m.entries, id)
			return nil, ErrSessionNotFound
		}
		e.expiresAt = m.now().Add(m.ttl)
		m.entries[id] = e
	}
	return e.session, nil
}

func (m *MemorySessions) Put(_ context.Context, s *interview.Session) error {
	id := s.ID()
	if id == 0 {
		return fmt.Errorf("put session: %w", interview.ErrNoActiveInterview)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = memoryEntry{session: s, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *MemorySessions) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

// Locks serializes actions on one interview within this process. Locks on
// different interviews never block each other.
type Locks struct {
	mu    sync.Mutex
	locks map[int64]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewLocks() *Locks {
	return &Locks{locks: map[int64]*lockEntry{}}
}

// Lock blocks until id is free and returns the matching unlock func.
func (l *Locks) Lock(id int64) (unlock func()) {
	l.mu.Lock()
	e, ok := l.locks[id]
	if !ok {
		e = &lockEntry{}
		l.locks[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
