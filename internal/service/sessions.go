package service

import (
	"fmt"
	"sync"
	"time"

	"wordtrainer/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

// SessionRegistry keeps live practice sessions by id.
// Sessions are never persisted; idle ones are dropped by EvictIdle.
type SessionRegistry struct {
	mu         sync.Mutex
	sessions   map[string]*registeredSession
	newSession func() *PracticeSession
	now        func() time.Time
	logger     *zap.Logger
}

type registeredSession struct {
	mu         sync.Mutex
	session    *PracticeSession
	lastAccess time.Time
}

// NewSessionRegistry creates a registry that builds sessions with newSession
func NewSessionRegistry(newSession func() *PracticeSession, logger *zap.Logger) *SessionRegistry {
	return &SessionRegistry{
		sessions:   make(map[string]*registeredSession),
		newSession: newSession,
		now:        time.Now,
		logger:     logger,
	}
}

// Create registers a new idle session and returns its id
func (r *SessionRegistry) Create() (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[id] = &registeredSession{
		session:    r.newSession(),
		lastAccess: r.now(),
	}
	return id, nil
}

// With runs fn on the session while holding that session's lock.
// Calls for the same session are serialized; the access time is refreshed.
func (r *SessionRegistry) With(id string, fn func(*PracticeSession) error) error {
	r.mu.Lock()
	entry, ok := r.sessions[id]
	if ok {
		entry.lastAccess = r.now()
	}
	r.mu.Unlock()

	if !ok {
		return domain.NewNotFoundError("practice session", id)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return fn(entry.session)
}

// Remove cancels and forgets a session
func (r *SessionRegistry) Remove(id string) error {
	r.mu.Lock()
	entry, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return domain.NewNotFoundError("practice session", id)
	}

	entry.mu.Lock()
	entry.session.Cancel()
	entry.mu.Unlock()
	return nil
}

// Len returns the number of live sessions
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// EvictIdle drops sessions not used for longer than ttl
func (r *SessionRegistry) EvictIdle(ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-ttl)
	evicted := 0
	for id, entry := range r.sessions {
		if entry.lastAccess.Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}

	if evicted > 0 {
		r.logger.Info("Evicted idle practice sessions",
			zap.Int("evicted", evicted),
			zap.Int("remaining", len(r.sessions)),
		)
	}
	return evicted
}
