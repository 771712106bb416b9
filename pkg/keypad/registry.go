package keypad

import (
	"sync"
	"time"

	"github.com/antibyte/retrocalc/pkg/calc"
	"github.com/antibyte/retrocalc/pkg/keymap"
	"github.com/antibyte/retrocalc/pkg/logger"
)

// Session holds the calculator of one websocket session. The mutex
// serializes key presses: a press is processed to completion - buffer
// mutation plus display recomputation - before the next one is
// accepted, so a client never observes a half-applied transition.
type Session struct {
	calc     *calc.Calculator
	mu       sync.Mutex
	lastUsed time.Time
}

// SessionRegistry owns the per-session calculators.
type SessionRegistry struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*Session),
	}
}

// get returns the session for an ID, creating it on first use.
func (r *SessionRegistry) get(sessionID string) *Session {
	r.mu.RLock()
	s, exists := r.sessions[sessionID]
	r.mu.RUnlock()
	if exists {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// re-check, another goroutine may have created it meanwhile
	if s, exists = r.sessions[sessionID]; exists {
		return s
	}
	s = &Session{calc: calc.New(), lastUsed: time.Now()}
	r.sessions[sessionID] = s
	logger.Debug(logger.AreaCalc, "Calculator created for session %s", sessionID)
	return s
}

// Press feeds one physical key into the session's calculator and
// returns the resulting expression buffer and display value. Unknown
// physical keys leave the state unchanged and are reported back as-is
// so the frontend stays in sync.
func (r *SessionRegistry) Press(sessionID, physicalKey string) (expr, display string) {
	s := r.get(sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()

	if key := keymap.Translate(physicalKey); key != "" {
		s.calc.Press(key)
	}
	return s.calc.Expr(), s.calc.Display()
}

// State returns the current buffers of a session without an edit.
func (r *SessionRegistry) State(sessionID string) (expr, display string) {
	s := r.get(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	return s.calc.Expr(), s.calc.Display()
}

// Remove drops a session, e.g. after its client disconnected and the
// inactivity window passed.
func (r *SessionRegistry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// CleanupStale removes sessions that have not seen a key press for
// longer than maxAge and returns how many were dropped.
func (r *SessionRegistry) CleanupStale(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		s.mu.Lock()
		stale := s.lastUsed.Before(cutoff)
		s.mu.Unlock()
		if stale {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Count returns the number of live sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
