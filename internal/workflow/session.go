package workflow

import (
	"sync"
	"time"
)

// Session is an authenticated credential context. The workflow never reads
// ambient global state: the current session is handed to it explicitly
// through a SessionSource subscription.
type Session struct {
	Token     string
	Email     string
	ExpiresAt time.Time
}

// Valid reports whether the session carries a usable credential.
func (s *Session) Valid() bool {
	if s == nil || s.Token == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || time.Now().Before(s.ExpiresAt)
}

// SessionSource holds the current session and notifies subscribers whenever
// the credential changes (login, logout, refresh).
type SessionSource struct {
	mu      sync.Mutex
	current *Session
	subs    []func(*Session)
}

// NewSessionSource constructs an empty SessionSource.
func NewSessionSource() *SessionSource {
	return &SessionSource{}
}

// Current returns the current session, which may be nil.
func (s *SessionSource) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set replaces the current session and notifies all subscribers.
func (s *SessionSource) Set(sess *Session) {
	s.mu.Lock()
	s.current = sess
	subs := make([]func(*Session), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(sess)
	}
}

// Clear drops the current session, notifying subscribers with nil.
func (s *SessionSource) Clear() {
	s.Set(nil)
}

// Subscribe registers a callback invoked on every credential change. The
// callback is also invoked immediately with the current session.
func (s *SessionSource) Subscribe(fn func(*Session)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	current := s.current
	s.mu.Unlock()

	fn(current)
}
