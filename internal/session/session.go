// Package session carries the authenticated-session lifecycle signals the
// sync engine consumes: established, ended, and a synchronous active query.
// The actual authentication flow lives outside this program; callers feed
// transitions in via Establish and End, whether they originate from the local
// UI or from another process through the durable session marker.
//
// Establish and End are idempotent. Re-delivering the current state fires no
// callbacks, which is what stops two processes mirroring each other's session
// markers from ping-ponging forever.
package session

import "sync"

// Signals fans session lifecycle transitions out to registered listeners.
// The zero value is not usable; call New.
type Signals struct {
	mu          sync.Mutex
	active      bool
	user        string
	token       string
	established []func(user, token string)
	ended       []func()
}

// New returns Signals with no active session.
func New() *Signals {
	return &Signals{}
}

// OnEstablished registers a callback for session establishment. Callbacks run
// synchronously, in registration order, on the goroutine calling Establish.
func (s *Signals) OnEstablished(fn func(user, token string)) {
	s.mu.Lock()
	s.established = append(s.established, fn)
	s.mu.Unlock()
}

// OnEnded registers a callback for session end.
func (s *Signals) OnEnded(fn func()) {
	s.mu.Lock()
	s.ended = append(s.ended, fn)
	s.mu.Unlock()
}

// Active reports whether a session is currently established.
func (s *Signals) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// User returns the current session's user, or "" without a session.
func (s *Signals) User() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Establish records a new session and informs listeners. Re-establishing the
// identical session is a no-op.
func (s *Signals) Establish(user, token string) {
	s.mu.Lock()
	if s.active && s.user == user && s.token == token {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.user = user
	s.token = token
	fns := make([]func(user, token string), len(s.established))
	copy(fns, s.established)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(user, token)
	}
}

// End tears the session down and informs listeners. Ending without an active
// session is a no-op.
func (s *Signals) End() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.user = ""
	s.token = ""
	fns := make([]func(), len(s.ended))
	copy(fns, s.ended)
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
