package session

import (
	"sync"

	"kusina/internal/models"
)

// Session is the client-held proof of authentication: the bearer token plus
// the role and user id cached from the login response.
type Session struct {
	Token  string
	Role   models.Role
	UserID int64
}

// Store holds the current session for the lifetime of the process. It is an
// explicit dependency handed to every component that needs the session;
// nothing reads authentication state from a global.
type Store struct {
	mu      sync.RWMutex
	current Session
	active  bool
}

// NewStore returns an empty store: no session, not authenticated.
func NewStore() *Store {
	return &Store{}
}

// Set records a new session, replacing any previous one.
func (s *Store) Set(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = sess
	s.active = true
}

// Current returns the stored session and whether one is present.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.active
}

// Token returns the bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.active {
		return ""
	}
	return s.current.Token
}

// Clear destroys the session. Used on logout and on forced re-login after
// a 401 from the backend.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Session{}
	s.active = false
}
