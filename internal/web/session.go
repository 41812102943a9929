package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// sessionCookie is the auth cookie name.
const sessionCookie = "lifeos_session"

// sessionSet holds the active session tokens for the single-user gate.
// Tokens are random UUIDs; logout removes them.
type sessionSet struct {
	mu     sync.Mutex
	tokens map[string]time.Time
}

func newSessionSet() *sessionSet {
	return &sessionSet{tokens: make(map[string]time.Time)}
}

// open mints a new session token.
func (s *sessionSet) open() string {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = time.Now()
	s.mu.Unlock()
	return token
}

// valid reports whether the token belongs to an open session.
func (s *sessionSet) valid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tokens[token]
	return ok
}

// close removes the token.
func (s *sessionSet) close(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// sessionToken extracts the session cookie value from a request.
func sessionToken(r *http.Request) string {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}
