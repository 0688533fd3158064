package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/vplcricket/registry/internal/api/authz"
)

const (
	sessionCookieName = "vpl_session"
	sessionTTL        = 8 * time.Hour
	sessionTokenBytes = 32
)

type sessionRecord struct {
	identity  authz.Identity
	expiresAt time.Time
}

// Sessions is an in-memory session store keyed by random tokens carried in an
// HttpOnly cookie. Sessions are intentionally ephemeral; a restart logs
// everyone out.
type Sessions struct {
	secure bool

	mu    sync.RWMutex
	store map[string]sessionRecord

	now func() time.Time
}

// NewSessions creates a session store. secure controls the cookie Secure
// flag; disable it only in development.
func NewSessions(secure bool) *Sessions {
	return &Sessions{
		secure: secure,
		store:  make(map[string]sessionRecord),
		now:    time.Now,
	}
}

// Create issues a token for the identity and sets the session cookie.
func (s *Sessions) Create(w http.ResponseWriter, identity authz.Identity) error {
	token, err := newSessionToken()
	if err != nil {
		return err
	}

	expiresAt := s.now().Add(sessionTTL)
	s.mu.Lock()
	s.store[token] = sessionRecord{identity: identity, expiresAt: expiresAt}
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expiresAt,
		MaxAge:   int(sessionTTL.Seconds()),
	})
	return nil
}

// IdentityFromRequest resolves the request's session cookie to an identity.
// It returns nil for anonymous requests and clears stale cookies.
func (s *Sessions) IdentityFromRequest(w http.ResponseWriter, r *http.Request) (*authz.Identity, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, nil
		}
		return nil, err
	}

	s.mu.RLock()
	record, ok := s.store[cookie.Value]
	s.mu.RUnlock()

	if !ok || record.expiresAt.Before(s.now()) {
		if ok {
			s.delete(cookie.Value)
		}
		s.clearCookie(w)
		return nil, nil
	}

	identity := record.identity
	return &identity, nil
}

// Clear drops the request's session and expires the cookie.
func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		s.delete(cookie.Value)
	}
	s.clearCookie(w)
}

// Prune drops expired sessions. Wired to the housekeeping scheduler.
func (s *Sessions) Prune() {
	now := s.now()
	s.mu.Lock()
	for token, record := range s.store {
		if record.expiresAt.Before(now) {
			delete(s.store, token)
		}
	}
	s.mu.Unlock()
}

func (s *Sessions) delete(token string) {
	s.mu.Lock()
	delete(s.store, token)
	s.mu.Unlock()
}

func (s *Sessions) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

func newSessionToken() (string, error) {
	token := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(token); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(token), nil
}
