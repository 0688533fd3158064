package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vplcricket/registry/internal/api/authz"
)

func sessionRequest(t *testing.T, w *httptest.ResponseRecorder) *http.Request {
	t.Helper()

	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie to be set")
	}

	r := httptest.NewRequest(http.MethodGet, "/players", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func TestSessionRoundTrip(t *testing.T) {
	sessions := NewSessions(false)

	w := httptest.NewRecorder()
	if err := sessions.Create(w, authz.Identity{Username: "siva", Role: authz.RoleEditor}); err != nil {
		t.Fatalf("create session: %v", err)
	}

	r := sessionRequest(t, w)
	identity, err := sessions.IdentityFromRequest(httptest.NewRecorder(), r)
	if err != nil {
		t.Fatalf("resolve session: %v", err)
	}
	if identity == nil || identity.Username != "siva" || identity.Role != authz.RoleEditor {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestSessionAnonymousWithoutCookie(t *testing.T) {
	sessions := NewSessions(false)

	r := httptest.NewRequest(http.MethodGet, "/players", nil)
	identity, err := sessions.IdentityFromRequest(httptest.NewRecorder(), r)
	if err != nil {
		t.Fatalf("resolve session: %v", err)
	}
	if identity != nil {
		t.Fatalf("expected anonymous, got %+v", identity)
	}
}

func TestSessionClear(t *testing.T) {
	sessions := NewSessions(false)

	w := httptest.NewRecorder()
	if err := sessions.Create(w, authz.Identity{Username: "siva", Role: authz.RoleEditor}); err != nil {
		t.Fatalf("create session: %v", err)
	}

	r := sessionRequest(t, w)
	sessions.Clear(httptest.NewRecorder(), r)

	identity, err := sessions.IdentityFromRequest(httptest.NewRecorder(), r)
	if err != nil {
		t.Fatalf("resolve session: %v", err)
	}
	if identity != nil {
		t.Fatalf("expected session to be gone, got %+v", identity)
	}
}

func TestSessionExpiryAndPrune(t *testing.T) {
	sessions := NewSessions(false)

	current := time.Now()
	sessions.now = func() time.Time { return current }

	w := httptest.NewRecorder()
	if err := sessions.Create(w, authz.Identity{Username: "siva", Role: authz.RoleEditor}); err != nil {
		t.Fatalf("create session: %v", err)
	}
	r := sessionRequest(t, w)

	current = current.Add(sessionTTL + time.Minute)

	identity, err := sessions.IdentityFromRequest(httptest.NewRecorder(), r)
	if err != nil {
		t.Fatalf("resolve session: %v", err)
	}
	if identity != nil {
		t.Fatalf("expected expired session to resolve anonymous, got %+v", identity)
	}

	sessions.Prune()
	sessions.mu.RLock()
	remaining := len(sessions.store)
	sessions.mu.RUnlock()
	if remaining != 0 {
		t.Fatalf("expected pruned store, %d sessions remain", remaining)
	}
}
