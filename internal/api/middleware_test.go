package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vplcricket/registry/internal/api/auth"
	"github.com/vplcricket/registry/internal/api/authz"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func loginAs(t *testing.T, sessions *auth.Sessions, identity authz.Identity) []*http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	if err := sessions.Create(w, identity); err != nil {
		t.Fatalf("create session: %v", err)
	}
	return w.Result().Cookies()
}

func TestCommitteeAuthGate(t *testing.T) {
	sessions := auth.NewSessions(false)
	handler := ChainMiddleware(WithCommitteeAuth(okHandler()), WithAuth(sessions))

	// Anonymous requests are rejected.
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/players", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous, got %d", w.Code)
	}

	// Any logged-in committee member passes.
	cookies := loginAs(t, sessions, authz.Identity{Username: "siva", Role: authz.RoleEditor})
	r := httptest.NewRequest(http.MethodGet, "/players", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for committee member, got %d", w.Code)
	}
}

func TestSuperAdminAuthGate(t *testing.T) {
	sessions := auth.NewSessions(false)
	handler := ChainMiddleware(WithSuperAdminAuth(okHandler()), WithAuth(sessions))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/users", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous, got %d", w.Code)
	}

	// An editor session is authenticated but not authorized.
	cookies := loginAs(t, sessions, authz.Identity{Username: "siva", Role: authz.RoleEditor})
	r := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for editor, got %d", w.Code)
	}

	cookies = loginAs(t, sessions, authz.Identity{Username: "admin", Role: authz.RoleSuperAdmin})
	r = httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for super-admin, got %d", w.Code)
	}
}

func TestWithRequestIDSetsHeader(t *testing.T) {
	var seen string
	handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	header := w.Header().Get("X-Request-ID")
	if header == "" {
		t.Fatal("expected X-Request-ID header")
	}
	if seen != header {
		t.Fatalf("context request ID %q does not match header %q", seen, header)
	}
}

func TestWithRecovery(t *testing.T) {
	handler := WithRecovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", w.Code)
	}
}
