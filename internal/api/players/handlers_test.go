// NOTE: Tests cannot use t.Parallel() due to shared package state.
package players

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/vplcricket/registry/internal/api/authz"
	"github.com/vplcricket/registry/internal/audit"
	"github.com/vplcricket/registry/internal/store"
	"github.com/vplcricket/registry/internal/testutil"
)

func setupHandlers(t *testing.T) (*http.ServeMux, *store.Queries) {
	t.Helper()

	database := testutil.NewTestDB(t)
	InitHandlers(database.Queries, audit.New(database.Queries))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /players", HandleList)
	mux.HandleFunc("POST /players/{id}/edit", HandleEdit)
	mux.HandleFunc("POST /players/{id}/delete", HandleDelete)
	mux.HandleFunc("GET /export_players", HandleExport)
	return mux, database.Queries
}

func seedPlayer(t *testing.T, q *store.Queries, vplID, name, phone string) int64 {
	t.Helper()

	id, err := q.CreatePlayer(context.Background(), store.CreatePlayerParams{
		VPLID:    vplID,
		FullName: name,
		Phone:    phone,
		Photo:    "default.jpg",
	})
	if err != nil {
		t.Fatalf("seed player: %v", err)
	}
	return id
}

func asCommittee(r *http.Request) *http.Request {
	ctx := authz.ContextWithIdentity(r.Context(), &authz.Identity{Username: "siva", Role: authz.RoleEditor})
	return r.WithContext(ctx)
}

func TestHandleListOrdersByVPLID(t *testing.T) {
	mux, q := setupHandlers(t)
	seedPlayer(t, q, "VPL-002", "Second", "9876543211")
	seedPlayer(t, q, "VPL-001", "First", "9876543210")

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, asCommittee(httptest.NewRequest(http.MethodGet, "/players", nil)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var listing []PlayerView
	if err := json.Unmarshal(w.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(listing) != 2 {
		t.Fatalf("expected 2 players, got %d", len(listing))
	}
	if listing[0].VPLID != "VPL-001" || listing[1].VPLID != "VPL-002" {
		t.Fatalf("expected display ID order, got %q then %q", listing[0].VPLID, listing[1].VPLID)
	}
}

func TestHandleEditUpdatesSubmittedFields(t *testing.T) {
	mux, q := setupHandlers(t)
	id := seedPlayer(t, q, "VPL-001", "Anil", "9876543210")

	form := url.Values{}
	form.Set("full_name", "Anil Kumar")
	form.Set("status", "Approved")

	r := httptest.NewRequest(http.MethodPost, "/players/1/edit", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, asCommittee(r))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	updated, err := q.GetPlayerByID(context.Background(), id)
	if err != nil {
		t.Fatalf("reload player: %v", err)
	}
	if updated.FullName != "Anil Kumar" || updated.Status != "Approved" {
		t.Fatalf("unexpected player after edit: %+v", updated)
	}
	// Untouched fields keep their stored values.
	if updated.Phone != "9876543210" {
		t.Fatalf("phone should be unchanged, got %q", updated.Phone)
	}

	logs, err := q.ListActivityLogs(context.Background())
	if err != nil {
		t.Fatalf("list activity: %v", err)
	}
	if len(logs) != 1 || logs[0].Action != "Edited player details" || logs[0].TargetID != "VPL-001" {
		t.Fatalf("unexpected audit entry: %+v", logs)
	}
}

func TestHandleEditUnknownPlayer(t *testing.T) {
	mux, _ := setupHandlers(t)

	r := httptest.NewRequest(http.MethodPost, "/players/42/edit", strings.NewReader("full_name=x"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, asCommittee(r))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHandleDelete(t *testing.T) {
	mux, q := setupHandlers(t)
	seedPlayer(t, q, "VPL-001", "Anil", "9876543210")

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, asCommittee(httptest.NewRequest(http.MethodPost, "/players/1/delete", nil)))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	count, err := q.CountPlayers(context.Background())
	if err != nil {
		t.Fatalf("count players: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 players, got %d", count)
	}

	logs, err := q.ListActivityLogs(context.Background())
	if err != nil {
		t.Fatalf("list activity: %v", err)
	}
	if len(logs) != 1 || logs[0].Action != "Deleted player profile" || logs[0].TargetID != "VPL-001" {
		t.Fatalf("unexpected audit entry: %+v", logs)
	}

	// Deleting again reports not found.
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, asCommittee(httptest.NewRequest(http.MethodPost, "/players/1/delete", nil)))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for repeated delete, got %d", w.Code)
	}
}

func TestHandleExport(t *testing.T) {
	mux, q := setupHandlers(t)
	seedPlayer(t, q, "VPL-001", "Anil", "9876543210")

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, asCommittee(httptest.NewRequest(http.MethodGet, "/export_players", nil)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("expected text/csv, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "VPL_Full_Export_2026.csv") {
		t.Fatalf("unexpected Content-Disposition %q", cd)
	}

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "VPL-001,Anil") {
		t.Fatalf("unexpected data row %q", lines[1])
	}
}
