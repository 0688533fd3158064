// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/vplcricket/registry/internal/api"
	"github.com/vplcricket/registry/internal/api/activity"
	"github.com/vplcricket/registry/internal/api/admin"
	"github.com/vplcricket/registry/internal/api/auth"
	"github.com/vplcricket/registry/internal/api/players"
	"github.com/vplcricket/registry/internal/api/registration"
	"github.com/vplcricket/registry/internal/audit"
	"github.com/vplcricket/registry/internal/config"
	"github.com/vplcricket/registry/internal/db"
	"github.com/vplcricket/registry/internal/league"
	"github.com/vplcricket/registry/internal/ratelimit"
	"github.com/vplcricket/registry/internal/uploads"
)

func newServer(cfg *config.Config, database *db.DB, files *uploads.Store) (*http.Server, *auth.Sessions) {
	engine := league.NewEngine(database, files, league.Options{
		Deadline:    cfg.Registration.Deadline,
		Capacity:    cfg.Registration.Capacity,
		PhoneRegion: cfg.Registration.PhoneRegion,
	})
	recorder := audit.New(database.Queries)
	identity := auth.NewService(database.Queries, cfg.Admin.Username, cfg.Admin.Password)
	sessions := auth.NewSessions(cfg.App.Environment != "development")
	limiter := ratelimit.New(nil)

	registration.InitHandlers(engine, database.Queries)
	players.InitHandlers(database.Queries, recorder)
	activity.InitHandlers(database.Queries)
	admin.InitHandlers(identity, recorder)
	auth.InitHandlers(identity, sessions, recorder, limiter)

	router := http.NewServeMux()
	registerRoutes(router, files)

	handler := api.ChainMiddleware(
		router,
		api.WithAuth(sessions),
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, sessions
}

func registerRoutes(mux *http.ServeMux, files *uploads.Store) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Public routes
	mux.HandleFunc("GET /{$}", registration.HandleHome)
	mux.HandleFunc("POST /register", registration.HandleRegister)
	mux.HandleFunc("POST /payment/{id}", registration.HandlePayment)
	mux.HandleFunc("GET /total_players", registration.HandleTotalPlayers)

	// Session routes
	mux.HandleFunc("POST /login", auth.HandleLogin)
	mux.HandleFunc("POST /logout", auth.HandleLogout)

	// Committee routes
	mux.Handle("GET /players", api.WithCommitteeAuth(http.HandlerFunc(players.HandleList)))
	mux.Handle("POST /players/{id}/edit", api.WithCommitteeAuth(http.HandlerFunc(players.HandleEdit)))
	mux.Handle("POST /players/{id}/delete", api.WithCommitteeAuth(http.HandlerFunc(players.HandleDelete)))
	mux.Handle("GET /export_players", api.WithCommitteeAuth(http.HandlerFunc(players.HandleExport)))
	mux.Handle("GET /activity_logs", api.WithCommitteeAuth(http.HandlerFunc(activity.HandleList)))

	// Super-admin routes
	mux.Handle("GET /admin/users", api.WithSuperAdminAuth(http.HandlerFunc(admin.HandleUsersList)))
	mux.Handle("POST /admin/users", api.WithSuperAdminAuth(http.HandlerFunc(admin.HandleCreateUser)))
	mux.Handle("POST /admin/users/{id}/delete", api.WithSuperAdminAuth(http.HandlerFunc(admin.HandleDeleteUser)))

	// Uploaded photos and payment proofs
	mux.HandleFunc("GET /static/uploads/{name}", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, files.Path(r.PathValue("name")))
	})
}
