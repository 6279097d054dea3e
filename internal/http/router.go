package httpx

import (
	"log/slog"
	"net/http"

	"github.com/Lampx83/AI-Portal-sub002/internal/app"
	"github.com/Lampx83/AI-Portal-sub002/internal/store"
	"github.com/Lampx83/AI-Portal-sub002/internal/ws"
	"github.com/Lampx83/AI-Portal-sub002/pkg/auth"
	"github.com/Lampx83/AI-Portal-sub002/pkg/metrics"
)

// NewRouter wires up all HTTP routes, middleware, and handlers
func NewRouter(cfg app.Config, logger *slog.Logger, hub *ws.Hub, db *store.Postgres, j *auth.JWT) http.Handler {
	mw := NewMiddleware(cfg, j)
	authAPI := &AuthAPI{DB: db, JWT: j}
	articles := &ArticlesAPI{DB: db}
	portal := &PortalAPI{DB: db}

	mux := http.NewServeMux()

	// Health / readiness / metrics
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/readyz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/metrics", metrics.Handler())

	// WebSocket endpoint (the hub gates auth itself, token comes in the query)
	mux.Handle("/ws", http.HandlerFunc(hub.ServeWS))

	// Auth endpoints
	mux.Handle("/api/auth/register", http.HandlerFunc(authAPI.Register))
	mux.Handle("/api/auth/login", http.HandlerFunc(authAPI.Login))
	mux.Handle("/api/auth/me", mw.Auth(http.HandlerFunc(authAPI.Me)))

	// Articles (JWT-protected)
	mux.Handle("/api/articles", mw.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			articles.Create(w, r)
			return
		}
		if r.Method == http.MethodGet {
			articles.List(w, r)
			return
		}
		http.NotFound(w, r)
	})))
	mux.Handle("/api/articles/{id}", mw.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			articles.Get(w, r)
			return
		}
		if r.Method == http.MethodPut {
			articles.Update(w, r)
			return
		}
		http.NotFound(w, r)
	})))
	mux.Handle("/api/articles/{id}/share", mw.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			articles.Share(w, r)
			return
		}
		http.NotFound(w, r)
	})))
	mux.Handle("/api/articles/{id}/collaborators", mw.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			articles.AddCollaborator(w, r)
			return
		}
		http.NotFound(w, r)
	})))

	// Chat sessions
	mux.Handle("/api/sessions", mw.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			portal.CreateSession(w, r)
			return
		}
		if r.Method == http.MethodGet {
			portal.ListSessions(w, r)
			return
		}
		http.NotFound(w, r)
	})))
	mux.Handle("/api/sessions/{id}", mw.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			portal.DeleteSession(w, r)
			return
		}
		if r.Method == http.MethodGet {
			portal.GetSession(w, r)
			return
		}
		http.NotFound(w, r)
	})))

	// Publications
	mux.Handle("/api/publications", mw.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			portal.CreatePublication(w, r)
			return
		}
		if r.Method == http.MethodGet {
			portal.ListPublications(w, r)
			return
		}
		http.NotFound(w, r)
	})))
	mux.Handle("/api/publications/{id}", mw.Auth(http.HandlerFunc(portal.GetPublication)))

	// Agent registry
	mux.Handle("/api/agents", mw.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			portal.RegisterAgent(w, r)
			return
		}
		if r.Method == http.MethodGet {
			portal.ListAgents(w, r)
			return
		}
		http.NotFound(w, r)
	})))
	mux.Handle("/api/agents/{id}", mw.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			portal.DeleteAgent(w, r)
			return
		}
		if r.Method == http.MethodGet {
			portal.GetAgent(w, r)
			return
		}
		http.NotFound(w, r)
	})))

	// CORS + rate limit applied globally
	return mw.Wrap(mux)
}
