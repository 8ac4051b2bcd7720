/*
Package handler provides the HTTP gateway of the chat relay.

This file defines the main Router, applying logging, CORS, request IDs and panic recovery
before delegating to the operator endpoints and the WebSocket transport.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"linechat/internal/pkg/logx"
	"linechat/internal/pkg/resp"
)

// Router sets up the gateway routing table.
// In development every origin is accepted; otherwise only Config.AllowedOrigins.
func Router(deps *AppDeps) http.Handler {
	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.IsDevelopment() {
				return true
			}

			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"status":   "ok",
			"service":  "linechat",
			"sessions": deps.Manager.Registry().Count(),
		})
	})

	r.Get("/metrics", HandleMetrics(deps))

	r.Route("/api", func(api chi.Router) {
		api.Get("/stats", HandleStats(deps))
		api.Get("/users", HandleListUsers(deps))
		api.Delete("/users/{username}", HandleKickUser(deps))
		api.Post("/announce", HandleAnnounce(deps))
	})

	r.Get("/ws", HandleWebSocket(deps, wsUpgrader))

	return r
}
