// Package httpapi exposes the conversation pipeline over HTTP for the mobile
// client.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/docfolio/docfolio/internal/assistant"
	"github.com/docfolio/docfolio/internal/config"
	"github.com/docfolio/docfolio/internal/events"
	"github.com/docfolio/docfolio/internal/store"
)

type Dependencies struct {
	Config    config.Config
	Store     *store.Store
	Assistant *assistant.Service
	Hub       *events.Hub
	Logger    *slog.Logger
}

type router struct {
	deps Dependencies
}

func NewRouter(deps Dependencies) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	rt := &router{deps: deps}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.handleHealth)
	mux.HandleFunc("/readyz", rt.handleReady)
	mux.HandleFunc("/api/v1/info", rt.handleInfo)
	mux.HandleFunc("/api/v1/conversations", rt.handleConversations)
	mux.HandleFunc("/api/v1/messages", rt.handleMessages)
	mux.HandleFunc("/api/v1/confirm", rt.handleConfirm)
	mux.HandleFunc("/api/v1/cancel", rt.handleCancel)
	mux.HandleFunc("/api/v1/transcript", rt.handleTranscript)
	mux.HandleFunc("/api/v1/events", rt.handleEvents)
	return mux
}

func (r *router) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (r *router) handleReady(w http.ResponseWriter, req *http.Request) {
	if err := r.deps.Store.Ping(req.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not-ready", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (r *router) handleInfo(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":         "docfolio",
		"environment":  r.deps.Config.Environment,
		"llm_provider": r.deps.Config.LLMProvider,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
