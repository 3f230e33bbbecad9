package httpapi

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The mobile client connects from an app webview with no meaningful
	// origin; the API itself is not exposed publicly.
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleEvents streams hub events to the client as JSON frames over a
// websocket until the client disconnects.
func (r *router) handleEvents(w http.ResponseWriter, req *http.Request) {
	if r.deps.Hub == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "event hub is unavailable"})
		return
	}
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.deps.Logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	channel, cancel := r.deps.Hub.Subscribe()
	defer cancel()

	// Drain client frames so pings and close messages are processed.
	go func() {
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				cancel()
				return
			}
		}
	}()

	for event := range channel {
		if err := conn.WriteJSON(event); err != nil {
			return
		}
	}
}
