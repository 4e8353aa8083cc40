package http

import (
	"log/slog"
	"net/http"

	gorilla "github.com/gorilla/websocket"

	"leanixcli/internal/middleware"
	"leanixcli/internal/websocket"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from the same binary; cross-origin access
	// is allowed for local tooling.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocketHandler upgrades connections and hands them to the hub.
type WebSocketHandler struct {
	hub    *websocket.Hub
	logger *slog.Logger
}

// NewWebSocketHandler creates a new websocket handler.
func NewWebSocketHandler(hub *websocket.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
	}
}

// Serve upgrades the HTTP connection to a websocket and registers the
// client with the hub.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "websocket upgrade failed",
			slog.String("error", err.Error()))
		return
	}

	websocket.ServeWS(h.hub, conn, middleware.GetReqID(r.Context()))
}
