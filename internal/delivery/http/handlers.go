package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"slateboard-backend/internal/config"
	"slateboard-backend/internal/delivery/ws"

	"slateboard-backend/pkg/logger"
)

// Handler serves the thin HTTP surface around the room core: the websocket
// upgrade and the operational read endpoints.
type Handler struct {
	cfg        *config.Config
	dispatcher *ws.Dispatcher
	upgrader   websocket.Upgrader
	log        *zap.Logger
	startedAt  time.Time
}

// NewHandler wires the HTTP layer to the dispatcher.
func NewHandler(cfg *config.Config, dispatcher *ws.Dispatcher) *Handler {
	h := &Handler{
		cfg:        cfg,
		dispatcher: dispatcher,
		log:        logger.WithModule("http"),
		startedAt:  time.Now(),
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return h.originAllowed(r.Header.Get("Origin"))
		},
	}

	return h
}

// originAllowed checks the Origin header against the configured allow-list.
// Empty origin is allowed (same-origin requests).
func (h *Handler) originAllowed(origin string) bool {
	if origin == "" {
		return true
	}
	for _, allowed := range h.cfg.AllowedOrigins {
		if allowed == "*" || origin == allowed {
			return true
		}
	}
	return false
}

// HandleWebSocket upgrades the connection and starts the client pumps.
// Rooms are joined afterwards via the join-room event, never via the URL.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("upgrade failed", zap.Error(err))
		return
	}

	client := ws.NewClient(h.dispatcher, conn, h.cfg.MaxMessageSize)
	go client.WritePump()
	go client.ReadPump()
}

// HandleHealth reports liveness plus the active room count.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":      "ok",
		"activeRooms": h.dispatcher.Registry().Count(),
		"uptime":      time.Since(h.startedAt).Seconds(),
	})
}

// HandleRoomInfo returns the operational summary for one room.
func (h *Handler) HandleRoomInfo(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	info := h.dispatcher.Registry().Info(code)
	if info == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Room not found",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}
