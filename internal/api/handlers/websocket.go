package handlers

import (
	"net/http"

	gorilla "github.com/gorilla/websocket"
	"github.com/ray/bizdesk/internal/service"
	"github.com/ray/bizdesk/internal/websocket"
	"github.com/rs/zerolog"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	hub         *websocket.Hub
	authService *service.AuthService
	log         zerolog.Logger
}

func NewWebSocketHandler(hub *websocket.Hub, authService *service.AuthService, log zerolog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, authService: authService, log: log}
}

// Connect upgrades the request to a WebSocket connection. Browsers cannot
// set headers on the handshake, so auth rides in a short-lived ticket query
// parameter issued by POST /ws/ticket.
func (h *WebSocketHandler) Connect(w http.ResponseWriter, r *http.Request) {
	ticket := r.URL.Query().Get("ticket")
	if ticket == "" {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	userID, err := h.authService.ValidateWSTicket(ticket)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := websocket.NewClient(h.hub, conn, userID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
