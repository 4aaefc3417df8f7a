package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/bracket-system/brackets"
	"github.com/Dosada05/bracket-system/services"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS policy is enforced at the router; viewers connect read-only.
		return true
	},
}

type WebSocketHandler struct {
	hub         *brackets.Hub
	tournaments services.TournamentService
	logger      *slog.Logger
}

func NewWebSocketHandler(hub *brackets.Hub, tournaments services.TournamentService, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		tournaments: tournaments,
		logger:      logger,
	}
}

// ServeWs upgrades GET /ws/tournaments/{tournamentID} into a live-update
// subscription for that tournament's room.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")
	if tournamentID == "" {
		http.Error(w, "missing tournamentID", http.StatusBadRequest)
		return
	}
	if _, err := h.tournaments.Get(r.Context(), tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		h.logger.Error("websocket upgrade failed",
			slog.String("tournament_id", tournamentID),
			slog.Any("error", err))
		return
	}

	client := h.hub.NewClient(conn, services.TournamentRoom(tournamentID))
	h.hub.Register(client)
}
