package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"emtsim/internal/model"
	"emtsim/internal/service"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler handles WebSocket connections
type Handler struct {
	hub          *Hub
	authSvc      *service.AuthService
	scenarioSvc  *service.ScenarioService
	encounterSvc *service.EncounterService
	logger       zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, authSvc *service.AuthService, scenarioSvc *service.ScenarioService, encounterSvc *service.EncounterService, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:          hub,
		authSvc:      authSvc,
		scenarioSvc:  scenarioSvc,
		encounterSvc: encounterSvc,
		logger:       logger,
	}
}

// SessionWS handles GET /ws/sessions/{id}. Trainee utterances arrive as
// {"type":"message","payload":{"text":...}} envelopes; updates come back
// through the hub so every socket on the session sees them.
func (h *Handler) SessionWS(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateTraineeToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	if _, err := h.scenarioSvc.GetSession(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
		} else {
			http.Error(w, "failed to load session", http.StatusInternalServerError)
		}
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := &Connection{
		SessionID: id,
		TraineeID: claims.TraineeID,
		Send:      make(chan []byte, 256),
		Hub:       h.hub,
	}

	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn().Err(err).Str("session_id", conn.SessionID).Msg("websocket read error")
			}
			break
		}
		h.handleInbound(conn, raw)
	}
}

// handleInbound dispatches one client envelope. The pump goroutine outlives
// the HTTP request, so service calls run on a background context.
func (h *Handler) handleInbound(conn *Connection, raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.sendError(conn, "invalid message format")
		return
	}

	switch msg.Type {
	case MsgTraineeMessage:
		var req model.MessageRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			h.sendError(conn, "invalid message payload")
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			h.sendError(conn, "text is required")
			return
		}
		if _, err := h.encounterSvc.ProcessMessage(context.Background(), conn.SessionID, req.Text, time.Now()); err != nil {
			h.sendError(conn, err.Error())
		}
		// Success is delivered by the hub broadcast, to this socket included.

	default:
		h.sendError(conn, "unknown message type")
	}
}

// sendError pushes an error envelope to a single socket
func (h *Handler) sendError(conn *Connection, text string) {
	payload, _ := json.Marshal(map[string]string{"error": text})
	h.hub.SendTo(conn, &Message{
		Type:    MsgError,
		Payload: payload,
	})
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
