package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Server message types
const (
	MsgEncounterUpdate MessageType = "encounter_update"
	MsgEncounterEnd    MessageType = "encounter_end"
	MsgError           MessageType = "error"
)

// Client message types
const (
	MsgTraineeMessage MessageType = "message"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections for encounter sessions
type Hub struct {
	// Session -> connections. A session can have several sockets open at
	// once (trainee plus observing instructors).
	conns map[string]map[*Connection]bool

	mu sync.RWMutex

	// Channels for coordination. Broadcast and disconnect share one queue
	// so an end-of-encounter message is always delivered before the
	// session's sockets are closed.
	register   chan *Connection
	unregister chan *Connection
	events     chan *sessionEvent

	logger zerolog.Logger
}

// Connection represents a WebSocket connection
type Connection struct {
	SessionID string
	TraineeID string
	Send      chan []byte
	Hub       *Hub
}

// sessionEvent is a queued delivery or close order for one session. A nil
// To fans out to every socket on the session.
type sessionEvent struct {
	SessionID  string
	To         *Connection
	Message    *Message
	Disconnect bool
}

// NewHub creates a new WebSocket hub
func NewHub(logger zerolog.Logger) *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		events:     make(chan *sessionEvent, 256),
		logger:     logger,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.SessionID] == nil {
				h.conns[conn.SessionID] = make(map[*Connection]bool)
			}
			h.conns[conn.SessionID][conn] = true
			h.mu.Unlock()
			h.logger.Info().
				Str("session_id", conn.SessionID).
				Str("trainee_id", conn.TraineeID).
				Msg("websocket connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.conns[conn.SessionID]; ok && conns[conn] {
				delete(conns, conn)
				close(conn.Send)
				if len(conns) == 0 {
					delete(h.conns, conn.SessionID)
				}
				h.logger.Info().
					Str("session_id", conn.SessionID).
					Str("trainee_id", conn.TraineeID).
					Msg("websocket disconnected")
			}
			h.mu.Unlock()

		case ev := <-h.events:
			if ev.Disconnect {
				h.closeSession(ev.SessionID)
				continue
			}
			h.mu.RLock()
			data, _ := json.Marshal(ev.Message)
			if ev.To != nil {
				// Membership check: the socket may have closed since the
				// event was queued.
				if h.conns[ev.SessionID][ev.To] {
					select {
					case ev.To.Send <- data:
					default:
					}
				}
			} else {
				for conn := range h.conns[ev.SessionID] {
					select {
					case conn.Send <- data:
					default:
						// Drop message if buffer full
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// closeSession closes every socket still attached to a session. Buffered
// messages drain before the pumps see the closed channel.
func (h *Hub) closeSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.conns[sessionID]
	if !ok {
		return
	}
	for conn := range conns {
		close(conn.Send)
	}
	delete(h.conns, sessionID)
	h.logger.Info().
		Str("session_id", sessionID).
		Int("connections", len(conns)).
		Msg("session sockets closed")
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToSession sends a message to every socket watching a session
// (implements service.Broadcaster)
func (h *Hub) BroadcastToSession(sessionID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.events <- &sessionEvent{
		SessionID: sessionID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// SendTo sends a message to one socket. Delivery goes through the event
// queue so it cannot race a close of the connection.
func (h *Hub) SendTo(conn *Connection, msg *Message) {
	h.events <- &sessionEvent{
		SessionID: conn.SessionID,
		To:        conn,
		Message:   msg,
	}
}

// DisconnectSession closes a session's sockets once queued messages have
// been handed to their write pumps (implements service.Broadcaster)
func (h *Hub) DisconnectSession(sessionID string) {
	h.events <- &sessionEvent{
		SessionID:  sessionID,
		Disconnect: true,
	}
}
