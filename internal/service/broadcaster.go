package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle).
// Observers of a session (instructor view, monitor panels) receive the same
// events the trainee does.
type Broadcaster interface {
	BroadcastToSession(sessionID string, msgType string, payload interface{})
	DisconnectSession(sessionID string)
}
