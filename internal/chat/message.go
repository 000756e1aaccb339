// Package chat is the realtime side of conversations: a websocket
// connection that joins conversation rooms, sends messages and streams
// incoming ones.
package chat

import "campus-rental-client/internal/domain"

// Frame is one websocket message in either direction.
type Frame struct {
	Type           string              `json:"type"`
	ConversationID string              `json:"conversation_id,omitempty"`
	Content        string              `json:"content,omitempty"`
	Message        *domain.ChatMessage `json:"message,omitempty"`
	Error          string              `json:"error,omitempty"`
}

// Frame types.
const (
	TypeJoin    = "join"
	TypeLeave   = "leave"
	TypeSend    = "send"
	TypeMessage = "message"
	TypeError   = "error"
)
