package domain

import "time"

type Conversation struct {
	ID            string    `json:"id"`
	ItemID        string    `json:"item_id"`
	ItemName      string    `json:"item_name,omitempty"`
	Participants  []UserRef `json:"participants"`
	LastMessage   string    `json:"last_message,omitempty"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int       `json:"unread_count"`
}

// Counterpart returns the participant who is not selfID.
func (c *Conversation) Counterpart(selfID string) *UserRef {
	for i := range c.Participants {
		if c.Participants[i].ID != selfID {
			return &c.Participants[i]
		}
	}
	return nil
}

type ChatMessage struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	SenderName     string    `json:"sender_name,omitempty"`
	Content        string    `json:"content"`
	SentAt         time.Time `json:"sent_at"`
}
