package rest

import (
	"context"

	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/repository"
)

type chatRepository struct {
	api Doer
}

func NewChatRepository(api Doer) repository.ChatRepository {
	return &chatRepository{api: api}
}

func (r *chatRepository) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	var convs []domain.Conversation
	if err := r.api.Get(ctx, "/api/chats", &convs); err != nil {
		return nil, err
	}
	return convs, nil
}

func (r *chatRepository) StartConversation(ctx context.Context, itemID, recipientID string) (*domain.Conversation, error) {
	body := struct {
		ItemID      string `json:"item_id"`
		RecipientID string `json:"recipient_id"`
	}{itemID, recipientID}

	var conv domain.Conversation
	if err := r.api.Post(ctx, "/api/chats", body, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *chatRepository) Messages(ctx context.Context, conversationID string) ([]domain.ChatMessage, error) {
	var msgs []domain.ChatMessage
	if err := r.api.Get(ctx, "/api/chats/"+seg(conversationID)+"/messages", &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}
