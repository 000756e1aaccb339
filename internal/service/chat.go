package service

import (
	"context"
	"sort"

	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/logger"
	"campus-rental-client/internal/repository"
)

type chatService struct {
	chatRepo repository.ChatRepository
	users    UserSource
}

func NewChatService(chatRepo repository.ChatRepository, users UserSource) ChatService {
	return &chatService{chatRepo: chatRepo, users: users}
}

// ListConversations returns the most recently active conversation first.
func (s *chatService) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	convs, err := s.chatRepo.ListConversations(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(convs, func(i, j int) bool {
		return convs[i].LastMessageAt.After(convs[j].LastMessageAt)
	})
	return convs, nil
}

// StartConversation opens (or resumes) the thread with the item's owner.
func (s *chatService) StartConversation(ctx context.Context, item *domain.Item) (*domain.Conversation, error) {
	ownerID := item.OwnerID()
	if ownerID == "" {
		return nil, ErrNoRecipient
	}
	if s.users != nil {
		if u := s.users.User(); u != nil && u.ID == ownerID {
			return nil, ErrOwnItem
		}
	}

	conv, err := s.chatRepo.StartConversation(ctx, item.ID, ownerID)
	if err != nil {
		return nil, err
	}
	logger.Debug("Conversation opened", "conversationID", conv.ID, "itemID", item.ID)
	return conv, nil
}

// History returns messages oldest first.
func (s *chatService) History(ctx context.Context, conversationID string) ([]domain.ChatMessage, error) {
	msgs, err := s.chatRepo.Messages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].SentAt.Before(msgs[j].SentAt)
	})
	return msgs, nil
}
