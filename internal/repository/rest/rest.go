package rest

import (
	"context"
	"net/url"

	"campus-rental-client/internal/repository"
)

// Doer is the subset of client.Client the repositories need.
type Doer interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

type Store struct {
	api Doer
	repository.UserRepository
	repository.ItemRepository
	repository.WishlistRepository
	repository.BookingRepository
	repository.PaymentRepository
	repository.ChatRepository
}

func NewStore(api Doer) *Store {
	return &Store{
		api:                api,
		UserRepository:     NewUserRepository(api),
		ItemRepository:     NewItemRepository(api),
		WishlistRepository: NewWishlistRepository(api),
		BookingRepository:  NewBookingRepository(api),
		PaymentRepository:  NewPaymentRepository(api),
		ChatRepository:     NewChatRepository(api),
	}
}

func seg(id string) string {
	return url.PathEscape(id)
}
