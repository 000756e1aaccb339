package service

import (
	"context"

	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/utils"
)

// UserSource exposes the signed-in user, if any.
type UserSource interface {
	User() *domain.User
}

type BookingService interface {
	ComputeQuote(item *domain.Item, start, end utils.Date) utils.Quote
	ValidateRange(start, end utils.Date, blocked utils.DateSet) error
	LoadItemSession(ctx context.Context, itemID string) (*ItemSession, error)
	BeginPayment(ctx context.Context, item *ItemSession, start, end utils.Date) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, item *domain.Item, start, end utils.Date, proof domain.PaymentProof) (*domain.Booking, error)
	QuoteExtension(ctx context.Context, booking *domain.Booking, newEnd utils.Date) (*ExtensionQuote, error)
	ExtendBooking(ctx context.Context, booking *domain.Booking, newEnd utils.Date) (*domain.Booking, error)
	CancelBooking(ctx context.Context, booking *domain.Booking) error
	RequestReturnCode(ctx context.Context, booking *domain.Booking) error
	ConfirmReturnCode(ctx context.Context, booking *domain.Booking, code string) error
	OwnerVerifyReturn(ctx context.Context, booking *domain.Booking, accepted bool, notes string) error

	ListMyBookings(ctx context.Context) ([]domain.Booking, error)
	GetSummary(ctx context.Context) (domain.BookingSummary, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	ListPendingReturns(ctx context.Context) ([]domain.Booking, error)
}

type CatalogService interface {
	ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error)
	GetItem(ctx context.Context, id string) (*domain.Item, error)
	ListMyItems(ctx context.Context) ([]domain.Item, error)
	CreateItem(ctx context.Context, form domain.ItemForm) (*domain.Item, error)
	UpdateItem(ctx context.Context, id string, form domain.ItemForm) (*domain.Item, error)
	DeleteItem(ctx context.Context, id string) error

	ListWishlist(ctx context.Context) ([]domain.Item, error)
	IsWishlisted(ctx context.Context, itemID string) bool
	ToggleWishlist(ctx context.Context, itemID string) (bool, error)
}

type ChatService interface {
	ListConversations(ctx context.Context) ([]domain.Conversation, error)
	StartConversation(ctx context.Context, item *domain.Item) (*domain.Conversation, error)
	History(ctx context.Context, conversationID string) ([]domain.ChatMessage, error)
}
