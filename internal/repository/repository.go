package repository

import (
	"context"

	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/utils"
)

type UserRepository interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error)
	Register(ctx context.Context, reg domain.Registration) (*domain.AuthResult, error)
	Me(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error)
}

type ItemRepository interface {
	List(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error)
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	// BookedRanges lists the item's non-cancelled bookings.
	BookedRanges(ctx context.Context, itemID string) ([]domain.BookedRange, error)
	ListMine(ctx context.Context) ([]domain.Item, error)
	Create(ctx context.Context, form domain.ItemForm) (*domain.Item, error)
	Update(ctx context.Context, id string, form domain.ItemForm) (*domain.Item, error)
	Delete(ctx context.Context, id string) error
}

type WishlistRepository interface {
	List(ctx context.Context) ([]domain.Item, error)
	Add(ctx context.Context, itemID string) error
	Remove(ctx context.Context, itemID string) error
	Contains(ctx context.Context, itemID string) (bool, error)
}

type BookingRepository interface {
	ListMine(ctx context.Context) ([]domain.Booking, error)
	Summary(ctx context.Context) (domain.BookingSummary, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Cancel(ctx context.Context, id string) error
	RequestReturnOTP(ctx context.Context, id string) error
	VerifyReturnOTP(ctx context.Context, id, otp string) error
	ListPendingReturns(ctx context.Context) ([]domain.Booking, error)
	VerifyReturn(ctx context.Context, id string, decision domain.ReturnDecision) error
}

// PaymentRepository covers the two-phase order/verify endpoints.
type PaymentRepository interface {
	CreateOrder(ctx context.Context, req domain.BookingRequest) (*domain.Order, error)
	VerifyAndBook(ctx context.Context, req domain.VerifyBookingRequest) (*domain.Booking, error)
	CreateExtensionOrder(ctx context.Context, bookingID string, newEnd utils.Date) (*domain.Order, error)
	VerifyAndExtend(ctx context.Context, bookingID string, req domain.VerifyExtensionRequest) (*domain.Booking, error)
}

type ChatRepository interface {
	ListConversations(ctx context.Context) ([]domain.Conversation, error)
	StartConversation(ctx context.Context, itemID, recipientID string) (*domain.Conversation, error)
	Messages(ctx context.Context, conversationID string) ([]domain.ChatMessage, error)
}
