package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus-rental-client/internal/client"
	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWishlistCache struct {
	mock.Mock
}

func (m *MockWishlistCache) SetWishlisted(ctx context.Context, itemID string, wishlisted bool) error {
	return m.Called(ctx, itemID, wishlisted).Error(0)
}

func catalogItems() []domain.Item {
	return []domain.Item{
		{ID: "1", Name: "Scientific Calculator", Category: domain.CategoryElectronics, Status: domain.ItemStatusAvailable},
		{ID: "2", Name: "Cricket Bat", Category: domain.CategorySports, Status: domain.ItemStatusRented, Tags: []string{"willow"}},
		{ID: "3", Name: "Study Lamp", Description: "LED desk lamp", Category: domain.CategoryElectronics, Status: domain.ItemStatusMaintenance},
	}
}

func TestRefineItems(t *testing.T) {
	tests := []struct {
		name   string
		filter domain.ItemFilter
		want   []string
	}{
		{"No filter", domain.ItemFilter{}, []string{"1", "2", "3"}},
		{"Category", domain.ItemFilter{Category: domain.CategoryElectronics}, []string{"1", "3"}},
		{"Status", domain.ItemFilter{Status: domain.ItemStatusRented}, []string{"2"}},
		{"Search name case-insensitive", domain.ItemFilter{Search: "CALC"}, []string{"1"}},
		{"Search description", domain.ItemFilter{Search: "desk"}, []string{"3"}},
		{"Search tags", domain.ItemFilter{Search: "Willow"}, []string{"2"}},
		{"Combined", domain.ItemFilter{Category: domain.CategoryElectronics, Search: "lamp"}, []string{"3"}},
		{"No match", domain.ItemFilter{Search: "guitar"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := []string{}
			for _, item := range RefineItems(catalogItems(), tt.filter) {
				ids = append(ids, item.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestCatalogService_ListItems(t *testing.T) {
	ctx := context.Background()
	items := new(mocks.MockItemRepo)
	svc := NewCatalogService(items, new(mocks.MockWishlistRepo), nil)

	filter := domain.ItemFilter{Category: domain.CategorySports, Search: "bat"}
	items.On("List", ctx, filter).Return(catalogItems(), nil)

	res, err := svc.ListItems(ctx, domain.ItemFilter{Category: domain.CategorySports, Search: "  bat "})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "2", res[0].ID)
}

func TestCatalogService_CreateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Invalid form", func(t *testing.T) {
		items := new(mocks.MockItemRepo)
		svc := NewCatalogService(items, nil, nil)

		_, err := svc.CreateItem(ctx, domain.ItemForm{Name: "Lamp", Description: "desk", Category: "Gadgets", PricePerDayCents: 1000})
		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "category", vErr.Field)
		items.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Trims and creates", func(t *testing.T) {
		items := new(mocks.MockItemRepo)
		svc := NewCatalogService(items, nil, nil)
		want := domain.ItemForm{Name: "Lamp", Description: "LED desk lamp", Category: domain.CategoryElectronics, PricePerDayCents: 3000}
		items.On("Create", ctx, want).Return(&domain.Item{ID: "9", Name: "Lamp"}, nil)

		form := want
		form.Name = "  Lamp "
		item, err := svc.CreateItem(ctx, form)
		require.NoError(t, err)
		assert.Equal(t, "9", item.ID)
	})
}

func TestCatalogService_Wishlist(t *testing.T) {
	ctx := context.Background()

	t.Run("Status failure defaults to false", func(t *testing.T) {
		wishlist := new(mocks.MockWishlistRepo)
		svc := NewCatalogService(nil, wishlist, nil)
		wishlist.On("Contains", ctx, "1").Return(false, &client.NetworkError{Op: "GET", Err: errors.New("refused")})

		assert.False(t, svc.IsWishlisted(ctx, "1"))
	})

	t.Run("Toggle adds and updates the cache", func(t *testing.T) {
		wishlist := new(mocks.MockWishlistRepo)
		cache := new(MockWishlistCache)
		svc := NewCatalogService(nil, wishlist, cache)
		wishlist.On("Contains", ctx, "1").Return(false, nil)
		wishlist.On("Add", ctx, "1").Return(nil)
		cache.On("SetWishlisted", ctx, "1", true).Return(nil)

		in, err := svc.ToggleWishlist(ctx, "1")
		require.NoError(t, err)
		assert.True(t, in)
		cache.AssertExpectations(t)
	})

	t.Run("Toggle removes", func(t *testing.T) {
		wishlist := new(mocks.MockWishlistRepo)
		cache := new(MockWishlistCache)
		svc := NewCatalogService(nil, wishlist, cache)
		wishlist.On("Contains", ctx, "1").Return(true, nil)
		wishlist.On("Remove", ctx, "1").Return(nil)
		cache.On("SetWishlisted", ctx, "1", false).Return(nil)

		in, err := svc.ToggleWishlist(ctx, "1")
		require.NoError(t, err)
		assert.False(t, in)
	})

	t.Run("Failed toggle keeps the old state", func(t *testing.T) {
		wishlist := new(mocks.MockWishlistRepo)
		cache := new(MockWishlistCache)
		svc := NewCatalogService(nil, wishlist, cache)
		wishlist.On("Contains", ctx, "1").Return(false, nil)
		wishlist.On("Add", ctx, "1").Return(&client.APIError{StatusCode: 400, Message: "Cannot wishlist your own item"})

		in, err := svc.ToggleWishlist(ctx, "1")
		assert.Error(t, err)
		assert.False(t, in)
		cache.AssertNotCalled(t, "SetWishlisted", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestChatService(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Conversations newest first", func(t *testing.T) {
		chats := new(mocks.MockChatRepo)
		svc := NewChatService(chats, nil)
		chats.On("ListConversations", ctx).Return([]domain.Conversation{
			{ID: "old", LastMessageAt: now.Add(-time.Hour)},
			{ID: "new", LastMessageAt: now},
		}, nil)

		convs, err := svc.ListConversations(ctx)
		require.NoError(t, err)
		assert.Equal(t, "new", convs[0].ID)
	})

	t.Run("History oldest first", func(t *testing.T) {
		chats := new(mocks.MockChatRepo)
		svc := NewChatService(chats, nil)
		chats.On("Messages", ctx, "c1").Return([]domain.ChatMessage{
			{ID: "m2", SentAt: now},
			{ID: "m1", SentAt: now.Add(-time.Minute)},
		}, nil)

		msgs, err := svc.History(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, "m1", msgs[0].ID)
	})

	t.Run("Start with the owner", func(t *testing.T) {
		chats := new(mocks.MockChatRepo)
		svc := NewChatService(chats, staticUser{&domain.User{ID: "renter-1"}})
		chats.On("StartConversation", ctx, "item-1", "owner-1").Return(&domain.Conversation{ID: "c1"}, nil)

		conv, err := svc.StartConversation(ctx, cycle())
		require.NoError(t, err)
		assert.Equal(t, "c1", conv.ID)
	})

	t.Run("Own item", func(t *testing.T) {
		chats := new(mocks.MockChatRepo)
		svc := NewChatService(chats, staticUser{&domain.User{ID: "owner-1"}})

		_, err := svc.StartConversation(ctx, cycle())
		assert.ErrorIs(t, err, ErrOwnItem)
		chats.AssertNotCalled(t, "StartConversation", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unknown owner", func(t *testing.T) {
		svc := NewChatService(new(mocks.MockChatRepo), nil)
		item := cycle()
		item.Owner = nil
		_, err := svc.StartConversation(ctx, item)
		assert.ErrorIs(t, err, ErrNoRecipient)
	})
}
