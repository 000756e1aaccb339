package rest

import (
	"context"

	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/repository"
)

type wishlistRepository struct {
	api Doer
}

func NewWishlistRepository(api Doer) repository.WishlistRepository {
	return &wishlistRepository{api: api}
}

func (r *wishlistRepository) List(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	if err := r.api.Get(ctx, "/api/wishlist", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *wishlistRepository) Add(ctx context.Context, itemID string) error {
	return r.api.Post(ctx, "/api/wishlist/"+seg(itemID), nil, nil)
}

func (r *wishlistRepository) Remove(ctx context.Context, itemID string) error {
	return r.api.Delete(ctx, "/api/wishlist/"+seg(itemID), nil)
}

func (r *wishlistRepository) Contains(ctx context.Context, itemID string) (bool, error) {
	var out struct {
		InWishlist bool `json:"in_wishlist"`
	}
	if err := r.api.Get(ctx, "/api/wishlist/"+seg(itemID)+"/status", &out); err != nil {
		return false, err
	}
	return out.InWishlist, nil
}
