package rest

import (
	"context"
	"net/url"

	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/repository"
)

type itemRepository struct {
	api Doer
}

func NewItemRepository(api Doer) repository.ItemRepository {
	return &itemRepository{api: api}
}

func (r *itemRepository) List(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error) {
	q := url.Values{}
	if filter.Category != "" {
		q.Set("category", string(filter.Category))
	}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	path := "/api/items"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var items []domain.Item
	if err := r.api.Get(ctx, path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	var item domain.Item
	if err := r.api.Get(ctx, "/api/items/"+seg(id), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) BookedRanges(ctx context.Context, itemID string) ([]domain.BookedRange, error) {
	var ranges []domain.BookedRange
	if err := r.api.Get(ctx, "/api/items/"+seg(itemID)+"/booked-dates", &ranges); err != nil {
		return nil, err
	}
	return ranges, nil
}

func (r *itemRepository) ListMine(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	if err := r.api.Get(ctx, "/api/items/mine", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) Create(ctx context.Context, form domain.ItemForm) (*domain.Item, error) {
	var item domain.Item
	if err := r.api.Post(ctx, "/api/items", form, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) Update(ctx context.Context, id string, form domain.ItemForm) (*domain.Item, error) {
	var item domain.Item
	if err := r.api.Put(ctx, "/api/items/"+seg(id), form, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) Delete(ctx context.Context, id string) error {
	return r.api.Delete(ctx, "/api/items/"+seg(id), nil)
}
