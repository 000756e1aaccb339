package service

import (
	"context"
	"strings"

	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/logger"
	"campus-rental-client/internal/repository"
)

// WishlistCache mirrors wishlist changes into the cached profile.
type WishlistCache interface {
	SetWishlisted(ctx context.Context, itemID string, wishlisted bool) error
}

type catalogService struct {
	itemRepo     repository.ItemRepository
	wishlistRepo repository.WishlistRepository
	cache        WishlistCache
}

func NewCatalogService(itemRepo repository.ItemRepository, wishlistRepo repository.WishlistRepository, cache WishlistCache) CatalogService {
	return &catalogService{itemRepo: itemRepo, wishlistRepo: wishlistRepo, cache: cache}
}

// ListItems sends the filter to the backend and applies it again locally,
// since older backends ignore some query parameters.
func (s *catalogService) ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	items, err := s.itemRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return RefineItems(items, filter), nil
}

// RefineItems keeps the items matching every non-empty filter field.
// Search is a case-insensitive substring match on name, description,
// location and tags.
func RefineItems(items []domain.Item, filter domain.ItemFilter) []domain.Item {
	needle := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if filter.Category != "" && !strings.EqualFold(string(item.Category), string(filter.Category)) {
			continue
		}
		if filter.Status != "" && !strings.EqualFold(string(item.Status), string(filter.Status)) {
			continue
		}
		if needle != "" && !itemMatches(item, needle) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func itemMatches(item domain.Item, needle string) bool {
	fields := append([]string{item.Name, item.Description, item.Location}, item.Tags...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func (s *catalogService) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	return s.itemRepo.GetByID(ctx, id)
}

func (s *catalogService) ListMyItems(ctx context.Context) ([]domain.Item, error) {
	return s.itemRepo.ListMine(ctx)
}

func (s *catalogService) CreateItem(ctx context.Context, form domain.ItemForm) (*domain.Item, error) {
	form = normalizeForm(form)
	if err := domain.Validate(form); err != nil {
		return nil, err
	}
	item, err := s.itemRepo.Create(ctx, form)
	if err != nil {
		return nil, err
	}
	logger.Info("Item listed", "itemID", item.ID, "name", item.Name)
	return item, nil
}

func (s *catalogService) UpdateItem(ctx context.Context, id string, form domain.ItemForm) (*domain.Item, error) {
	form = normalizeForm(form)
	if err := domain.Validate(form); err != nil {
		return nil, err
	}
	return s.itemRepo.Update(ctx, id, form)
}

func (s *catalogService) DeleteItem(ctx context.Context, id string) error {
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("Item deleted", "itemID", id)
	return nil
}

func normalizeForm(form domain.ItemForm) domain.ItemForm {
	form.Name = strings.TrimSpace(form.Name)
	form.Description = strings.TrimSpace(form.Description)
	form.Location = strings.TrimSpace(form.Location)
	return form
}

func (s *catalogService) ListWishlist(ctx context.Context) ([]domain.Item, error) {
	return s.wishlistRepo.List(ctx)
}

// IsWishlisted treats a failed status check as "not wishlisted".
func (s *catalogService) IsWishlisted(ctx context.Context, itemID string) bool {
	in, err := s.wishlistRepo.Contains(ctx, itemID)
	if err != nil {
		logger.Warn("Wishlist status check failed", "itemID", itemID, "error", err)
		return false
	}
	return in
}

// ToggleWishlist flips the item's wishlist membership and returns the new
// state.
func (s *catalogService) ToggleWishlist(ctx context.Context, itemID string) (bool, error) {
	logger.EnterMethod("catalogService.ToggleWishlist", "itemID", itemID)

	var err error
	wishlisted := !s.IsWishlisted(ctx, itemID)
	if wishlisted {
		err = s.wishlistRepo.Add(ctx, itemID)
	} else {
		err = s.wishlistRepo.Remove(ctx, itemID)
	}
	if err != nil {
		logger.ExitMethodWithError("catalogService.ToggleWishlist", err, "itemID", itemID)
		return !wishlisted, err
	}

	if s.cache != nil {
		if err := s.cache.SetWishlisted(ctx, itemID, wishlisted); err != nil {
			logger.Warn("Failed to update cached wishlist", "itemID", itemID, "error", err)
		}
	}
	logger.ExitMethod("catalogService.ToggleWishlist", "itemID", itemID, "wishlisted", wishlisted)
	return wishlisted, nil
}
