package view

import (
	"context"

	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/service"
)

const ActionWishlist = "wishlist"

// CatalogView is the browsable item list.
type CatalogView struct {
	state
	catalog service.CatalogService
	filter  domain.ItemFilter
	items   []domain.Item
}

func NewCatalogView(catalog service.CatalogService) *CatalogView {
	return &CatalogView{catalog: catalog}
}

// SetFilter replaces the filter; call Load to apply it.
func (v *CatalogView) SetFilter(filter domain.ItemFilter) {
	v.mu.Lock()
	v.filter = filter
	v.mu.Unlock()
}

func (v *CatalogView) Filter() domain.ItemFilter {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

func (v *CatalogView) Load(ctx context.Context) error {
	v.setLoading(true)
	defer v.setLoading(false)

	items, err := v.catalog.ListItems(ctx, v.Filter())
	if err != nil {
		v.setBanner(errorBanner(err))
		return err
	}
	v.mu.Lock()
	v.items = items
	v.mu.Unlock()
	return nil
}

func (v *CatalogView) Items() []domain.Item {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]domain.Item(nil), v.items...)
}

// ItemDetailView is one item with its booked days and wishlist state.
type ItemDetailView struct {
	state
	catalog  service.CatalogService
	bookings service.BookingService
	itemID   string

	session    *service.ItemSession
	wishlisted bool
}

func NewItemDetailView(catalog service.CatalogService, bookings service.BookingService, itemID string) *ItemDetailView {
	return &ItemDetailView{catalog: catalog, bookings: bookings, itemID: itemID}
}

// Load fetches the item and its booked ranges once. The wishlist state is
// only fetched when signedIn.
func (v *ItemDetailView) Load(ctx context.Context, signedIn bool) error {
	v.setLoading(true)
	defer v.setLoading(false)

	sess, err := v.bookings.LoadItemSession(ctx, v.itemID)
	if err != nil {
		v.setBanner(errorBanner(err))
		return err
	}
	wishlisted := signedIn && v.catalog.IsWishlisted(ctx, v.itemID)

	v.mu.Lock()
	v.session = sess
	v.wishlisted = wishlisted
	v.mu.Unlock()
	return nil
}

// Session returns the loaded item session, nil before Load.
func (v *ItemDetailView) Session() *service.ItemSession {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.session
}

func (v *ItemDetailView) Item() *domain.Item {
	if s := v.Session(); s != nil {
		return s.Item
	}
	return nil
}

func (v *ItemDetailView) Wishlisted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.wishlisted
}

// ToggleWishlist flips the wishlist state. Nothing is re-fetched; the
// backend's answer is the new state.
func (v *ItemDetailView) ToggleWishlist(ctx context.Context) error {
	if err := v.begin(ActionWishlist); err != nil {
		return err
	}
	defer v.end(ActionWishlist)

	in, err := v.catalog.ToggleWishlist(ctx, v.itemID)
	if err != nil {
		v.setBanner(errorBanner(err))
		return err
	}
	v.mu.Lock()
	v.wishlisted = in
	v.mu.Unlock()

	msg := "Removed from your wishlist."
	if in {
		msg = "Added to your wishlist."
	}
	v.setBanner(Banner{Kind: BannerSuccess, Message: msg})
	return nil
}

// BookingForm starts a booking form over the loaded session.
func (v *ItemDetailView) BookingForm(opts FormOptions) (*BookingFormView, error) {
	sess := v.Session()
	if sess == nil {
		return nil, ErrItemNotLoaded
	}
	return NewBookingFormView(v.bookings, sess, opts), nil
}
