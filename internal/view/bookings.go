package view

import (
	"context"
	"errors"
	"sort"
	"strings"

	"campus-rental-client/internal/client"
	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/service"
	"campus-rental-client/internal/utils"
)

// Action names used for in-flight tracking. Keys are per booking.
const (
	ActionCancel        = "cancel"
	ActionExtend        = "extend"
	ActionRequestReturn = "request-return"
	ActionConfirmReturn = "confirm-return"
	ActionVerifyReturn  = "verify-return"
)

func actionKey(action, bookingID string) string {
	return action + ":" + bookingID
}

type SortOrder int

const (
	NewestFirst SortOrder = iota
	OldestFirst
)

// BookingListView is "my bookings": the list, the status summary, local
// filter/search/sort and the row actions.
type BookingListView struct {
	state
	bookings service.BookingService

	all          []domain.Booking
	summary      domain.BookingSummary
	statusFilter string
	search       string
	order        SortOrder
}

func NewBookingListView(bookings service.BookingService) *BookingListView {
	return &BookingListView{bookings: bookings}
}

// Load fetches the list and the summary. Rows are replaced wholesale.
func (v *BookingListView) Load(ctx context.Context) error {
	v.setLoading(true)
	defer v.setLoading(false)

	list, err := v.bookings.ListMyBookings(ctx)
	if err != nil {
		v.setBanner(errorBanner(err))
		return err
	}
	summary, err := v.bookings.GetSummary(ctx)
	if err != nil {
		v.setBanner(errorBanner(err))
		return err
	}

	v.mu.Lock()
	v.all = list
	v.summary = summary
	v.mu.Unlock()
	return nil
}

// SetStatusFilter keeps bookings whose status contains s, ignoring case.
func (v *BookingListView) SetStatusFilter(s string) {
	v.mu.Lock()
	v.statusFilter = strings.TrimSpace(s)
	v.mu.Unlock()
}

// SetSearch keeps bookings whose item name contains s, ignoring case.
func (v *BookingListView) SetSearch(s string) {
	v.mu.Lock()
	v.search = strings.TrimSpace(s)
	v.mu.Unlock()
}

func (v *BookingListView) SetSort(order SortOrder) {
	v.mu.Lock()
	v.order = order
	v.mu.Unlock()
}

func (v *BookingListView) Summary() domain.BookingSummary {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.summary
}

// Rows returns the visible bookings.
func (v *BookingListView) Rows() []domain.Booking {
	v.mu.Lock()
	defer v.mu.Unlock()
	return FilterBookings(v.all, v.statusFilter, v.search, v.order)
}

// FilterBookings applies the status substring filter, the item name
// search and the creation-time sort to a copy of list.
func FilterBookings(list []domain.Booking, status, search string, order SortOrder) []domain.Booking {
	status = strings.ToLower(status)
	search = strings.ToLower(search)

	rows := make([]domain.Booking, 0, len(list))
	for _, b := range list {
		if status != "" && !strings.Contains(strings.ToLower(string(b.Status)), status) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(b.ItemName()), search) {
			continue
		}
		rows = append(rows, b)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if order == OldestFirst {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return rows
}

// Booking finds a loaded booking by id.
func (v *BookingListView) Booking(id string) (*domain.Booking, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.all {
		if v.all[i].ID == id {
			b := v.all[i]
			return &b, true
		}
	}
	return nil, false
}

func (v *BookingListView) target(ctx context.Context, id string) (*domain.Booking, error) {
	if b, ok := v.Booking(id); ok {
		return b, nil
	}
	return v.bookings.GetBooking(ctx, id)
}

func (v *BookingListView) Cancel(ctx context.Context, id string) error {
	return v.perform(ctx, actionKey(ActionCancel, id), "Booking cancelled.", func() error {
		b, err := v.target(ctx, id)
		if err != nil {
			return err
		}
		return v.bookings.CancelBooking(ctx, b)
	}, v.Load)
}

func (v *BookingListView) Extend(ctx context.Context, id string, newEnd utils.Date) error {
	return v.perform(ctx, actionKey(ActionExtend, id), "Booking extended until "+newEnd.String()+".", func() error {
		b, err := v.target(ctx, id)
		if err != nil {
			return err
		}
		_, err = v.bookings.ExtendBooking(ctx, b, newEnd)
		return err
	}, v.Load)
}

func (v *BookingListView) RequestReturnCode(ctx context.Context, id string) error {
	return v.perform(ctx, actionKey(ActionRequestReturn, id), "A return code has been sent to your email.", func() error {
		b, err := v.target(ctx, id)
		if err != nil {
			return err
		}
		return v.bookings.RequestReturnCode(ctx, b)
	}, v.Load)
}

func (v *BookingListView) ConfirmReturnCode(ctx context.Context, id, code string) error {
	return v.perform(ctx, actionKey(ActionConfirmReturn, id), "Return confirmed. Waiting for the owner to inspect the item.", func() error {
		b, err := v.target(ctx, id)
		if err != nil {
			return err
		}
		return v.bookings.ConfirmReturnCode(ctx, b, code)
	}, v.Load)
}

// ErrBookingUnavailable is the single error state for a booking that does
// not exist or belongs to someone else.
var ErrBookingUnavailable = errors.New("booking not found or inaccessible")

const unavailableMessage = "Booking not found or you do not have access to it."

// BookingDetailView shows one booking with the full action set.
type BookingDetailView struct {
	state
	bookings service.BookingService
	id       string

	booking     *domain.Booking
	unavailable bool
}

func NewBookingDetailView(bookings service.BookingService, id string) *BookingDetailView {
	return &BookingDetailView{bookings: bookings, id: id}
}

func (v *BookingDetailView) Load(ctx context.Context) error {
	v.setLoading(true)
	defer v.setLoading(false)

	b, err := v.bookings.GetBooking(ctx, v.id)
	if err != nil {
		if errors.Is(err, client.ErrNotFoundOrInaccessible) {
			v.mu.Lock()
			v.booking = nil
			v.unavailable = true
			v.mu.Unlock()
			v.setBanner(Banner{Kind: BannerError, Message: unavailableMessage})
			return ErrBookingUnavailable
		}
		v.setBanner(errorBanner(err))
		return err
	}

	v.mu.Lock()
	v.booking = b
	v.unavailable = false
	v.mu.Unlock()
	return nil
}

// Booking returns the last fetched booking, nil before a successful load.
func (v *BookingDetailView) Booking() *domain.Booking {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.booking == nil {
		return nil
	}
	b := *v.booking
	return &b
}

// Unavailable reports the not-found-or-inaccessible state.
func (v *BookingDetailView) Unavailable() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.unavailable
}

func (v *BookingDetailView) loaded() (*domain.Booking, error) {
	b := v.Booking()
	if b == nil {
		return nil, ErrBookingUnavailable
	}
	return b, nil
}

func (v *BookingDetailView) Cancel(ctx context.Context) error {
	return v.perform(ctx, actionKey(ActionCancel, v.id), "Booking cancelled.", func() error {
		b, err := v.loaded()
		if err != nil {
			return err
		}
		return v.bookings.CancelBooking(ctx, b)
	}, v.Load)
}

// QuoteExtension prices an extension without starting payment.
func (v *BookingDetailView) QuoteExtension(ctx context.Context, newEnd utils.Date) (*service.ExtensionQuote, error) {
	b, err := v.loaded()
	if err != nil {
		return nil, err
	}
	return v.bookings.QuoteExtension(ctx, b, newEnd)
}

func (v *BookingDetailView) Extend(ctx context.Context, newEnd utils.Date) error {
	return v.perform(ctx, actionKey(ActionExtend, v.id), "Booking extended until "+newEnd.String()+".", func() error {
		b, err := v.loaded()
		if err != nil {
			return err
		}
		_, err = v.bookings.ExtendBooking(ctx, b, newEnd)
		return err
	}, v.Load)
}

func (v *BookingDetailView) RequestReturnCode(ctx context.Context) error {
	return v.perform(ctx, actionKey(ActionRequestReturn, v.id), "A return code has been sent to your email.", func() error {
		b, err := v.loaded()
		if err != nil {
			return err
		}
		return v.bookings.RequestReturnCode(ctx, b)
	}, v.Load)
}

func (v *BookingDetailView) ConfirmReturnCode(ctx context.Context, code string) error {
	return v.perform(ctx, actionKey(ActionConfirmReturn, v.id), "Return confirmed. Waiting for the owner to inspect the item.", func() error {
		b, err := v.loaded()
		if err != nil {
			return err
		}
		return v.bookings.ConfirmReturnCode(ctx, b, code)
	}, v.Load)
}

// VerifyReturn is the owner's accept or reject.
func (v *BookingDetailView) VerifyReturn(ctx context.Context, accepted bool, notes string) error {
	msg := "Return accepted. The deposit will be refunded."
	if !accepted {
		msg = "Return rejected."
	}
	return v.perform(ctx, actionKey(ActionVerifyReturn, v.id), msg, func() error {
		b, err := v.loaded()
		if err != nil {
			return err
		}
		return v.bookings.OwnerVerifyReturn(ctx, b, accepted, notes)
	}, v.Load)
}
