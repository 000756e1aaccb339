package view

import (
	"context"
	"sort"

	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/service"
)

// OwnerReturnsView lists returns the owner still has to inspect.
type OwnerReturnsView struct {
	state
	bookings service.BookingService
	pending  []domain.Booking
}

func NewOwnerReturnsView(bookings service.BookingService) *OwnerReturnsView {
	return &OwnerReturnsView{bookings: bookings}
}

func (v *OwnerReturnsView) Load(ctx context.Context) error {
	v.setLoading(true)
	defer v.setLoading(false)

	pending, err := v.bookings.ListPendingReturns(ctx)
	if err != nil {
		v.setBanner(errorBanner(err))
		return err
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].EndDate.Before(pending[j].EndDate)
	})

	v.mu.Lock()
	v.pending = pending
	v.mu.Unlock()
	return nil
}

func (v *OwnerReturnsView) Pending() []domain.Booking {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]domain.Booking(nil), v.pending...)
}

func (v *OwnerReturnsView) find(id string) (*domain.Booking, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.pending {
		if v.pending[i].ID == id {
			b := v.pending[i]
			return &b, nil
		}
	}
	return nil, ErrBookingUnavailable
}

// Approve accepts the returned item and releases the deposit.
func (v *OwnerReturnsView) Approve(ctx context.Context, id string) error {
	return v.perform(ctx, actionKey(ActionVerifyReturn, id), "Return accepted. The deposit will be refunded.", func() error {
		b, err := v.find(id)
		if err != nil {
			return err
		}
		return v.bookings.OwnerVerifyReturn(ctx, b, true, "")
	}, v.Load)
}

// Reject records damage or a missing part. Notes are required.
func (v *OwnerReturnsView) Reject(ctx context.Context, id, notes string) error {
	return v.perform(ctx, actionKey(ActionVerifyReturn, id), "Return rejected.", func() error {
		b, err := v.find(id)
		if err != nil {
			return err
		}
		return v.bookings.OwnerVerifyReturn(ctx, b, false, notes)
	}, v.Load)
}
