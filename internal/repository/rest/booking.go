package rest

import (
	"context"

	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/repository"
)

type bookingRepository struct {
	api Doer
}

func NewBookingRepository(api Doer) repository.BookingRepository {
	return &bookingRepository{api: api}
}

func bookingPath(id string) string {
	return "/api/bookings/" + seg(id)
}

func (r *bookingRepository) ListMine(ctx context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := r.api.Get(ctx, "/api/bookings/my", &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) Summary(ctx context.Context) (domain.BookingSummary, error) {
	summary := domain.BookingSummary{}
	if err := r.api.Get(ctx, "/api/bookings/my/summary", &summary); err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.api.Get(ctx, bookingPath(id), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Cancel(ctx context.Context, id string) error {
	return r.api.Put(ctx, bookingPath(id)+"/cancel", nil, nil)
}

func (r *bookingRepository) RequestReturnOTP(ctx context.Context, id string) error {
	return r.api.Post(ctx, bookingPath(id)+"/return/request-otp", nil, nil)
}

func (r *bookingRepository) VerifyReturnOTP(ctx context.Context, id, otp string) error {
	body := domain.ReturnCodeForm{Code: otp}
	return r.api.Post(ctx, bookingPath(id)+"/return/verify-otp", body, nil)
}

func (r *bookingRepository) ListPendingReturns(ctx context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := r.api.Get(ctx, "/api/bookings/returns/pending-for-owner", &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) VerifyReturn(ctx context.Context, id string, decision domain.ReturnDecision) error {
	return r.api.Post(ctx, bookingPath(id)+"/return/verify", decision, nil)
}
