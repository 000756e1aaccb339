package rest

import (
	"context"

	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/repository"
	"campus-rental-client/internal/utils"
)

type paymentRepository struct {
	api Doer
}

func NewPaymentRepository(api Doer) repository.PaymentRepository {
	return &paymentRepository{api: api}
}

func (r *paymentRepository) CreateOrder(ctx context.Context, req domain.BookingRequest) (*domain.Order, error) {
	var order domain.Order
	if err := r.api.Post(ctx, "/api/bookings/create-order", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *paymentRepository) VerifyAndBook(ctx context.Context, req domain.VerifyBookingRequest) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.api.Post(ctx, "/api/bookings/verify", req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *paymentRepository) CreateExtensionOrder(ctx context.Context, bookingID string, newEnd utils.Date) (*domain.Order, error) {
	var order domain.Order
	body := domain.ExtensionRequest{NewEndDate: newEnd}
	if err := r.api.Post(ctx, bookingPath(bookingID)+"/extend/create-order", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *paymentRepository) VerifyAndExtend(ctx context.Context, bookingID string, req domain.VerifyExtensionRequest) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.api.Post(ctx, bookingPath(bookingID)+"/extend/verify", req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
