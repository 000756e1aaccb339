package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campus-rental-client/internal/client"
	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/logger"
	"campus-rental-client/internal/payment"
	"campus-rental-client/internal/repository"
	"campus-rental-client/internal/utils"

	"github.com/google/uuid"
)

// ItemSession is what an item view loads once: the item and the ranges
// already taken. The blocked set is only a fast-fail; the backend makes
// the authoritative overlap check at verify time.
type ItemSession struct {
	Item     *domain.Item
	Booked   []domain.BookedRange
	LoadedAt time.Time
}

// Blocked returns every day covered by an existing booking.
func (s *ItemSession) Blocked() utils.DateSet {
	return s.BlockedExcept("")
}

// BlockedExcept leaves out one booking's own days.
func (s *ItemSession) BlockedExcept(bookingID string) utils.DateSet {
	set := utils.DateSet{}
	for _, r := range s.Booked {
		if bookingID != "" && r.BookingID == bookingID {
			continue
		}
		set.AddRange(r.StartDate, r.EndDate)
	}
	return set
}

// ExtensionQuote is the priced extension shown before payment.
type ExtensionQuote struct {
	Booking    *domain.Booking
	Item       *domain.Item
	NewEndDate utils.Date
	Cost       utils.ExtensionCost
}

type bookingService struct {
	itemRepo    repository.ItemRepository
	bookingRepo repository.BookingRepository
	paymentRepo repository.PaymentRepository
	gateway     payment.Gateway
	users       UserSource
	clock       utils.Clock
	newKey      func() string
}

func NewBookingService(
	itemRepo repository.ItemRepository,
	bookingRepo repository.BookingRepository,
	paymentRepo repository.PaymentRepository,
	gateway payment.Gateway,
	users UserSource,
	clock utils.Clock,
) BookingService {
	if clock == nil {
		clock = utils.SystemClock
	}
	return &bookingService{
		itemRepo:    itemRepo,
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		gateway:     gateway,
		users:       users,
		clock:       clock,
		newKey:      uuid.NewString,
	}
}

func (s *bookingService) ComputeQuote(item *domain.Item, start, end utils.Date) utils.Quote {
	if item == nil {
		return utils.Quote{}
	}
	return utils.CalculateQuote(item.PricePerDayCents, item.DepositCents(), start, end)
}

func (s *bookingService) ValidateRange(start, end utils.Date, blocked utils.DateSet) error {
	if start.IsZero() || end.IsZero() {
		return ErrMissingDates
	}
	if start.Before(utils.Today(s.clock)) {
		return ErrStartInPast
	}
	if end.Before(start) {
		return ErrEndBeforeStart
	}
	if day, taken := blocked.FirstIn(start, end); taken {
		return fmt.Errorf("%w: %s", ErrDatesBooked, day)
	}
	return nil
}

func (s *bookingService) LoadItemSession(ctx context.Context, itemID string) (*ItemSession, error) {
	logger.EnterMethod("bookingService.LoadItemSession", "itemID", itemID)

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		logger.ExitMethodWithError("bookingService.LoadItemSession", err, "itemID", itemID)
		return nil, err
	}
	booked, err := s.itemRepo.BookedRanges(ctx, itemID)
	if err != nil {
		logger.ExitMethodWithError("bookingService.LoadItemSession", err, "itemID", itemID)
		return nil, err
	}

	logger.ExitMethod("bookingService.LoadItemSession", "itemID", itemID, "bookedRanges", len(booked))
	return &ItemSession{Item: item, Booked: booked, LoadedAt: s.clock.Now()}, nil
}

// BeginPayment runs validate, create order, checkout, confirm, strictly in
// that order. A provider failure or dismissal returns before confirm.
func (s *bookingService) BeginPayment(ctx context.Context, sess *ItemSession, start, end utils.Date) (*domain.Booking, error) {
	if sess == nil || sess.Item == nil {
		return nil, fmt.Errorf("item not loaded")
	}
	item := sess.Item
	logger.EnterMethod("bookingService.BeginPayment", "itemID", item.ID, "start", start, "end", end)

	if err := s.ValidateRange(start, end, sess.Blocked()); err != nil {
		logger.ExitMethodWithError("bookingService.BeginPayment", err, "itemID", item.ID)
		return nil, err
	}
	quote := s.ComputeQuote(item, start, end)

	req := domain.BookingRequest{ItemID: item.ID, StartDate: start, EndDate: end}
	order, err := s.paymentRepo.CreateOrder(client.WithIdempotencyKey(ctx, s.newKey()), req)
	if err != nil {
		logger.ExitMethodWithError("bookingService.BeginPayment", err, "itemID", item.ID, "step", "create-order")
		return nil, err
	}
	if order.AmountCents != quote.GrandTotalCents {
		logger.Warn("Order amount differs from local quote",
			"orderID", order.OrderID, "orderCents", order.AmountCents, "quoteCents", quote.GrandTotalCents)
	}

	proof, err := s.gateway.Checkout(ctx, s.checkoutRequest(*order,
		fmt.Sprintf("Rental: %s (%s to %s)", item.Name, start, end)))
	if err != nil {
		logger.ExitMethodWithError("bookingService.BeginPayment", err, "orderID", order.OrderID, "step", "checkout")
		return nil, err
	}

	booking, err := s.ConfirmBooking(ctx, item, start, end, *proof)
	if err != nil {
		logger.ExitMethodWithError("bookingService.BeginPayment", err, "orderID", order.OrderID, "step", "verify")
		return nil, err
	}
	logger.ExitMethod("bookingService.BeginPayment", "bookingID", booking.ID)
	return booking, nil
}

func (s *bookingService) ConfirmBooking(ctx context.Context, item *domain.Item, start, end utils.Date, proof domain.PaymentProof) (*domain.Booking, error) {
	if item == nil || proof.OrderID == "" || proof.PaymentID == "" || proof.Signature == "" {
		return nil, ErrMissingPaymentProof
	}

	req := domain.VerifyBookingRequest{
		PaymentProof:   proof,
		BookingRequest: domain.BookingRequest{ItemID: item.ID, StartDate: start, EndDate: end},
	}
	booking, err := s.paymentRepo.VerifyAndBook(client.WithIdempotencyKey(ctx, s.newKey()), req)
	if err != nil {
		return nil, &UnverifiedPaymentError{Proof: proof, Err: err}
	}
	logger.Info("Booking confirmed", "bookingID", booking.ID, "itemID", item.ID, "paymentID", proof.PaymentID)
	return booking, nil
}

func (s *bookingService) QuoteExtension(ctx context.Context, booking *domain.Booking, newEnd utils.Date) (*ExtensionQuote, error) {
	if !booking.Extendable() {
		return nil, ErrNotExtendable
	}
	if newEnd.IsZero() {
		return nil, ErrMissingDates
	}
	if !newEnd.After(booking.EndDate) {
		return nil, ErrInvalidExtensionDate
	}

	sess, err := s.LoadItemSession(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if day, taken := sess.BlockedExcept(booking.ID).FirstIn(booking.EndDate.AddDays(1), newEnd); taken {
		return nil, fmt.Errorf("%w: %s", ErrDatesBooked, day)
	}

	return &ExtensionQuote{
		Booking:    booking,
		Item:       sess.Item,
		NewEndDate: newEnd,
		Cost:       utils.CalculateExtension(sess.Item.PricePerDayCents, booking.StartDate, booking.EndDate, newEnd),
	}, nil
}

// ExtendBooking pays for the added days and commits the new end date,
// then re-fetches the booking so callers never show a patched copy.
func (s *bookingService) ExtendBooking(ctx context.Context, booking *domain.Booking, newEnd utils.Date) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.ExtendBooking", "bookingID", booking.ID, "newEnd", newEnd)

	quote, err := s.QuoteExtension(ctx, booking, newEnd)
	if err != nil {
		logger.ExitMethodWithError("bookingService.ExtendBooking", err, "bookingID", booking.ID)
		return nil, err
	}

	order, err := s.paymentRepo.CreateExtensionOrder(client.WithIdempotencyKey(ctx, s.newKey()), booking.ID, newEnd)
	if err != nil {
		logger.ExitMethodWithError("bookingService.ExtendBooking", err, "bookingID", booking.ID, "step", "create-order")
		return nil, err
	}

	proof, err := s.gateway.Checkout(ctx, s.checkoutRequest(*order,
		fmt.Sprintf("Extension: %s until %s (%d more days)", quote.Item.Name, newEnd, quote.Cost.AddedDays)))
	if err != nil {
		logger.ExitMethodWithError("bookingService.ExtendBooking", err, "orderID", order.OrderID, "step", "checkout")
		return nil, err
	}

	req := domain.VerifyExtensionRequest{PaymentProof: *proof, NewEndDate: newEnd}
	verified, err := s.paymentRepo.VerifyAndExtend(client.WithIdempotencyKey(ctx, s.newKey()), booking.ID, req)
	if err != nil {
		logger.ExitMethodWithError("bookingService.ExtendBooking", err, "orderID", order.OrderID, "step", "verify")
		return nil, &UnverifiedPaymentError{Proof: *proof, Err: err}
	}

	// The extension is paid and recorded from here on; a failed re-fetch
	// only means the caller has to reload.
	refreshed, err := s.bookingRepo.GetByID(ctx, booking.ID)
	if err != nil {
		logger.Warn("Extended booking could not be re-fetched", "bookingID", booking.ID, "error", err)
		logger.ExitMethod("bookingService.ExtendBooking", "bookingID", booking.ID, "step", "refetch")
		return verified, nil
	}
	logger.ExitMethod("bookingService.ExtendBooking", "bookingID", booking.ID, "endDate", refreshed.EndDate)
	return refreshed, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, booking *domain.Booking) error {
	if !booking.Cancellable() {
		return ErrNotCancellable
	}
	if err := s.bookingRepo.Cancel(ctx, booking.ID); err != nil {
		return err
	}
	logger.Info("Booking cancelled", "bookingID", booking.ID)
	return nil
}

func (s *bookingService) RequestReturnCode(ctx context.Context, booking *domain.Booking) error {
	if !booking.Returnable() {
		return ErrNotReturnable
	}
	if !s.isRenter(booking) {
		return ErrNotRenter
	}
	return s.bookingRepo.RequestReturnOTP(ctx, booking.ID)
}

func (s *bookingService) ConfirmReturnCode(ctx context.Context, booking *domain.Booking, code string) error {
	if !booking.Returnable() {
		return ErrNotReturnable
	}
	form := domain.ReturnCodeForm{Code: strings.TrimSpace(code)}
	if err := domain.Validate(form); err != nil {
		return err
	}
	if !s.isRenter(booking) {
		return ErrNotRenter
	}
	return s.bookingRepo.VerifyReturnOTP(ctx, booking.ID, form.Code)
}

func (s *bookingService) OwnerVerifyReturn(ctx context.Context, booking *domain.Booking, accepted bool, notes string) error {
	decision := domain.ReturnDecision{Accepted: accepted, Notes: strings.TrimSpace(notes)}
	if !accepted {
		if err := domain.Validate(domain.ReturnRejectionForm{Notes: decision.Notes}); err != nil {
			return ErrRejectionNotesRequired
		}
	}
	if !booking.Returnable() {
		return ErrNotReturnable
	}
	if !booking.AwaitingOwnerVerification() {
		return ErrReturnNotConfirmed
	}
	if !s.isOwner(booking) {
		return ErrNotOwner
	}

	if err := s.bookingRepo.VerifyReturn(ctx, booking.ID, decision); err != nil {
		return err
	}
	logger.Info("Return verified", "bookingID", booking.ID, "accepted", accepted)
	return nil
}

func (s *bookingService) ListMyBookings(ctx context.Context) ([]domain.Booking, error) {
	return s.bookingRepo.ListMine(ctx)
}

func (s *bookingService) GetSummary(ctx context.Context) (domain.BookingSummary, error) {
	return s.bookingRepo.Summary(ctx)
}

func (s *bookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

func (s *bookingService) ListPendingReturns(ctx context.Context) ([]domain.Booking, error) {
	return s.bookingRepo.ListPendingReturns(ctx)
}

func (s *bookingService) checkoutRequest(order domain.Order, description string) payment.CheckoutRequest {
	req := payment.CheckoutRequest{Order: order, Description: description}
	if u := s.currentUser(); u != nil {
		req.CustomerName = u.Name
		req.CustomerEmail = u.Email
	}
	return req
}

func (s *bookingService) currentUser() *domain.User {
	if s.users == nil {
		return nil
	}
	return s.users.User()
}

// Ownership is only enforced client-side when both ids are known; the
// backend checks it regardless.
func (s *bookingService) isOwner(b *domain.Booking) bool {
	u := s.currentUser()
	ownerID := b.OwnerID()
	return u == nil || u.ID == "" || ownerID == "" || u.ID == ownerID
}

func (s *bookingService) isRenter(b *domain.Booking) bool {
	u := s.currentUser()
	return u == nil || u.ID == "" || b.RenterID == "" || u.ID == b.RenterID
}
