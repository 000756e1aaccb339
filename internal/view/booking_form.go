package view

import (
	"context"
	"errors"
	"time"

	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/payment"
	"campus-rental-client/internal/service"
	"campus-rental-client/internal/utils"
)

const ActionPay = "pay"

var (
	ErrItemNotLoaded    = errors.New("item not loaded")
	ErrAlreadyConfirmed = errors.New("booking already confirmed")
)

type FormStage int

const (
	StageEditing FormStage = iota
	StagePaying
	StageConfirmed
)

func (s FormStage) String() string {
	switch s {
	case StagePaying:
		return "paying"
	case StageConfirmed:
		return "confirmed"
	}
	return "editing"
}

// FormOptions configures what happens after a confirmed booking.
type FormOptions struct {
	RedirectDelay time.Duration
	OnRedirect    func(*domain.Booking)
}

// BookingFormView is the date picker, live quote and pay button of an
// item page.
type BookingFormView struct {
	state
	bookings service.BookingService
	session  *service.ItemSession
	blocked  utils.DateSet
	opts     FormOptions

	start, end utils.Date
	quote      utils.Quote
	invalid    error
	stage      FormStage
	booking    *domain.Booking
	redirect   *time.Timer
}

func NewBookingFormView(bookings service.BookingService, sess *service.ItemSession, opts FormOptions) *BookingFormView {
	v := &BookingFormView{
		bookings: bookings,
		session:  sess,
		blocked:  sess.Blocked(),
		opts:     opts,
	}
	v.invalid = bookings.ValidateRange(v.start, v.end, v.blocked)
	return v
}

// SetDates recomputes the quote and the inline validation message.
func (v *BookingFormView) SetDates(start, end utils.Date) {
	quote := v.bookings.ComputeQuote(v.session.Item, start, end)
	invalid := v.bookings.ValidateRange(start, end, v.blocked)

	v.mu.Lock()
	v.start, v.end = start, end
	v.quote = quote
	v.invalid = invalid
	v.mu.Unlock()
}

func (v *BookingFormView) Dates() (start, end utils.Date) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.start, v.end
}

func (v *BookingFormView) Quote() utils.Quote {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.quote
}

// FieldError is the inline validation error for the current dates.
func (v *BookingFormView) FieldError() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.invalid
}

// CanSubmit reports whether the pay button is enabled.
func (v *BookingFormView) CanSubmit() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.invalid == nil && v.stage == StageEditing && !v.inFlight[ActionPay]
}

func (v *BookingFormView) Stage() FormStage {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stage
}

// Booking is the confirmed booking, nil until payment succeeds.
func (v *BookingFormView) Booking() *domain.Booking {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.booking
}

// Submit pays for the selected dates. Validation errors never reach the
// network; a dismissed checkout returns the form to editing.
func (v *BookingFormView) Submit(ctx context.Context) error {
	if err := v.begin(ActionPay); err != nil {
		return err
	}
	defer v.state.end(ActionPay)

	v.mu.Lock()
	start, end, invalid, stage := v.start, v.end, v.invalid, v.stage
	v.mu.Unlock()

	if stage == StageConfirmed {
		return ErrAlreadyConfirmed
	}
	if invalid != nil {
		v.setBanner(errorBanner(invalid))
		return invalid
	}

	v.setStage(StagePaying)
	booking, err := v.bookings.BeginPayment(ctx, v.session, start, end)
	if err != nil {
		v.setStage(StageEditing)
		if errors.Is(err, payment.ErrDismissed) {
			v.setBanner(Banner{Kind: BannerInfo, Message: service.UserMessage(err)})
		} else {
			v.setBanner(errorBanner(err))
		}
		return err
	}

	v.mu.Lock()
	v.stage = StageConfirmed
	v.booking = booking
	v.banner = Banner{Kind: BannerSuccess, Message: "Booking confirmed! Taking you to your bookings..."}
	if v.opts.OnRedirect != nil {
		onRedirect := v.opts.OnRedirect
		v.redirect = time.AfterFunc(v.opts.RedirectDelay, func() { onRedirect(booking) })
	}
	v.mu.Unlock()
	return nil
}

// Close cancels a pending redirect.
func (v *BookingFormView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.redirect != nil {
		v.redirect.Stop()
	}
}

func (v *BookingFormView) setStage(s FormStage) {
	v.mu.Lock()
	v.stage = s
	v.mu.Unlock()
}
