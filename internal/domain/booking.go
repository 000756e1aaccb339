package domain

import (
	"time"

	"campus-rental-client/internal/utils"
)

type BookingStatus string

const (
	BookingStatusUpcoming  BookingStatus = "UPCOMING"
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCanceled  BookingStatus = "CANCELED"
)

// Terminal reports whether no further transition is possible.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCanceled
}

type DepositStatus string

const (
	DepositStatusHeld      DepositStatus = "HELD"
	DepositStatusRefunded  DepositStatus = "REFUNDED"
	DepositStatusForfeited DepositStatus = "FORFEITED"
)

// ItemRef is the item summary embedded in a booking. The backend may omit
// it, so bookings hold it by pointer.
type ItemRef struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	PricePerDayCents int64  `json:"price_per_day_cents"`
	ImageURL         string `json:"image_url,omitempty"`
	Owner            *Owner `json:"owner,omitempty"`
}

type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Booking struct {
	ID        string     `json:"id"`
	ItemID    string     `json:"item_id"`
	Item      *ItemRef   `json:"item,omitempty"`
	RenterID  string     `json:"renter_id"`
	Renter    *UserRef   `json:"renter,omitempty"`
	StartDate utils.Date `json:"start_date"`
	EndDate   utils.Date `json:"end_date"`
	TotalDays int        `json:"total_days"`
	// Amounts are computed by the backend at verification time and only
	// change through the extension flow.
	TotalCents        int64          `json:"total_cents"`
	DepositCents      int64          `json:"deposit_cents"`
	DepositStatus     *DepositStatus `json:"deposit_status,omitempty"`
	Status            BookingStatus  `json:"status"`
	OrderID           string         `json:"order_id,omitempty"`
	PaymentID         string         `json:"payment_id,omitempty"`
	ReturnOTPVerified bool           `json:"return_otp_verified"`
	ReturnNotes       string         `json:"return_notes,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

// ItemName returns the embedded item's name, or "" when the backend did
// not include the item.
func (b *Booking) ItemName() string {
	if b.Item == nil {
		return ""
	}
	return b.Item.Name
}

// OwnerID returns the item owner's id when known.
func (b *Booking) OwnerID() string {
	if b.Item == nil || b.Item.Owner == nil {
		return ""
	}
	return b.Item.Owner.ID
}

// Cancellable reports whether the cancel action may be offered.
func (b *Booking) Cancellable() bool {
	return b.Status == BookingStatusUpcoming || b.Status == BookingStatusActive
}

// Returnable reports whether the return code flow may be started.
func (b *Booking) Returnable() bool {
	return b.Status == BookingStatusActive
}

// AwaitingOwnerVerification is the sub-state entered after the renter
// confirms the return code.
func (b *Booking) AwaitingOwnerVerification() bool {
	return b.Status == BookingStatusActive && b.ReturnOTPVerified
}

// Extendable reports whether the end date may still be moved.
func (b *Booking) Extendable() bool {
	return b.Status == BookingStatusUpcoming || b.Status == BookingStatusActive
}

// BookedRange is one non-cancelled booking's occupation of an item.
type BookedRange struct {
	BookingID string     `json:"booking_id"`
	StartDate utils.Date `json:"start_date"`
	EndDate   utils.Date `json:"end_date"`
}

// BookingSummary counts the current user's bookings by status.
type BookingSummary map[BookingStatus]int

// Total sums all statuses.
func (s BookingSummary) Total() int {
	n := 0
	for _, c := range s {
		n += c
	}
	return n
}

// ReturnDecision is the owner's verdict on a returned item.
type ReturnDecision struct {
	Accepted bool   `json:"accepted"`
	Notes    string `json:"notes"`
}
