package domain

import "campus-rental-client/internal/utils"

// Order is the backend-issued payment order for a quoted amount.
type Order struct {
	OrderID     string `json:"order_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

// PaymentProof is the signed success payload returned by the payment
// provider. Only the backend can verify the signature.
type PaymentProof struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

// BookingRequest is the item/date selection sent with create-order and
// with the verify call.
type BookingRequest struct {
	ItemID    string     `json:"item_id"`
	StartDate utils.Date `json:"start_date"`
	EndDate   utils.Date `json:"end_date"`
}

// VerifyBookingRequest pairs a payment proof with the original selection.
type VerifyBookingRequest struct {
	PaymentProof
	BookingRequest
}

// ExtensionRequest asks for an order covering the added days.
type ExtensionRequest struct {
	NewEndDate utils.Date `json:"new_end_date"`
}

// VerifyExtensionRequest commits an extension after payment.
type VerifyExtensionRequest struct {
	PaymentProof
	NewEndDate utils.Date `json:"new_end_date"`
}
