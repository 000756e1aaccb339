package service

import (
	"context"
	"errors"
	"fmt"

	"campus-rental-client/internal/client"
	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/payment"
	"campus-rental-client/internal/session"
)

// Client-side refusals. They never reach the network.
var (
	ErrMissingDates           = &domain.ValidationError{Message: "Please select both a start and an end date"}
	ErrStartInPast            = &domain.ValidationError{Message: "Start date cannot be in the past"}
	ErrEndBeforeStart         = &domain.ValidationError{Message: "End date cannot be before the start date"}
	ErrDatesBooked            = &domain.ValidationError{Message: "Selected dates are already booked"}
	ErrInvalidExtensionDate   = &domain.ValidationError{Message: "New end date must be after the current end date"}
	ErrNotCancellable         = &domain.ValidationError{Message: "Only upcoming or active bookings can be cancelled"}
	ErrNotExtendable          = &domain.ValidationError{Message: "Only upcoming or active bookings can be extended"}
	ErrNotReturnable          = &domain.ValidationError{Message: "Only active bookings can be returned"}
	ErrReturnNotConfirmed     = &domain.ValidationError{Message: "The renter has not confirmed the return code yet"}
	ErrRejectionNotesRequired = &domain.ValidationError{Field: "notes", Message: "Describe the damage or reason when rejecting a return"}
	ErrNotOwner               = &domain.ValidationError{Message: "Only the item owner can do this"}
	ErrNotRenter              = &domain.ValidationError{Message: "Only the renter can do this"}
	ErrMissingPaymentProof    = &domain.ValidationError{Message: "Payment details are incomplete"}
	ErrOwnItem                = &domain.ValidationError{Message: "This is your own listing"}
	ErrNoRecipient            = &domain.ValidationError{Message: "The owner of this item is unknown"}
)

// ErrPaymentCapturedUnverified is matched by UnverifiedPaymentError.
var ErrPaymentCapturedUnverified = errors.New("payment may have been captured but was not verified")

// UnverifiedPaymentError is returned when the provider reported success
// but the backend refused to verify or commit. The client cannot
// reconcile this; the user has to be told a refund will follow.
type UnverifiedPaymentError struct {
	Proof domain.PaymentProof
	Err   error
}

func (e *UnverifiedPaymentError) Error() string {
	return fmt.Sprintf("%s (payment %s): %v", ErrPaymentCapturedUnverified, e.Proof.PaymentID, e.Err)
}

func (e *UnverifiedPaymentError) Unwrap() error { return e.Err }

func (e *UnverifiedPaymentError) Is(target error) bool {
	return target == ErrPaymentCapturedUnverified
}

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindBackend
	KindPayment
	KindNetwork
	KindAuth
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindBackend:
		return "backend"
	case KindPayment:
		return "payment"
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	}
	return "unknown"
}

// Classify sorts an error into the user-facing taxonomy.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var vErr *domain.ValidationError
	var failure *payment.FailureError
	var netErr *client.NetworkError
	var apiErr *client.APIError

	switch {
	case errors.As(err, &vErr):
		return KindValidation
	case errors.Is(err, ErrPaymentCapturedUnverified),
		errors.As(err, &failure),
		errors.Is(err, payment.ErrDismissed):
		return KindPayment
	case errors.Is(err, session.ErrNotLoggedIn), errors.Is(err, client.ErrUnauthorized):
		return KindAuth
	case errors.As(err, &netErr),
		errors.Is(err, context.DeadlineExceeded):
		return KindNetwork
	case errors.As(err, &apiErr):
		return KindBackend
	}
	return KindUnknown
}

// UserMessage renders err for display next to the triggering control.
// Backend messages pass through verbatim.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var unverified *UnverifiedPaymentError
	if errors.As(err, &unverified) {
		return fmt.Sprintf("%s Your payment (%s) may have been captured; a refund will be processed automatically.",
			backendText(unverified.Err), unverified.Proof.PaymentID)
	}
	if errors.Is(err, payment.ErrDismissed) {
		return "Payment was cancelled. No booking was made and you were not charged."
	}
	var failure *payment.FailureError
	if errors.As(err, &failure) {
		if failure.Description != "" {
			return failure.Description
		}
		return failure.Error()
	}

	switch Classify(err) {
	case KindNetwork:
		return "Could not reach the server. Please try again."
	case KindAuth:
		return "Please log in to continue."
	case KindBackend:
		return backendText(err)
	}
	return err.Error()
}

func backendText(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var netErr *client.NetworkError
	if errors.As(err, &netErr) {
		return "Could not reach the server."
	}
	return err.Error()
}
