package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"campus-rental-client/internal/client"
	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/payment"
	"campus-rental-client/internal/session"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	apiErr := &client.APIError{StatusCode: 409, Message: "Item already booked for these dates"}

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"Nil", nil, KindUnknown},
		{"Validation sentinel", ErrStartInPast, KindValidation},
		{"Wrapped validation", fmt.Errorf("%w: 2025-07-03", ErrDatesBooked), KindValidation},
		{"Backend", apiErr, KindBackend},
		{"Not found", &client.APIError{StatusCode: 404, Message: "Booking not found"}, KindBackend},
		{"Unauthorized", &client.APIError{StatusCode: 401, Message: "jwt expired"}, KindAuth},
		{"Not logged in", session.ErrNotLoggedIn, KindAuth},
		{"Network", &client.NetworkError{Op: "GET /api/items", Err: errors.New("connection refused")}, KindNetwork},
		{"Deadline", context.DeadlineExceeded, KindNetwork},
		{"Provider failure", &payment.FailureError{Description: "Card declined"}, KindPayment},
		{"Dismissed", payment.ErrDismissed, KindPayment},
		{"Unverified capture", &UnverifiedPaymentError{Err: apiErr}, KindPayment},
		{"Other", errors.New("boom"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	apiErr := &client.APIError{StatusCode: 409, Message: "Item already booked for these dates"}

	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "Item already booked for these dates", UserMessage(apiErr))
	assert.Equal(t, "Start date cannot be in the past", UserMessage(ErrStartInPast))
	assert.Equal(t, "Could not reach the server. Please try again.",
		UserMessage(&client.NetworkError{Op: "GET", Err: errors.New("refused")}))
	assert.Equal(t, "Please log in to continue.", UserMessage(session.ErrNotLoggedIn))
	assert.Contains(t, UserMessage(payment.ErrDismissed), "not charged")

	unverified := &UnverifiedPaymentError{Proof: domain.PaymentProof{PaymentID: "pay_7"}, Err: apiErr}
	assert.Equal(t,
		"Item already booked for these dates Your payment (pay_7) may have been captured; a refund will be processed automatically.",
		UserMessage(unverified))
	assert.ErrorIs(t, unverified, ErrPaymentCapturedUnverified)
	assert.True(t, errors.As(unverified, new(*client.APIError)))
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "network", KindNetwork.String())
	assert.Equal(t, "unknown", ErrorKind(42).String())
}
