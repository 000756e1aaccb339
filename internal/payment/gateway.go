package payment

import (
	"context"
	"errors"
	"fmt"

	"campus-rental-client/internal/domain"
)

// ErrDismissed means the user closed the checkout (or it timed out)
// without paying. No charge was made.
var ErrDismissed = errors.New("payment was cancelled before completion")

// CheckoutRequest is everything the provider widget is configured with.
type CheckoutRequest struct {
	Order         domain.Order
	Description   string
	CustomerName  string
	CustomerEmail string
}

// Gateway hands an order to the external payment provider and waits for
// either a signed success payload or a failure.
type Gateway interface {
	Checkout(ctx context.Context, req CheckoutRequest) (*domain.PaymentProof, error)
}

// FailureError is the provider's failure object. Description is what the
// user sees.
type FailureError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
	OrderID     string `json:"order_id,omitempty"`
	PaymentID   string `json:"payment_id,omitempty"`
}

func (e *FailureError) Error() string {
	switch {
	case e.Description != "":
		return fmt.Sprintf("payment failed: %s", e.Description)
	case e.Reason != "":
		return fmt.Sprintf("payment failed: %s", e.Reason)
	case e.Code != "":
		return fmt.Sprintf("payment failed: %s", e.Code)
	}
	return "payment failed"
}
