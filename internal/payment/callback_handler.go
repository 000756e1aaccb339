package payment

import (
	"encoding/json"
	"net/http"
	"sync"

	"campus-rental-client/internal/domain"

	"github.com/gorilla/mux"
)

type outcome struct {
	proof *domain.PaymentProof
	err   error
}

// CallbackHandler receives the provider's redirect for a single order.
// Only the first outcome counts; later callbacks get 409.
type CallbackHandler struct {
	orderID string
	once    sync.Once
	results chan outcome
}

func NewCallbackHandler(orderID string) *CallbackHandler {
	return &CallbackHandler{
		orderID: orderID,
		results: make(chan outcome, 1),
	}
}

func (h *CallbackHandler) deliver(w http.ResponseWriter, o outcome) {
	delivered := false
	h.once.Do(func() {
		h.results <- o
		delivered = true
	})
	if !delivered {
		http.Error(w, "Payment already settled", http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("You can close this window and return to the terminal.\n"))
}

// HandleSuccess accepts the signed success payload
func (h *CallbackHandler) HandleSuccess(w http.ResponseWriter, r *http.Request) {
	var proof domain.PaymentProof
	if err := json.NewDecoder(r.Body).Decode(&proof); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	if proof.OrderID != h.orderID {
		http.Error(w, "Unknown order", http.StatusBadRequest)
		return
	}
	if proof.PaymentID == "" || proof.Signature == "" {
		http.Error(w, "Missing payment id or signature", http.StatusBadRequest)
		return
	}
	h.deliver(w, outcome{proof: &proof})
}

// HandleFailure accepts the provider's failure object
func (h *CallbackHandler) HandleFailure(w http.ResponseWriter, r *http.Request) {
	var failure FailureError
	if err := json.NewDecoder(r.Body).Decode(&failure); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	if failure.OrderID != "" && failure.OrderID != h.orderID {
		http.Error(w, "Unknown order", http.StatusBadRequest)
		return
	}
	h.deliver(w, outcome{err: &failure})
}

// HandleDismiss records that the user closed the checkout
func (h *CallbackHandler) HandleDismiss(w http.ResponseWriter, r *http.Request) {
	h.deliver(w, outcome{err: ErrDismissed})
}

// RegisterCallbackRoutes registers the payment callback endpoints
func RegisterCallbackRoutes(router *mux.Router, handler *CallbackHandler) {
	router.HandleFunc("/payment/success", handler.HandleSuccess).Methods("POST")
	router.HandleFunc("/payment/failure", handler.HandleFailure).Methods("POST")
	router.HandleFunc("/payment/dismiss", handler.HandleDismiss).Methods("POST")
}
