package payment

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"campus-rental-client/internal/config"
	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/logger"

	"github.com/gorilla/mux"
)

// Opener presents the hosted checkout URL to the user.
type Opener func(checkoutURL string) error

// LoopbackConfig configures the hosted checkout and the local callback
// listener.
type LoopbackConfig struct {
	CheckoutURL  string
	KeyID        string
	MerchantName string
	Address      string // host:port; port 0 picks a free port
	Timeout      time.Duration
}

// LoopbackConfigFromConfig maps the payment config section.
func LoopbackConfigFromConfig(cfg *config.Config) LoopbackConfig {
	return LoopbackConfig{
		CheckoutURL:  cfg.Payment.CheckoutURL,
		KeyID:        cfg.Payment.KeyID,
		MerchantName: cfg.Payment.MerchantName,
		Address:      cfg.GetCallbackAddress(),
		Timeout:      cfg.PaymentTimeout(),
	}
}

// LoopbackGateway runs the provider's hosted checkout in the user's
// browser and receives the result on a short-lived local listener.
type LoopbackGateway struct {
	cfg  LoopbackConfig
	open Opener
}

func NewLoopbackGateway(cfg LoopbackConfig, open Opener) *LoopbackGateway {
	return &LoopbackGateway{cfg: cfg, open: open}
}

func (g *LoopbackGateway) Checkout(ctx context.Context, req CheckoutRequest) (*domain.PaymentProof, error) {
	listener, err := net.Listen("tcp", g.cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("start payment callback listener: %w", err)
	}

	handler := NewCallbackHandler(req.Order.OrderID)
	router := mux.NewRouter()
	RegisterCallbackRoutes(router, handler)
	srv := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Payment callback listener stopped", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	callback := "http://" + listener.Addr().String() + "/payment"
	checkoutURL, err := g.checkoutURL(req, callback)
	if err != nil {
		return nil, err
	}

	logger.ExternalServiceCall("payment", "checkout", "order_id", req.Order.OrderID, "amount_cents", req.Order.AmountCents)
	if err := g.open(checkoutURL); err != nil {
		logger.ExternalServiceResult("payment", "checkout", err)
		return nil, fmt.Errorf("open checkout: %w", err)
	}

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	select {
	case o := <-handler.results:
		logger.ExternalServiceResult("payment", "checkout", o.err, "order_id", req.Order.OrderID)
		return o.proof, o.err
	case <-ctx.Done():
		// A callback that landed alongside the deadline still wins.
		select {
		case o := <-handler.results:
			logger.ExternalServiceResult("payment", "checkout", o.err, "order_id", req.Order.OrderID, "late", true)
			return o.proof, o.err
		default:
		}
		logger.ExternalServiceResult("payment", "checkout", ErrDismissed, "order_id", req.Order.OrderID, "cause", ctx.Err())
		return nil, ErrDismissed
	}
}

func (g *LoopbackGateway) checkoutURL(req CheckoutRequest, callback string) (string, error) {
	u, err := url.Parse(g.cfg.CheckoutURL)
	if err != nil {
		return "", fmt.Errorf("invalid checkout url: %w", err)
	}
	q := u.Query()
	q.Set("key", g.cfg.KeyID)
	q.Set("order_id", req.Order.OrderID)
	q.Set("amount", strconv.FormatInt(req.Order.AmountCents, 10))
	q.Set("currency", req.Order.Currency)
	q.Set("name", g.cfg.MerchantName)
	q.Set("description", req.Description)
	if req.CustomerName != "" {
		q.Set("prefill_name", req.CustomerName)
	}
	if req.CustomerEmail != "" {
		q.Set("prefill_email", req.CustomerEmail)
	}
	q.Set("callback_url", callback)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
