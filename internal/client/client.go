package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"campus-rental-client/internal/config"
	"campus-rental-client/internal/logger"

	"github.com/sony/gobreaker"
)

const serviceName = "backend"

// TokenSource supplies the current bearer credential, or "" when logged out.
type TokenSource interface {
	Token() string
}

type idempotencyKey struct{}

// WithIdempotencyKey marks the request made with ctx as one logical
// operation; the backend deduplicates requests that share the key.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKey{}, key)
}

// Options configures a Client.
type Options struct {
	BaseURL         string
	Timeout         time.Duration
	BreakerFailures int
	BreakerReset    time.Duration
	HTTPClient      *http.Client
}

// OptionsFromConfig maps the api config section onto client options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BaseURL:         cfg.API.BaseURL,
		Timeout:         cfg.RequestTimeout(),
		BreakerFailures: cfg.API.BreakerFailures,
		BreakerReset:    time.Duration(cfg.API.BreakerResetSeconds) * time.Second,
	}
}

// Client is the HTTP adapter for the rental backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	cb      *gobreaker.CircuitBreaker
}

func New(opts Options, tokens TokenSource) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	failures := opts.BreakerFailures
	if failures <= 0 {
		failures = 3
	}
	reset := opts.BreakerReset
	if reset <= 0 {
		reset = 10 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		cb:      newBreaker(serviceName, uint32(failures), reset),
	}
}

func newBreaker(name string, failures uint32, reset time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     reset,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker changed state", "breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.ClientError()
		},
	})
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do sends one request. Backend rejections come back as *APIError and
// transport failures as *NetworkError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	operation := method + " " + path
	logger.ExternalServiceCall(serviceName, operation)

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		logger.ExternalServiceResult(serviceName, operation, err)
		return err
	}

	result, err := c.cb.Execute(func() (interface{}, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, &NetworkError{Op: operation, Err: err}
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &NetworkError{Op: operation, Err: err}
		}
		if resp.StatusCode >= 400 {
			return nil, parseErrorBody(resp.StatusCode, data)
		}
		return data, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = &NetworkError{Op: operation, Err: err}
	}
	if err != nil {
		logger.ExternalServiceResult(serviceName, operation, err)
		return err
	}

	data := result.([]byte)
	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			err = fmt.Errorf("decode %s response: %w", operation, err)
			logger.ExternalServiceResult(serviceName, operation, err)
			return err
		}
	}
	logger.ExternalServiceResult(serviceName, operation, nil)
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	u, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if key, ok := ctx.Value(idempotencyKey{}).(string); ok && key != "" {
		req.Header.Set("Idempotency-Key", key)
	}

	if config.GetSecurityLevel(method, u.Path) != config.SecurityPublic && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}
