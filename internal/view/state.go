// Package view holds the state behind each screen: what was loaded, what
// is in flight, and the feedback banner. Front ends render it; they never
// call repositories directly.
package view

import (
	"context"
	"errors"
	"sync"

	"campus-rental-client/internal/logger"
	"campus-rental-client/internal/service"
)

// ErrActionInFlight rejects a duplicate submission while the same action
// is still running.
var ErrActionInFlight = errors.New("this action is already in progress")

type BannerKind int

const (
	BannerNone BannerKind = iota
	BannerSuccess
	BannerInfo
	BannerError
)

func (k BannerKind) String() string {
	switch k {
	case BannerSuccess:
		return "success"
	case BannerInfo:
		return "info"
	case BannerError:
		return "error"
	}
	return ""
}

// Banner is the feedback line shown after an action settles.
type Banner struct {
	Kind    BannerKind
	Message string
}

func (b Banner) IsZero() bool { return b.Kind == BannerNone }

func errorBanner(err error) Banner {
	return Banner{Kind: BannerError, Message: service.UserMessage(err)}
}

// state is embedded by every view.
type state struct {
	mu       sync.Mutex
	loading  bool
	banner   Banner
	inFlight map[string]bool
}

func (s *state) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *state) Banner() Banner {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.banner
}

// Busy reports whether action is running.
func (s *state) Busy(action string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[action]
}

func (s *state) setBanner(b Banner) {
	s.mu.Lock()
	s.banner = b
	s.mu.Unlock()
}

func (s *state) setLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}

func (s *state) begin(action string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight == nil {
		s.inFlight = make(map[string]bool)
	}
	if s.inFlight[action] {
		return ErrActionInFlight
	}
	s.inFlight[action] = true
	return nil
}

func (s *state) end(action string) {
	s.mu.Lock()
	delete(s.inFlight, action)
	s.mu.Unlock()
}

// perform runs a mutating action under its in-flight flag, records the
// outcome on the banner and, on success, reloads the view from the
// backend.
func (s *state) perform(ctx context.Context, action, success string, fn func() error, reload func(context.Context) error) error {
	if err := s.begin(action); err != nil {
		return err
	}
	defer s.end(action)

	if err := fn(); err != nil {
		logger.Debug("View action failed", "action", action, "kind", service.Classify(err), "error", err)
		s.setBanner(errorBanner(err))
		return err
	}

	if reload != nil {
		if err := reload(ctx); err != nil {
			// The action went through; only the refresh failed.
			s.setBanner(Banner{Kind: BannerInfo, Message: success + " Refresh to see the latest details."})
			return nil
		}
	}
	s.setBanner(Banner{Kind: BannerSuccess, Message: success})
	return nil
}
