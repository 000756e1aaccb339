package jobs

import (
	"fmt"
	"sync"

	"campus-rental-client/internal/config"
	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/logger"
	"campus-rental-client/internal/service"
	"campus-rental-client/internal/utils"
)

// Notifier receives user-facing notices produced by jobs.
type Notifier func(msg string)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
	notify   Notifier
	clock    utils.Clock

	mu       sync.Mutex
	seeded   bool
	statuses map[string]domain.BookingStatus
	reminded map[string]bool
	pending  map[string]bool
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Booking service.BookingService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *Services, cfg *config.Config, notify Notifier, clock utils.Clock) *JobRunner {
	if notify == nil {
		notify = func(string) {}
	}
	if clock == nil {
		clock = utils.SystemClock
	}
	return &JobRunner{
		services: services,
		config:   cfg,
		notify:   notify,
		clock:    clock,
		statuses: make(map[string]domain.BookingStatus),
		reminded: make(map[string]bool),
		pending:  make(map[string]bool),
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Debug("Starting job", "job", jobName)
	jobFunc()
	logger.Debug("Job completed", "job", jobName)
}

// RunAll runs every job once (for `watch --once`)
func (jr *JobRunner) RunAll() {
	jr.RefreshBookings()
	jr.CheckPendingReturns()
}

func (jr *JobRunner) notifyf(format string, args ...any) {
	jr.notify(fmt.Sprintf(format, args...))
}
