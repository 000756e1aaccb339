package scheduler

import (
	"testing"

	"campus-rental-client/internal/config"
	"campus-rental-client/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	s, err := NewScheduler(jobs.NewJobRunner(&jobs.Services{}, cfg, nil, nil))
	require.NoError(t, err)
	assert.True(t, s.IsRunning())

	s.Start()
	assert.False(t, s.Next().IsZero())
	s.Stop()
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	cfg.Scheduler.CheckPendingReturns = "every now and then"

	_, err := NewScheduler(jobs.NewJobRunner(&jobs.Services{}, cfg, nil, nil))
	assert.ErrorContains(t, err, "check_pending_returns")
}
