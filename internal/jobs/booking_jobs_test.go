package jobs

import (
	"errors"
	"testing"
	"time"

	"campus-rental-client/internal/config"
	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/repository/mocks"
	"campus-rental-client/internal/service"
	"campus-rental-client/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRunner(t *testing.T) (*JobRunner, *mocks.MockBookingRepo, *[]string) {
	t.Helper()
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	repo := new(mocks.MockBookingRepo)
	clock := utils.FixedClock(time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC))
	svc := service.NewBookingService(nil, repo, nil, nil, nil, clock)

	var notices []string
	jr := NewJobRunner(&Services{Booking: svc}, cfg, func(msg string) { notices = append(notices, msg) }, clock)
	return jr, repo, &notices
}

func rental(id string, status domain.BookingStatus, end string) domain.Booking {
	return domain.Booking{
		ID:        id,
		ItemID:    "item-" + id,
		Item:      &domain.ItemRef{Name: "Cycle " + id},
		Status:    status,
		StartDate: utils.MustParseDate("2025-06-01"),
		EndDate:   utils.MustParseDate(end),
	}
}

func TestRefreshBookings(t *testing.T) {
	jr, repo, notices := newRunner(t)

	repo.On("ListMine", mock.Anything).Return([]domain.Booking{
		rental("1", domain.BookingStatusUpcoming, "2025-06-20"),
		rental("2", domain.BookingStatusActive, "2025-06-11"),
	}, nil).Once()
	jr.RefreshBookings()
	assert.Equal(t, []string{"Booking 2 (Cycle 2) is due back on 2025-06-11"}, *notices)

	*notices = nil
	repo.On("ListMine", mock.Anything).Return([]domain.Booking{
		rental("1", domain.BookingStatusActive, "2025-06-20"),
		rental("2", domain.BookingStatusActive, "2025-06-11"),
		rental("3", domain.BookingStatusUpcoming, "2025-06-25"),
	}, nil).Once()
	jr.RefreshBookings()
	assert.Equal(t, []string{
		"Booking 1 (Cycle 1) is now ACTIVE",
		"New booking 3 (Cycle 3): 2025-06-01 to 2025-06-25",
	}, *notices)
}

func TestRefreshBookings_Overdue(t *testing.T) {
	jr, repo, notices := newRunner(t)
	repo.On("ListMine", mock.Anything).Return([]domain.Booking{
		rental("1", domain.BookingStatusActive, "2025-06-08"),
		rental("2", domain.BookingStatusCompleted, "2025-06-08"),
	}, nil)

	jr.RefreshBookings()
	jr.RefreshBookings()
	assert.Equal(t, []string{"Booking 1 (Cycle 1) was due back on 2025-06-08"}, *notices)
}

func TestRefreshBookings_Error(t *testing.T) {
	jr, repo, notices := newRunner(t)
	repo.On("ListMine", mock.Anything).Return(nil, errors.New("boom"))

	assert.NotPanics(t, jr.RefreshBookings)
	assert.Empty(t, *notices)
}

func TestCheckPendingReturns(t *testing.T) {
	jr, repo, notices := newRunner(t)
	pending := rental("1", domain.BookingStatusActive, "2025-06-09")
	pending.ReturnOTPVerified = true
	pending.Renter = &domain.UserRef{Name: "Ravi"}

	repo.On("ListPendingReturns", mock.Anything).Return([]domain.Booking{pending}, nil).Twice()
	jr.CheckPendingReturns()
	jr.CheckPendingReturns()
	assert.Equal(t, []string{"Return of Cycle 1 by Ravi is waiting for your inspection (booking 1)"}, *notices)

	repo.On("ListPendingReturns", mock.Anything).Return([]domain.Booking{}, nil).Once()
	jr.CheckPendingReturns()
	assert.Len(t, *notices, 1)
}

func TestRunWithRecovery(t *testing.T) {
	jr, _, _ := newRunner(t)
	assert.NotPanics(t, func() {
		jr.runWithRecovery("Panicky", func() { panic("boom") })
	})
}
