package jobs

import (
	"context"

	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/logger"
	"campus-rental-client/internal/service"
	"campus-rental-client/internal/utils"
)

// RefreshBookings re-fetches the user's bookings, reports status changes
// since the previous run and reminds once about rentals that are due back
// tomorrow or overdue. The first run only records the baseline.
func (jr *JobRunner) RefreshBookings() {
	jr.runWithRecovery("RefreshBookings", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jr.config.RequestTimeout())
		defer cancel()

		list, err := jr.services.Booking.ListMyBookings(ctx)
		if err != nil {
			logger.Error("Failed to refresh bookings", "error", err, "kind", service.Classify(err))
			return
		}

		today := utils.Today(jr.clock)
		jr.mu.Lock()
		defer jr.mu.Unlock()

		changed := 0
		for _, b := range list {
			prev, known := jr.statuses[b.ID]
			jr.statuses[b.ID] = b.Status
			if jr.seeded && known && prev != b.Status {
				changed++
				jr.notifyf("Booking %s (%s) is now %s", b.ID, displayName(b), b.Status)
			}
			if jr.seeded && !known {
				jr.notifyf("New booking %s (%s): %s to %s", b.ID, displayName(b), b.StartDate, b.EndDate)
			}

			if b.Status != domain.BookingStatusActive || jr.reminded[b.ID] {
				continue
			}
			switch {
			case b.EndDate.Before(today):
				jr.reminded[b.ID] = true
				jr.notifyf("Booking %s (%s) was due back on %s", b.ID, displayName(b), b.EndDate)
			case !b.EndDate.After(today.AddDays(1)):
				jr.reminded[b.ID] = true
				jr.notifyf("Booking %s (%s) is due back on %s", b.ID, displayName(b), b.EndDate)
			}
		}
		jr.seeded = true

		logger.Info("Refreshed bookings", "count", len(list), "changed", changed)
	})
}

// CheckPendingReturns reports returns awaiting the owner's inspection,
// each once.
func (jr *JobRunner) CheckPendingReturns() {
	jr.runWithRecovery("CheckPendingReturns", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jr.config.RequestTimeout())
		defer cancel()

		pending, err := jr.services.Booking.ListPendingReturns(ctx)
		if err != nil {
			logger.Error("Failed to check pending returns", "error", err, "kind", service.Classify(err))
			return
		}

		jr.mu.Lock()
		defer jr.mu.Unlock()

		current := make(map[string]bool, len(pending))
		for _, b := range pending {
			current[b.ID] = true
			if jr.pending[b.ID] {
				continue
			}
			renter := "the renter"
			if b.Renter != nil && b.Renter.Name != "" {
				renter = b.Renter.Name
			}
			jr.notifyf("Return of %s by %s is waiting for your inspection (booking %s)", displayName(b), renter, b.ID)
		}
		jr.pending = current

		logger.Info("Checked pending returns", "count", len(pending))
	})
}

func displayName(b domain.Booking) string {
	if name := b.ItemName(); name != "" {
		return name
	}
	return "item " + b.ItemID
}
