package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"campus-rental-client/internal/jobs"
	"campus-rental-client/internal/logger"
	"campus-rental-client/internal/scheduler"
	"campus-rental-client/internal/utils"

	"github.com/spf13/cobra"
)

func NewWatchCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch your bookings and returns for changes",
		Long: `Poll the backend on the configured schedules and print a notice
when a booking changes status, a rental is due back, or a returned item
is waiting for your inspection.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := authed(cmd)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			notify := func(msg string) { fmt.Fprintln(w, msg) }
			runner := jobs.NewJobRunner(&jobs.Services{Booking: cliCtx.Bookings}, cliCtx.Config, notify, utils.SystemClock)

			if once {
				runner.RunAll()
				return nil
			}

			sched, err := scheduler.NewScheduler(runner)
			if err != nil {
				return err
			}

			// Seed the baseline so the first tick only reports changes.
			runner.RunAll()
			sched.Start()
			defer sched.Stop()
			logger.Info("Watching bookings", "next_run", sched.Next())

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case <-sigChan:
				logger.Info("Shutting down watcher")
			case <-cmd.Context().Done():
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run every check once and exit")
	return cmd
}
