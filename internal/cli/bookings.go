package cli

import (
	"errors"
	"fmt"
	"io"

	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/view"

	"github.com/spf13/cobra"
)

func NewBookingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookings",
		Aliases: []string{"booking"},
		Short:   "View and manage your bookings",
	}

	cmd.AddCommand(newBookingsListCmd())
	cmd.AddCommand(newBookingsShowCmd())
	cmd.AddCommand(newBookingsCancelCmd())
	cmd.AddCommand(newBookingsExtendCmd())
	cmd.AddCommand(newBookingsReturnCodeCmd())
	cmd.AddCommand(newBookingsConfirmReturnCmd())

	return cmd
}

func newBookingsListCmd() *cobra.Command {
	var (
		status     string
		search     string
		oldest     bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := authed(cmd)
			if err != nil {
				return err
			}

			v := view.NewBookingListView(cliCtx.Bookings)
			v.SetStatusFilter(status)
			v.SetSearch(search)
			if oldest {
				v.SetSort(view.OldestFirst)
			}
			if err := v.Load(cmd.Context()); err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), v.Rows())
			}
			printSummary(cmd.OutOrStdout(), v.Summary())
			printBookings(cmd.OutOrStdout(), v.Rows())
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "UPCOMING, ACTIVE, COMPLETED or CANCELED")
	cmd.Flags().StringVarP(&search, "search", "s", "", "search by item name")
	cmd.Flags().BoolVar(&oldest, "oldest", false, "oldest first")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	return cmd
}

func printSummary(w io.Writer, s domain.BookingSummary) {
	fmt.Fprintf(w, "Total %d | Upcoming %d | Active %d | Completed %d | Canceled %d\n\n",
		s.Total(),
		s[domain.BookingStatusUpcoming],
		s[domain.BookingStatusActive],
		s[domain.BookingStatusCompleted],
		s[domain.BookingStatusCanceled])
}

// loadDetail loads one booking into a detail view.
func loadDetail(cmd *cobra.Command, id string) (*view.BookingDetailView, error) {
	cliCtx, err := authed(cmd)
	if err != nil {
		return nil, err
	}
	v := view.NewBookingDetailView(cliCtx.Bookings, id)
	if err := v.Load(cmd.Context()); err != nil {
		if v.Unavailable() {
			return nil, errors.New(v.Banner().Message)
		}
		return nil, err
	}
	return v, nil
}

func newBookingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <booking-id>",
		Short: "Show a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadDetail(cmd, args[0])
			if err != nil {
				return err
			}
			printBooking(cmd.OutOrStdout(), v.Booking())
			return nil
		},
	}
}

func newBookingsCancelCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "cancel <booking-id>",
		Short: "Cancel an upcoming or active booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadDetail(cmd, args[0])
			if err != nil {
				return err
			}
			b := v.Booking()
			if !confirm(cmd, fmt.Sprintf("Cancel booking of %s (%s to %s)?", orDash(b.ItemName()), b.StartDate, b.EndDate), yes) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err := v.Cancel(cmd.Context()); err != nil {
				return err
			}
			printBanner(cmd.OutOrStdout(), v.Banner())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func newBookingsExtendCmd() *cobra.Command {
	var (
		until string
		yes   bool
	)

	cmd := &cobra.Command{
		Use:   "extend <booking-id>",
		Short: "Extend a booking to a later end date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			newEnd, err := parseDateFlag("until", until)
			if err != nil {
				return err
			}
			v, err := loadDetail(cmd, args[0])
			if err != nil {
				return err
			}

			quote, err := v.QuoteExtension(cmd.Context(), newEnd)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			tw := newTable(w)
			fmt.Fprintf(tw, "New end date:\t%s\n", quote.NewEndDate)
			fmt.Fprintf(tw, "Added days:\t%d\n", quote.Cost.AddedDays)
			fmt.Fprintf(tw, "Additional cost:\t%s\n", money(quote.Cost.IncrementalCents))
			fmt.Fprintf(tw, "New rental total:\t%s (%d days)\n", money(quote.Cost.NewTotalCents), quote.Cost.NewTotalDays)
			tw.Flush()

			if !confirm(cmd, "Pay "+money(quote.Cost.IncrementalCents)+" to extend?", yes) {
				fmt.Fprintln(w, "Cancelled.")
				return nil
			}
			if err := v.Extend(cmd.Context(), newEnd); err != nil {
				return err
			}
			printBanner(w, v.Banner())
			if b := v.Booking(); b != nil {
				printBooking(w, b)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&until, "until", "", "new last rental day (YYYY-MM-DD)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	_ = cmd.MarkFlagRequired("until")
	return cmd
}

func newBookingsReturnCodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return-code <booking-id>",
		Short: "Email yourself the return code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadDetail(cmd, args[0])
			if err != nil {
				return err
			}
			if err := v.RequestReturnCode(cmd.Context()); err != nil {
				return err
			}
			printBanner(cmd.OutOrStdout(), v.Banner())
			return nil
		},
	}
}

func newBookingsConfirmReturnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm-return <booking-id> <code>",
		Short: "Confirm the return with the code sent to your email",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadDetail(cmd, args[0])
			if err != nil {
				return err
			}
			if err := v.ConfirmReturnCode(cmd.Context(), args[1]); err != nil {
				return err
			}
			printBanner(cmd.OutOrStdout(), v.Banner())
			return nil
		},
	}
}
