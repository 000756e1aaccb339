package cli

import (
	"errors"
	"fmt"

	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/payment"
	"campus-rental-client/internal/view"

	"github.com/spf13/cobra"
)

func NewBookCmd() *cobra.Command {
	var (
		start     string
		end       string
		quoteOnly bool
		yes       bool
	)

	cmd := &cobra.Command{
		Use:   "book <item-id>",
		Short: "Book an item for a date range and pay",
		Long: `Book an item. The price is quoted first; on confirmation the
hosted checkout opens and the booking is created once the payment is
verified.`,
		Example: `  campusrent book itm_42 --start 2025-06-10 --end 2025-06-12
  campusrent book itm_42 --start 2025-06-10 --end 2025-06-12 --quote`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := mustContext(cmd)
			if err != nil {
				return err
			}
			startDate, err := parseDateFlag("start", start)
			if err != nil {
				return err
			}
			endDate, err := parseDateFlag("end", end)
			if err != nil {
				return err
			}

			item := view.NewItemDetailView(cliCtx.Catalog, cliCtx.Bookings, args[0])
			if err := item.Load(cmd.Context(), cliCtx.Session.Authenticated()); err != nil {
				return err
			}

			redirected := make(chan *domain.Booking, 1)
			form, err := item.BookingForm(view.FormOptions{
				RedirectDelay: cliCtx.Config.RedirectDelay(),
				OnRedirect:    func(b *domain.Booking) { redirected <- b },
			})
			if err != nil {
				return err
			}
			defer form.Close()

			w := cmd.OutOrStdout()
			form.SetDates(startDate, endDate)
			if err := form.FieldError(); err != nil {
				return err
			}
			fmt.Fprintf(w, "%s, %s to %s\n", item.Item().Name, startDate, endDate)
			printQuote(w, form.Quote())
			if quoteOnly {
				return nil
			}

			if err := cliCtx.RequireLogin(); err != nil {
				return err
			}
			if !confirm(cmd, "Pay "+money(form.Quote().GrandTotalCents)+" now?", yes) {
				fmt.Fprintln(w, "Cancelled.")
				return nil
			}

			if err := form.Submit(cmd.Context()); err != nil {
				if errors.Is(err, payment.ErrDismissed) {
					printBanner(w, form.Banner())
					return nil
				}
				return err
			}
			printBanner(w, form.Banner())

			select {
			case b := <-redirected:
				printBooking(w, b)
			case <-cmd.Context().Done():
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first rental day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "last rental day (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&quoteOnly, "quote", false, "show the price without booking")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}
