package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/utils"
	"campus-rental-client/internal/view"

	"github.com/spf13/cobra"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func money(cents int64) string {
	return "₹" + utils.FormatCents(cents)
}

func printBanner(w io.Writer, b view.Banner) {
	if b.IsZero() {
		return
	}
	fmt.Fprintln(w, b.Message)
}

// confirm asks a yes/no question on the command's streams. yes skips it.
func confirm(cmd *cobra.Command, question string, yes bool) bool {
	if yes {
		return true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (y/N): ", question)
	reader := bufio.NewReader(cmd.InOrStdin())
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

func parseDateFlag(name, value string) (utils.Date, error) {
	if value == "" {
		return utils.Date{}, nil
	}
	d, err := utils.ParseDate(value)
	if err != nil {
		return utils.Date{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}

func printBookings(w io.Writer, list []domain.Booking) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No bookings.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tITEM\tFROM\tTO\tDAYS\tTOTAL\tSTATUS")
	for _, b := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			b.ID, orDash(b.ItemName()), b.StartDate, b.EndDate, b.TotalDays, money(b.TotalCents), statusLabel(b))
	}
	tw.Flush()
}

func printBooking(w io.Writer, b *domain.Booking) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Booking:\t%s\n", b.ID)
	fmt.Fprintf(tw, "Item:\t%s\n", orDash(b.ItemName()))
	if b.Renter != nil {
		fmt.Fprintf(tw, "Renter:\t%s <%s>\n", b.Renter.Name, b.Renter.Email)
	}
	fmt.Fprintf(tw, "Dates:\t%s to %s (%d days)\n", b.StartDate, b.EndDate, b.TotalDays)
	fmt.Fprintf(tw, "Total:\t%s\n", money(b.TotalCents))
	fmt.Fprintf(tw, "Deposit:\t%s\n", depositLabel(b))
	fmt.Fprintf(tw, "Status:\t%s\n", statusLabel(*b))
	if b.ReturnNotes != "" {
		fmt.Fprintf(tw, "Return notes:\t%s\n", b.ReturnNotes)
	}
	if !b.CreatedAt.IsZero() {
		fmt.Fprintf(tw, "Booked on:\t%s\n", b.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

func statusLabel(b domain.Booking) string {
	if b.AwaitingOwnerVerification() {
		return string(b.Status) + " (return pending inspection)"
	}
	return string(b.Status)
}

func depositLabel(b *domain.Booking) string {
	if b.DepositCents == 0 {
		return "none"
	}
	if b.DepositStatus == nil {
		return money(b.DepositCents)
	}
	return fmt.Sprintf("%s (%s)", money(b.DepositCents), *b.DepositStatus)
}

func printItems(w io.Writer, items []domain.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No items found.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPER DAY\tDEPOSIT\tSTATUS")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			it.ID, it.Name, it.Category, money(it.PricePerDayCents), money(it.DepositCents()), it.Status)
	}
	tw.Flush()
}

func printQuote(w io.Writer, q utils.Quote) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Days:\t%d\n", q.TotalDays)
	fmt.Fprintf(tw, "Rental:\t%s\n", money(q.RentalTotalCents))
	fmt.Fprintf(tw, "Deposit:\t%s\n", money(q.DepositCents))
	fmt.Fprintf(tw, "Total due:\t%s\n", money(q.GrandTotalCents))
	tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
