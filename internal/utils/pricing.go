package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Quote is the price breakdown shown before payment. Amounts are in
// minor currency units.
type Quote struct {
	TotalDays        int   `json:"total_days"`
	RentalTotalCents int64 `json:"rental_total_cents"`
	DepositCents     int64 `json:"deposit_cents"`
	GrandTotalCents  int64 `json:"grand_total_cents"`
}

// IsZero reports whether the quote is the empty quote returned for an
// incomplete or inverted selection.
func (q Quote) IsZero() bool {
	return q == Quote{}
}

// CalculateQuote prices an inclusive day range at a flat daily rate and
// adds the item's deposit. Missing dates or end < start give a zero quote.
func CalculateQuote(pricePerDayCents, depositCents int64, start, end Date) Quote {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return Quote{}
	}
	if depositCents < 0 {
		depositCents = 0
	}

	days := InclusiveDays(start, end)
	rental := int64(days) * pricePerDayCents

	return Quote{
		TotalDays:        days,
		RentalTotalCents: rental,
		DepositCents:     depositCents,
		GrandTotalCents:  rental + depositCents,
	}
}

// ExtensionCost describes the incremental charge for moving an end date.
type ExtensionCost struct {
	AddedDays        int   `json:"added_days"`
	IncrementalCents int64 `json:"incremental_cents"`
	NewTotalDays     int   `json:"new_total_days"`
	NewTotalCents    int64 `json:"new_total_cents"`
}

// CalculateExtension prices the days added when currentEnd moves to
// newEnd. newEnd must be strictly after currentEnd; otherwise the result
// is zero.
func CalculateExtension(pricePerDayCents int64, start, currentEnd, newEnd Date) ExtensionCost {
	if start.IsZero() || currentEnd.IsZero() || newEnd.IsZero() || !newEnd.After(currentEnd) {
		return ExtensionCost{}
	}

	added := currentEnd.DaysUntil(newEnd)
	newDays := InclusiveDays(start, newEnd)

	return ExtensionCost{
		AddedDays:        added,
		IncrementalCents: int64(added) * pricePerDayCents,
		NewTotalDays:     newDays,
		NewTotalCents:    int64(newDays) * pricePerDayCents,
	}
}

// FormatCents renders minor units as a decimal amount, e.g. 60000 -> "600.00".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ParseCents reads a decimal amount with at most two fractional digits.
func ParseCents(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, fmt.Errorf("amount is required")
	}
	if strings.Count(amount, ".") > 1 || strings.IndexFunc(amount, func(r rune) bool {
		return r != '.' && (r < '0' || r > '9')
	}) >= 0 {
		return 0, fmt.Errorf("invalid amount %q", amount)
	}
	whole, frac, hasFrac := strings.Cut(amount, ".")
	if hasFrac && (len(frac) == 0 || len(frac) > 2) {
		return 0, fmt.Errorf("invalid amount %q: at most two decimal places", amount)
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units < 0 {
		return 0, fmt.Errorf("invalid amount %q", amount)
	}
	var cents int64
	if hasFrac {
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || cents < 0 {
			return 0, fmt.Errorf("invalid amount %q", amount)
		}
	}
	return units*100 + cents, nil
}
