package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date represents a calendar date with no time-of-day or zone.
// The zero value means "no date selected".
type Date struct {
	Year  int
	Month int
	Day   int
}

// Clock supplies the current instant. Tests substitute a fixed clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// NewDate builds a Date and normalizes overflowing days or months
// (e.g. 2025-01-32 becomes 2025-02-01).
func NewDate(year, month, day int) Date {
	return DateOf(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: int(m), Day: d}
}

// Today returns the local calendar date according to clock.
func Today(clock Clock) Date {
	if clock == nil {
		clock = SystemClock
	}
	return DateOf(clock.Now())
}

// ParseDate converts a yyyy-mm-dd formatted string into a Date struct
func ParseDate(dateStr string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(dateStr), "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd")
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Date{}, fmt.Errorf("invalid year: %v", err)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Date{}, fmt.Errorf("invalid month: %v", err)
	}

	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return Date{}, fmt.Errorf("invalid day: %v", err)
	}

	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("month must be between 1 and 12")
	}

	if day < 1 || day > DaysInMonth(year, month) {
		return Date{}, fmt.Errorf("day must be between 1 and %d", DaysInMonth(year, month))
	}

	return Date{Year: year, Month: month, Day: day}, nil
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(dateStr string) Date {
	d, err := ParseDate(dateStr)
	if err != nil {
		panic(err)
	}
	return d
}

// DaysInMonth returns the number of days in a given month
func DaysInMonth(year, month int) int {
	if month == 2 {
		// Check for leap year
		if (year%4 == 0 && year%100 != 0) || (year%400 == 0) {
			return 29
		}
		return 28
	}

	// Months with 30 days: April, June, September, November
	if month == 4 || month == 6 || month == 9 || month == 11 {
		return 30
	}

	return 31
}

// IsZero reports whether no date is set.
func (d Date) IsZero() bool {
	return d == Date{}
}

// midnight is used for arithmetic only. UTC has no DST transitions, so
// differences are always whole multiples of 24h.
func (d Date) midnight() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n calendar days later (earlier when n < 0).
func (d Date) AddDays(n int) Date {
	return DateOf(d.midnight().AddDate(0, 0, n))
}

// DaysUntil returns the whole number of days from d to other.
// It is negative when other is before d.
func (d Date) DaysUntil(other Date) int {
	return int(other.midnight().Sub(d.midnight()).Hours() / 24)
}

// Compare returns -1, 0 or +1.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(d.Month - other.Month)
	default:
		return sign(d.Day - other.Day)
	}
}

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }
func (d Date) After(other Date) bool  { return d.Compare(other) > 0 }
func (d Date) Equal(other Date) bool  { return d.Compare(other) == 0 }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// InclusiveDays counts both start and end. Same-day ranges are one day.
func InclusiveDays(start, end Date) int {
	return start.DaysUntil(end) + 1
}

// MarshalJSON writes yyyy-mm-dd, or null for the zero date.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts yyyy-mm-dd, full RFC 3339 timestamps (the date is
// taken in the timestamp's own offset), empty strings and null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	if len(s) > len(dateLayout) {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		*d = DateOf(t)
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateSet is a set of calendar days.
type DateSet map[Date]struct{}

// AddRange inserts every day from start to end inclusive.
func (s DateSet) AddRange(start, end Date) {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return
	}
	for d := start; !d.After(end); d = d.AddDays(1) {
		s[d] = struct{}{}
	}
}

func (s DateSet) Has(d Date) bool {
	_, ok := s[d]
	return ok
}

// FirstIn walks start..end one day at a time and returns the first day
// present in the set.
func (s DateSet) FirstIn(start, end Date) (Date, bool) {
	if len(s) == 0 {
		return Date{}, false
	}
	for d := start; !d.After(end); d = d.AddDays(1) {
		if s.Has(d) {
			return d, true
		}
	}
	return Date{}, false
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
