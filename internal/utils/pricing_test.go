package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateQuote(t *testing.T) {
	t.Run("Three inclusive days", func(t *testing.T) {
		q := CalculateQuote(20000, 0, MustParseDate("2025-01-01"), MustParseDate("2025-01-03"))
		assert.Equal(t, 3, q.TotalDays)
		assert.Equal(t, int64(60000), q.RentalTotalCents)
		assert.Equal(t, int64(60000), q.GrandTotalCents)
	})

	t.Run("Deposit added to grand total", func(t *testing.T) {
		q := CalculateQuote(20000, 50000, MustParseDate("2025-01-01"), MustParseDate("2025-01-01"))
		assert.Equal(t, 1, q.TotalDays)
		assert.Equal(t, int64(20000), q.RentalTotalCents)
		assert.Equal(t, int64(50000), q.DepositCents)
		assert.Equal(t, int64(70000), q.GrandTotalCents)
	})

	t.Run("Missing date gives zero quote", func(t *testing.T) {
		assert.True(t, CalculateQuote(20000, 100, Date{}, MustParseDate("2025-01-03")).IsZero())
		assert.True(t, CalculateQuote(20000, 100, MustParseDate("2025-01-03"), Date{}).IsZero())
	})

	t.Run("Inverted range gives zero quote", func(t *testing.T) {
		assert.True(t, CalculateQuote(20000, 100, MustParseDate("2025-06-10"), MustParseDate("2025-06-05")).IsZero())
	})
}

func TestCalculateExtension(t *testing.T) {
	start := MustParseDate("2025-07-30")
	end := MustParseDate("2025-08-01")

	t.Run("One added day", func(t *testing.T) {
		ext := CalculateExtension(20000, start, end, MustParseDate("2025-08-02"))
		assert.Equal(t, 1, ext.AddedDays)
		assert.Equal(t, int64(20000), ext.IncrementalCents)
		assert.Equal(t, 4, ext.NewTotalDays)
		assert.Equal(t, int64(80000), ext.NewTotalCents)
	})

	t.Run("Same end date is not an extension", func(t *testing.T) {
		assert.Equal(t, ExtensionCost{}, CalculateExtension(20000, start, end, end))
	})
}

func TestCents(t *testing.T) {
	assert.Equal(t, "600.00", FormatCents(60000))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "-1.50", FormatCents(-150))

	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"200", 20000, true},
		{"200.5", 20050, true},
		{"0.99", 99, true},
		{"1.234", 0, false},
		{"abc", 0, false},
		{"-3", 0, false},
		{"+3", 0, false},
		{"-0.50", 0, false},
		{"1.+5", 0, false},
		{"1.-5", 0, false},
		{"1.2.3", 0, false},
		{"1,50", 0, false},
		{"149.50", 14950, true},
		{" 12 ", 1200, true},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCents(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
