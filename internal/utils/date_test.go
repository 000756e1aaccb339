package utils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("Valid date", func(t *testing.T) {
		date, err := ParseDate("2024-01-15")
		assert.NoError(t, err)
		assert.Equal(t, 2024, date.Year)
		assert.Equal(t, 1, date.Month)
		assert.Equal(t, 15, date.Day)
	})

	t.Run("Invalid format", func(t *testing.T) {
		_, err := ParseDate("2024/01/15")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid date format")
	})

	t.Run("Invalid month", func(t *testing.T) {
		_, err := ParseDate("2024-13-15")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "month must be between 1 and 12")
	})

	t.Run("Day past end of month", func(t *testing.T) {
		_, err := ParseDate("2023-02-29")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "day must be between 1 and 28")
	})
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year     int
		month    int
		expected int
	}{
		{2024, 1, 31},
		{2024, 2, 29},
		{2023, 2, 28},
		{2024, 4, 30},
		{2000, 2, 29},
		{1900, 2, 28},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysInMonth(tt.year, tt.month))
		})
	}
}

func TestDateArithmetic(t *testing.T) {
	t.Run("AddDays crosses month and year", func(t *testing.T) {
		assert.Equal(t, MustParseDate("2025-02-01"), MustParseDate("2025-01-31").AddDays(1))
		assert.Equal(t, MustParseDate("2025-01-01"), MustParseDate("2024-12-31").AddDays(1))
		assert.Equal(t, MustParseDate("2024-02-29"), MustParseDate("2024-03-01").AddDays(-1))
	})

	t.Run("DaysUntil", func(t *testing.T) {
		assert.Equal(t, 2, MustParseDate("2025-01-01").DaysUntil(MustParseDate("2025-01-03")))
		assert.Equal(t, -5, MustParseDate("2025-06-10").DaysUntil(MustParseDate("2025-06-05")))
		assert.Equal(t, 366, MustParseDate("2024-01-01").DaysUntil(MustParseDate("2025-01-01")))
	})

	t.Run("Inclusive days", func(t *testing.T) {
		assert.Equal(t, 1, InclusiveDays(MustParseDate("2025-01-01"), MustParseDate("2025-01-01")))
		assert.Equal(t, 3, InclusiveDays(MustParseDate("2025-01-01"), MustParseDate("2025-01-03")))
	})

	t.Run("Compare", func(t *testing.T) {
		a := MustParseDate("2025-05-31")
		b := MustParseDate("2025-06-01")
		assert.True(t, a.Before(b))
		assert.True(t, b.After(a))
		assert.True(t, a.Equal(NewDate(2025, 5, 31)))
	})
}

func TestTodayIgnoresTimeOfDay(t *testing.T) {
	clock := FixedClock(time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, MustParseDate("2025-06-01"), Today(clock))
}

func TestDateJSON(t *testing.T) {
	t.Run("Round trip", func(t *testing.T) {
		type wrapper struct {
			Start Date `json:"start"`
		}
		raw, err := json.Marshal(wrapper{Start: MustParseDate("2025-07-04")})
		require.NoError(t, err)
		assert.JSONEq(t, `{"start":"2025-07-04"}`, string(raw))
	})

	t.Run("Timestamp keeps its own offset", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`"2025-07-04T00:30:00+05:30"`), &d))
		assert.Equal(t, MustParseDate("2025-07-04"), d)
	})

	t.Run("Null and empty are absent", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`null`), &d))
		assert.True(t, d.IsZero())
		require.NoError(t, json.Unmarshal([]byte(`""`), &d))
		assert.True(t, d.IsZero())
	})

	t.Run("Garbage", func(t *testing.T) {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(`"next tuesday"`), &d))
	})
}

func TestDateSet(t *testing.T) {
	blocked := DateSet{}
	blocked.AddRange(MustParseDate("2025-07-01"), MustParseDate("2025-07-05"))
	assert.Len(t, blocked, 5)

	day, hit := blocked.FirstIn(MustParseDate("2025-07-03"), MustParseDate("2025-07-04"))
	assert.True(t, hit)
	assert.Equal(t, MustParseDate("2025-07-03"), day)

	_, hit = blocked.FirstIn(MustParseDate("2025-07-06"), MustParseDate("2025-07-08"))
	assert.False(t, hit)
}
