package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekIdentifier(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{"jan 1 2025 (wednesday)", date(2025, time.January, 1), "2025-01"},
		{"first saturday stays in week 1", date(2025, time.January, 4), "2025-01"},
		{"first sunday opens week 2", date(2025, time.January, 5), "2025-02"},
		{"saturday before week 46", date(2025, time.November, 8), "2025-45"},
		{"sunday opens week 46", date(2025, time.November, 9), "2025-46"},
		{"monday in week 46", date(2025, time.November, 10), "2025-46"},
		{"saturday closes week 46", date(2025, time.November, 15), "2025-46"},
		{"next monday", date(2025, time.November, 17), "2025-47"},
		{"dec 31 2025", date(2025, time.December, 31), "2025-53"},
		{"jan 1 2026 (thursday)", date(2026, time.January, 1), "2026-01"},
		{"time of day is ignored", time.Date(2025, time.November, 10, 23, 59, 0, 0, time.UTC), "2025-46"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekIdentifier(tt.date))
		})
	}
}

func TestWeekIdentifierStableWithinComputedWeek(t *testing.T) {
	// Computed weeks run Sunday..Saturday. Walk a whole year and check that the token only
	// changes on Sundays (or Jan 1) and never within a computed week.
	d := date(2024, time.January, 1)
	prev := WeekIdentifier(d)
	for i := 1; i < 366*2; i++ {
		next := d.AddDate(0, 0, 1)
		id := WeekIdentifier(next)
		boundary := next.Weekday() == time.Sunday || (next.Month() == time.January && next.Day() == 1)
		if boundary {
			assert.NotEqual(t, prev, id, "expected new week at %s", next.Format(DateLayout))
		} else {
			assert.Equal(t, prev, id, "unexpected week change at %s", next.Format(DateLayout))
		}
		prev = id
		d = next
	}
}

func TestIsWeekIdentifier(t *testing.T) {
	assert.True(t, IsWeekIdentifier(WeekIdentifier(date(2025, time.November, 10))))
	assert.True(t, IsWeekIdentifier("2026-01"))
	assert.False(t, IsWeekIdentifier(""))
	assert.False(t, IsWeekIdentifier("2025-4"))
	assert.False(t, IsWeekIdentifier("2025-W46"))
	assert.False(t, IsWeekIdentifier(" 2025-46"))
}

func TestDayLabel(t *testing.T) {
	assert.Equal(t, "Thứ Hai", DayLabel(date(2025, time.November, 10)))
	assert.Equal(t, "Thứ Bảy", DayLabel(date(2025, time.November, 15)))
	assert.Equal(t, "Chủ Nhật", DayLabel(date(2025, time.November, 16)))
	assert.True(t, IsDayLabel("Thứ Tư"))
	assert.False(t, IsDayLabel("Monday"))
	assert.Equal(t, 6, DayIndex("Chủ Nhật"))
}

func TestMondayOfAndWeekDates(t *testing.T) {
	sunday := time.Date(2025, time.November, 16, 15, 30, 0, 0, time.UTC)
	monday := MondayOf(sunday)
	assert.Equal(t, date(2025, time.November, 10), monday)

	dates := WeekDates(monday)
	require.Len(t, dates, 7)
	assert.Equal(t, date(2025, time.November, 16), dates[6])
	for i, d := range dates {
		assert.Equal(t, DayLabels[i], DayLabel(d))
	}
}

func TestDateForDay(t *testing.T) {
	today := date(2025, time.November, 12) // Wednesday

	got, err := DateForDay("Thứ Hai", 0, today)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.November, 10), got)

	got, err = DateForDay("Thứ Sáu", 1, today)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.November, 21), got)

	_, err = DateForDay("Friday", 0, today)
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	got, err := ParseDate("2025-11-10", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.November, 10, 0, 0, 0, 0, loc), got)

	_, err = ParseDate("10/11/2025", loc)
	assert.Error(t, err)
}

func TestFormatCurrencyVND(t *testing.T) {
	assert.Equal(t, "0 ₫", FormatCurrencyVND(decimal.Zero))
	assert.Equal(t, "500 ₫", FormatCurrencyVND(decimal.NewFromInt(500)))
	assert.Equal(t, "90.000 ₫", FormatCurrencyVND(decimal.NewFromInt(90000)))
	assert.Equal(t, "1.234.567 ₫", FormatCurrencyVND(decimal.NewFromInt(1234567)))
	assert.Equal(t, "-45.000 ₫", FormatCurrencyVND(decimal.NewFromInt(-45000)))
}
