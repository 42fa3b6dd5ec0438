package ecard

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBill(t *testing.T) {
	bill, err := NewBill("2017-05-05 11:13:50", "-10.5", "123.45", " 玉泉食堂 ", " 消费POS消费 ")
	require.NoError(t, err)

	assert.Equal(t, "2017-05-05 11:13:50", bill.OccurredAt)
	assert.True(t, bill.Amount.Equal(decimal.RequireFromString("-10.5")))
	assert.True(t, bill.Balance.Equal(decimal.RequireFromString("123.45")))
	assert.Equal(t, "玉泉食堂", bill.Place)
	assert.Equal(t, "消费POS消费", bill.Info)
}

func TestNewBillRejectsMalformedNumbers(t *testing.T) {
	_, err := NewBill("2017-05-05 11:13:50", "ten", "123.45", "", "")
	assert.Error(t, err)

	_, err = NewBill("2017-05-05 11:13:50", "-10.5", "", "", "")
	assert.Error(t, err)
}

func TestDaysSinceToday(t *testing.T) {
	now := time.Date(2017, 5, 5, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name       string
		occurredAt string
		want       int
	}{
		{name: "this morning", occurredAt: "2017-05-05 00:00:01", want: 0},
		{name: "just now", occurredAt: "2017-05-05 11:59:59", want: 0},
		{name: "yesterday night", occurredAt: "2017-05-04 23:50:00", want: 1},
		{name: "two days ago", occurredAt: "2017-05-03 08:00:00", want: 2},
		{name: "a month ago", occurredAt: "2017-04-05 12:00:00", want: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill := Bill{OccurredAt: tt.occurredAt}
			days, ok := bill.DaysSinceToday(now)
			require.True(t, ok)
			assert.Equal(t, tt.want, days)
		})
	}
}

// Days-since-today is a calendar-date distance. On the day after a DST
// spring-forward the local midnight-to-midnight gap is only 23h; dividing
// elapsed time by 24h would call yesterday "today".
func TestDaysSinceTodayAcrossDSTChange(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	t.Run("day after spring forward", func(t *testing.T) {
		now := time.Date(2017, 3, 13, 12, 0, 0, 0, loc)
		bill := Bill{OccurredAt: "2017-03-12 08:00:00"}
		days, ok := bill.DaysSinceToday(now)
		require.True(t, ok)
		assert.Equal(t, 1, days)
	})

	t.Run("day after fall back", func(t *testing.T) {
		now := time.Date(2017, 11, 6, 12, 0, 0, 0, loc)
		bill := Bill{OccurredAt: "2017-11-05 08:00:00"}
		days, ok := bill.DaysSinceToday(now)
		require.True(t, ok)
		assert.Equal(t, 1, days)
	})
}

func TestDaysSinceTodayMalformedTimestamp(t *testing.T) {
	now := time.Date(2017, 5, 5, 12, 0, 0, 0, time.Local)

	for _, raw := range []string{
		"",
		"not a time",
		"2017-05-05",
		"05/05/2017 11:13:50",
		"2017-13-40 99:99:99",
	} {
		bill := Bill{OccurredAt: raw}
		_, ok := bill.DaysSinceToday(now)
		assert.False(t, ok, "timestamp %q should report unknown", raw)
	}
}
