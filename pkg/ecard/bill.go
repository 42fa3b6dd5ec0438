package ecard

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimeLayout is the fixed timestamp format used by the portal's transaction
// report, e.g. "2017-05-05 11:13:50".
const TimeLayout = "2006-01-02 15:04:05"

// Bill is one parsed transaction from the portal's report. It is constructed
// once per report row and never mutated afterwards.
type Bill struct {
	// OccurredAt is the raw portal timestamp. It is kept as a string because
	// the report occasionally contains values that don't parse; those rows
	// must still render in the notification.
	OccurredAt string
	// Amount is the transaction amount in yuan. Negative means a spend,
	// positive a deposit or transfer-in.
	Amount decimal.Decimal
	// Balance is the card balance in yuan after this transaction.
	Balance decimal.Decimal
	// Place is the merchant location, trimmed; may be empty.
	Place string
	// Info is the transaction description, the portal's transaction-name and
	// journal-description fields joined.
	Info string
}

// NewBill parses one report row. Amount and balance must be decimal numbers;
// a malformed timestamp is not an error here (see DaysSinceToday).
func NewBill(occurredAt, amount, balance, place, info string) (Bill, error) {
	amt, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Bill{}, fmt.Errorf("parsing transaction amount %q: %w", amount, err)
	}
	bal, err := decimal.NewFromString(strings.TrimSpace(balance))
	if err != nil {
		return Bill{}, fmt.Errorf("parsing balance %q: %w", balance, err)
	}
	return Bill{
		OccurredAt: occurredAt,
		Amount:     amt,
		Balance:    bal,
		Place:      strings.TrimSpace(place),
		Info:       strings.TrimSpace(info),
	}, nil
}

// Time parses the transaction timestamp in the given location.
func (b Bill) Time(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, b.OccurredAt, loc)
}

// DaysSinceToday reports the distance in calendar days between the
// transaction's own date and now's date: 0 = today, 1 = yesterday, and so on.
// The second return value is false when the timestamp doesn't parse; callers
// treat such rows as belonging to no day.
func (b Bill) DaysSinceToday(now time.Time) (int, bool) {
	t, err := b.Time(now.Location())
	if err != nil {
		return 0, false
	}
	// Compare calendar dates, not elapsed time: in a DST zone the local
	// midnight-to-midnight gap can be 23h or 25h, which would round to the
	// wrong day count. UTC days are always 24h.
	days := int(dateUTC(now).Sub(dateUTC(t)).Hours() / 24)
	return days, true
}

func dateUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
