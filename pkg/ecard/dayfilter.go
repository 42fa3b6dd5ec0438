package ecard

import "time"

// The portal's transaction report groups entries by a day boundary that lags
// the calendar date: a run between 00:00 and 02:59 still reports on the
// previous day. TargetOffset returns how many days back the reporting day
// lies at the given wall-clock time (1 during the rollover window, else 0).
func TargetOffset(now time.Time) int {
	if now.Hour() < 3 {
		return 1
	}
	return 0
}

// TargetDate returns midnight of the reporting day for the given time.
func TargetDate(now time.Time) time.Time {
	return midnight(now).AddDate(0, 0, -TargetOffset(now))
}

// FilterForDay keeps only the bills that belong to the reporting day at the
// given time. Bills whose timestamp doesn't parse are dropped. Filtering an
// already filtered list again (with the same now) is a no-op.
func FilterForDay(bills []Bill, now time.Time) []Bill {
	target := TargetOffset(now)
	kept := make([]Bill, 0, len(bills))
	for _, b := range bills {
		days, ok := b.DaysSinceToday(now)
		if ok && days == target {
			kept = append(kept, b)
		}
	}
	return kept
}
