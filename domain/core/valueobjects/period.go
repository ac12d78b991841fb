package valueobjects

import (
	"fmt"
	"time"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// DayKey returns the calendar-date period key (YYYY-MM-DD, UTC).
func DayKey(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// MonthKey returns the calendar-month period key (YYYY-MM, UTC).
func MonthKey(t time.Time) string {
	return t.UTC().Format(monthLayout)
}

// ParseDayKey validates a YYYY-MM-DD key.
func ParseDayKey(key string) (time.Time, error) {
	t, err := time.Parse(dayLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// ParseMonthKey validates a YYYY-MM key.
func ParseMonthKey(key string) (time.Time, error) {
	t, err := time.Parse(monthLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month key %q: %w", key, err)
	}
	return t, nil
}

// DayOrdinal is the number of days since the Unix epoch for t (UTC).
func DayOrdinal(t time.Time) int {
	return int(t.UTC().Unix() / 86400)
}

// MonthOrdinal is the number of months since January 1970 for t (UTC).
func MonthOrdinal(t time.Time) int {
	t = t.UTC()
	return (t.Year()-1970)*12 + int(t.Month()) - 1
}

// PreviousMonthKey returns the key of the month before t.
func PreviousMonthKey(t time.Time) string {
	t = t.UTC()
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return MonthKey(first.AddDate(0, -1, 0))
}

// PreviousDayKey returns the key of the day before t.
func PreviousDayKey(t time.Time) string {
	return DayKey(t.UTC().AddDate(0, 0, -1))
}
