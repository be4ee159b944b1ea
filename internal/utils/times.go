package utils

import (
	"fmt"
	"time"

	"daily-check/internal/database"
)

// DayOf returns the calendar date of t in loc.
func DayOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// Yesterday formats the day before the current date in loc. It is the
// latest date a record can be saved for.
func Yesterday(now time.Time, loc *time.Location) string {
	return DayOf(now, loc).AddDate(0, 0, -1).Format(database.DateLayout)
}

// DaysAgo formats the date n days before the current date in loc.
func DaysAgo(now time.Time, loc *time.Location, n int) string {
	return DayOf(now, loc).AddDate(0, 0, -n).Format(database.DateLayout)
}

// ParseDate accepts YYYY-MM-DD and returns the normalized form.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(database.DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("date %q is not YYYY-MM-DD", s)
	}
	return t.Format(database.DateLayout), nil
}

// FormatDateForDisplay renders 2024-03-10 as "Sun, 10 Mar 2024".
func FormatDateForDisplay(date string) string {
	t, err := time.Parse(database.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Mon, 02 Jan 2006")
}
