// Package businessday maps wall-clock instants to the operating day they
// belong to. The operating day runs from one local 15:00:00 to the next, so
// a 02:00 sale still belongs to the previous calendar date's business day.
//
// Everything here is pure: callers recompute from the instant at hand, and
// no "current day" is ever cached.
package businessday

import "time"

// CutoverHour is the local hour at which one business day ends and the next
// begins.
const CutoverHour = 15

// Of returns the business date the instant belongs to, as local midnight of
// that calendar date.
func Of(t time.Time) time.Time {
	if t.Hour() < CutoverHour {
		t = t.AddDate(0, 0, -1)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Label formats the instant's business date as YYYY-MM-DD. This is the form
// persisted on sales and used for report partitioning.
func Label(t time.Time) string {
	return Of(t).Format("2006-01-02")
}

// SameDay reports whether two instants fall within the same business day.
func SameDay(a, b time.Time) bool {
	return Of(a).Equal(Of(b))
}
