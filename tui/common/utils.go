package common

import (
	"fmt"
	"math"
	"time"
)

// SessionExpiredMsg asks the root model to tear down the session and show
// the login screen.
type SessionExpiredMsg struct{}

// fallbackTime stands in for records without a creation timestamp.
var fallbackTime = time.Date(2023, 5, 25, 0, 0, 0, 0, time.UTC)

// FromNow renders t relative to now ("a few seconds ago", "3 hours ago").
// A zero t is treated as fallbackTime.
func FromNow(t, now time.Time) string {
	if t.IsZero() {
		t = fallbackTime
	}
	d := now.Sub(t)
	future := d < 0
	if future {
		d = -d
	}

	var s string
	switch {
	case d < 45*time.Second:
		s = "a few seconds"
	case d < 90*time.Second:
		s = "a minute"
	case d < 45*time.Minute:
		s = fmt.Sprintf("%d minutes", roundDiv(d, time.Minute))
	case d < 90*time.Minute:
		s = "an hour"
	case d < 22*time.Hour:
		s = fmt.Sprintf("%d hours", roundDiv(d, time.Hour))
	case d < 36*time.Hour:
		s = "a day"
	case d < 26*24*time.Hour:
		s = fmt.Sprintf("%d days", roundDiv(d, 24*time.Hour))
	case d < 45*24*time.Hour:
		s = "a month"
	case d < 320*24*time.Hour:
		s = fmt.Sprintf("%d months", roundDiv(d, 30*24*time.Hour))
	case d < 548*24*time.Hour:
		s = "a year"
	default:
		s = fmt.Sprintf("%d years", roundDiv(d, 365*24*time.Hour))
	}

	if future {
		return "in " + s
	}
	return s + " ago"
}

func roundDiv(d, unit time.Duration) int {
	return int(math.Round(float64(d) / float64(unit)))
}
