package util

import (
	"time"

	"github.com/dustin/go-humanize"
)

// HumanTime renders a timestamp as a short relative string ("2 hours ago").
// It never fails: nil or zero timestamps come back as "just now".
func HumanTime(t *time.Time, now time.Time) string {
	if t == nil || t.IsZero() {
		return "just now"
	}
	return humanize.RelTime(*t, now, "ago", "from now")
}
