// Package report renders portfolio summaries as text, Org-mode and CSV.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rustyeddy/portfolio/aggregate"
)

// Date formats a UTC day bucket as YYYY-MM-DD.
func Date(day int64) string {
	return time.UnixMilli(day * aggregate.DayMs).UTC().Format("2006-01-02")
}

// Stamp formats epoch ms as RFC3339 in UTC.
func Stamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

// Duration renders seconds as a rounded Go duration, e.g. "1h30m0s".
func Duration(sec float64) string {
	return time.Duration(sec * float64(time.Second)).Round(time.Second).String()
}

// Ms renders a millisecond count as a duration.
func Ms(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).String()
}

func pct(x float64) string {
	return fmt.Sprintf("%.2f%%", x*100)
}

func money(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
