// Package clock provides the time source and billing-cycle date arithmetic
// shared by the ledger, the reminder planner and the service layer.
package clock

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jinzhu/now"
)

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// System is the wall clock
type System struct{}

// Now returns time.Now()
func (System) Now() time.Time {
	return time.Now()
}

// Fixed is a manually controlled clock for tests and offline recalculation
type Fixed struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixed returns a clock stopped at t
func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t}
}

// Now returns the stored time
func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

// Set moves the clock to t
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.t = t
	f.mu.Unlock()
}

// StartOfDay returns midnight of t's day in t's location
func StartOfDay(t time.Time) time.Time {
	return now.With(t).BeginningOfDay()
}

// Cycle is a billing period unit
type Cycle string

const (
	Daily   Cycle = "daily"
	Weekly  Cycle = "weekly"
	Monthly Cycle = "monthly"
	Yearly  Cycle = "yearly"
)

// ParseCycle converts user input into a Cycle. Empty input means monthly.
func ParseCycle(s string) (Cycle, error) {
	switch c := Cycle(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return Monthly, nil
	case Daily, Weekly, Monthly, Yearly:
		return c, nil
	default:
		return "", fmt.Errorf("unknown billing cycle %q", s)
	}
}

// OrDefault returns c, or Monthly when c is empty or unknown
func (c Cycle) OrDefault() Cycle {
	switch c {
	case Daily, Weekly, Monthly, Yearly:
		return c
	default:
		return Monthly
	}
}

// Advance returns anchor moved forward by n cycle units.
// Months and years are counted from the anchor and clamp to the last day of
// the target month, so a lease starting on the 31st is billed on the 30th or
// 28th in shorter months without drifting afterwards.
// ok is false when the result does not lie after anchor (n <= 0 or overflow).
func Advance(anchor time.Time, c Cycle, n int) (time.Time, bool) {
	var t time.Time
	switch c.OrDefault() {
	case Daily:
		t = anchor.AddDate(0, 0, n)
	case Weekly:
		t = anchor.AddDate(0, 0, 7*n)
	case Monthly:
		t = addMonths(anchor, n)
	case Yearly:
		t = addMonths(anchor, 12*n)
	}
	return t, t.After(anchor)
}

func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + n
	year := y + total/12
	month := total % 12
	if month < 0 {
		month += 12
		year--
	}
	if last := daysIn(year, time.Month(month+1)); d > last {
		d = last
	}
	return time.Date(year, time.Month(month+1), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
