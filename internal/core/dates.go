package core

import (
	"strings"
	"time"
)

// ParseOptions controls how ambiguous report values are read.
type ParseOptions struct {
	// MonthFirst reads slash, dash and dot dates as month/day/year instead
	// of the day/month/year order used by Brazilian reports.
	MonthFirst bool
}

var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-1-2",
	"2006/1/2",
}

var dayFirstLayouts = []string{
	"2/1/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2-1-2006",
	"2.1.2006",
}

var monthFirstLayouts = []string{
	"1/2/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1-2-2006",
	"1.2.2006",
}

// ParseDate reads a report date in any of the supported layouts. The time of
// day is dropped. ok is false for empty or unparseable input.
func ParseDate(s string, opts ParseOptions) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, false
	}
	layouts := dayFirstLayouts
	if opts.MonthFirst {
		layouts = monthFirstLayouts
	}
	for _, group := range [][]string{isoLayouts, layouts} {
		for _, l := range group {
			if t, err := time.Parse(l, s); err == nil {
				return NewDate(t.Year(), int(t.Month()), t.Day()), true
			}
		}
	}
	return Date{}, false
}
