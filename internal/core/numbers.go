// Package core holds the report model and the pure derivation, filtering and
// aggregation logic behind the dashboard.
//
// Nothing in this package reads the clock: every function that depends on
// "the current month" takes the instant as a parameter.
package core

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidInsertions = errors.New("invalid insertion count")

// ParseInsertions reads an insertion count. Integral decimals such as "10.0"
// (written by spreadsheet exports when a column has gaps) are accepted.
//
// Examples:
//
//	ParseInsertions("12")   -> 12, nil
//	ParseInsertions("12.0") -> 12, nil
//	ParseInsertions("1.5")  -> 0, ErrInvalidInsertions
func ParseInsertions(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidInsertions
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, ErrInvalidInsertions
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, ErrInvalidInsertions
	}
	return int64(f), nil
}

// FormatThousands renders n with "." as the thousands separator (1.234.567).
func FormatThousands(n int64) string {
	neg := n < 0
	digits := strconv.FormatInt(n, 10)
	if neg {
		digits = digits[1:]
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 && !(neg && b.Len() == 1) {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
