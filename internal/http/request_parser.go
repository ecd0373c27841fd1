package http

import (
	"net/url"
	"strings"

	"radiodash/internal/core"
	"radiodash/internal/services"
)

// ParseFilters reads the dashboard selection from query values. Each
// dimension is decided on its own: values given select exactly those, and an
// absent dimension selects everything unless filtered=1 is set.
func ParseFilters(q url.Values) services.Filters {
	return services.Filters{
		Clients:  selection(q["client"]),
		Agencies: selection(q["agency"]),
		Explicit: q.Get("filtered") == "1",
	}
}

func selection(values []string) core.Selection {
	cleaned := cleanValues(values)
	if len(cleaned) == 0 {
		return nil
	}
	return core.NewSelection(cleaned...)
}

func cleanValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = sanitizeInput(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// sanitizeInput removes control characters except tab, newline and carriage
// return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
