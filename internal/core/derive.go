package core

import (
	"strings"
	"time"
)

// Derive converts raw rows into contract rows and computes the month
// movement columns against now. It is a pure function of its inputs.
//
// Unparseable dates become absent and unparseable insertion counts become 0;
// both are counted in the returned stats. Rows without a client are skipped.
func Derive(rows []RawRow, now time.Time, opts ParseOptions) ([]ContractRow, LoadStats) {
	stats := LoadStats{RowsRead: len(rows)}
	out := make([]ContractRow, 0, len(rows))
	for _, raw := range rows {
		client := strings.TrimSpace(raw.Client)
		if client == "" {
			stats.SkippedRows++
			continue
		}

		row := ContractRow{
			Client: client,
			Code:   strings.TrimSpace(raw.Code),
		}
		if agency := strings.TrimSpace(raw.Agency); raw.HasAgency && agency != "" {
			row.Agency = agency
			row.HasAgency = true
		}

		n, err := ParseInsertions(raw.Insertions)
		if err != nil {
			stats.InvalidInsertions++
		}
		row.Insertions = n

		start, ok := ParseDate(raw.StartDate, opts)
		if !ok {
			stats.InvalidStartDates++
		}
		end, ok := ParseDate(raw.EndDate, opts)
		if !ok {
			stats.InvalidEndDates++
		}
		row.StartDate = start
		row.EndDate = end

		applyMovement(&row, now)
		out = append(out, row)
	}
	return out, stats
}

// applyMovement sets the entered/left flags and their conditional dates.
func applyMovement(row *ContractRow, now time.Time) {
	row.EnteredThisMonth = row.StartDate.SameMonth(now)
	row.LeftThisMonth = row.EndDate.SameMonth(now)
	row.EntryDate = Date{}
	row.ExitDate = Date{}
	if row.EnteredThisMonth {
		row.EntryDate = row.StartDate
	}
	if row.LeftThisMonth {
		row.ExitDate = row.EndDate
	}
}

// NewReport derives rows and wraps them with their load metadata.
func NewReport(source string, rows []RawRow, now time.Time, opts ParseOptions) *Report {
	derived, stats := Derive(rows, now, opts)
	return &Report{
		Source:   source,
		LoadedAt: now,
		Rows:     derived,
		Stats:    stats,
	}
}
