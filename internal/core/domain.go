package core

import (
	"errors"
	"time"
)

type (
	// Date is a calendar day. The zero value means absent or unparseable.
	Date struct {
		time.Time
	}

	// RawRow is one record as read from a report source, before derivation.
	RawRow struct {
		Client     string
		Agency     string
		HasAgency  bool
		Code       string
		Insertions string
		StartDate  string
		EndDate    string
	}

	// ContractRow is one commercial insertion contract with its derived
	// month movement columns.
	ContractRow struct {
		Client     string
		Agency     string
		HasAgency  bool
		Code       string
		Insertions int64
		StartDate  Date
		EndDate    Date

		EnteredThisMonth bool
		LeftThisMonth    bool
		EntryDate        Date // set only when EnteredThisMonth
		ExitDate         Date // set only when LeftThisMonth
	}

	// LoadStats counts the degradations applied while deriving a report.
	LoadStats struct {
		RowsRead          int `json:"rows_read"`
		SkippedRows       int `json:"skipped_rows"` // rows without a client
		InvalidStartDates int `json:"invalid_start_dates"`
		InvalidEndDates   int `json:"invalid_end_dates"`
		InvalidInsertions int `json:"invalid_insertions"`
	}

	// Report is the immutable derived table of one load.
	Report struct {
		Source   string
		LoadedAt time.Time
		Rows     []ContractRow
		Stats    LoadStats
	}
)

var (
	// ErrDataUnavailable marks a source that cannot be read as tabular data.
	ErrDataUnavailable = errors.New("report data unavailable")
	ErrMissingColumn   = errors.New("missing required column")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// IsEmpty returns true if the date is absent
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// SameMonth reports whether d falls in the calendar month and year of now.
// An absent date is never in any month.
func (d Date) SameMonth(now time.Time) bool {
	if d.IsZero() {
		return false
	}
	return d.Year() == now.Year() && d.Month() == now.Month()
}

// Display renders the date as DD/MM/YYYY, or "" when absent.
func (d Date) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.Time.Format("02/01/2006")
}

// AgencyOrEmpty returns the agency name, "" when absent.
func (r ContractRow) AgencyOrEmpty() string {
	if !r.HasAgency {
		return ""
	}
	return r.Agency
}
