package core

import "sort"

// Selection is a set of selected filter values.
type Selection map[string]struct{}

// NewSelection builds a selection from the given values.
func NewSelection(values ...string) Selection {
	s := make(Selection, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports whether v is selected.
func (s Selection) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the selected values in ascending order.
func (s Selection) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Matches reports whether row passes the client and agency filters.
// Rows without an agency always pass the agency filter, whatever is selected.
func Matches(row ContractRow, clients, agencies Selection) bool {
	if !clients.Has(row.Client) {
		return false
	}
	return !row.HasAgency || agencies.Has(row.Agency)
}

// Filter returns the rows matching the selections, in input order. The input
// slice is not modified.
func Filter(rows []ContractRow, clients, agencies Selection) []ContractRow {
	out := make([]ContractRow, 0, len(rows))
	for _, r := range rows {
		if Matches(r, clients, agencies) {
			out = append(out, r)
		}
	}
	return out
}

// Clients returns the distinct clients of rows, sorted.
func Clients(rows []ContractRow) []string {
	seen := make(Selection)
	for _, r := range rows {
		seen[r.Client] = struct{}{}
	}
	return seen.Sorted()
}

// Agencies returns the distinct present agencies of rows, sorted.
func Agencies(rows []ContractRow) []string {
	seen := make(Selection)
	for _, r := range rows {
		if r.HasAgency {
			seen[r.Agency] = struct{}{}
		}
	}
	return seen.Sorted()
}
