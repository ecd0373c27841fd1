package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"radiodash/internal/core"
)

// Canonical column keys after header normalization.
const (
	ColClient     = "cliente"
	ColAgency     = "agencia"
	ColCode       = "codigo"
	ColInsertions = "insercoes"
	ColStartDate  = "data_inicio"
	ColEndDate    = "data_fim"
)

// nullTokens are cell values read as missing, like a pandas CSV reader does.
var nullTokens = map[string]struct{}{
	"": {}, "na": {}, "n/a": {}, "nan": {}, "null": {}, "none": {}, "#n/a": {}, "<na>": {}, "nat": {},
}

// Columns holds the index of each known column in a header, -1 when absent.
type Columns struct {
	Client, Agency, Code, Insertions, StartDate, EndDate int
}

// NormalizeHeader folds a header cell to its canonical key: byte order
// mark and accents removed, lower case, spaces and dashes as underscores.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, h); err == nil {
		h = folded
	}
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return '_'
		}
		return r
	}, h)
}

// ResolveColumns locates the known columns. Client and insertions are
// required; the others may be missing and then read as empty.
func ResolveColumns(header []string) (Columns, error) {
	cols := Columns{-1, -1, -1, -1, -1, -1}
	for i, h := range header {
		switch NormalizeHeader(h) {
		case ColClient:
			cols.Client = i
		case ColAgency:
			cols.Agency = i
		case ColCode:
			cols.Code = i
		case ColInsertions:
			cols.Insertions = i
		case ColStartDate:
			cols.StartDate = i
		case ColEndDate:
			cols.EndDate = i
		}
	}
	var missing []string
	if cols.Client == -1 {
		missing = append(missing, "Cliente")
	}
	if cols.Insertions == -1 {
		missing = append(missing, "Inserções")
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: %w: %s; got headers=%v", core.ErrDataUnavailable, core.ErrMissingColumn, strings.Join(missing, ","), header)
	}
	return cols, nil
}

// RowsFromRecords converts a header plus data records into raw rows.
// Short records are padded with missing cells.
func RowsFromRecords(header []string, records [][]string) ([]core.RawRow, error) {
	cols, err := ResolveColumns(header)
	if err != nil {
		return nil, err
	}
	out := make([]core.RawRow, 0, len(records))
	for _, rec := range records {
		if isBlank(rec) {
			continue
		}
		agency, hasAgency := cell(rec, cols.Agency)
		client, _ := cell(rec, cols.Client)
		code, _ := cell(rec, cols.Code)
		ins, _ := cell(rec, cols.Insertions)
		start, _ := cell(rec, cols.StartDate)
		end, _ := cell(rec, cols.EndDate)
		out = append(out, core.RawRow{
			Client:     client,
			Agency:     agency,
			HasAgency:  hasAgency,
			Code:       code,
			Insertions: ins,
			StartDate:  start,
			EndDate:    end,
		})
	}
	return out, nil
}

// DecodeCSV reads a delimited report. The delimiter is sniffed from the
// header line among comma, semicolon and tab.
func DecodeCSV(r io.Reader) ([]core.RawRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read report: %w", core.ErrDataUnavailable, err)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = SniffDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty report", core.ErrDataUnavailable)
		}
		return nil, fmt.Errorf("%w: read header: %w", core.ErrDataUnavailable, err)
	}
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read records: %w", core.ErrDataUnavailable, err)
	}
	return RowsFromRecords(header, records)
}

// SniffDelimiter picks the most frequent candidate delimiter of the header
// line, ignoring separators inside double quotes. Ties prefer semicolon, then
// tab, then comma; a line with none of them reads as comma separated.
func SniffDelimiter(data []byte) rune {
	counts := map[byte]int{}
	quoted := false
scan:
	for _, b := range data {
		switch {
		case b == '"':
			quoted = !quoted
		case quoted:
		case b == '\n':
			break scan
		case b == ',' || b == ';' || b == '\t':
			counts[b]++
		}
	}

	best, bestCount := ',', 0
	for _, d := range []byte{';', '\t', ','} {
		if counts[d] > bestCount {
			best, bestCount = rune(d), counts[d]
		}
	}
	return best
}

// cell returns the trimmed value at idx, ok false when missing or a null token.
func cell(rec []string, idx int) (string, bool) {
	if idx < 0 || idx >= len(rec) {
		return "", false
	}
	v := strings.TrimSpace(rec[idx])
	if _, null := nullTokens[strings.ToLower(v)]; null {
		return "", false
	}
	return v, true
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
