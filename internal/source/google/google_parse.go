package google

import (
	"fmt"
	"strconv"
	"strings"

	"radiodash/internal/core"
	"radiodash/internal/source"
)

// parseValues converts a values matrix (as returned by Sheets API) into raw
// report rows. The first row must carry the report headers.
func parseValues(values [][]interface{}) ([]core.RawRow, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: empty sheet", core.ErrDataUnavailable)
	}
	header := toStrings(values[0])
	records := make([][]string, 0, len(values)-1)
	for _, row := range values[1:] {
		records = append(records, toStrings(row))
	}
	return source.RowsFromRecords(header, records)
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		switch n := v.(type) {
		case nil:
			out[i] = ""
		case float64:
			// numeric cells under UNFORMATTED_VALUE
			out[i] = strconv.FormatFloat(n, 'f', -1, 64)
		default:
			out[i] = strings.TrimSpace(fmt.Sprint(v))
		}
	}
	return out
}
