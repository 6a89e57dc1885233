package csvio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Row is a parsed CSV data row keyed by header column name.
// Rows are transient: parsed, validated, then either promoted to typed
// creation input or discarded with recorded errors.
type Row map[string]string

// utf8BOM is the byte-order mark some spreadsheet tools prepend.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse reads a raw CSV buffer into rows keyed by the header columns.
// The first non-comment line is the header. Rows shorter than the header are
// padded with empty strings; longer rows are truncated.
func Parse(buf []byte) (header []string, rows []Row, err error) {
	buf = bytes.TrimPrefix(buf, utf8BOM)

	r := csv.NewReader(bytes.NewReader(buf))
	r.FieldsPerRecord = -1 // relaxed mode: per-row column counts may differ
	r.Comment = '#'
	r.TrimLeadingSpace = true

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse csv: %w", err)
		}

		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}

		// Skip blank lines (a single empty cell after trimming)
		if len(record) == 0 || (len(record) == 1 && record[0] == "") {
			continue
		}

		if header == nil {
			// Header names are matched case-insensitively against schemas,
			// so store them lower-cased.
			for i := range record {
				record[i] = strings.ToLower(record[i])
			}
			header = record
			continue
		}

		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	if header == nil {
		return nil, nil, fmt.Errorf("csv has no header row")
	}

	return header, rows, nil
}

// RequireColumns verifies that every required column is present in the
// header. Extra columns are tolerated; only missing required ones fail.
func RequireColumns(header []string, required []string) error {
	present := make(map[string]struct{}, len(header))
	for _, col := range header {
		present[strings.ToLower(col)] = struct{}{}
	}
	for _, req := range required {
		if _, ok := present[strings.ToLower(req)]; !ok {
			return fmt.Errorf("missing required column %q", req)
		}
	}
	return nil
}
