package csvio

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// Export renders records as a CSV string with the given column order.
// headers optionally relabels columns in the output header line
// (e.g. "email" -> "E-Mail Address"); unlisted columns keep their name.
func Export(records []Row, columns []string, headers map[string]string) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	headerLine := make([]string, len(columns))
	for i, col := range columns {
		if label, ok := headers[col]; ok {
			headerLine[i] = label
		} else {
			headerLine[i] = col
		}
	}
	if err := w.Write(headerLine); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}

	line := make([]string, len(columns))
	for _, record := range records {
		for i, col := range columns {
			line[i] = record[col]
		}
		if err := w.Write(line); err != nil {
			return "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}

	return sb.String(), nil
}
