package report

import "strings"

// Field is one key/value pair of a CSV row. Rows carry ordered fields, not
// maps, because the header order of the export is the first-seen-key order
// across all rows, never alphabetical.
type Field struct {
	Key   string
	Value string
}

// Row is an ordered flat record.
type Row []Field

// CSV flattens the rows into comma-separated text. The header row is the
// union of all keys in first-seen order; a key missing on a row renders as
// an empty field. A field containing a newline, comma, or double quote is
// wrapped in double quotes with internal quotes doubled, so a standard CSV
// parser reproduces the original value exactly.
func CSV(rows []Row) string {
	var headers []string
	seen := make(map[string]bool)
	for _, r := range rows {
		for _, f := range r {
			if !seen[f.Key] {
				seen[f.Key] = true
				headers = append(headers, f.Key)
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)

	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = escapeCSV(h)
	}
	lines = append(lines, strings.Join(cells, ","))

	for _, r := range rows {
		values := make(map[string]string, len(r))
		for _, f := range r {
			values[f.Key] = f.Value
		}
		for i, h := range headers {
			cells[i] = escapeCSV(values[h])
		}
		lines = append(lines, strings.Join(cells, ","))
	}

	return strings.Join(lines, "\n")
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, "\n\r,\"") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
