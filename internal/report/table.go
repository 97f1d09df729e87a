package report

import "strings"

// Table builds an HTML table fragment for a section body. Every header and
// cell is escaped; rightAligned holds zero-based column indexes that get
// the numeric alignment class.
func Table(headers []string, rows [][]string, rightAligned ...int) string {
	right := make(map[int]bool, len(rightAligned))
	for _, i := range rightAligned {
		right[i] = true
	}

	cls := func(i int) string {
		if right[i] {
			return " class=\"num\""
		}
		return ""
	}

	var b strings.Builder
	b.WriteString("<table>\n<thead>\n<tr>")
	for i, h := range headers {
		b.WriteString("<th")
		b.WriteString(cls(i))
		b.WriteString(">")
		b.WriteString(Escape(h))
		b.WriteString("</th>")
	}
	b.WriteString("</tr>\n</thead>\n<tbody>\n")
	for _, row := range rows {
		b.WriteString("<tr>")
		for i, c := range row {
			b.WriteString("<td")
			b.WriteString(cls(i))
			b.WriteString(">")
			b.WriteString(Escape(c))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n")
	return b.String()
}

// Note wraps a muted line of free text for embedding above or below a table.
func Note(text string) string {
	return "<div style=\"padding:12px\" class=\"muted\">" + Escape(text) + "</div>\n"
}

// Badge renders a small labelled pill, used for totals rows.
func Badge(text string) string {
	return "<span class=\"badge\">" + Escape(text) + "</span>"
}
