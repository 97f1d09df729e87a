// Package report renders named sections into a single print-ready HTML
// document and flattens record rows into CSV. Both renderers are pure:
// the caller injects render time, and no call holds state.
package report

import (
	"errors"
	"strings"
	"time"
)

// Section is one titled block of a printable document. Body is a
// pre-rendered fragment (usually built with Table); section bodies never
// nest other sections.
type Section struct {
	Title string
	Body  string
}

// Document is the input to Render. Subtitle may be empty.
type Document struct {
	Title    string
	Subtitle string
	Sections []Section
}

var (
	ErrNoSections   = errors.New("document needs at least one section")
	ErrEmptySection = errors.New("section has no body")
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Escape replaces the characters that would otherwise be interpreted as
// markup in the rendered document. Every piece of free text must pass
// through here before embedding; this is a correctness requirement, not a
// cosmetic one.
func Escape(s string) string {
	return htmlEscaper.Replace(s)
}

// Render assembles the document. Sections appear in the given order; the
// header carries the escaped title, optional subtitle, and a render
// timestamp taken from the injected now.
func Render(doc Document, now time.Time) (string, error) {
	if len(doc.Sections) == 0 {
		return "", ErrNoSections
	}
	for _, s := range doc.Sections {
		if strings.TrimSpace(s.Body) == "" {
			return "", ErrEmptySection
		}
	}

	var b strings.Builder
	b.WriteString("<!doctype html>\n<html>\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\" />\n")
	b.WriteString("<title>")
	b.WriteString(Escape(doc.Title))
	b.WriteString("</title>\n<style>")
	b.WriteString(documentStyle)
	b.WriteString("</style>\n</head>\n<body>\n")

	b.WriteString("<header class=\"hdr\">\n<div class=\"brand\">\n")
	b.WriteString("<div class=\"title\">")
	b.WriteString(Escape(doc.Title))
	b.WriteString("</div>\n")
	if doc.Subtitle != "" {
		b.WriteString("<div class=\"sub\">")
		b.WriteString(Escape(doc.Subtitle))
		b.WriteString("</div>\n")
	}
	b.WriteString("</div>\n<div class=\"meta\">Printed: ")
	b.WriteString(Escape(now.Format("2006-01-02 15:04:05")))
	b.WriteString("</div>\n</header>\n")

	for _, s := range doc.Sections {
		b.WriteString("<section class=\"sec\">\n<div class=\"sec-title\">")
		b.WriteString(Escape(s.Title))
		b.WriteString("</div>\n<div class=\"sec-body\">")
		b.WriteString(s.Body)
		b.WriteString("</div>\n</section>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}

const documentStyle = `
* { box-sizing: border-box; }
body { margin: 0; padding: 28px; font-family: system-ui, -apple-system, Segoe UI, Roboto, Helvetica, Arial; color: #1a1a1a; background: #fff; }
.hdr { display: flex; justify-content: space-between; align-items: flex-start; gap: 16px; padding: 18px; border: 1px solid #ddd; border-radius: 10px; }
.title { font-weight: 700; font-size: 18px; }
.sub { margin-top: 2px; font-size: 12px; color: #666; }
.meta { font-size: 12px; color: #666; white-space: nowrap; }
.sec { margin-top: 18px; page-break-inside: avoid; }
.sec-title { display: inline-flex; font-size: 13px; font-weight: 700; padding: 8px 12px; border-radius: 999px; border: 1px solid #ddd; }
.sec-body { margin-top: 10px; border: 1px solid #ddd; border-radius: 10px; overflow: hidden; }
table { width: 100%; border-collapse: collapse; }
th, td { padding: 10px 12px; border-bottom: 1px solid #ddd; text-align: left; font-size: 12px; }
th { background: #f4f4f4; font-weight: 700; }
.num { text-align: right; font-variant-numeric: tabular-nums; }
.muted { color: #666; }
.badge { display: inline-flex; padding: 2px 8px; border-radius: 999px; border: 1px solid #ddd; font-size: 11px; }
@media print { body { padding: 0; } .sec { break-inside: avoid; } }
`
