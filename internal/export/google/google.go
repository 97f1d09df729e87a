package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	ports "innkeeper/internal/export"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.ReportSink = (*Client)(nil)

// Options carries everything needed to talk to one spreadsheet. Exactly one
// of CredentialsFile or CredentialsJSON must be set.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	CredentialsJSON string
}

func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheetName := strings.TrimSpace(opts.SheetName)
	if sheetName == "" {
		sheetName = "Reports"
	}

	credentialsJSON := []byte(strings.TrimSpace(opts.CredentialsJSON))
	if len(credentialsJSON) == 0 {
		file := strings.TrimSpace(opts.CredentialsFile)
		if file == "" {
			return nil, errors.New("missing service account credentials")
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// AppendReport writes the title, a header row and the data rows below
// whatever the sheet already holds, leaving one blank row between reports.
func (c *Client) AppendReport(ctx context.Context, title string, header []string, rows [][]string) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if len(header) == 0 {
		return "", errors.New("report header is empty")
	}

	// Find the next empty row by reading the first column's extent
	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get sheet dimensions for %s: %w", c.sheetName, err)
	}
	startRow := len(resp.Values) + 1
	if startRow > 1 {
		startRow++ // blank separator row
	}

	values := buildValues(title, header, rows)
	dataRange := cellRange(c.sheetName, startRow, startRow+len(values)-1, len(header))
	vr := &gsheet.ValueRange{Values: values}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("update range %s: %w", dataRange, err)
	}

	return dataRange, nil
}

// buildValues assembles the sheet payload: a title row, the header, then data.
// Short data rows are padded so every row spans the header width.
func buildValues(title string, header []string, rows [][]string) [][]any {
	width := len(header)
	out := make([][]any, 0, len(rows)+2)

	titleRow := make([]any, width)
	titleRow[0] = title
	for i := 1; i < width; i++ {
		titleRow[i] = ""
	}
	out = append(out, titleRow)

	headerRow := make([]any, width)
	for i, h := range header {
		headerRow[i] = h
	}
	out = append(out, headerRow)

	for _, row := range rows {
		cells := make([]any, width)
		for i := 0; i < width; i++ {
			if i < len(row) {
				cells[i] = row[i]
			} else {
				cells[i] = ""
			}
		}
		out = append(out, cells)
	}
	return out
}

// cellRange formats an A1-notation range covering rows [startRow, endRow]
// and the first cols columns.
func cellRange(sheet string, startRow, endRow, cols int) string {
	return fmt.Sprintf("%s!A%d:%s%d", sheet, startRow, columnName(cols), endRow)
}

// columnName converts a 1-based column count to its A1 letter ("A", "Z", "AA").
func columnName(n int) string {
	name := ""
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}
	return name
}
