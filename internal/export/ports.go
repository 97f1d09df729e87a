package export

import "context"

// ReportSink receives tabular report snapshots pushed out of the console,
// for example into a shared spreadsheet the owners already work in.
type ReportSink interface {
	// AppendReport writes a titled table and returns a reference to where
	// it landed (sheet range, key, etc.).
	AppendReport(ctx context.Context, title string, header []string, rows [][]string) (ref string, err error)
}
