package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	ports "innkeeper/internal/export"
)

// Report is one captured table.
type Report struct {
	Title  string
	Header []string
	Rows   [][]string
}

// Sink collects exported reports in memory. Used in tests and as the
// export target when no spreadsheet is configured.
type Sink struct {
	mu      sync.Mutex
	reports []Report
}

var _ ports.ReportSink = (*Sink)(nil)

func New() *Sink {
	return &Sink{}
}

func (s *Sink) AppendReport(_ context.Context, title string, header []string, rows [][]string) (string, error) {
	if len(header) == 0 {
		return "", errors.New("report header is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, Report{
		Title:  title,
		Header: append([]string(nil), header...),
		Rows:   rows,
	})
	return fmt.Sprintf("mem:%d", len(s.reports)), nil
}

// Reports returns a snapshot of everything appended so far.
func (s *Sink) Reports() []Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Report(nil), s.reports...)
}
