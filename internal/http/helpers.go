package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"innkeeper/internal/core"
	"innkeeper/internal/report"
	"innkeeper/internal/services"
	"innkeeper/internal/storage"
)

const maxBodyBytes = 1 << 20

// defaultRangeDays is the window used when a list endpoint gets no range.
const defaultRangeDays = 30

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP statuses. Validation and range
// problems are the caller's fault; conflicts get 409; everything else is a
// 500 with the detail kept out of the response body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrInsufficientStock),
		errors.Is(err, storage.ErrDuplicateInvoice),
		errors.Is(err, services.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, core.ErrInvalidRange),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidQuantity),
		errors.Is(err, core.ErrInvalidCategory),
		errors.Is(err, core.ErrInvalidStatus),
		errors.Is(err, core.ErrInvalidDates),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrNoLineItems),
		errors.Is(err, report.ErrNoSections),
		errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// errBadRequest marks malformed client input that has no domain sentinel.
var errBadRequest = errors.New("bad request")

func badRequestf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, errBadRequest)...)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequestf("decode body: %v", err)
	}
	return nil
}

// parseRange reads from/to query parameters. Both absent means the trailing
// default window ending today; one without the other is an error.
func (s *Server) parseRange(r *http.Request) (from, to core.Date, err error) {
	fromStr := strings.TrimSpace(r.URL.Query().Get("from"))
	toStr := strings.TrimSpace(r.URL.Query().Get("to"))

	if fromStr == "" && toStr == "" {
		to = core.DateOf(s.now())
		return to.AddDays(-(defaultRangeDays - 1)), to, nil
	}
	if fromStr == "" || toStr == "" {
		return from, to, badRequestf("both from and to are required")
	}

	if from, err = core.ParseDate(fromStr); err != nil {
		return from, to, badRequestf("from %q: %v", fromStr, err)
	}
	if to, err = core.ParseDate(toStr); err != nil {
		return from, to, badRequestf("to %q: %v", toStr, err)
	}
	return from, to, nil
}

func parseLimit(r *http.Request, def, max int) int {
	v := strings.TrimSpace(r.URL.Query().Get("limit"))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
