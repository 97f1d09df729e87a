package http

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"innkeeper/internal/core"
	"innkeeper/internal/services"
)

type lineItemJSON struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

type invoiceJSON struct {
	ID            string         `json:"id"`
	InvoiceNo     string         `json:"invoice_no"`
	Status        string         `json:"status"`
	StatusClass   string         `json:"status_class"`
	CustomerID    string         `json:"customer_id"`
	CustomerLabel string         `json:"customer_label"`
	CreatedAt     string         `json:"created_at"`
	Subtotal      string         `json:"subtotal"`
	Total         string         `json:"total"`
	Items         []lineItemJSON `json:"items,omitempty"`
}

func invoiceRowJSON(row services.InvoiceRow) invoiceJSON {
	out := invoiceJSON{
		ID:            row.ID,
		InvoiceNo:     row.InvoiceNo,
		Status:        string(row.Status),
		StatusClass:   string(row.StatusClass),
		CustomerID:    row.CustomerID,
		CustomerLabel: row.CustomerLabel,
		CreatedAt:     row.CreatedAt.Format("2006-01-02"),
		Subtotal:      core.FormatAmount(row.Subtotal),
		Total:         core.FormatAmount(row.Total),
	}
	for _, item := range row.Items {
		out.Items = append(out.Items, lineItemJSON{
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			UnitPrice:   core.FormatAmount(item.UnitPrice),
		})
	}
	return out
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	class, err := core.ParseStatusClass(strings.TrimSpace(q.Get("status")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	filter := core.InvoiceFilter{
		Text:        strings.TrimSpace(q.Get("q")),
		StatusClass: class,
		CustomerID:  strings.TrimSpace(q.Get("customer_id")),
	}
	if v := strings.TrimSpace(q.Get("from")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			s.writeError(w, r, badRequestf("from %q: %v", v, err))
			return
		}
		filter.DateFrom = d
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			s.writeError(w, r, badRequestf("to %q: %v", v, err))
			return
		}
		filter.DateTo = d
	}

	rows, err := s.billing.ListInvoices(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]invoiceJSON, 0, len(rows))
	for _, row := range rows {
		j := invoiceRowJSON(row)
		j.Items = nil // list view stays flat
		out = append(out, j)
	}
	writeJSON(w, http.StatusOK, out)
}

type createInvoiceRequest struct {
	CustomerID string `json:"customer_id"`
	Items      []struct {
		Description string `json:"description"`
		Quantity    string `json:"quantity"`
		UnitPrice   string `json:"unit_price"`
	} `json:"items"`
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	input := services.CreateInvoiceInput{CustomerID: req.CustomerID}
	for _, item := range req.Items {
		qty, err := decimal.NewFromString(item.Quantity)
		if err != nil {
			s.writeError(w, r, badRequestf("quantity %q: %v", item.Quantity, err))
			return
		}
		price, err := decimal.NewFromString(item.UnitPrice)
		if err != nil {
			s.writeError(w, r, badRequestf("unit_price %q: %v", item.UnitPrice, err))
			return
		}
		input.Items = append(input.Items, core.InvoiceLineItem{
			Description: item.Description,
			Quantity:    qty,
			UnitPrice:   price,
		})
	}

	inv, err := s.billing.CreateInvoice(r.Context(), input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, invoiceRowJSON(services.InvoiceRow{Invoice: inv}))
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	row, err := s.billing.GetInvoice(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, invoiceRowJSON(row))
}

func (s *Server) handleMarkInvoicePaid(w http.ResponseWriter, r *http.Request) {
	if err := s.billing.MarkInvoicePaid(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(core.InvoicePaid)})
}

func (s *Server) handleVoidInvoice(w http.ResponseWriter, r *http.Request) {
	if err := s.billing.VoidInvoice(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(core.InvoiceVoid)})
}

func (s *Server) handlePrintInvoice(w http.ResponseWriter, r *http.Request) {
	html, err := s.billing.PrintInvoice(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

type recordPaymentRequest struct {
	ReservationID string `json:"reservation_id"`
	Amount        string `json:"amount,omitempty"` // empty collects the full balance
	Method        string `json:"method,omitempty"`
	Reference     string `json:"reference,omitempty"`
}

func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var req recordPaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	input := services.RecordPaymentInput{
		ReservationID: req.ReservationID,
		Method:        req.Method,
		Reference:     req.Reference,
	}
	if req.Amount != "" {
		amount, err := decimal.NewFromString(req.Amount)
		if err != nil {
			s.writeError(w, r, badRequestf("amount %q: %v", req.Amount, err))
			return
		}
		input.Amount = amount
	}

	id, err := s.billing.RecordPayment(r.Context(), input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}
