package http

import (
	"net/http"
	"strings"

	"innkeeper/internal/core"
	"innkeeper/internal/services"
	"innkeeper/internal/storage"
)

type bucketJSON struct {
	Date      string `json:"date"`
	Income    string `json:"income"`
	Expenses  string `json:"expenses"`
	Net       string `json:"net"`
	Bookings  int    `json:"bookings"`
	Occupancy int    `json:"occupancy"`
}

func bucketsJSON(buckets []core.DailyBucket) []bucketJSON {
	out := make([]bucketJSON, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, bucketJSON{
			Date:      b.Day.Key(),
			Income:    core.FormatAmount(b.Income),
			Expenses:  core.FormatAmount(b.Expenses),
			Net:       core.FormatAmount(b.Net),
			Bookings:  b.Bookings,
			Occupancy: b.Occupancy,
		})
	}
	return out
}

type categoryJSON struct {
	Category string `json:"category"`
	Total    string `json:"total"`
}

func categoriesJSON(totals []core.CategoryTotal) []categoryJSON {
	out := make([]categoryJSON, 0, len(totals))
	for _, c := range totals {
		out = append(out, categoryJSON{Category: string(c.Category), Total: core.FormatAmount(c.Total)})
	}
	return out
}

type dailyReportJSON struct {
	From    string       `json:"from"`
	To      string       `json:"to"`
	Buckets []bucketJSON `json:"buckets"`
	Totals  struct {
		Income   string `json:"income"`
		Expenses string `json:"expenses"`
		Net      string `json:"net"`
	} `json:"totals"`
}

func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	from, to, err := s.parseRange(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rep, err := s.reports.BuildDailyReport(r.Context(), from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := dailyReportJSON{
		From:    rep.From.Key(),
		To:      rep.To.Key(),
		Buckets: bucketsJSON(rep.Buckets),
	}
	resp.Totals.Income = core.FormatAmount(rep.Totals.Income)
	resp.Totals.Expenses = core.FormatAmount(rep.Totals.Expenses)
	resp.Totals.Net = core.FormatAmount(rep.Totals.Net)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCategoryReport(w http.ResponseWriter, r *http.Request) {
	from, to, err := s.parseRange(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	totals, err := s.reports.CategoryReport(r.Context(), from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoriesJSON(totals))
}

func (s *Server) handleDailyReportCSV(w http.ResponseWriter, r *http.Request) {
	from, to, err := s.parseRange(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	filename, csv, err := s.reports.DailyReportCSV(r.Context(), from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write([]byte(csv))
}

func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	from, to, err := s.parseRange(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ref, err := s.reports.ExportDailyReport(r.Context(), from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"ref": ref})
}

type checkoutJSON struct {
	ReservationID string `json:"reservation_id"`
	RoomNumber    string `json:"room_number"`
	GuestName     string `json:"guest_name"`
	CheckOut      string `json:"check_out"`
}

type dashboardJSON struct {
	IncomeToday   string `json:"income_today"`
	IncomeMonth   string `json:"income_month"`
	IncomeYear    string `json:"income_year"`
	ExpensesMonth string `json:"expenses_month"`
	NetMonth      string `json:"net_month"`

	OccupiedRooms int `json:"occupied_rooms"`
	RoomCount     int `json:"room_count"`

	UpcomingCheckouts []checkoutJSON  `json:"upcoming_checkouts"`
	LowStock          []inventoryJSON `json:"low_stock"`
	Series            []bucketJSON    `json:"series"`
	Categories        []categoryJSON  `json:"categories"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := s.reports.Dashboard(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := dashboardJSON{
		IncomeToday:       core.FormatAmount(snap.IncomeToday),
		IncomeMonth:       core.FormatAmount(snap.IncomeMonth),
		IncomeYear:        core.FormatAmount(snap.IncomeYear),
		ExpensesMonth:     core.FormatAmount(snap.ExpensesMonth),
		NetMonth:          core.FormatAmount(snap.NetMonth),
		OccupiedRooms:     snap.OccupiedRooms,
		RoomCount:         snap.RoomCount,
		UpcomingCheckouts: make([]checkoutJSON, 0, len(snap.UpcomingCheckouts)),
		LowStock:          inventoriesJSON(snap.LowStock),
		Series:            bucketsJSON(snap.Series),
		Categories:        categoriesJSON(snap.Categories),
	}
	for _, c := range snap.UpcomingCheckouts {
		resp.UpcomingCheckouts = append(resp.UpcomingCheckouts, checkoutJSON{
			ReservationID: c.ReservationID,
			RoomNumber:    c.RoomNumber,
			GuestName:     c.GuestName,
			CheckOut:      c.CheckOut.Key(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePrintSystemReport(w http.ResponseWriter, r *http.Request) {
	from, to, err := s.parseRange(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := services.SystemReportOptions{From: from, To: to}
	for _, section := range strings.Split(r.URL.Query().Get("sections"), ",") {
		switch strings.TrimSpace(section) {
		case "financial":
			opts.Financial = true
		case "expenses":
			opts.Expenses = true
		case "staff":
			opts.Staff = true
		case "inventory":
			opts.Inventory = true
		case "billing":
			opts.Billing = true
		case "":
		default:
			s.writeError(w, r, badRequestf("unknown section %q", section))
			return
		}
	}

	html, err := s.reports.PrintSystemReport(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

type inventoryJSON struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Unit         string `json:"unit"`
	CurrentStock string `json:"current_stock"`
	ReorderLevel string `json:"reorder_level"`
}

func inventoriesJSON(items []storage.InventoryItem) []inventoryJSON {
	out := make([]inventoryJSON, 0, len(items))
	for _, it := range items {
		out = append(out, inventoryJSON{
			ID:           it.ID,
			Name:         it.Name,
			Unit:         it.Unit,
			CurrentStock: it.CurrentStock.String(),
			ReorderLevel: it.ReorderLevel.String(),
		})
	}
	return out
}
