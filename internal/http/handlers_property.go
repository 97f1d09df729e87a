package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"innkeeper/internal/core"
	"innkeeper/internal/services"
	"innkeeper/internal/storage"
)

type expenseJSON struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	ExpenseDate string `json:"expense_date"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	from, to, err := s.parseRange(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	expenses, err := s.property.ListExpenses(r.Context(), from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]expenseJSON, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, expenseJSON{
			Description: e.Description,
			Amount:      core.FormatAmount(e.Amount),
			Category:    string(e.Category),
			ExpenseDate: e.ExpenseDate.Key(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type createExpenseRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	ExpenseDate string `json:"expense_date"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		s.writeError(w, r, badRequestf("amount %q: %v", req.Amount, err))
		return
	}
	date, err := core.ParseDate(req.ExpenseDate)
	if err != nil {
		s.writeError(w, r, badRequestf("expense_date %q: %v", req.ExpenseDate, err))
		return
	}

	id, err := s.property.CreateExpense(r.Context(), core.ExpenseRecord{
		Description: req.Description,
		Amount:      amount,
		Category:    core.ExpenseCategory(req.Category),
		ExpenseDate: date,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

type reservationJSON struct {
	ID          string `json:"id"`
	CustomerID  string `json:"customer_id"`
	RoomID      string `json:"room_id"`
	CheckIn     string `json:"check_in"`
	CheckOut    string `json:"check_out"`
	Nights      int    `json:"nights"`
	NightlyRate string `json:"nightly_rate"`
	TotalAmount string `json:"total_amount"`
	BalanceDue  string `json:"balance_due"`
	Status      string `json:"status"`
	Notes       string `json:"notes,omitempty"`
}

func reservationToJSON(res storage.Reservation) reservationJSON {
	return reservationJSON{
		ID:          res.ID,
		CustomerID:  res.CustomerID,
		RoomID:      res.RoomID,
		CheckIn:     res.CheckIn.Key(),
		CheckOut:    res.CheckOut.Key(),
		Nights:      res.Nights,
		NightlyRate: core.FormatAmount(res.NightlyRateUsed),
		TotalAmount: core.FormatAmount(res.TotalAmount),
		BalanceDue:  core.FormatAmount(res.BalanceDue),
		Status:      string(res.Status),
		Notes:       res.Notes,
	}
}

func (s *Server) handleListReservations(w http.ResponseWriter, r *http.Request) {
	from, to, err := s.parseRange(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	reservations, err := s.property.ListReservations(r.Context(), from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]reservationJSON, 0, len(reservations))
	for _, res := range reservations {
		out = append(out, reservationToJSON(res))
	}
	writeJSON(w, http.StatusOK, out)
}

type createReservationRequest struct {
	CustomerID  string `json:"customer_id"`
	RoomID      string `json:"room_id"`
	CheckIn     string `json:"check_in"`
	CheckOut    string `json:"check_out"`
	NightlyRate string `json:"nightly_rate"`
	Notes       string `json:"notes,omitempty"`
}

func (s *Server) handleCreateReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	checkIn, err := core.ParseDate(req.CheckIn)
	if err != nil {
		s.writeError(w, r, badRequestf("check_in %q: %v", req.CheckIn, err))
		return
	}
	checkOut, err := core.ParseDate(req.CheckOut)
	if err != nil {
		s.writeError(w, r, badRequestf("check_out %q: %v", req.CheckOut, err))
		return
	}
	rate, err := decimal.NewFromString(req.NightlyRate)
	if err != nil {
		s.writeError(w, r, badRequestf("nightly_rate %q: %v", req.NightlyRate, err))
		return
	}

	res, err := s.property.CreateReservation(r.Context(), services.CreateReservationInput{
		CustomerID:  req.CustomerID,
		RoomID:      req.RoomID,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		NightlyRate: rate,
		Notes:       req.Notes,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reservationToJSON(res))
}

func (s *Server) handleReservationStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	id := r.PathValue("id")
	if err := s.property.UpdateReservationStatus(r.Context(), id, core.ReservationStatus(req.Status)); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	id, err := s.property.CreateCustomer(r.Context(), core.Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := s.property.ListInventoryItems(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inventoriesJSON(items))
}

func (s *Server) handleLowStock(w http.ResponseWriter, r *http.Request) {
	items, err := s.property.ListLowStockItems(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inventoriesJSON(items))
}

type createInventoryItemRequest struct {
	Name         string `json:"name"`
	Unit         string `json:"unit,omitempty"`
	CurrentStock string `json:"current_stock"`
	ReorderLevel string `json:"reorder_level"`
}

func (s *Server) handleCreateInventoryItem(w http.ResponseWriter, r *http.Request) {
	var req createInventoryItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	stock, err := decimal.NewFromString(req.CurrentStock)
	if err != nil {
		s.writeError(w, r, badRequestf("current_stock %q: %v", req.CurrentStock, err))
		return
	}
	reorder, err := decimal.NewFromString(req.ReorderLevel)
	if err != nil {
		s.writeError(w, r, badRequestf("reorder_level %q: %v", req.ReorderLevel, err))
		return
	}

	id, err := s.property.CreateInventoryItem(r.Context(), storage.InventoryItem{
		Name:         req.Name,
		Unit:         req.Unit,
		CurrentStock: stock,
		ReorderLevel: reorder,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

type stockMoveRequest struct {
	Direction string `json:"direction"`
	Quantity  string `json:"quantity"`
	Notes     string `json:"notes,omitempty"`
}

func (s *Server) handleStockMove(w http.ResponseWriter, r *http.Request) {
	var req stockMoveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	qty, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		s.writeError(w, r, badRequestf("quantity %q: %v", req.Quantity, err))
		return
	}

	id := r.PathValue("id")
	if err := s.property.RecordStockMove(r.Context(), services.StockMoveInput{
		ItemID:    id,
		Direction: req.Direction,
		Quantity:  qty,
		Notes:     req.Notes,
	}); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"item_id": id})
}

type hrRecordJSON struct {
	ID            string `json:"id"`
	FullName      string `json:"full_name"`
	RoleTitle     string `json:"role_title"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	SalaryMonthly string `json:"salary_monthly"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date,omitempty"`
}

func (s *Server) handleListHR(w http.ResponseWriter, r *http.Request) {
	records, err := s.property.ListHRRecords(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]hrRecordJSON, 0, len(records))
	for _, rec := range records {
		j := hrRecordJSON{
			ID:            rec.ID,
			FullName:      rec.FullName,
			RoleTitle:     rec.RoleTitle,
			Email:         rec.Email,
			Phone:         rec.Phone,
			SalaryMonthly: core.FormatAmount(rec.SalaryMonthly),
			StartDate:     rec.StartDate.Key(),
		}
		if rec.EndDate != nil {
			j.EndDate = rec.EndDate.Key()
		}
		out = append(out, j)
	}
	writeJSON(w, http.StatusOK, out)
}

type createHRRecordRequest struct {
	FullName      string `json:"full_name"`
	RoleTitle     string `json:"role_title"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	SalaryMonthly string `json:"salary_monthly"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
}

func (s *Server) handleCreateHRRecord(w http.ResponseWriter, r *http.Request) {
	var req createHRRecordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	rec := storage.HRRecord{
		FullName:  req.FullName,
		RoleTitle: req.RoleTitle,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	if req.SalaryMonthly != "" {
		salary, err := decimal.NewFromString(req.SalaryMonthly)
		if err != nil {
			s.writeError(w, r, badRequestf("salary_monthly %q: %v", req.SalaryMonthly, err))
			return
		}
		rec.SalaryMonthly = salary
	}
	start, err := core.ParseDate(req.StartDate)
	if err != nil {
		s.writeError(w, r, badRequestf("start_date %q: %v", req.StartDate, err))
		return
	}
	rec.StartDate = start
	if req.EndDate != "" {
		end, err := core.ParseDate(req.EndDate)
		if err != nil {
			s.writeError(w, r, badRequestf("end_date %q: %v", req.EndDate, err))
			return
		}
		rec.EndDate = &end
	}

	id, err := s.property.CreateHRRecord(r.Context(), rec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

type customerJSON struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Label     string `json:"label"`
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.property.ListCustomers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]customerJSON, 0, len(customers))
	for _, c := range customers {
		out = append(out, customerJSON{
			ID:        c.ID,
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Label:     c.Label(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type roomTypeJSON struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	BaseRate     string `json:"base_rate"`
	MaxOccupancy int    `json:"max_occupancy"`
}

func (s *Server) handleListRoomTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.property.ListRoomTypes(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]roomTypeJSON, 0, len(types))
	for _, rt := range types {
		out = append(out, roomTypeJSON{
			ID:           rt.ID,
			Name:         rt.Name,
			BaseRate:     core.FormatAmount(rt.BaseRate),
			MaxOccupancy: rt.MaxOccupancy,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateRoomType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		BaseRate     string `json:"base_rate"`
		MaxOccupancy int    `json:"max_occupancy"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	rate, err := decimal.NewFromString(req.BaseRate)
	if err != nil {
		s.writeError(w, r, badRequestf("base_rate %q: %v", req.BaseRate, err))
		return
	}

	id, err := s.property.CreateRoomType(r.Context(), storage.RoomType{
		Name:         req.Name,
		BaseRate:     rate,
		MaxOccupancy: req.MaxOccupancy,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

type roomJSON struct {
	ID           string `json:"id"`
	RoomNumber   string `json:"room_number"`
	RoomTypeID   string `json:"room_type_id"`
	RateOverride string `json:"rate_override,omitempty"`
	Status       string `json:"status"`
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.property.ListRooms(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]roomJSON, 0, len(rooms))
	for _, rm := range rooms {
		j := roomJSON{
			ID:         rm.ID,
			RoomNumber: rm.RoomNumber,
			RoomTypeID: rm.RoomTypeID,
			Status:     rm.Status,
		}
		if rm.RateOverride != nil {
			j.RateOverride = core.FormatAmount(*rm.RateOverride)
		}
		out = append(out, j)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoomNumber   string `json:"room_number"`
		RoomTypeID   string `json:"room_type_id"`
		RateOverride string `json:"rate_override"`
		Status       string `json:"status"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	rm := storage.Room{
		RoomNumber: req.RoomNumber,
		RoomTypeID: req.RoomTypeID,
		Status:     req.Status,
	}
	if req.RateOverride != "" {
		rate, err := decimal.NewFromString(req.RateOverride)
		if err != nil {
			s.writeError(w, r, badRequestf("rate_override %q: %v", req.RateOverride, err))
			return
		}
		rm.RateOverride = &rate
	}

	id, err := s.property.CreateRoom(r.Context(), rm)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

type settingsJSON struct {
	HotelName    string `json:"hotel_name"`
	LegalName    string `json:"legal_name,omitempty"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	CurrencyCode string `json:"currency_code"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.Get(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsJSON{
		HotelName:    settings.HotelName,
		LegalName:    settings.LegalName,
		Address:      settings.Address,
		Phone:        settings.Phone,
		Email:        settings.Email,
		CurrencyCode: settings.CurrencyCode,
	})
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsJSON
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.HotelName == "" {
		s.writeError(w, r, badRequestf("hotel_name is required"))
		return
	}

	err := s.settings.Update(r.Context(), storage.HotelSettings{
		HotelName:    req.HotelName,
		LegalName:    req.LegalName,
		Address:      req.Address,
		Phone:        req.Phone,
		Email:        req.Email,
		CurrencyCode: req.CurrencyCode,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

type activityJSON struct {
	ID        string `json:"id"`
	Actor     string `json:"actor,omitempty"`
	Action    string `json:"action"`
	Entity    string `json:"entity"`
	EntityID  string `json:"entity_id,omitempty"`
	Metadata  string `json:"metadata,omitempty"`
	CreatedAt string `json:"created_at"`
}

func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 50, 500)
	logs, err := s.activity.ListActivityLogs(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]activityJSON, 0, len(logs))
	for _, entry := range logs {
		out = append(out, activityJSON{
			ID:        entry.ID,
			Actor:     entry.Actor,
			Action:    entry.Action,
			Entity:    entry.Entity,
			EntityID:  entry.EntityID,
			Metadata:  entry.Metadata,
			CreatedAt: entry.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
