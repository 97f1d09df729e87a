package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"innkeeper/internal/amqp"
	"innkeeper/internal/core"
	applog "innkeeper/internal/log"
	"innkeeper/internal/storage"
)

// PropertyService covers the day-to-day operational records: expenses,
// reservations, inventory and the staff roster.
type PropertyService struct {
	store  PropertyStore
	pub    ActivityPublisher
	logger *applog.Logger
	now    func() time.Time
}

func NewPropertyService(store PropertyStore, pub ActivityPublisher, logger *applog.Logger) *PropertyService {
	return &PropertyService{
		store:  store,
		pub:    pub,
		logger: logger.WithComponent(applog.ComponentApp),
		now:    time.Now,
	}
}

func (s *PropertyService) CreateExpense(ctx context.Context, e core.ExpenseRecord) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	e.Amount = core.Round2(e.Amount)

	id, err := s.store.CreateExpense(ctx, e, s.now())
	if err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "Expense created",
		applog.FieldCategory, string(e.Category),
		applog.FieldAmount, core.FormatAmount(e.Amount))
	publishActivity(ctx, s.pub, s.logger,
		amqp.NewActivityEvent("create", "expense", id).
			WithMetadata("category", string(e.Category)).
			WithMetadata("amount", core.FormatAmount(e.Amount)))

	return id, nil
}

func (s *PropertyService) ListExpenses(ctx context.Context, from, to core.Date) ([]core.ExpenseRecord, error) {
	if from.After(to.Time) {
		return nil, fmt.Errorf("range %s..%s: %w", from.Key(), to.Key(), core.ErrInvalidRange)
	}
	return s.store.ListExpenses(ctx, from, to)
}

type CreateReservationInput struct {
	CustomerID  string
	RoomID      string
	CheckIn     core.Date
	CheckOut    core.Date
	NightlyRate decimal.Decimal
	Notes       string
}

// CreateReservation derives nights and totals from the nightly rate. The
// check-out date must be strictly after check-in.
func (s *PropertyService) CreateReservation(ctx context.Context, input CreateReservationInput) (storage.Reservation, error) {
	if input.CustomerID == "" || input.RoomID == "" {
		return storage.Reservation{}, fmt.Errorf("reservation needs a customer and a room")
	}
	if !input.CheckOut.After(input.CheckIn.Time) {
		return storage.Reservation{}, fmt.Errorf("check-out %s not after check-in %s: %w",
			input.CheckOut.Key(), input.CheckIn.Key(), core.ErrInvalidDates)
	}
	if !input.NightlyRate.IsPositive() {
		return storage.Reservation{}, fmt.Errorf("nightly rate %s: %w", input.NightlyRate, core.ErrInvalidAmount)
	}

	nights := input.CheckIn.DaysUntil(input.CheckOut)
	total := core.Round2(input.NightlyRate.Mul(decimal.NewFromInt(int64(nights))))

	res := storage.Reservation{
		CustomerID:      input.CustomerID,
		RoomID:          input.RoomID,
		CheckIn:         input.CheckIn,
		CheckOut:        input.CheckOut,
		Nights:          nights,
		NightlyRateUsed: core.Round2(input.NightlyRate),
		TotalAmount:     total,
		BalanceDue:      total,
		Status:          core.ReservationConfirmed,
		Notes:           input.Notes,
		CreatedAt:       s.now(),
	}

	id, err := s.store.CreateReservation(ctx, res)
	if err != nil {
		return storage.Reservation{}, err
	}
	res.ID = id

	s.logger.InfoContext(ctx, "Reservation created",
		applog.FieldReservationID, id,
		applog.FieldCustomerID, input.CustomerID,
		applog.FieldAmount, core.FormatAmount(total))
	publishActivity(ctx, s.pub, s.logger,
		amqp.NewActivityEvent("create", "reservation", id).
			WithMetadata("check_in", input.CheckIn.Key()).
			WithMetadata("check_out", input.CheckOut.Key()))

	return res, nil
}

func (s *PropertyService) ListReservations(ctx context.Context, from, to core.Date) ([]storage.Reservation, error) {
	if from.After(to.Time) {
		return nil, fmt.Errorf("range %s..%s: %w", from.Key(), to.Key(), core.ErrInvalidRange)
	}
	return s.store.ListReservations(ctx, from, to)
}

// reservation lifecycle: draft -> confirmed -> checked_in -> checked_out,
// with cancellation allowed before check-in.
var reservationTransitions = map[core.ReservationStatus][]core.ReservationStatus{
	core.ReservationDraft:     {core.ReservationConfirmed, core.ReservationCancelled},
	core.ReservationConfirmed: {core.ReservationCheckedIn, core.ReservationCancelled},
	core.ReservationCheckedIn: {core.ReservationCheckedOut},
}

func (s *PropertyService) UpdateReservationStatus(ctx context.Context, id string, to core.ReservationStatus) error {
	if err := to.Validate(); err != nil {
		return err
	}
	res, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return err
	}

	allowed := false
	for _, next := range reservationTransitions[res.Status] {
		if next == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("reservation %s is %s, cannot become %s: %w", id, res.Status, to, ErrInvalidTransition)
	}

	if err := s.store.UpdateReservationStatus(ctx, id, to); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Reservation status changed",
		applog.FieldReservationID, id,
		"from", string(res.Status),
		"to", string(to))
	publishActivity(ctx, s.pub, s.logger,
		amqp.NewActivityEvent("status", "reservation", id).
			WithMetadata("status", string(to)))
	return nil
}

func (s *PropertyService) CreateCustomer(ctx context.Context, c core.Customer) (string, error) {
	if c.FirstName == "" || c.LastName == "" {
		return "", fmt.Errorf("customer needs first and last name")
	}
	id, err := s.store.CreateCustomer(ctx, c, s.now())
	if err != nil {
		return "", err
	}
	publishActivity(ctx, s.pub, s.logger,
		amqp.NewActivityEvent("create", "customer", id))
	return id, nil
}

func (s *PropertyService) CreateInventoryItem(ctx context.Context, it storage.InventoryItem) (string, error) {
	if it.Name == "" {
		return "", fmt.Errorf("inventory item needs a name: %w", core.ErrEmptyDescription)
	}
	if it.CurrentStock.IsNegative() || it.ReorderLevel.IsNegative() {
		return "", fmt.Errorf("stock levels cannot be negative: %w", core.ErrInvalidQuantity)
	}
	if it.Unit == "" {
		it.Unit = "pcs"
	}

	id, err := s.store.CreateInventoryItem(ctx, it, s.now())
	if err != nil {
		return "", err
	}
	publishActivity(ctx, s.pub, s.logger,
		amqp.NewActivityEvent("create", "inventory_item", id).
			WithMetadata("name", it.Name))
	return id, nil
}

func (s *PropertyService) ListInventoryItems(ctx context.Context) ([]storage.InventoryItem, error) {
	return s.store.ListInventoryItems(ctx)
}

func (s *PropertyService) ListLowStockItems(ctx context.Context) ([]storage.InventoryItem, error) {
	return s.store.ListLowStockItems(ctx)
}

type StockMoveInput struct {
	ItemID    string
	Direction string // "in" or "out"
	Quantity  decimal.Decimal
	Notes     string
}

// RecordStockMove applies an inventory transaction. Outbound moves beyond
// the current stock are rejected by the storage layer.
func (s *PropertyService) RecordStockMove(ctx context.Context, input StockMoveInput) error {
	if input.Direction != "in" && input.Direction != "out" {
		return fmt.Errorf("stock direction %q: %w", input.Direction, core.ErrInvalidStatus)
	}
	if !input.Quantity.IsPositive() {
		return fmt.Errorf("stock quantity %s: %w", input.Quantity, core.ErrInvalidQuantity)
	}

	if err := s.store.ApplyStockMove(ctx, input.ItemID, input.Direction, input.Quantity, input.Notes, s.now()); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Stock move recorded",
		applog.FieldEntityID, input.ItemID,
		"direction", input.Direction,
		"quantity", input.Quantity.String())
	publishActivity(ctx, s.pub, s.logger,
		amqp.NewActivityEvent("stock_move", "inventory_item", input.ItemID).
			WithMetadata("direction", input.Direction).
			WithMetadata("quantity", input.Quantity.String()))
	return nil
}

func (s *PropertyService) ListHRRecords(ctx context.Context) ([]storage.HRRecord, error) {
	return s.store.ListHRRecords(ctx)
}

// CreateHRRecord adds a staff roster entry. An end date, when given, must
// not fall before the start date.
func (s *PropertyService) CreateHRRecord(ctx context.Context, rec storage.HRRecord) (string, error) {
	if rec.FullName == "" || rec.RoleTitle == "" {
		return "", fmt.Errorf("hr record needs a name and a role: %w", core.ErrEmptyDescription)
	}
	if rec.SalaryMonthly.IsNegative() {
		return "", fmt.Errorf("monthly salary %s: %w", rec.SalaryMonthly, core.ErrInvalidAmount)
	}
	if rec.StartDate.IsZero() {
		return "", fmt.Errorf("hr record needs a start date: %w", core.ErrInvalidDates)
	}
	if rec.EndDate != nil && rec.EndDate.Before(rec.StartDate.Time) {
		return "", fmt.Errorf("end date %s before start date %s: %w",
			rec.EndDate.Key(), rec.StartDate.Key(), core.ErrInvalidDates)
	}
	rec.SalaryMonthly = core.Round2(rec.SalaryMonthly)

	id, err := s.store.InsertHRRecord(ctx, rec)
	if err != nil {
		return "", err
	}
	publishActivity(ctx, s.pub, s.logger,
		amqp.NewActivityEvent("create", "hr_record", id).
			WithMetadata("role", rec.RoleTitle))
	return id, nil
}

func (s *PropertyService) ListCustomers(ctx context.Context) ([]core.Customer, error) {
	return s.store.ListCustomers(ctx)
}

var roomStatuses = map[string]bool{
	"available":   true,
	"occupied":    true,
	"maintenance": true,
}

// CreateRoomType registers a rate class for rooms.
func (s *PropertyService) CreateRoomType(ctx context.Context, rt storage.RoomType) (string, error) {
	if rt.Name == "" {
		return "", fmt.Errorf("room type needs a name: %w", core.ErrEmptyDescription)
	}
	if !rt.BaseRate.IsPositive() {
		return "", fmt.Errorf("base rate %s: %w", rt.BaseRate, core.ErrInvalidAmount)
	}
	if rt.MaxOccupancy < 0 {
		return "", fmt.Errorf("max occupancy %d: %w", rt.MaxOccupancy, core.ErrInvalidQuantity)
	}
	if rt.MaxOccupancy == 0 {
		rt.MaxOccupancy = 2
	}
	rt.BaseRate = core.Round2(rt.BaseRate)

	id, err := s.store.CreateRoomType(ctx, rt)
	if err != nil {
		return "", err
	}
	publishActivity(ctx, s.pub, s.logger,
		amqp.NewActivityEvent("create", "room_type", id).
			WithMetadata("name", rt.Name))
	return id, nil
}

func (s *PropertyService) ListRoomTypes(ctx context.Context) ([]storage.RoomType, error) {
	return s.store.ListRoomTypes(ctx)
}

// CreateRoom adds a bookable unit under an existing room type.
func (s *PropertyService) CreateRoom(ctx context.Context, rm storage.Room) (string, error) {
	if rm.RoomNumber == "" {
		return "", fmt.Errorf("room needs a number: %w", core.ErrEmptyDescription)
	}
	if rm.RoomTypeID == "" {
		return "", fmt.Errorf("room needs a room type")
	}
	if rm.Status == "" {
		rm.Status = "available"
	}
	if !roomStatuses[rm.Status] {
		return "", fmt.Errorf("room status %q: %w", rm.Status, core.ErrInvalidStatus)
	}
	if rm.RateOverride != nil {
		if !rm.RateOverride.IsPositive() {
			return "", fmt.Errorf("rate override %s: %w", rm.RateOverride, core.ErrInvalidAmount)
		}
		rounded := core.Round2(*rm.RateOverride)
		rm.RateOverride = &rounded
	}

	id, err := s.store.CreateRoom(ctx, rm)
	if err != nil {
		return "", err
	}
	publishActivity(ctx, s.pub, s.logger,
		amqp.NewActivityEvent("create", "room", id).
			WithMetadata("room_number", rm.RoomNumber))
	return id, nil
}

func (s *PropertyService) ListRooms(ctx context.Context) ([]storage.Room, error) {
	return s.store.ListRooms(ctx)
}
