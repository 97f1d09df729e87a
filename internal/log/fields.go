package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldRangeFrom     = "range_from"
	FieldRangeTo       = "range_to"
	FieldInvoiceNo     = "invoice_no"
	FieldReservationID = "reservation_id"
	FieldCustomerID    = "customer_id"
	FieldAmount        = "amount"
	FieldCategory      = "category"
	FieldAction        = "action"
	FieldEntity        = "entity"
	FieldEntityID      = "entity_id"
	FieldSections      = "sections"
	FieldRowCount      = "row_count"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentReports   = "reports"
	ComponentBilling   = "billing"
	ComponentExport    = "export"
	ComponentCache     = "cache"
	ComponentSecurity  = "security"
	ComponentRateLimit = "rate_limit"
	ComponentTrace     = "trace"
)
