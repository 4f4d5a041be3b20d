package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldIntent      = "intent"
	FieldReason      = "reason"
	FieldItemName    = "item_name"
	FieldQuantity    = "quantity"
	FieldAmountCents = "amount_cents"
	FieldStore       = "store"
	FieldMonthKey    = "month_key"
	FieldBackend     = "backend"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentChat    = "chat"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentSession = "session"
	ComponentCache   = "cache"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpAdd       = "add"
	OpRemove    = "remove"
	OpUpdate    = "update"
	OpParse     = "parse"
	OpRespond   = "respond"
	OpCloseWeek = "close_week"
	OpRollover  = "rollover"
	OpLoad      = "load"
	OpSave      = "save"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
