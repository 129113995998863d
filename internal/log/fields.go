package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldPerson      = "person"
	FieldAmountCents = "amount_cents"
	FieldItemCount   = "item_count"
	FieldChargeRef   = "charge_ref"
	FieldPaymentRef  = "payment_ref"
	FieldTab         = "tab"
	FieldKind        = "kind"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentSession = "session"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentCache   = "cache"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpCharge   = "charge"
	OpSettle   = "settle"
	OpPayment  = "payment"
	OpReload   = "reload"
	OpSync     = "sync"
	OpList     = "list"
	OpAppend   = "append"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
