package logger

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldWidget     = "widget"
	FieldSlot       = "slot"
	FieldPeriod     = "period"
	FieldToken      = "token"
	FieldSeq        = "seq"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldRequestID  = "request_id"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldError      = "error"
	FieldErrorKind  = "error_kind"
	FieldRecordID   = "record_id"
)

const (
	ComponentApp       = "app"
	ComponentRecords   = "records"
	ComponentDashboard = "dashboard"
	ComponentStorage   = "storage"
	ComponentTUI       = "tui"
)
