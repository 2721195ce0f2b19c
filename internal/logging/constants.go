package logging

// Standardized field names for structured logging.
const (
	FieldRequestID = "request_id"
	FieldStage     = "stage"
	FieldCategory  = "category"
	FieldType      = "type"
	FieldAmount    = "amount"
	FieldProvider  = "provider"
	FieldModel     = "model"
	FieldStrategy  = "strategy"
	FieldReason    = "reason"
	FieldTerm      = "matched_term"
	FieldSource    = "source"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldCount     = "count"
	FieldAttempt   = "attempt"
	FieldInputFile = "input_file"
	FieldOutput    = "output_file"
)
