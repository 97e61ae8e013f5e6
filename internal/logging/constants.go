package logging

// Field names shared by every component so log lines can be filtered
// consistently.
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldRunID     = "run_id"
	FieldSeq       = "seq"
	FieldSource    = "source"
	FieldWalletID  = "wallet_id"
	FieldPeriod    = "period"
	FieldCurrency  = "currency"
	FieldEndpoint  = "endpoint"
	FieldStatus    = "status"
	FieldCount     = "count"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldFile      = "file_path"
	FieldFormat    = "format"
)
