package logging

// Standard field names so log output can be filtered consistently.
const (
	FieldUser       = "user_id"
	FieldFile       = "file_path"
	FieldFileID     = "file_id"
	FieldSource     = "source"
	FieldCollection = "collection"
	FieldCategory   = "category"
	FieldStrategy   = "strategy"
	FieldRow        = "row"
	FieldReason     = "reason"
	FieldOperation  = "operation"
	FieldStatus     = "status"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldEndpoint   = "endpoint"
)
