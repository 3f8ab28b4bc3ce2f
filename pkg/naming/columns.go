package naming

// Columns of a raw table, shared by every destination.
const (
	ColumnABID      = "_airbyte_ab_id"
	ColumnData      = "_airbyte_data"
	ColumnEmittedAt = "_airbyte_emitted_at"
)
