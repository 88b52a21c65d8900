package internal

import (
	"github.com/datastrand/schematic"
)

// MapColumnTypeToPostgres maps a schematic.ColumnType to a PostgreSQL type
// name. The mapping is fixed; unknown types are rejected at document
// construction, so the false case is unreachable for bound documents.
func MapColumnTypeToPostgres(t schematic.ColumnType) (string, bool) {
	switch t {
	case schematic.ColumnTypeInteger:
		return "INTEGER", true
	case schematic.ColumnTypeBigInt:
		return "BIGINT", true
	case schematic.ColumnTypeText:
		return "TEXT", true
	case schematic.ColumnTypeBoolean:
		return "BOOLEAN", true
	case schematic.ColumnTypeTimestamp:
		return "TIMESTAMPTZ", true
	case schematic.ColumnTypeJSONB:
		return "JSONB", true
	case schematic.ColumnTypeUUID:
		return "UUID", true
	case schematic.ColumnTypeNumeric:
		return "NUMERIC", true
	default:
		return "", false
	}
}
