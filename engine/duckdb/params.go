package duckdb

import (
	ddb "github.com/duckdb/duckdb-go/v2"

	embedded "github.com/semihalev/go-duckdb-embedded"
)

// The driver reports no width for decimal parameters, so values bound to
// them are rounded to this scale and only checked against DuckDB's widest
// decimal.
const (
	decimalParamDigits = 38
	decimalParamScale  = 9
)

var paramTypeNames = map[ddb.Type]string{
	ddb.TYPE_BOOLEAN:      "boolean",
	ddb.TYPE_TINYINT:      "tinyint",
	ddb.TYPE_SMALLINT:     "smallint",
	ddb.TYPE_INTEGER:      "int",
	ddb.TYPE_BIGINT:       "bigint",
	ddb.TYPE_UTINYINT:     "smallint",
	ddb.TYPE_USMALLINT:    "int",
	ddb.TYPE_UINTEGER:     "bigint",
	ddb.TYPE_UBIGINT:      "hugeint",
	ddb.TYPE_HUGEINT:      "hugeint",
	ddb.TYPE_FLOAT:        "real",
	ddb.TYPE_DOUBLE:       "double",
	ddb.TYPE_DECIMAL:      "decimal",
	ddb.TYPE_VARCHAR:      "varchar",
	ddb.TYPE_BLOB:         "blob",
	ddb.TYPE_DATE:         "date",
	ddb.TYPE_TIME:         "time",
	ddb.TYPE_TIME_TZ:      "timetz",
	ddb.TYPE_TIMESTAMP:    "timestamp",
	ddb.TYPE_TIMESTAMP_S:  "timestamp",
	ddb.TYPE_TIMESTAMP_MS: "timestamp",
	ddb.TYPE_TIMESTAMP_NS: "timestamp",
	ddb.TYPE_TIMESTAMP_TZ: "timestamptz",
	ddb.TYPE_INTERVAL:     "varchar",
	ddb.TYPE_UUID:         "uuid",
}

// slotFromType describes a parameter of DuckDB type t. Parameters whose
// type DuckDB cannot infer are treated as text.
func slotFromType(t ddb.Type) embedded.SlotMeta {
	name, ok := paramTypeNames[t]
	if !ok {
		return embedded.SlotMeta{TypeName: "varchar"}
	}
	slot := embedded.SlotMeta{TypeName: name}
	if t == ddb.TYPE_DECIMAL {
		slot.Digits, slot.Scale = decimalParamDigits, decimalParamScale
	}
	return slot
}
