package embedded

import (
	"strings"
)

// Type is the engine type class of a result column or statement slot.
type Type int

// The first nineteen codes follow the engine's own type ordinals and are the
// target codes accepted by BindObject.
const (
	TypeBoolean Type = iota
	TypeChar
	TypeVarchar
	TypeClob
	TypeTinyint
	TypeSmallint
	TypeInt
	TypeBigint
	TypeDecimal
	TypeReal
	TypeDouble
	TypeMonthInterval
	TypeSecInterval
	TypeTime
	TypeTimeTZ
	TypeDate
	TypeTimestamp
	TypeTimestampTZ
	TypeBlob

	// String-class specializations. Strings bound to them carry a type prefix.
	TypeURL
	TypeInet
	TypeJSON
	TypeUUID

	TypeHugeint
	TypeUnknown
)

var typeNames = [...]string{
	TypeBoolean:       "boolean",
	TypeChar:          "char",
	TypeVarchar:       "varchar",
	TypeClob:          "clob",
	TypeTinyint:       "tinyint",
	TypeSmallint:      "smallint",
	TypeInt:           "int",
	TypeBigint:        "bigint",
	TypeDecimal:       "decimal",
	TypeReal:          "real",
	TypeDouble:        "double",
	TypeMonthInterval: "month_interval",
	TypeSecInterval:   "sec_interval",
	TypeTime:          "time",
	TypeTimeTZ:        "timetz",
	TypeDate:          "date",
	TypeTimestamp:     "timestamp",
	TypeTimestampTZ:   "timestamptz",
	TypeBlob:          "blob",
	TypeURL:           "url",
	TypeInet:          "inet",
	TypeJSON:          "json",
	TypeUUID:          "uuid",
	TypeHugeint:       "hugeint",
	TypeUnknown:       "unknown",
}

// String returns the engine type name.
func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// IsString reports whether values of t are bound as quoted strings.
func (t Type) IsString() bool {
	switch t {
	case TypeChar, TypeVarchar, TypeClob, TypeURL, TypeInet, TypeJSON, TypeUUID, TypeUnknown:
		return true
	}
	return false
}

// IsInteger reports whether t is stored as a fixed-width integer.
func (t Type) IsInteger() bool {
	switch t {
	case TypeTinyint, TypeSmallint, TypeInt, TypeBigint, TypeMonthInterval, TypeSecInterval:
		return true
	}
	return false
}

// IsNumeric reports whether t accepts numeric literals.
func (t Type) IsNumeric() bool {
	switch t {
	case TypeDecimal, TypeReal, TypeDouble, TypeHugeint:
		return true
	}
	return t.IsInteger()
}

// IsTemporal reports whether t is a date, time or timestamp type.
func (t Type) IsTemporal() bool {
	switch t {
	case TypeDate, TypeTime, TypeTimeTZ, TypeTimestamp, TypeTimestampTZ:
		return true
	}
	return false
}

// HasTimeZone reports whether t is one of the timezone-aware temporal types.
func (t Type) HasTimeZone() bool {
	return t == TypeTimeTZ || t == TypeTimestampTZ
}

// IsSigned reports whether numbers of type t carry a sign.
func (t Type) IsSigned() bool {
	return t.IsNumeric()
}

// IsCaseSensitive reports whether comparisons on t are case sensitive.
func (t Type) IsCaseSensitive() bool {
	switch t {
	case TypeChar, TypeVarchar, TypeClob, TypeURL, TypeJSON:
		return true
	}
	return false
}

// GoTypeName returns the name of the Go type that the typed accessors of a
// column of type t hand out.
func (t Type) GoTypeName() string {
	switch t {
	case TypeBoolean:
		return "bool"
	case TypeTinyint:
		return "int8"
	case TypeSmallint:
		return "int16"
	case TypeInt, TypeMonthInterval:
		return "int32"
	case TypeBigint, TypeSecInterval:
		return "int64"
	case TypeReal:
		return "float32"
	case TypeDouble:
		return "float64"
	case TypeDecimal:
		return "decimal.Decimal"
	case TypeDate, TypeTime, TypeTimeTZ, TypeTimestamp, TypeTimestampTZ:
		return "time.Time"
	case TypeBlob:
		return "[]byte"
	}
	return "string"
}

var typeAliases = map[string]Type{
	"bool":                        TypeBoolean,
	"boolean":                     TypeBoolean,
	"logical":                     TypeBoolean,
	"char":                        TypeChar,
	"character":                   TypeChar,
	"bpchar":                      TypeChar,
	"varchar":                     TypeVarchar,
	"character varying":           TypeVarchar,
	"string":                      TypeVarchar,
	"text":                        TypeVarchar,
	"clob":                        TypeClob,
	"tinyint":                     TypeTinyint,
	"int1":                        TypeTinyint,
	"utinyint":                    TypeSmallint,
	"smallint":                    TypeSmallint,
	"int2":                        TypeSmallint,
	"short":                       TypeSmallint,
	"usmallint":                   TypeInt,
	"int":                         TypeInt,
	"integer":                     TypeInt,
	"int4":                        TypeInt,
	"signed":                      TypeInt,
	"uinteger":                    TypeBigint,
	"bigint":                      TypeBigint,
	"int8":                        TypeBigint,
	"long":                        TypeBigint,
	"oid":                         TypeBigint,
	"ubigint":                     TypeHugeint,
	"hugeint":                     TypeHugeint,
	"int128":                      TypeHugeint,
	"uhugeint":                    TypeHugeint,
	"decimal":                     TypeDecimal,
	"numeric":                     TypeDecimal,
	"dec":                         TypeDecimal,
	"real":                        TypeReal,
	"float":                       TypeReal,
	"float4":                      TypeReal,
	"double":                      TypeDouble,
	"double precision":            TypeDouble,
	"float8":                      TypeDouble,
	"month_interval":              TypeMonthInterval,
	"sec_interval":                TypeSecInterval,
	"interval":                    TypeSecInterval,
	"time":                        TypeTime,
	"timetz":                      TypeTimeTZ,
	"time with time zone":         TypeTimeTZ,
	"date":                        TypeDate,
	"timestamp":                   TypeTimestamp,
	"datetime":                    TypeTimestamp,
	"timestamp_s":                 TypeTimestamp,
	"timestamp_ms":                TypeTimestamp,
	"timestamp_ns":                TypeTimestamp,
	"timestamp_us":                TypeTimestamp,
	"timestamptz":                 TypeTimestampTZ,
	"timestamp with time zone":    TypeTimestampTZ,
	"blob":                        TypeBlob,
	"bytea":                       TypeBlob,
	"binary":                      TypeBlob,
	"varbinary":                   TypeBlob,
	"url":                         TypeURL,
	"inet":                        TypeInet,
	"json":                        TypeJSON,
	"uuid":                        TypeUUID,
	"time without time zone":      TypeTime,
	"timestamp without time zone": TypeTimestamp,
}

// TypeFromName maps an engine type name, such as "int", "DECIMAL(18,3)" or
// "TIMESTAMP WITH TIME ZONE", to its Type. Unknown names map to TypeUnknown.
func TypeFromName(name string) Type {
	n := strings.ToLower(strings.TrimSpace(name))
	if i := strings.IndexByte(n, '('); i >= 0 {
		n = strings.TrimSpace(n[:i])
	}
	if t, ok := typeAliases[n]; ok {
		return t
	}
	return TypeUnknown
}
