package duckdb

import (
	"encoding/hex"
	"strconv"
	"strings"

	embedded "github.com/semihalev/go-duckdb-embedded"
)

// Dialect writes literals the way DuckDB parses them: standard SQL string
// escaping, '\xNN' blob strings, casts instead of type prefixes and
// EXECUTE calls on named prepared statements.
var Dialect embedded.Dialect = dialect{}

type dialect struct{}

func (dialect) QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (dialect) BlobLiteral(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b)*4 + 10)
	sb.WriteByte('\'')
	const digits = "0123456789ABCDEF"
	for _, c := range b {
		sb.WriteString(`\x`)
		sb.WriteByte(digits[c>>4])
		sb.WriteByte(digits[c&0x0f])
	}
	sb.WriteString("'::BLOB")
	return sb.String()
}

func (d dialect) HexBlobLiteral(hexText string) string {
	b, err := hex.DecodeString(hexText)
	if err != nil {
		// callers validate the text first
		return "NULL"
	}
	return d.BlobLiteral(b)
}

var castNames = map[embedded.Type]string{
	embedded.TypeDate:        "DATE",
	embedded.TypeTime:        "TIME",
	embedded.TypeTimeTZ:      "TIMETZ",
	embedded.TypeTimestamp:   "TIMESTAMP",
	embedded.TypeTimestampTZ: "TIMESTAMPTZ",
	embedded.TypeUUID:        "UUID",
	embedded.TypeJSON:        "JSON",
}

func (dialect) TypedLiteral(t embedded.Type, quoted string) string {
	if name, ok := castNames[t]; ok {
		return quoted + "::" + name
	}
	return quoted
}

func (dialect) CallText(id int, literals []string) string {
	if len(literals) == 0 {
		return "EXECUTE " + statementName(id)
	}
	return "EXECUTE " + statementName(id) + "(" + strings.Join(literals, ", ") + ")"
}

func statementName(id int) string {
	return "embedded_" + strconv.Itoa(id)
}
