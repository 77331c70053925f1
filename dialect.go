package embedded

import (
	"encoding/hex"
	"strconv"
	"strings"
)

// Dialect writes the literal text understood by an engine's SQL parser.
type Dialect interface {
	// QuoteString returns s as an escaped, single-quoted string literal.
	QuoteString(s string) string
	// BlobLiteral returns b as a binary literal.
	BlobLiteral(b []byte) string
	// HexBlobLiteral returns a binary literal from already validated hex text.
	HexBlobLiteral(hexText string) string
	// TypedLiteral prefixes or casts a quoted literal to type t.
	TypedLiteral(t Type, quoted string) string
	// CallText returns the statement that executes prepared statement id.
	CallText(id int, literals []string) string
}

// DefaultDialect writes backslash-escaped strings, blob '<HEX>' binaries,
// type-name prefixed literals and "execute <id>(...);" calls.
var DefaultDialect Dialect = defaultDialect{}

type defaultDialect struct{}

var backslashEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func (defaultDialect) QuoteString(s string) string {
	return "'" + backslashEscaper.Replace(s) + "'"
}

func (defaultDialect) BlobLiteral(b []byte) string {
	return "blob '" + strings.ToUpper(hex.EncodeToString(b)) + "'"
}

func (defaultDialect) HexBlobLiteral(hexText string) string {
	return "blob '" + hexText + "'"
}

func (defaultDialect) TypedLiteral(t Type, quoted string) string {
	return t.String() + " " + quoted
}

func (defaultDialect) CallText(id int, literals []string) string {
	var b strings.Builder
	b.Grow(12 + 12*len(literals))
	b.WriteString("execute ")
	b.WriteString(strconv.Itoa(id))
	b.WriteByte('(')
	b.WriteString(strings.Join(literals, ","))
	b.WriteString(");")
	return b.String()
}
