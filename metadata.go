package embedded

import (
	"strings"
)

// ParameterInfo describes one parameter of a prepared statement.
type ParameterInfo struct {
	Type     Type
	TypeName string
	Digits   int
	Scale    int
}

// IsSigned reports whether the parameter takes signed numbers.
func (p ParameterInfo) IsSigned() bool { return p.Type.IsSigned() }

// GoTypeName returns the Go type best matching the parameter.
func (p ParameterInfo) GoTypeName() string { return p.Type.GoTypeName() }

// ParameterMetadata is a read-only view of the parameters of a prepared statement.
type ParameterMetadata struct {
	params []ParameterInfo
}

// Count returns the number of parameters.
func (m ParameterMetadata) Count() int { return len(m.params) }

// Parameter returns parameter i, counting from 1.
func (m ParameterMetadata) Parameter(i int) (ParameterInfo, error) {
	if i < 1 || i > len(m.params) {
		return ParameterInfo{}, newErrorf(ParameterNotFound, "no such parameter with index: %d", i)
	}
	return m.params[i-1], nil
}

// ColumnInfo describes one result column.
type ColumnInfo struct {
	Name     string
	Type     Type
	TypeName string
	Digits   int
	Scale    int
	Schema   string
	Table    string
}

// IsSigned reports whether the column holds signed numbers.
func (c ColumnInfo) IsSigned() bool { return c.Type.IsSigned() }

// IsCaseSensitive reports whether the column compares case sensitively.
func (c ColumnInfo) IsCaseSensitive() bool { return c.Type.IsCaseSensitive() }

// GoTypeName returns the Go type handed out for values of the column.
func (c ColumnInfo) GoTypeName() string { return c.Type.GoTypeName() }

// ResultMetadata is a read-only view of result columns, shared by result
// sets and prepared statements.
type ResultMetadata struct {
	columns []ColumnInfo
}

// Count returns the number of columns.
func (m ResultMetadata) Count() int { return len(m.columns) }

// Column returns column i, counting from 1.
func (m ResultMetadata) Column(i int) (ColumnInfo, error) {
	if i < 1 || i > len(m.columns) {
		return ColumnInfo{}, newErrorf(ColumnNotFound, "no such column with index: %d", i)
	}
	return m.columns[i-1], nil
}

// ColumnIndex returns the 1-based position of the column called name.
// Names are matched case-insensitively.
func (m ResultMetadata) ColumnIndex(name string) (int, error) {
	for i, c := range m.columns {
		if strings.EqualFold(c.Name, name) {
			return i + 1, nil
		}
	}
	return 0, newErrorf(ColumnNotFound, "no such column: %s", name)
}

func columnInfoFromMeta(m ColumnMeta) ColumnInfo {
	return ColumnInfo{
		Name:     m.Name,
		Type:     TypeFromName(m.TypeName),
		TypeName: m.TypeName,
		Digits:   m.Digits,
		Scale:    m.Scale,
		Schema:   m.Schema,
		Table:    m.Table,
	}
}
