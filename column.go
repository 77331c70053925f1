package embedded

import (
	"time"

	"github.com/shopspring/decimal"
)

// ColumnBuffer is one column of a result: a dense typed array with a null
// channel. Rows are addressed from 0 here; ResultSet translates the 1-based
// indices of its public API. Buffers are immutable once built.
type ColumnBuffer interface {
	// Type returns the type class of the stored values.
	Type() Type
	// Len returns the number of rows.
	Len() int
	// IsNull reports whether row holds SQL NULL.
	IsNull(row int) bool
	// Value returns row as a Go value, or nil for NULL.
	Value(row int) interface{}
}

// NumericBuffer holds a fixed-width integer or floating point column. NULL
// rows hold the type's null sentinel in Data; when the engine reported nulls
// out of band the mask is kept too and takes precedence in IsNull.
type NumericBuffer[T numeric] struct {
	typ   Type
	data  []T
	nulls []bool
}

func newNumericBuffer[T numeric](typ Type, data []T, nulls []bool) *NumericBuffer[T] {
	if len(nulls) > 0 {
		stampNulls(data, nulls, nullOf[T]())
	}
	return &NumericBuffer[T]{typ: typ, data: data, nulls: nulls}
}

// NewInt8Buffer builds a tinyint column. nulls may be nil when data already
// carries sentinels.
func NewInt8Buffer(data []int8, nulls []bool) *NumericBuffer[int8] {
	return newNumericBuffer(TypeTinyint, data, nulls)
}

// NewInt16Buffer builds a smallint column.
func NewInt16Buffer(data []int16, nulls []bool) *NumericBuffer[int16] {
	return newNumericBuffer(TypeSmallint, data, nulls)
}

// NewInt32Buffer builds an int column, or a month interval column when typ is TypeMonthInterval.
func NewInt32Buffer(typ Type, data []int32, nulls []bool) *NumericBuffer[int32] {
	return newNumericBuffer(typ, data, nulls)
}

// NewInt64Buffer builds a bigint column, or a second interval column when typ is TypeSecInterval.
func NewInt64Buffer(typ Type, data []int64, nulls []bool) *NumericBuffer[int64] {
	return newNumericBuffer(typ, data, nulls)
}

// NewFloat32Buffer builds a real column.
func NewFloat32Buffer(data []float32, nulls []bool) *NumericBuffer[float32] {
	return newNumericBuffer(TypeReal, data, nulls)
}

// NewFloat64Buffer builds a double column.
func NewFloat64Buffer(data []float64, nulls []bool) *NumericBuffer[float64] {
	return newNumericBuffer(TypeDouble, data, nulls)
}

func (b *NumericBuffer[T]) Type() Type { return b.typ }
func (b *NumericBuffer[T]) Len() int   { return len(b.data) }

func (b *NumericBuffer[T]) IsNull(row int) bool {
	if b.nulls != nil {
		return b.nulls[row]
	}
	return isNullValue(b.data[row])
}

func (b *NumericBuffer[T]) Value(row int) interface{} {
	if b.IsNull(row) {
		return nil
	}
	return b.data[row]
}

// BoolBuffer holds a boolean column with an explicit null mask.
type BoolBuffer struct {
	data  []bool
	nulls []bool
}

// NewBoolBuffer builds a boolean column. nulls may be nil.
func NewBoolBuffer(data, nulls []bool) *BoolBuffer {
	return &BoolBuffer{data: data, nulls: nulls}
}

func (b *BoolBuffer) Type() Type          { return TypeBoolean }
func (b *BoolBuffer) Len() int            { return len(b.data) }
func (b *BoolBuffer) IsNull(row int) bool { return b.nulls != nil && b.nulls[row] }

func (b *BoolBuffer) Value(row int) interface{} {
	if b.IsNull(row) {
		return nil
	}
	return b.data[row]
}

// StringBuffer holds a character column, or any column the engine hands
// over as text.
type StringBuffer struct {
	typ   Type
	data  []string
	nulls []bool
}

// NewStringBuffer builds a string-class column of type typ. nulls may be nil.
func NewStringBuffer(typ Type, data []string, nulls []bool) *StringBuffer {
	return &StringBuffer{typ: typ, data: data, nulls: nulls}
}

func (b *StringBuffer) Type() Type          { return b.typ }
func (b *StringBuffer) Len() int            { return len(b.data) }
func (b *StringBuffer) IsNull(row int) bool { return b.nulls != nil && b.nulls[row] }

func (b *StringBuffer) Value(row int) interface{} {
	if b.IsNull(row) {
		return nil
	}
	return b.data[row]
}

// DecimalBuffer holds a fixed point column.
type DecimalBuffer struct {
	data   []decimal.Decimal
	nulls  []bool
	digits int
	scale  int
}

// NewDecimalBuffer builds a decimal column with the given precision and scale.
func NewDecimalBuffer(data []decimal.Decimal, nulls []bool, digits, scale int) *DecimalBuffer {
	return &DecimalBuffer{data: data, nulls: nulls, digits: digits, scale: scale}
}

func (b *DecimalBuffer) Type() Type          { return TypeDecimal }
func (b *DecimalBuffer) Len() int            { return len(b.data) }
func (b *DecimalBuffer) IsNull(row int) bool { return b.nulls != nil && b.nulls[row] }
func (b *DecimalBuffer) Digits() int         { return b.digits }
func (b *DecimalBuffer) Scale() int          { return b.scale }

func (b *DecimalBuffer) Value(row int) interface{} {
	if b.IsNull(row) {
		return nil
	}
	return b.data[row]
}

// TemporalBuffer holds a date, time or timestamp column.
type TemporalBuffer struct {
	typ   Type
	data  []time.Time
	nulls []bool
}

// NewTemporalBuffer builds a temporal column of type typ. nulls may be nil.
func NewTemporalBuffer(typ Type, data []time.Time, nulls []bool) *TemporalBuffer {
	return &TemporalBuffer{typ: typ, data: data, nulls: nulls}
}

func (b *TemporalBuffer) Type() Type          { return b.typ }
func (b *TemporalBuffer) Len() int            { return len(b.data) }
func (b *TemporalBuffer) IsNull(row int) bool { return b.nulls != nil && b.nulls[row] }

func (b *TemporalBuffer) Value(row int) interface{} {
	if b.IsNull(row) {
		return nil
	}
	return b.data[row]
}

// BlobBuffer holds a binary column. A nil entry is NULL.
type BlobBuffer struct {
	data [][]byte
}

// NewBlobBuffer builds a blob column.
func NewBlobBuffer(data [][]byte) *BlobBuffer {
	return &BlobBuffer{data: data}
}

func (b *BlobBuffer) Type() Type          { return TypeBlob }
func (b *BlobBuffer) Len() int            { return len(b.data) }
func (b *BlobBuffer) IsNull(row int) bool { return b.data[row] == nil }

func (b *BlobBuffer) Value(row int) interface{} {
	if b.data[row] == nil {
		return nil
	}
	return append([]byte{}, b.data[row]...)
}
