package embedded

import (
	"database/sql"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// ResultSet is the columnar result of a query. Columns and rows are
// addressed from 1. Primitive accessors report NULL through the sentinels of
// nulls.go; object accessors use sql.NullString, sql.NullTime,
// decimal.NullDecimal and nil byte slices.
//
// Once closed, every data and metadata accessor fails with
// ErrResultSetClosed. RowCount and ColumnCount stay available.
type ResultSet struct {
	mu      sync.RWMutex
	closed  bool
	conn    *Connection
	rows    int
	columns []ColumnInfo
	buffers []ColumnBuffer
	release func()
}

func newResultSet(conn *Connection, r *EngineResult) *ResultSet {
	rs := &ResultSet{
		conn:    conn,
		rows:    r.RowCount(),
		columns: make([]ColumnInfo, len(r.Columns)),
		buffers: r.Buffers,
		release: r.Release,
	}
	for i, m := range r.Columns {
		rs.columns[i] = columnInfoFromMeta(m)
	}
	return rs
}

// RowCount returns the number of rows.
func (rs *ResultSet) RowCount() int { return rs.rows }

// ColumnCount returns the number of columns.
func (rs *ResultSet) ColumnCount() int { return len(rs.columns) }

// IsClosed reports whether Close was called.
func (rs *ResultSet) IsClosed() bool {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.closed
}

// Close releases the column buffers. It is safe to call more than once.
func (rs *ResultSet) Close() error {
	rs.mu.Lock()
	if rs.closed {
		rs.mu.Unlock()
		return nil
	}
	rs.closed = true
	release := rs.release
	rs.release = nil
	rs.buffers = nil
	rs.mu.Unlock()

	if release != nil {
		release()
	}
	if rs.conn != nil {
		rs.conn.forgetResult(rs)
	}
	return nil
}

func (rs *ResultSet) checkOpen() error {
	if rs.closed {
		return NewError(ResultSetClosed, "result set is closed")
	}
	return nil
}

// bufferLocked returns column col. The caller holds rs.mu.
func (rs *ResultSet) bufferLocked(col int) (ColumnBuffer, error) {
	if err := rs.checkOpen(); err != nil {
		return nil, err
	}
	if col < 1 || col > len(rs.buffers) {
		return nil, newErrorf(ColumnNotFound, "no such column with index: %d", col)
	}
	return rs.buffers[col-1], nil
}

func (rs *ResultSet) checkRows(first, n int) error {
	if first < 1 || n < 0 || first-1+n > rs.rows {
		return newErrorf(IndexOutOfRange, "rows %d to %d are outside the result of %d rows", first, first+n-1, rs.rows)
	}
	return nil
}

// Metadata returns the description of all columns.
func (rs *ResultSet) Metadata() (ResultMetadata, error) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	if err := rs.checkOpen(); err != nil {
		return ResultMetadata{}, err
	}
	cols := make([]ColumnInfo, len(rs.columns))
	copy(cols, rs.columns)
	return ResultMetadata{columns: cols}, nil
}

// ColumnIndex returns the 1-based position of the column called name.
func (rs *ResultSet) ColumnIndex(name string) (int, error) {
	md, err := rs.Metadata()
	if err != nil {
		return 0, err
	}
	return md.ColumnIndex(name)
}

func metaColumn[T any](rs *ResultSet, get func(ColumnInfo) T) ([]T, error) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	if err := rs.checkOpen(); err != nil {
		return nil, err
	}
	out := make([]T, len(rs.columns))
	for i, c := range rs.columns {
		out[i] = get(c)
	}
	return out, nil
}

// ColumnNames returns the column names in column order.
func (rs *ResultSet) ColumnNames() ([]string, error) {
	return metaColumn(rs, func(c ColumnInfo) string { return c.Name })
}

// ColumnTypes returns the engine type names in column order.
func (rs *ResultSet) ColumnTypes() ([]string, error) {
	return metaColumn(rs, func(c ColumnInfo) string { return c.TypeName })
}

// ColumnDigits returns the precision of each column.
func (rs *ResultSet) ColumnDigits() ([]int, error) {
	return metaColumn(rs, func(c ColumnInfo) int { return c.Digits })
}

// ColumnScales returns the scale of each column.
func (rs *ResultSet) ColumnScales() ([]int, error) {
	return metaColumn(rs, func(c ColumnInfo) int { return c.Scale })
}

// ColumnSchemas returns the schema each column was read from.
func (rs *ResultSet) ColumnSchemas() ([]string, error) {
	return metaColumn(rs, func(c ColumnInfo) string { return c.Schema })
}

// ColumnTables returns the table each column was read from.
func (rs *ResultSet) ColumnTables() ([]string, error) {
	return metaColumn(rs, func(c ColumnInfo) string { return c.Table })
}

// A converter, func(ColumnBuffer) (func(row int) T, bool), returns a row
// reader for the buffers it can convert to T.

func readRange[T any](rs *ResultSet, col, first int, dst []T, conv func(ColumnBuffer) (func(int) T, bool), want string) error {
	return read(rs, col, first, dst, conv, want, false)
}

func read[T any](rs *ResultSet, col, first int, dst []T, conv func(ColumnBuffer) (func(int) T, bool), want string, whole bool) error {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	b, err := rs.bufferLocked(col)
	if err != nil {
		return err
	}
	if whole && len(dst) != rs.rows {
		return newErrorf(IndexOutOfRange, "destination holds %d values, the result has %d rows", len(dst), rs.rows)
	}
	if err := rs.checkRows(first, len(dst)); err != nil {
		return err
	}
	get, ok := conv(b)
	if !ok {
		return rs.conversionError(col, want)
	}
	for i := range dst {
		dst[i] = get(first - 1 + i)
	}
	return nil
}

func readColumn[T any](rs *ResultSet, col int, dst []T, conv func(ColumnBuffer) (func(int) T, bool), want string) error {
	return read(rs, col, 1, dst, conv, want, true)
}

func readCell[T any](rs *ResultSet, col, row int, conv func(ColumnBuffer) (func(int) T, bool), want string) (T, error) {
	var v [1]T
	err := readRange(rs, col, row, v[:], conv, want)
	return v[0], err
}

func (rs *ResultSet) conversionError(col int, want string) error {
	var c ColumnInfo
	if col <= len(rs.columns) {
		c = rs.columns[col-1]
	}
	return newErrorf(UnsupportedConversion, "column %d (%s %s) cannot be read as %s", col, c.Name, c.TypeName, want)
}

// intReader reads integer buffers no wider than maxBits, widening null
// sentinels to NullInt64.
func intReader(b ColumnBuffer, maxBits int) (func(int) int64, bool) {
	switch c := b.(type) {
	case *NumericBuffer[int8]:
		return func(r int) int64 {
			if c.IsNull(r) {
				return NullInt64
			}
			return int64(c.data[r])
		}, true
	case *NumericBuffer[int16]:
		if maxBits < 16 {
			return nil, false
		}
		return func(r int) int64 {
			if c.IsNull(r) {
				return NullInt64
			}
			return int64(c.data[r])
		}, true
	case *NumericBuffer[int32]:
		if maxBits < 32 {
			return nil, false
		}
		return func(r int) int64 {
			if c.IsNull(r) {
				return NullInt64
			}
			return int64(c.data[r])
		}, true
	case *NumericBuffer[int64]:
		if maxBits < 64 {
			return nil, false
		}
		return func(r int) int64 {
			if c.IsNull(r) {
				return NullInt64
			}
			return c.data[r]
		}, true
	}
	return nil, false
}

func narrowInt[T int8 | int16 | int32](bits int, null T) func(ColumnBuffer) (func(int) T, bool) {
	return func(b ColumnBuffer) (func(int) T, bool) {
		get, ok := intReader(b, bits)
		if !ok {
			return nil, false
		}
		return func(r int) T {
			v := get(r)
			if v == NullInt64 {
				return null
			}
			return T(v)
		}, true
	}
}

var (
	int8Conv  = narrowInt[int8](8, NullInt8)
	int16Conv = narrowInt[int16](16, NullInt16)
	int32Conv = narrowInt[int32](32, NullInt32)
)

func int64Conv(b ColumnBuffer) (func(int) int64, bool) {
	return intReader(b, 64)
}

func float32Conv(b ColumnBuffer) (func(int) float32, bool) {
	c, ok := b.(*NumericBuffer[float32])
	if !ok {
		return nil, false
	}
	return func(r int) float32 {
		if c.IsNull(r) {
			return NullFloat32
		}
		return c.data[r]
	}, true
}

func float64Conv(b ColumnBuffer) (func(int) float64, bool) {
	switch c := b.(type) {
	case *NumericBuffer[float64]:
		return func(r int) float64 {
			if c.IsNull(r) {
				return NullFloat64
			}
			return c.data[r]
		}, true
	case *NumericBuffer[float32]:
		return func(r int) float64 {
			if c.IsNull(r) {
				return NullFloat64
			}
			return float64(c.data[r])
		}, true
	}
	get, ok := intReader(b, 64)
	if !ok {
		return nil, false
	}
	return func(r int) float64 {
		if b.IsNull(r) {
			return NullFloat64
		}
		return float64(get(r))
	}, true
}

func boolConv(b ColumnBuffer) (func(int) bool, bool) {
	c, ok := b.(*BoolBuffer)
	if !ok {
		return nil, false
	}
	return func(r int) bool { return c.data[r] }, true
}

func nullConv(b ColumnBuffer) (func(int) bool, bool) {
	return b.IsNull, true
}

func stringConv(b ColumnBuffer) (func(int) sql.NullString, bool) {
	return func(r int) sql.NullString {
		if b.IsNull(r) {
			return sql.NullString{}
		}
		return sql.NullString{String: formatCell(b, r), Valid: true}
	}, true
}

func decimalConv(b ColumnBuffer) (func(int) decimal.NullDecimal, bool) {
	if c, ok := b.(*DecimalBuffer); ok {
		return func(r int) decimal.NullDecimal {
			if c.IsNull(r) {
				return decimal.NullDecimal{}
			}
			return decimal.NullDecimal{Decimal: c.data[r], Valid: true}
		}, true
	}
	get, ok := intReader(b, 64)
	if !ok {
		return nil, false
	}
	return func(r int) decimal.NullDecimal {
		if b.IsNull(r) {
			return decimal.NullDecimal{}
		}
		return decimal.NullDecimal{Decimal: decimal.NewFromInt(get(r)), Valid: true}
	}, true
}

func temporalConv(truncate bool) func(ColumnBuffer) (func(int) sql.NullTime, bool) {
	return func(b ColumnBuffer) (func(int) sql.NullTime, bool) {
		c, ok := b.(*TemporalBuffer)
		if !ok {
			return nil, false
		}
		return func(r int) sql.NullTime {
			if c.IsNull(r) {
				return sql.NullTime{}
			}
			t := c.data[r]
			if truncate {
				y, m, d := t.Date()
				t = time.Date(y, m, d, 0, 0, 0, 0, t.Location())
			}
			return sql.NullTime{Time: t, Valid: true}
		}, true
	}
}

func blobConv(b ColumnBuffer) (func(int) []byte, bool) {
	c, ok := b.(*BlobBuffer)
	if !ok {
		return nil, false
	}
	return func(r int) []byte {
		if c.data[r] == nil {
			return nil
		}
		return append([]byte{}, c.data[r]...)
	}, true
}

// formatCell renders a non-null cell as text.
func formatCell(b ColumnBuffer, r int) string {
	switch v := b.Value(r).(type) {
	case string:
		return v
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case decimal.Decimal:
		if c, ok := b.(*DecimalBuffer); ok {
			return v.StringFixed(int32(c.scale))
		}
		return v.String()
	case time.Time:
		switch b.Type() {
		case TypeDate:
			return v.Format(dateLayout)
		case TypeTime:
			return v.Format("15:04:05.999999")
		case TypeTimeTZ:
			return v.Format("15:04:05.999999-07:00")
		case TypeTimestampTZ:
			return v.Format("2006-01-02 15:04:05.999999-07:00")
		}
		return v.Format("2006-01-02 15:04:05.999999")
	case []byte:
		return hex.EncodeToString(v)
	}
	return ""
}

// IsNull reports whether the cell at col, row is NULL.
func (rs *ResultSet) IsNull(col, row int) (bool, error) {
	return readCell(rs, col, row, nullConv, "null indicator")
}

// Value returns the cell at col, row as a Go value, nil for NULL.
func (rs *ResultSet) Value(col, row int) (interface{}, error) {
	return readCell(rs, col, row, func(b ColumnBuffer) (func(int) interface{}, bool) {
		return b.Value, true
	}, "value")
}

// Int8 returns a tinyint cell, NullInt8 for NULL.
func (rs *ResultSet) Int8(col, row int) (int8, error) {
	return readCell(rs, col, row, int8Conv, "int8")
}

// Int16 returns a smallint or narrower cell, NullInt16 for NULL.
func (rs *ResultSet) Int16(col, row int) (int16, error) {
	return readCell(rs, col, row, int16Conv, "int16")
}

// Int32 returns an int or narrower cell, NullInt32 for NULL.
func (rs *ResultSet) Int32(col, row int) (int32, error) {
	return readCell(rs, col, row, int32Conv, "int32")
}

// Int64 returns an integer cell, NullInt64 for NULL.
func (rs *ResultSet) Int64(col, row int) (int64, error) {
	return readCell(rs, col, row, int64Conv, "int64")
}

// Float32 returns a real cell, NaN for NULL.
func (rs *ResultSet) Float32(col, row int) (float32, error) {
	return readCell(rs, col, row, float32Conv, "float32")
}

// Float64 returns a floating point or integer cell, NaN for NULL.
func (rs *ResultSet) Float64(col, row int) (float64, error) {
	return readCell(rs, col, row, float64Conv, "float64")
}

// Bool returns a boolean cell. NULL reads as false; check IsNull.
func (rs *ResultSet) Bool(col, row int) (bool, error) {
	return readCell(rs, col, row, boolConv, "bool")
}

// String returns any cell as text.
func (rs *ResultSet) String(col, row int) (sql.NullString, error) {
	return readCell(rs, col, row, stringConv, "string")
}

// Decimal returns a decimal or integer cell.
func (rs *ResultSet) Decimal(col, row int) (decimal.NullDecimal, error) {
	return readCell(rs, col, row, decimalConv, "decimal")
}

// Date returns the date part of a temporal cell.
func (rs *ResultSet) Date(col, row int) (sql.NullTime, error) {
	return readCell(rs, col, row, temporalConv(true), "date")
}

// Time returns a time cell.
func (rs *ResultSet) Time(col, row int) (sql.NullTime, error) {
	return readCell(rs, col, row, temporalConv(false), "time")
}

// Timestamp returns a timestamp cell.
func (rs *ResultSet) Timestamp(col, row int) (sql.NullTime, error) {
	return readCell(rs, col, row, temporalConv(false), "timestamp")
}

// Bytes returns a copy of a blob cell, nil for NULL.
func (rs *ResultSet) Bytes(col, row int) ([]byte, error) {
	return readCell(rs, col, row, blobConv, "bytes")
}

// Int8Column copies column col into dst, which must hold RowCount values.
func (rs *ResultSet) Int8Column(col int, dst []int8) error {
	return readColumn(rs, col, dst, int8Conv, "int8")
}

// Int8ColumnRange copies len(dst) rows of column col starting at row first.
func (rs *ResultSet) Int8ColumnRange(col, first int, dst []int8) error {
	return readRange(rs, col, first, dst, int8Conv, "int8")
}

// Int16Column copies column col into dst.
func (rs *ResultSet) Int16Column(col int, dst []int16) error {
	return readColumn(rs, col, dst, int16Conv, "int16")
}

// Int16ColumnRange copies len(dst) rows of column col starting at row first.
func (rs *ResultSet) Int16ColumnRange(col, first int, dst []int16) error {
	return readRange(rs, col, first, dst, int16Conv, "int16")
}

// Int32Column copies column col into dst.
func (rs *ResultSet) Int32Column(col int, dst []int32) error {
	return readColumn(rs, col, dst, int32Conv, "int32")
}

// Int32ColumnRange copies len(dst) rows of column col starting at row first.
func (rs *ResultSet) Int32ColumnRange(col, first int, dst []int32) error {
	return readRange(rs, col, first, dst, int32Conv, "int32")
}

// Int64Column copies column col into dst.
func (rs *ResultSet) Int64Column(col int, dst []int64) error {
	return readColumn(rs, col, dst, int64Conv, "int64")
}

// Int64ColumnRange copies len(dst) rows of column col starting at row first.
func (rs *ResultSet) Int64ColumnRange(col, first int, dst []int64) error {
	return readRange(rs, col, first, dst, int64Conv, "int64")
}

// Float32Column copies column col into dst.
func (rs *ResultSet) Float32Column(col int, dst []float32) error {
	return readColumn(rs, col, dst, float32Conv, "float32")
}

// Float32ColumnRange copies len(dst) rows of column col starting at row first.
func (rs *ResultSet) Float32ColumnRange(col, first int, dst []float32) error {
	return readRange(rs, col, first, dst, float32Conv, "float32")
}

// Float64Column copies column col into dst.
func (rs *ResultSet) Float64Column(col int, dst []float64) error {
	return readColumn(rs, col, dst, float64Conv, "float64")
}

// Float64ColumnRange copies len(dst) rows of column col starting at row first.
func (rs *ResultSet) Float64ColumnRange(col, first int, dst []float64) error {
	return readRange(rs, col, first, dst, float64Conv, "float64")
}

// BoolColumn copies the values of a boolean column into dst. NULL rows read
// as false; BoolNulls tells them apart.
func (rs *ResultSet) BoolColumn(col int, dst []bool) error {
	return readColumn(rs, col, dst, boolConv, "bool")
}

// BoolColumnRange copies len(dst) rows of column col starting at row first.
func (rs *ResultSet) BoolColumnRange(col, first int, dst []bool) error {
	return readRange(rs, col, first, dst, boolConv, "bool")
}

// BoolNulls copies the null indicator of column col into dst. It works on
// columns of any type.
func (rs *ResultSet) BoolNulls(col int, dst []bool) error {
	return readColumn(rs, col, dst, nullConv, "null indicator")
}

// StringColumn copies column col, of any type, into dst as text.
func (rs *ResultSet) StringColumn(col int, dst []sql.NullString) error {
	return readColumn(rs, col, dst, stringConv, "string")
}

// StringColumnRange copies len(dst) rows of column col starting at row first.
func (rs *ResultSet) StringColumnRange(col, first int, dst []sql.NullString) error {
	return readRange(rs, col, first, dst, stringConv, "string")
}

// DecimalColumn copies a decimal or integer column into dst.
func (rs *ResultSet) DecimalColumn(col int, dst []decimal.NullDecimal) error {
	return readColumn(rs, col, dst, decimalConv, "decimal")
}

// DecimalColumnRange copies len(dst) rows of column col starting at row first.
func (rs *ResultSet) DecimalColumnRange(col, first int, dst []decimal.NullDecimal) error {
	return readRange(rs, col, first, dst, decimalConv, "decimal")
}

// DateColumn copies the date part of a temporal column into dst.
func (rs *ResultSet) DateColumn(col int, dst []sql.NullTime) error {
	return readColumn(rs, col, dst, temporalConv(true), "date")
}

// DateColumnRange copies len(dst) rows of column col starting at row first.
func (rs *ResultSet) DateColumnRange(col, first int, dst []sql.NullTime) error {
	return readRange(rs, col, first, dst, temporalConv(true), "date")
}

// TimeColumn copies a temporal column into dst.
func (rs *ResultSet) TimeColumn(col int, dst []sql.NullTime) error {
	return readColumn(rs, col, dst, temporalConv(false), "time")
}

// TimeColumnRange copies len(dst) rows of column col starting at row first.
func (rs *ResultSet) TimeColumnRange(col, first int, dst []sql.NullTime) error {
	return readRange(rs, col, first, dst, temporalConv(false), "time")
}

// TimestampColumn copies a temporal column into dst.
func (rs *ResultSet) TimestampColumn(col int, dst []sql.NullTime) error {
	return readColumn(rs, col, dst, temporalConv(false), "timestamp")
}

// TimestampColumnRange copies len(dst) rows of column col starting at row first.
func (rs *ResultSet) TimestampColumnRange(col, first int, dst []sql.NullTime) error {
	return readRange(rs, col, first, dst, temporalConv(false), "timestamp")
}

// BlobColumn copies a blob column into dst. NULL rows are nil.
func (rs *ResultSet) BlobColumn(col int, dst [][]byte) error {
	return readColumn(rs, col, dst, blobConv, "bytes")
}

// BlobColumnRange copies len(dst) rows of column col starting at row first.
func (rs *ResultSet) BlobColumnRange(col, first int, dst [][]byte) error {
	return readRange(rs, col, first, dst, blobConv, "bytes")
}
