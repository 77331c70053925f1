package duckdb

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	ddb "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	embedded "github.com/semihalev/go-duckdb-embedded"
)

const millisPerDay = 24 * 60 * 60 * 1000

// columnBuilder accumulates the cells of one result column.
type columnBuilder interface {
	append(v interface{}) error
	build() embedded.ColumnBuffer
}

// readRows materializes rows into column buffers. A statement that returns
// no columns is reported as a schema result.
func readRows(rows *sql.Rows) (*embedded.EngineResult, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, errors.Wrap(err, "reading column types")
	}
	if len(types) == 0 {
		return &embedded.EngineResult{Kind: embedded.KindSchema}, rows.Err()
	}

	meta := make([]embedded.ColumnMeta, len(types))
	builders := make([]columnBuilder, len(types))
	for i, ct := range types {
		meta[i] = columnMeta(ct)
		builders[i] = newBuilder(embedded.TypeFromName(meta[i].TypeName), meta[i])
	}

	cells := make([]interface{}, len(types))
	ptrs := make([]interface{}, len(types))
	for i := range cells {
		ptrs[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, "scanning row")
		}
		for i, v := range cells {
			if err := builders[i].append(v); err != nil {
				return nil, errors.Wrapf(err, "column %s", meta[i].Name)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	buffers := make([]embedded.ColumnBuffer, len(builders))
	for i, b := range builders {
		buffers[i] = b.build()
	}
	return &embedded.EngineResult{Kind: embedded.KindTable, Columns: meta, Buffers: buffers}, nil
}

func columnMeta(ct *sql.ColumnType) embedded.ColumnMeta {
	m := embedded.ColumnMeta{Name: ct.Name(), TypeName: ct.DatabaseTypeName()}
	if p, s, ok := ct.DecimalSize(); ok {
		m.Digits, m.Scale = int(p), int(s)
	}
	switch embedded.TypeFromName(m.TypeName) {
	case embedded.TypeDecimal:
		if m.Digits == 0 {
			m.Digits, m.Scale = 18, 3
		}
	case embedded.TypeUnknown:
		// Nested and exotic types are handed out as text.
		m.TypeName = "varchar"
	}
	return m
}

func newBuilder(t embedded.Type, meta embedded.ColumnMeta) columnBuilder {
	switch t {
	case embedded.TypeBoolean:
		return &boolBuilder{}
	case embedded.TypeTinyint, embedded.TypeSmallint, embedded.TypeInt,
		embedded.TypeBigint, embedded.TypeSecInterval, embedded.TypeMonthInterval:
		return &intBuilder{typ: t}
	case embedded.TypeReal:
		return &float32Builder{}
	case embedded.TypeDouble:
		return &float64Builder{}
	case embedded.TypeDecimal:
		return &decimalBuilder{digits: meta.Digits, scale: meta.Scale}
	case embedded.TypeDate, embedded.TypeTime, embedded.TypeTimeTZ,
		embedded.TypeTimestamp, embedded.TypeTimestampTZ:
		return &timeBuilder{typ: t}
	case embedded.TypeBlob:
		return &blobBuilder{}
	}
	return &stringBuilder{typ: t}
}

type boolBuilder struct {
	data, nulls []bool
}

func (b *boolBuilder) append(v interface{}) error {
	if v == nil {
		b.data, b.nulls = append(b.data, false), append(b.nulls, true)
		return nil
	}
	x, ok := v.(bool)
	if !ok {
		return errors.Errorf("unexpected %T in boolean column", v)
	}
	b.data, b.nulls = append(b.data, x), append(b.nulls, false)
	return nil
}

func (b *boolBuilder) build() embedded.ColumnBuffer {
	return embedded.NewBoolBuffer(b.data, b.nulls)
}

// intBuilder collects every integer width as int64 and narrows when built.
type intBuilder struct {
	typ   embedded.Type
	data  []int64
	nulls []bool
}

func (b *intBuilder) append(v interface{}) error {
	if v == nil {
		b.data, b.nulls = append(b.data, 0), append(b.nulls, true)
		return nil
	}
	var x int64
	switch n := v.(type) {
	case int8:
		x = int64(n)
	case int16:
		x = int64(n)
	case int32:
		x = int64(n)
	case int64:
		x = n
	case uint8:
		x = int64(n)
	case uint16:
		x = int64(n)
	case uint32:
		x = int64(n)
	case ddb.Interval:
		x = intervalMillis(n)
	default:
		return errors.Errorf("unexpected %T in %s column", v, b.typ)
	}
	b.data, b.nulls = append(b.data, x), append(b.nulls, false)
	return nil
}

func (b *intBuilder) build() embedded.ColumnBuffer {
	switch b.typ {
	case embedded.TypeTinyint:
		return embedded.NewInt8Buffer(narrow[int8](b.data), b.nulls)
	case embedded.TypeSmallint:
		return embedded.NewInt16Buffer(narrow[int16](b.data), b.nulls)
	case embedded.TypeInt, embedded.TypeMonthInterval:
		return embedded.NewInt32Buffer(b.typ, narrow[int32](b.data), b.nulls)
	}
	return embedded.NewInt64Buffer(b.typ, b.data, b.nulls)
}

func narrow[T int8 | int16 | int32](src []int64) []T {
	out := make([]T, len(src))
	for i, v := range src {
		out[i] = T(v)
	}
	return out
}

// intervalMillis flattens an interval to milliseconds, counting a month as
// thirty days.
func intervalMillis(iv ddb.Interval) int64 {
	return int64(iv.Months)*30*millisPerDay + int64(iv.Days)*millisPerDay + iv.Micros/1000
}

type float32Builder struct {
	data  []float32
	nulls []bool
}

func (b *float32Builder) append(v interface{}) error {
	if v == nil {
		b.data, b.nulls = append(b.data, 0), append(b.nulls, true)
		return nil
	}
	x, ok := v.(float32)
	if !ok {
		return errors.Errorf("unexpected %T in real column", v)
	}
	b.data, b.nulls = append(b.data, x), append(b.nulls, false)
	return nil
}

func (b *float32Builder) build() embedded.ColumnBuffer {
	return embedded.NewFloat32Buffer(b.data, b.nulls)
}

type float64Builder struct {
	data  []float64
	nulls []bool
}

func (b *float64Builder) append(v interface{}) error {
	if v == nil {
		b.data, b.nulls = append(b.data, 0), append(b.nulls, true)
		return nil
	}
	switch x := v.(type) {
	case float64:
		b.data = append(b.data, x)
	case float32:
		b.data = append(b.data, float64(x))
	default:
		return errors.Errorf("unexpected %T in double column", v)
	}
	b.nulls = append(b.nulls, false)
	return nil
}

func (b *float64Builder) build() embedded.ColumnBuffer {
	return embedded.NewFloat64Buffer(b.data, b.nulls)
}

type decimalBuilder struct {
	digits, scale int
	data          []decimal.Decimal
	nulls         []bool
}

func (b *decimalBuilder) append(v interface{}) error {
	if v == nil {
		b.data, b.nulls = append(b.data, decimal.Zero), append(b.nulls, true)
		return nil
	}
	var d decimal.Decimal
	switch x := v.(type) {
	case ddb.Decimal:
		d = decimal.NewFromBigInt(x.Value, -int32(x.Scale))
	case float64:
		d = decimal.NewFromFloat(x)
	case string:
		var err error
		if d, err = decimal.NewFromString(x); err != nil {
			return errors.WithStack(err)
		}
	default:
		return errors.Errorf("unexpected %T in decimal column", v)
	}
	b.data, b.nulls = append(b.data, d), append(b.nulls, false)
	return nil
}

func (b *decimalBuilder) build() embedded.ColumnBuffer {
	return embedded.NewDecimalBuffer(b.data, b.nulls, b.digits, b.scale)
}

type timeBuilder struct {
	typ   embedded.Type
	data  []time.Time
	nulls []bool
}

func (b *timeBuilder) append(v interface{}) error {
	if v == nil {
		b.data, b.nulls = append(b.data, time.Time{}), append(b.nulls, true)
		return nil
	}
	t, ok := v.(time.Time)
	if !ok {
		return errors.Errorf("unexpected %T in %s column", v, b.typ)
	}
	b.data, b.nulls = append(b.data, t), append(b.nulls, false)
	return nil
}

func (b *timeBuilder) build() embedded.ColumnBuffer {
	return embedded.NewTemporalBuffer(b.typ, b.data, b.nulls)
}

type blobBuilder struct {
	data [][]byte
}

func (b *blobBuilder) append(v interface{}) error {
	switch x := v.(type) {
	case nil:
		b.data = append(b.data, nil)
	case []byte:
		b.data = append(b.data, append([]byte{}, x...))
	case string:
		b.data = append(b.data, []byte(x))
	default:
		return errors.Errorf("unexpected %T in blob column", v)
	}
	return nil
}

func (b *blobBuilder) build() embedded.ColumnBuffer {
	return embedded.NewBlobBuffer(b.data)
}

// stringBuilder renders every other type as text.
type stringBuilder struct {
	typ   embedded.Type
	data  []string
	nulls []bool
}

func (b *stringBuilder) append(v interface{}) error {
	if v == nil {
		b.data, b.nulls = append(b.data, ""), append(b.nulls, true)
		return nil
	}
	s, err := textOf(b.typ, v)
	if err != nil {
		return err
	}
	b.data, b.nulls = append(b.data, s), append(b.nulls, false)
	return nil
}

func (b *stringBuilder) build() embedded.ColumnBuffer {
	return embedded.NewStringBuffer(b.typ, b.data, b.nulls)
}

func textOf(t embedded.Type, v interface{}) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case *big.Int:
		return x.String(), nil
	case uint64:
		return fmt.Sprintf("%d", x), nil
	case []byte:
		if t == embedded.TypeUUID && len(x) == 16 {
			id, err := uuid.FromBytes(x)
			if err != nil {
				return "", errors.WithStack(err)
			}
			return id.String(), nil
		}
		if t == embedded.TypeJSON {
			return string(x), nil
		}
		return hex.EncodeToString(x), nil
	case [16]byte:
		return uuid.UUID(x).String(), nil
	case fmt.Stringer:
		return x.String(), nil
	}
	if t == embedded.TypeJSON {
		raw, err := json.Marshal(v)
		if err != nil {
			return "", errors.WithStack(err)
		}
		return string(raw), nil
	}
	return fmt.Sprint(v), nil
}
