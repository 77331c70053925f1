package embedded

import (
	"io"
	"math"
	"math/big"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValueKind tags the payload of a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindDecimal
	KindBigInt
	KindBytes
	KindTime
	KindBlob
	KindClob
	KindURL
	KindUUID
)

var valueKindNames = [...]string{
	KindNull:    "null",
	KindString:  "string",
	KindBool:    "bool",
	KindInt8:    "int8",
	KindInt16:   "int16",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindDecimal: "decimal",
	KindBigInt:  "big.Int",
	KindBytes:   "bytes",
	KindTime:    "time",
	KindBlob:    "blob",
	KindClob:    "clob",
	KindURL:     "url",
	KindUUID:    "uuid",
}

func (k ValueKind) String() string {
	if k >= 0 && int(k) < len(valueKindNames) {
		return valueKindNames[k]
	}
	return "ValueKind(" + strconv.Itoa(int(k)) + ")"
}

// Value is an application value tagged with its kind, the input of
// PreparedStatement.BindObject.
type Value struct {
	kind  ValueKind
	str   string
	b     bool
	i     int64
	f     float64
	dec   decimal.Decimal
	big   *big.Int
	bytes []byte
	t     time.Time
	loc   *time.Location
	r     io.Reader
	u     *url.URL
	id    uuid.UUID
}

// Kind returns the kind of v.
func (v Value) Kind() ValueKind { return v.kind }

func NullValue() Value                     { return Value{kind: KindNull} }
func StringValue(s string) Value           { return Value{kind: KindString, str: s} }
func BoolValue(b bool) Value               { return Value{kind: KindBool, b: b} }
func Int8Value(i int8) Value               { return Value{kind: KindInt8, i: int64(i)} }
func Int16Value(i int16) Value             { return Value{kind: KindInt16, i: int64(i)} }
func Int32Value(i int32) Value             { return Value{kind: KindInt32, i: int64(i)} }
func Int64Value(i int64) Value             { return Value{kind: KindInt64, i: i} }
func Float32Value(f float32) Value         { return Value{kind: KindFloat32, f: float64(f)} }
func Float64Value(f float64) Value         { return Value{kind: KindFloat64, f: f} }
func DecimalValue(d decimal.Decimal) Value { return Value{kind: KindDecimal, dec: d} }
func UUIDValue(id uuid.UUID) Value         { return Value{kind: KindUUID, id: id} }

// BigIntValue wraps x. A nil x is NULL.
func BigIntValue(x *big.Int) Value {
	if x == nil {
		return NullValue()
	}
	return Value{kind: KindBigInt, big: x}
}

// BytesValue wraps b. A nil b is NULL.
func BytesValue(b []byte) Value {
	if b == nil {
		return NullValue()
	}
	return Value{kind: KindBytes, bytes: b}
}

// TimeValue wraps a point in time of the date/time family. loc, when not
// nil, is the location its fields are written in.
func TimeValue(t time.Time, loc *time.Location) Value {
	return Value{kind: KindTime, t: t, loc: loc}
}

// BlobValue wraps a reader whose content is bound as binary data.
func BlobValue(r io.Reader) Value {
	if r == nil {
		return NullValue()
	}
	return Value{kind: KindBlob, r: r}
}

// ClobValue wraps a reader whose content is bound as character data.
func ClobValue(r io.Reader) Value {
	if r == nil {
		return NullValue()
	}
	return Value{kind: KindClob, r: r}
}

// URLValue wraps u. A nil u is NULL.
func URLValue(u *url.URL) Value {
	if u == nil {
		return NullValue()
	}
	return Value{kind: KindURL, u: u}
}

func (v Value) isNumber() bool {
	switch v.kind {
	case KindInt8, KindInt16, KindInt32, KindInt64, KindFloat32, KindFloat64, KindDecimal:
		return true
	}
	return false
}

// int64Value truncates a number towards zero.
func (v Value) int64Value() int64 {
	switch v.kind {
	case KindFloat32, KindFloat64:
		return int64(v.f)
	case KindDecimal:
		return v.dec.IntPart()
	}
	return v.i
}

func (v Value) float64Value() float64 {
	switch v.kind {
	case KindFloat32, KindFloat64:
		return v.f
	case KindDecimal:
		return v.dec.InexactFloat64()
	}
	return float64(v.i)
}

func (v Value) decimalValue() decimal.Decimal {
	switch v.kind {
	case KindFloat32, KindFloat64:
		return decimal.NewFromFloat(v.f)
	case KindDecimal:
		return v.dec
	}
	return decimal.NewFromInt(v.i)
}

func (v Value) numberText() string {
	switch v.kind {
	case KindFloat32:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindDecimal:
		return v.dec.String()
	}
	return strconv.FormatInt(v.i, 10)
}

type bindFunc func(ps *PreparedStatement, idx int, v Value, target Type, scale int) error

// bindTable resolves BindObject by value kind; each entry then switches on
// the target type.
var bindTable map[ValueKind]bindFunc

func init() {
	bindTable = map[ValueKind]bindFunc{
		KindNull:    bindNullObject,
		KindString:  bindStringObject,
		KindBool:    bindBoolObject,
		KindInt8:    bindNumberObject,
		KindInt16:   bindNumberObject,
		KindInt32:   bindNumberObject,
		KindInt64:   bindNumberObject,
		KindFloat32: bindNumberObject,
		KindFloat64: bindNumberObject,
		KindDecimal: bindNumberObject,
		KindBigInt:  bindBigIntObject,
		KindBytes:   bindBytesObject,
		KindTime:    bindTimeObject,
		KindBlob:    bindReaderObject,
		KindClob:    bindReaderObject,
		KindURL:     bindURLObject,
		KindUUID:    bindUUIDObject,
	}
}

func conversionNotAllowed(v Value, target Type) error {
	return newErrorf(UnsupportedConversion, "conversion of %s to %s not allowed", v.kind, target)
}

func bindNullObject(ps *PreparedStatement, idx int, _ Value, _ Type, _ int) error {
	return ps.BindNull(idx)
}

func bindStringObject(ps *PreparedStatement, idx int, v Value, _ Type, _ int) error {
	return ps.BindString(idx, v.str)
}

func bindNumberObject(ps *PreparedStatement, idx int, v Value, target Type, scale int) error {
	if (v.kind == KindFloat32 || v.kind == KindFloat64) && (target.IsNumeric() || target == TypeBoolean) &&
		(math.IsNaN(v.f) || math.IsInf(v.f, 0)) {
		return newErrorf(InvalidLiteral, "%v cannot be converted to %s", v.f, target)
	}
	switch target {
	case TypeTinyint:
		return ps.BindInt8(idx, int8(v.int64Value()))
	case TypeSmallint:
		return ps.BindInt16(idx, int16(v.int64Value()))
	case TypeInt, TypeMonthInterval:
		return ps.BindInt32(idx, int32(v.int64Value()))
	case TypeBigint, TypeSecInterval:
		if v.kind == KindDecimal {
			return ps.BindInt64(idx, v.dec.Round(int32(scale)).IntPart())
		}
		return ps.BindInt64(idx, v.int64Value())
	case TypeHugeint:
		if v.kind == KindFloat32 || v.kind == KindFloat64 || v.kind == KindDecimal {
			return ps.BindBigInt(idx, v.decimalValue().Round(0).BigInt())
		}
		return ps.BindInt64(idx, v.i)
	case TypeReal:
		return ps.BindFloat32(idx, float32(v.float64Value()))
	case TypeDouble:
		return ps.BindFloat64(idx, v.float64Value())
	case TypeDecimal:
		return ps.BindDecimal(idx, v.decimalValue())
	case TypeBoolean:
		if v.kind == KindDecimal {
			return ps.BindBool(idx, !v.dec.IsZero())
		}
		return ps.BindBool(idx, v.float64Value() != 0)
	}
	if target.IsString() {
		return ps.BindString(idx, v.numberText())
	}
	return conversionNotAllowed(v, target)
}

func bindBoolObject(ps *PreparedStatement, idx int, v Value, target Type, _ int) error {
	var n int64
	if v.b {
		n = 1
	}
	switch target {
	case TypeTinyint:
		return ps.BindInt8(idx, int8(n))
	case TypeSmallint:
		return ps.BindInt16(idx, int16(n))
	case TypeInt, TypeMonthInterval:
		return ps.BindInt32(idx, int32(n))
	case TypeBigint, TypeSecInterval, TypeHugeint:
		return ps.BindInt64(idx, n)
	case TypeReal:
		return ps.BindFloat32(idx, float32(n))
	case TypeDouble:
		return ps.BindFloat64(idx, float64(n))
	case TypeDecimal:
		return ps.BindDecimal(idx, decimal.NewFromInt(n))
	case TypeBoolean:
		return ps.BindBool(idx, v.b)
	}
	if target.IsString() {
		return ps.BindString(idx, strconv.FormatBool(v.b))
	}
	return conversionNotAllowed(v, target)
}

func bindBigIntObject(ps *PreparedStatement, idx int, v Value, target Type, _ int) error {
	switch target {
	case TypeBigint, TypeSecInterval:
		return ps.BindInt64(idx, v.big.Int64())
	case TypeHugeint:
		return ps.BindBigInt(idx, v.big)
	case TypeDecimal:
		return ps.BindDecimal(idx, decimal.NewFromBigInt(v.big, 0))
	}
	if target.IsString() {
		return ps.BindString(idx, v.big.String())
	}
	return conversionNotAllowed(v, target)
}

func bindBytesObject(ps *PreparedStatement, idx int, v Value, target Type, _ int) error {
	if target == TypeBlob {
		return ps.BindBytes(idx, v.bytes)
	}
	return conversionNotAllowed(v, target)
}

func bindTimeObject(ps *PreparedStatement, idx int, v Value, target Type, _ int) error {
	switch target {
	case TypeDate:
		return ps.BindDate(idx, v.t, v.loc)
	case TypeTime, TypeTimeTZ:
		return ps.BindTime(idx, v.t, v.loc)
	case TypeTimestamp, TypeTimestampTZ:
		return ps.BindTimestamp(idx, v.t, v.loc)
	}
	if target.IsString() {
		return ps.BindString(idx, formatTimestamp(v.t, v.loc, false))
	}
	return conversionNotAllowed(v, target)
}

func bindReaderObject(ps *PreparedStatement, idx int, v Value, _ Type, _ int) error {
	if v.kind == KindBlob {
		return ps.BindBlob(idx, v.r)
	}
	return ps.BindClob(idx, v.r)
}

func bindURLObject(ps *PreparedStatement, idx int, v Value, _ Type, _ int) error {
	return ps.BindURL(idx, v.u)
}

func bindUUIDObject(ps *PreparedStatement, idx int, v Value, target Type, _ int) error {
	if target == TypeBlob {
		return ps.BindBytes(idx, v.id[:])
	}
	if target.IsString() {
		return ps.BindUUID(idx, v.id)
	}
	return conversionNotAllowed(v, target)
}
