package embedded

import (
	"math"
)

// Null sentinels for primitive columns. Primitive accessors have no other
// null channel, so SQL NULL is reported as the minimum value of the integer
// type, or NaN for floating point types. A column holding the sentinel as a
// real value cannot be told apart from NULL through these accessors; use
// ResultSet.IsNull when that matters.
const (
	NullInt8  int8  = math.MinInt8
	NullInt16 int16 = math.MinInt16
	NullInt32 int32 = math.MinInt32
	NullInt64 int64 = math.MinInt64
)

var (
	NullFloat32 = float32(math.NaN())
	NullFloat64 = math.NaN()
)

// IsNullFloat32 reports whether v is the float32 null sentinel.
func IsNullFloat32(v float32) bool { return v != v }

// IsNullFloat64 reports whether v is the float64 null sentinel.
func IsNullFloat64(v float64) bool { return math.IsNaN(v) }

type numeric interface {
	int8 | int16 | int32 | int64 | float32 | float64
}

func nullOf[T numeric]() T {
	var zero T
	switch any(zero).(type) {
	case int8:
		return T(any(NullInt8).(int8))
	case int16:
		return T(any(NullInt16).(int16))
	case int32:
		return T(any(NullInt32).(int32))
	case int64:
		return T(any(NullInt64).(int64))
	case float32:
		return T(NullFloat32)
	default:
		return T(NullFloat64)
	}
}

func isNullValue[T numeric](v T) bool {
	if v != v {
		return true
	}
	return v == nullOf[T]()
}
