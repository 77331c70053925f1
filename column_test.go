package embedded

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNumericBufferStampsSentinels(t *testing.T) {
	b := NewInt32Buffer(TypeInt, []int32{1, 99, 3}, []bool{false, true, false})
	assert.Equal(t, []int32{1, NullInt32, 3}, b.data)
	assert.True(t, b.IsNull(1))
	assert.Nil(t, b.Value(1))
	assert.Equal(t, int32(3), b.Value(2))

	f := NewFloat64Buffer([]float64{1.5, 2.5}, []bool{true, false})
	assert.True(t, IsNullFloat64(f.data[0]))
	assert.True(t, f.IsNull(0))
	assert.False(t, f.IsNull(1))
}

func TestNumericBufferSentinelWithoutMask(t *testing.T) {
	b := NewInt8Buffer([]int8{NullInt8, 0, 127}, nil)
	assert.True(t, b.IsNull(0))
	assert.False(t, b.IsNull(1))
	assert.Equal(t, TypeTinyint, b.Type())

	r := NewFloat32Buffer([]float32{NullFloat32, 1}, nil)
	assert.True(t, r.IsNull(0))
	assert.Equal(t, 2, r.Len())
}

func TestMaskTakesPrecedence(t *testing.T) {
	// the mask says not null, so a stored minimum is a real value
	b := NewInt64Buffer(TypeBigint, []int64{NullInt64}, []bool{false})
	assert.False(t, b.IsNull(0))
	assert.Equal(t, NullInt64, b.Value(0))
}

func TestOtherBuffers(t *testing.T) {
	s := NewStringBuffer(TypeVarchar, []string{"a", ""}, []bool{false, true})
	assert.Equal(t, "a", s.Value(0))
	assert.Nil(t, s.Value(1))

	d := NewDecimalBuffer([]decimal.Decimal{decimal.RequireFromString("1.25")}, nil, 10, 2)
	assert.Equal(t, 10, d.Digits())
	assert.Equal(t, 2, d.Scale())
	assert.False(t, d.IsNull(0))

	tm := NewTemporalBuffer(TypeDate, []time.Time{{}}, []bool{true})
	assert.True(t, tm.IsNull(0))
	assert.Equal(t, TypeDate, tm.Type())

	bl := NewBlobBuffer([][]byte{{1}, nil, {}})
	assert.False(t, bl.IsNull(0))
	assert.True(t, bl.IsNull(1))
	assert.False(t, bl.IsNull(2))

	bo := NewBoolBuffer([]bool{true, false}, []bool{false, true})
	assert.Equal(t, true, bo.Value(0))
	assert.Nil(t, bo.Value(1))
}

func TestFallbackStampNulls(t *testing.T) {
	data := []int16{1, 2, 3, 4}
	fallbackStampNulls(data, []bool{false, true, true, false}, NullInt16)
	assert.Equal(t, []int16{1, NullInt16, NullInt16, 4}, data)
}

func TestStampNullsShortMask(t *testing.T) {
	data := []int64{1, 2, 3}
	stampNulls(data, []bool{true}, NullInt64)
	assert.Equal(t, []int64{NullInt64, 2, 3}, data)
}

func TestBitPattern(t *testing.T) {
	assert.Equal(t, uint64(0x80), bitPattern(NullInt8, 1))
	assert.Equal(t, uint64(0x8000), bitPattern(NullInt16, 2))
	assert.Equal(t, uint64(0x80000000), bitPattern(NullInt32, 4))
	assert.Equal(t, uint64(0x8000000000000000), bitPattern(NullInt64, 8))
}

func TestNativeHelpersMissing(t *testing.T) {
	t.Setenv(NativeLibraryEnv, "/nonexistent/libembeddednative.so")
	if NativeHelpersAvailable() {
		t.Skip("native helpers installed")
	}
	assert.Error(t, NativeHelpersError())
}

func TestNativeStampNullsMatchesFallback(t *testing.T) {
	if !NativeHelpersAvailable() {
		t.Skip("native helpers not installed:", NativeHelpersError())
	}
	mask := []bool{true, false, true, false, true}

	i8, want8 := []int8{1, 2, 3, 4, 5}, []int8{1, 2, 3, 4, 5}
	stampNulls(i8, mask, NullInt8)
	fallbackStampNulls(want8, mask, NullInt8)
	assert.Equal(t, want8, i8)

	i16, want16 := []int16{1, 2, 3, 4, 5}, []int16{1, 2, 3, 4, 5}
	stampNulls(i16, mask, NullInt16)
	fallbackStampNulls(want16, mask, NullInt16)
	assert.Equal(t, want16, i16)

	i32, want32 := []int32{1, 2, 3, 4, 5}, []int32{1, 2, 3, 4, 5}
	stampNulls(i32, mask, NullInt32)
	fallbackStampNulls(want32, mask, NullInt32)
	assert.Equal(t, want32, i32)

	f64 := []float64{1, 2, 3, 4, 5}
	stampNulls(f64, mask, math.NaN())
	assert.True(t, math.IsNaN(f64[0]))
	assert.Equal(t, 2.0, f64[1])
	assert.True(t, math.IsNaN(f64[4]))
}

func BenchmarkStampNulls(b *testing.B) {
	data := make([]int64, 4096)
	nulls := make([]bool, 4096)
	for i := range nulls {
		nulls[i] = i%3 == 0
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		stampNulls(data, nulls, NullInt64)
	}
}
