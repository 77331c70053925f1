package embedded

import (
	"math"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindAndRender(t *testing.T, slot string, v Value, target Type) string {
	t.Helper()
	ps := newTestStatement(1, param(slot))
	require.NoError(t, ps.BindObject(1, v, target))
	got, err := ps.Render()
	require.NoError(t, err)
	return strings.TrimSuffix(strings.TrimPrefix(got, "execute 1("), ");")
}

func TestBindObjectConversions(t *testing.T) {
	tests := []struct {
		name   string
		slot   string
		v      Value
		target Type
		want   string
	}{
		{"null", "int", NullValue(), TypeInt, "NULL"},
		{"float to int truncates", "int", Float64Value(7.9), TypeInt, "7"},
		{"int to double", "double", Int32Value(3), TypeDouble, "3"},
		{"int to decimal", "decimal", Int64Value(5), TypeDecimal, "5"},
		{"decimal to varchar", "varchar", DecimalValue(decimal.RequireFromString("1.50")), TypeVarchar, "'1.5'"},
		{"number to boolean", "boolean", Int8Value(2), TypeBoolean, "true"},
		{"zero decimal to boolean", "boolean", DecimalValue(decimal.Zero), TypeBoolean, "false"},
		{"bool to int", "int", BoolValue(true), TypeInt, "1"},
		{"bool to varchar", "varchar", BoolValue(false), TypeVarchar, "'false'"},
		{"big to hugeint", "hugeint", BigIntValue(big.NewInt(99)), TypeHugeint, "99"},
		{"big to varchar", "varchar", BigIntValue(big.NewInt(-4)), TypeVarchar, "'-4'"},
		{"bytes to blob", "blob", BytesValue([]byte{1, 2}), TypeBlob, "blob '0102'"},
		{"time to date", "date", TimeValue(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC), nil), TypeDate, "date '2020-01-02'"},
		{"time to varchar", "varchar", TimeValue(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC), nil), TypeVarchar, "'2020-01-02 03:04:05'"},
		{"clob", "clob", ClobValue(strings.NewReader("abc")), TypeClob, "'abc'"},
		{"uuid to varchar", "varchar", UUIDValue(uuid.Nil), TypeVarchar, "'00000000-0000-0000-0000-000000000000'"},
		{"string follows slot", "int", StringValue("42"), TypeVarchar, "42"},
		{"decimal to bigint rounds at scale", "bigint", DecimalValue(decimal.RequireFromString("2.5")), TypeBigint, "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bindAndRender(t, tt.slot, tt.v, tt.target))
		})
	}
}

func TestBindObjectNotAllowed(t *testing.T) {
	tests := []struct {
		v      Value
		target Type
	}{
		{BytesValue([]byte{1}), TypeInt},
		{BoolValue(true), TypeDate},
		{TimeValue(time.Now(), nil), TypeInt},
		{Int32Value(1), TypeBlob},
		{BigIntValue(big.NewInt(1)), TypeReal},
		{UUIDValue(uuid.New()), TypeInt},
	}
	for _, tt := range tests {
		ps := newTestStatement(1, param("varchar"))
		err := ps.BindObject(1, tt.v, tt.target)
		assert.True(t, IsError(err, UnsupportedConversion), "%s to %s: %v", tt.v.Kind(), tt.target, err)
	}
}

func TestBindNonFiniteFloatObject(t *testing.T) {
	tests := []struct {
		v      Value
		target Type
	}{
		{Float64Value(math.NaN()), TypeDecimal},
		{Float64Value(math.NaN()), TypeHugeint},
		{Float64Value(math.Inf(-1)), TypeBigint},
		{Float32Value(float32(math.Inf(1))), TypeInt},
		{Float64Value(math.Inf(1)), TypeDouble},
		{Float64Value(math.NaN()), TypeBoolean},
	}
	for _, tt := range tests {
		ps := newTestStatement(1, param(tt.target.String()))
		err := ps.BindObject(1, tt.v, tt.target)
		assert.True(t, IsError(err, InvalidLiteral), "%v to %s: %v", tt.v.float64Value(), tt.target, err)
	}

	ps := newTestStatement(1, SlotMeta{TypeName: "decimal", Digits: 10, Scale: 2}, param("hugeint"))
	assert.True(t, IsError(ps.BindValue(1, Float64Value(math.Inf(1))), InvalidLiteral))
	assert.True(t, IsError(ps.BindValue(2, Float64Value(math.NaN())), InvalidLiteral))
	_, err := ps.Render()
	assert.True(t, IsError(err, MissingParameter))

	text := newTestStatement(2, param("varchar"))
	require.NoError(t, text.BindObject(1, Float64Value(math.NaN()), TypeVarchar))
}

func TestBindValueUsesSlotType(t *testing.T) {
	ps := newTestStatement(1, SlotMeta{TypeName: "bigint", Scale: 0}, SlotMeta{TypeName: "decimal", Digits: 6, Scale: 3})
	require.NoError(t, ps.BindValue(1, Float64Value(9.99)))
	require.NoError(t, ps.BindValue(2, Float64Value(1.23456)))
	got, err := ps.Render()
	require.NoError(t, err)
	assert.Equal(t, "execute 1(9,1.235);", got)
}

func TestNilConstructorsAreNull(t *testing.T) {
	assert.Equal(t, KindNull, BigIntValue(nil).Kind())
	assert.Equal(t, KindNull, BytesValue(nil).Kind())
	assert.Equal(t, KindNull, BlobValue(nil).Kind())
	assert.Equal(t, KindNull, ClobValue(nil).Kind())
	assert.Equal(t, KindNull, URLValue(nil).Kind())
	assert.Equal(t, "big.Int", KindBigInt.String())
}
