package embedded

import (
	"encoding/hex"
	"math"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// renderedLiteral binds the single parameter of a statement with bind and
// returns the literal the rendered call carries for it.
func renderedLiteral(t *testing.T, slot SlotMeta, bind func(ps *PreparedStatement) error) string {
	t.Helper()
	ps := newTestStatement(1, slot)
	require.NoError(t, bind(ps))
	got, err := ps.Render()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got, "execute 1(") && strings.HasSuffix(got, ");"), got)
	return got[len("execute 1(") : len(got)-2]
}

var unescaper = strings.NewReplacer(`\\`, `\`, `\'`, `'`)

// quotedBody strips the type prefix and quotes of a string literal and
// undoes the escaping.
func quotedBody(t *testing.T, prefix, lit string) string {
	t.Helper()
	require.True(t, strings.HasPrefix(lit, prefix+"'") && strings.HasSuffix(lit, "'") && len(lit) >= len(prefix)+2, lit)
	return unescaper.Replace(lit[len(prefix)+1 : len(lit)-1])
}

func TestRoundTripIntegers(t *testing.T) {
	tests := []struct {
		slot string
		v    int64
		bind func(ps *PreparedStatement, v int64) error
	}{
		{"tinyint", math.MinInt8, func(ps *PreparedStatement, v int64) error { return ps.BindInt8(1, int8(v)) }},
		{"tinyint", math.MaxInt8, func(ps *PreparedStatement, v int64) error { return ps.BindInt8(1, int8(v)) }},
		{"smallint", math.MinInt16, func(ps *PreparedStatement, v int64) error { return ps.BindInt16(1, int16(v)) }},
		{"smallint", math.MaxInt16, func(ps *PreparedStatement, v int64) error { return ps.BindInt16(1, int16(v)) }},
		{"int", math.MinInt32, func(ps *PreparedStatement, v int64) error { return ps.BindInt32(1, int32(v)) }},
		{"int", 0, func(ps *PreparedStatement, v int64) error { return ps.BindInt32(1, int32(v)) }},
		{"bigint", math.MinInt64, func(ps *PreparedStatement, v int64) error { return ps.BindInt64(1, v) }},
		{"bigint", math.MaxInt64, func(ps *PreparedStatement, v int64) error { return ps.BindInt64(1, v) }},
		{"bigint", -1, func(ps *PreparedStatement, v int64) error { return ps.BindInt64(1, v) }},
	}
	for _, tt := range tests {
		lit := renderedLiteral(t, param(tt.slot), func(ps *PreparedStatement) error { return tt.bind(ps, tt.v) })
		got, err := strconv.ParseInt(lit, 10, 64)
		require.NoError(t, err, lit)
		assert.Equal(t, tt.v, got)
	}

	hi := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	lo := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	for _, x := range []*big.Int{hi, lo} {
		lit := renderedLiteral(t, param("hugeint"), func(ps *PreparedStatement) error { return ps.BindBigInt(1, x) })
		got, ok := new(big.Int).SetString(lit, 10)
		require.True(t, ok, lit)
		assert.Equal(t, 0, x.Cmp(got), lit)
	}
}

func TestRoundTripFloats(t *testing.T) {
	for _, v := range []float64{0, 0.1, -1.5e-300, math.MaxFloat64, math.SmallestNonzeroFloat64, -123456.789} {
		lit := renderedLiteral(t, param("double"), func(ps *PreparedStatement) error { return ps.BindFloat64(1, v) })
		assert.True(t, numberGrammar.MatchString(lit), lit)
		got, err := strconv.ParseFloat(lit, 64)
		require.NoError(t, err, lit)
		assert.Equal(t, v, got)
	}
	for _, v := range []float32{math.MaxFloat32, -1.25, 1e-45} {
		lit := renderedLiteral(t, param("real"), func(ps *PreparedStatement) error { return ps.BindFloat32(1, v) })
		assert.True(t, numberGrammar.MatchString(lit), lit)
		got, err := strconv.ParseFloat(lit, 32)
		require.NoError(t, err, lit)
		assert.Equal(t, v, float32(got))
	}
}

func TestRoundTripDecimals(t *testing.T) {
	slot := SlotMeta{TypeName: "decimal", Digits: 18, Scale: 3}
	for _, in := range []string{"-3.14159", "0.0005", "-0.5", "0.999", "123456789012345.678", "-0.0004", "42"} {
		d := decimal.RequireFromString(in)
		lit := renderedLiteral(t, slot, func(ps *PreparedStatement) error { return ps.BindDecimal(1, d) })
		got, err := decimal.NewFromString(lit)
		require.NoError(t, err, lit)
		assert.True(t, d.Round(3).Equal(got), "%s rendered as %s", in, lit)
	}
}

func TestRoundTripBooleans(t *testing.T) {
	for _, v := range []bool{true, false} {
		lit := renderedLiteral(t, param("boolean"), func(ps *PreparedStatement) error { return ps.BindBool(1, v) })
		got, err := strconv.ParseBool(lit)
		require.NoError(t, err, lit)
		assert.Equal(t, v, got)
	}
}

func TestRoundTripStrings(t *testing.T) {
	for _, s := range []string{"it's", `back\slash`, `\'`, `''`, "", "tab\tand\nnewline", "ünïcode", `trailing\`} {
		lit := renderedLiteral(t, param("varchar"), func(ps *PreparedStatement) error { return ps.BindString(1, s) })
		assert.Equal(t, s, quotedBody(t, "", lit))

		lit = renderedLiteral(t, param("clob"), func(ps *PreparedStatement) error { return ps.BindClob(1, strings.NewReader(s)) })
		assert.Equal(t, s, quotedBody(t, "", lit))
	}
}

func TestRoundTripBlobs(t *testing.T) {
	for _, b := range [][]byte{{0x00, 0xff, 0x10}, {}} {
		lit := renderedLiteral(t, param("blob"), func(ps *PreparedStatement) error { return ps.BindBytes(1, b) })
		got, err := hex.DecodeString(quotedBody(t, "blob ", lit))
		require.NoError(t, err, lit)
		assert.Equal(t, b, got)
	}
}

func TestRoundTripTemporal(t *testing.T) {
	for _, d := range []time.Time{time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC)} {
		lit := renderedLiteral(t, param("date"), func(ps *PreparedStatement) error { return ps.BindDate(1, d, nil) })
		got, err := ParseDate(quotedBody(t, "date ", lit))
		require.NoError(t, err, lit)
		assert.True(t, d.Equal(got), lit)
	}

	clock := time.Date(2024, 3, 9, 22, 30, 15, 250_000_000, time.UTC)
	lit := renderedLiteral(t, param("time"), func(ps *PreparedStatement) error { return ps.BindTime(1, clock, time.UTC) })
	got, err := ParseTime(quotedBody(t, "time ", lit))
	require.NoError(t, err, lit)
	assert.Equal(t, []int{22, 30, 15, 250_000_000}, []int{got.Hour(), got.Minute(), got.Second(), got.Nanosecond()})

	ts := time.Date(2024, 3, 9, 22, 30, 15, 123_456_789, time.UTC)
	lit = renderedLiteral(t, param("timestamp"), func(ps *PreparedStatement) error { return ps.BindTimestamp(1, ts, nil) })
	got, err = ParseTimestamp(quotedBody(t, "timestamp ", lit))
	require.NoError(t, err, lit)
	assert.True(t, ts.Equal(got), lit)

	zoned := time.Date(2024, 3, 10, 0, 30, 15, 500_000_000, time.FixedZone("plus2", 2*60*60))
	lit = renderedLiteral(t, param("timestamp"), func(ps *PreparedStatement) error { return ps.BindTimestamp(1, zoned, time.UTC) })
	got, err = ParseTimestamp(quotedBody(t, "timestamp ", lit))
	require.NoError(t, err, lit)
	assert.True(t, zoned.Equal(got), lit)
}

func TestRoundTripIdentifiers(t *testing.T) {
	id := uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")
	lit := renderedLiteral(t, param("uuid"), func(ps *PreparedStatement) error { return ps.BindUUID(1, id) })
	got, err := uuid.Parse(quotedBody(t, "uuid ", lit))
	require.NoError(t, err, lit)
	assert.Equal(t, id, got)

	u, err := url.Parse("https://example.com/a?b=c&d='e'")
	require.NoError(t, err)
	lit = renderedLiteral(t, param("url"), func(ps *PreparedStatement) error { return ps.BindURL(1, u) })
	back, err := url.Parse(quotedBody(t, "url ", lit))
	require.NoError(t, err, lit)
	assert.Equal(t, u.String(), back.String())
}
