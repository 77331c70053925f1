package embedded

import (
	"bytes"
	"math/big"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStatement(id int, slots ...SlotMeta) *PreparedStatement {
	return newPreparedStatement(nil, "test", &Prepared{ID: id, Slots: slots}, DefaultDialect)
}

func param(typeName string) SlotMeta { return SlotMeta{TypeName: typeName} }

func TestRenderIntAndString(t *testing.T) {
	ps := newTestStatement(5, param("int"), param("varchar"))
	require.NoError(t, ps.BindInt32(1, 12))
	require.NoError(t, ps.BindString(2, "text"))

	got, err := ps.Render()
	require.NoError(t, err)
	assert.Equal(t, "execute 5(12,'text');", got)
}

func TestRenderDecimalScale(t *testing.T) {
	ps := newTestStatement(9, SlotMeta{TypeName: "decimal", Digits: 10, Scale: 2})
	require.NoError(t, ps.BindDecimal(1, decimal.RequireFromString("3.14159")))
	got, err := ps.Render()
	require.NoError(t, err)
	assert.Equal(t, "execute 9(3.14);", got)
}

func TestRenderMissingParameter(t *testing.T) {
	ps := newTestStatement(3, param("int"), param("int"))
	require.NoError(t, ps.BindInt64(1, 1))
	_, err := ps.Render()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingParameter))
	assert.Contains(t, err.Error(), "parameter 2 is missing")

	require.NoError(t, ps.BindNull(2))
	got, err := ps.Render()
	require.NoError(t, err)
	assert.Equal(t, "execute 3(1,NULL);", got)

	ps.Clear()
	_, err = ps.Render()
	assert.Contains(t, err.Error(), "parameter 1 is missing")
}

func TestBindUnknownParameter(t *testing.T) {
	ps := newTestStatement(1, param("int"))
	for _, idx := range []int{0, 2, -1} {
		err := ps.BindInt32(idx, 1)
		assert.True(t, IsError(err, ParameterNotFound), "index %d", idx)
	}
	assert.Contains(t, ps.BindString(4, "x").Error(), "no such parameter with index: 4")
}

func TestResultColumnsAreNotParameters(t *testing.T) {
	ps := newTestStatement(2,
		SlotMeta{TypeName: "int", Column: "id", Table: "t", Schema: "sys"},
		param("varchar"),
		SlotMeta{TypeName: "varchar", Column: "name", Table: "t", Schema: "sys"},
	)
	assert.Equal(t, 1, ps.ParameterCount())
	p, err := ps.ParameterMetadata().Parameter(1)
	require.NoError(t, err)
	assert.Equal(t, TypeVarchar, p.Type)

	cols := ps.ResultMetadata()
	assert.Equal(t, 2, cols.Count())
	c, err := cols.Column(2)
	require.NoError(t, err)
	assert.Equal(t, "name", c.Name)

	require.NoError(t, ps.BindString(1, "x"))
	got, err := ps.Render()
	require.NoError(t, err)
	assert.Equal(t, "execute 2('x');", got)
}

func TestBindFloatRejectsNaN(t *testing.T) {
	ps := newTestStatement(1, param("double"))
	assert.True(t, IsError(ps.BindFloat64(1, NullFloat64), InvalidLiteral))
	require.NoError(t, ps.BindFloat64(1, 2.5))
	got, _ := ps.Render()
	assert.Equal(t, "execute 1(2.5);", got)
}

func TestBindMisc(t *testing.T) {
	ps := newTestStatement(4, param("blob"), param("clob"), param("url"), param("uuid"), param("hugeint"))
	require.NoError(t, ps.BindBlob(1, bytes.NewReader([]byte{0xca, 0xfe})))
	require.NoError(t, ps.BindClob(2, strings.NewReader("long text")))
	u, _ := url.Parse("https://example.com/a?b=c")
	require.NoError(t, ps.BindURL(3, u))
	id := uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")
	require.NoError(t, ps.BindUUID(4, id))
	x, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.NoError(t, ps.BindBigInt(5, x))

	got, err := ps.Render()
	require.NoError(t, err)
	assert.Equal(t, "execute 4(blob 'CAFE','long text',url 'https://example.com/a?b=c',"+
		"uuid '123e4567-e89b-12d3-a456-426614174000',123456789012345678901234567890);", got)
}

func TestBindNilValuesAreNull(t *testing.T) {
	ps := newTestStatement(1, param("blob"), param("url"), param("hugeint"))
	require.NoError(t, ps.BindBytes(1, nil))
	require.NoError(t, ps.BindURL(2, nil))
	require.NoError(t, ps.BindBigInt(3, nil))
	got, err := ps.Render()
	require.NoError(t, err)
	assert.Equal(t, "execute 1(NULL,NULL,NULL);", got)
}

func TestBindTimestamps(t *testing.T) {
	ps := newTestStatement(6, param("date"), param("time"), param("timestamptz"))
	ts := time.Date(2024, 3, 9, 10, 11, 12, 0, time.UTC)
	require.NoError(t, ps.BindDate(1, ts, nil))
	require.NoError(t, ps.BindTime(2, ts, nil))
	require.NoError(t, ps.BindTimestamp(3, ts, time.UTC))
	got, err := ps.Render()
	require.NoError(t, err)
	assert.Equal(t, "execute 6(date '2024-03-09',time '10:11:12',timestamptz '2024-03-09 10:11:12.000+00:00');", got)
}

func TestClosedStatementDoesNotRender(t *testing.T) {
	ps := newTestStatement(0, param("int"))
	require.NoError(t, ps.BindInt8(1, 1))
	_, err := ps.Render()
	assert.True(t, IsError(err, StatementClosed))
}

func BenchmarkRender(b *testing.B) {
	ps := newTestStatement(1, param("int"), param("varchar"), SlotMeta{TypeName: "decimal", Digits: 18, Scale: 3})
	d := decimal.RequireFromString("1234.5678")
	for i := 0; i < b.N; i++ {
		_ = ps.BindInt32(1, int32(i))
		_ = ps.BindString(2, "it's a value")
		_ = ps.BindDecimal(3, d)
		if _, err := ps.Render(); err != nil {
			b.Fatal(err)
		}
	}
}
