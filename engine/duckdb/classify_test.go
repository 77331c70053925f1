package duckdb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	embedded "github.com/semihalev/go-duckdb-embedded"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		sql  string
		want embedded.ResultKind
	}{
		{"SELECT 1", embedded.KindTable},
		{"  -- note\n select 1", embedded.KindTable},
		{"(SELECT 1)", embedded.KindTable},
		{"WITH x AS (SELECT 1) SELECT * FROM x", embedded.KindTable},
		{"PRAGMA table_info('t')", embedded.KindTable},
		{"INSERT INTO t VALUES (1)", embedded.KindUpdate},
		{"insert into t values (1) returning *", embedded.KindTable},
		{"DELETE FROM t", embedded.KindUpdate},
		{"CREATE TABLE t (a INT)", embedded.KindSchema},
		{"/* c */ DROP TABLE t", embedded.KindSchema},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(tt.sql), tt.sql)
	}
}

func TestPreparedCall(t *testing.T) {
	id, ok := preparedCall("EXECUTE embedded_12(1, 'a')")
	assert.True(t, ok)
	assert.Equal(t, 12, id)

	_, ok = preparedCall("EXECUTE other_1")
	assert.False(t, ok)
}

func TestDialectLiterals(t *testing.T) {
	assert.Equal(t, "'it''s'", Dialect.QuoteString("it's"))
	assert.Equal(t, `'\x00\xAB'::BLOB`, Dialect.BlobLiteral([]byte{0x00, 0xAB}))
	assert.Equal(t, `'\x0F'::BLOB`, Dialect.HexBlobLiteral("0f"))
	assert.Equal(t, "'2024-01-02'::DATE", Dialect.TypedLiteral(embedded.TypeDate, "'2024-01-02'"))
	assert.Equal(t, "'x'", Dialect.TypedLiteral(embedded.TypeVarchar, "'x'"))
	assert.Equal(t, "EXECUTE embedded_3(1, 'a')", Dialect.CallText(3, []string{"1", "'a'"}))
	assert.Equal(t, "EXECUTE embedded_3", Dialect.CallText(3, nil))
}

func TestEngineDSN(t *testing.T) {
	e := NewEngine(WithSetting("memory_limit", "1GB"))
	assert.Equal(t, "/tmp/db?memory_limit=1GB&threads=1", e.dsn("/tmp/db", true))
	assert.Equal(t, "", NewEngine().dsn("", false))
}
