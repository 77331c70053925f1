package duckdb_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	embedded "github.com/semihalev/go-duckdb-embedded"
	"github.com/semihalev/go-duckdb-embedded/engine/duckdb"
)

func openDuckDB(t *testing.T) *embedded.Connection {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	m := embedded.NewManager(duckdb.NewEngine(duckdb.WithLogger(log)), embedded.WithLogger(log))
	conn, err := m.OpenConnection("", true, false)
	require.NoError(t, err)
	t.Cleanup(func() {
		if m.IsRunning() {
			require.NoError(t, m.Stop())
		}
	})
	return conn
}

func TestDuckDBScenario(t *testing.T) {
	conn := openDuckDB(t)

	n, err := conn.ExecuteUpdate("CREATE TABLE t (a INTEGER, b VARCHAR)")
	require.NoError(t, err)
	assert.Equal(t, embedded.NoRowsAffected, n)

	n, err = conn.ExecuteUpdate("INSERT INTO t VALUES (1,'a'),(2,'b'),(3,'c')")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	rs, err := conn.ExecuteQuery("SELECT a, b FROM t ORDER BY a")
	require.NoError(t, err)
	defer rs.Close()

	assert.Equal(t, 3, rs.RowCount())
	names, err := rs.ColumnNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	ints := make([]int32, 3)
	require.NoError(t, rs.Int32Column(1, ints))
	assert.Equal(t, []int32{1, 2, 3}, ints)

	s, err := rs.String(2, 3)
	require.NoError(t, err)
	assert.Equal(t, "c", s.String)
}

func TestDuckDBNulls(t *testing.T) {
	conn := openDuckDB(t)

	rs, err := conn.ExecuteQuery("SELECT * FROM (VALUES (1::INTEGER, 1.5::DOUBLE), (NULL, NULL)) v(i, d)")
	require.NoError(t, err)
	defer rs.Close()

	ints := make([]int32, 2)
	require.NoError(t, rs.Int32Column(1, ints))
	assert.Equal(t, int32(1), ints[0])
	assert.Equal(t, embedded.NullInt32, ints[1])

	floats := make([]float64, 2)
	require.NoError(t, rs.Float64Column(2, floats))
	assert.True(t, embedded.IsNullFloat64(floats[1]))

	null, err := rs.IsNull(1, 2)
	require.NoError(t, err)
	assert.True(t, null)
}

func TestDuckDBPreparedStatement(t *testing.T) {
	conn := openDuckDB(t)

	_, err := conn.ExecuteUpdate("CREATE TABLE items (id INTEGER, name VARCHAR, price DECIMAL(10,2), day DATE)")
	require.NoError(t, err)

	ps, err := conn.Prepare("INSERT INTO items VALUES (?, ?, ?, ?)")
	require.NoError(t, err)
	defer ps.Close()
	require.Equal(t, 4, ps.ParameterCount())

	meta := ps.ParameterMetadata()
	p, err := meta.Parameter(1)
	require.NoError(t, err)
	assert.Equal(t, embedded.TypeInt, p.Type)

	day := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	require.NoError(t, ps.BindInt32(1, 7))
	require.NoError(t, ps.BindString(2, "it's"))
	require.NoError(t, ps.BindDecimal(3, decimal.RequireFromString("9.99")))
	require.NoError(t, ps.BindDate(4, day, time.UTC))

	n, err := ps.ExecuteUpdate()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rs, err := conn.ExecuteQuery("SELECT id, name, price, day FROM items")
	require.NoError(t, err)
	defer rs.Close()

	name, err := rs.String(2, 1)
	require.NoError(t, err)
	assert.Equal(t, "it's", name.String)

	price, err := rs.Decimal(3, 1)
	require.NoError(t, err)
	assert.True(t, price.Decimal.Equal(decimal.RequireFromString("9.99")))

	got, err := rs.Date(4, 1)
	require.NoError(t, err)
	assert.Equal(t, day.Format("2006-01-02"), got.Time.Format("2006-01-02"))
}

func TestDuckDBPreparedQuery(t *testing.T) {
	conn := openDuckDB(t)

	ps, err := conn.Prepare("SELECT ?::INTEGER + 1 AS n")
	require.NoError(t, err)
	defer ps.Close()

	require.NoError(t, ps.BindInt64(1, 41))
	rs, err := ps.ExecuteQuery()
	require.NoError(t, err)
	defer rs.Close()

	v, err := rs.Int64(1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)
}

func TestDuckDBBlobRoundTrip(t *testing.T) {
	conn := openDuckDB(t)

	_, err := conn.ExecuteUpdate("CREATE TABLE blobs (b BLOB)")
	require.NoError(t, err)
	ps, err := conn.Prepare("INSERT INTO blobs VALUES (?)")
	require.NoError(t, err)
	defer ps.Close()

	payload := []byte{0x00, 0xAB, 0x27, 0xFF}
	require.NoError(t, ps.BindBytes(1, payload))
	_, err = ps.ExecuteUpdate()
	require.NoError(t, err)

	rs, err := conn.ExecuteQuery("SELECT b FROM blobs")
	require.NoError(t, err)
	defer rs.Close()
	b, err := rs.Bytes(1, 1)
	require.NoError(t, err)
	assert.Equal(t, payload, b)
}

func TestDuckDBTransactionRollback(t *testing.T) {
	conn := openDuckDB(t)

	_, err := conn.ExecuteUpdate("CREATE TABLE tx (v INTEGER)")
	require.NoError(t, err)
	require.NoError(t, conn.SetAutoCommit(false))
	_, err = conn.ExecuteUpdate("INSERT INTO tx VALUES (1)")
	require.NoError(t, err)
	require.NoError(t, conn.Rollback())
	require.NoError(t, conn.SetAutoCommit(true))

	rs, err := conn.ExecuteQuery("SELECT count(*) AS c FROM tx")
	require.NoError(t, err)
	defer rs.Close()
	c, err := rs.Int64(1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), c)
}

func TestDuckDBEngineVersion(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	m := embedded.NewManager(duckdb.NewEngine(duckdb.WithLogger(log)), embedded.WithLogger(log))
	require.NoError(t, m.Start("", true, true))
	defer m.Stop()

	v, err := m.EngineVersion()
	require.NoError(t, err)
	assert.True(t, v.AtLeast(0, 9, 0))

	seq, err := m.SequentialFlag()
	require.NoError(t, err)
	assert.True(t, seq)
}
