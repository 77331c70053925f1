/*
Package embedded is the client-side control layer of an embedded, single
process SQL database.

# Overview

A Manager owns the one database instance a process may run and the
registry of connections opened on it. Connections execute SQL and prepare
statements; prepared statements bind typed Go values as SQL literals and
render the call that runs them; queries return columnar ResultSets whose
primitive accessors report NULL through documented sentinel values.

The engine itself is reached through the Engine interface. The
engine/duckdb package provides an implementation backed by DuckDB.

# Example

	m := embedded.NewManager(duckdb.NewEngine())
	if err := m.Start(":memory:", false, false); err != nil {
		log.Fatal(err)
	}
	defer m.Stop()

	conn, err := m.CreateConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if _, err := conn.Execute("CREATE TABLE t (a INTEGER, b VARCHAR)"); err != nil {
		log.Fatal(err)
	}

	ps, err := conn.Prepare("INSERT INTO t VALUES (?, ?)")
	if err != nil {
		log.Fatal(err)
	}
	defer ps.Close()
	ps.BindInt32(1, 12)
	ps.BindString(2, "text")
	if _, err := ps.ExecuteUpdate(); err != nil {
		log.Fatal(err)
	}

	rs, err := conn.ExecuteQuery("SELECT a, b FROM t")
	if err != nil {
		log.Fatal(err)
	}
	defer rs.Close()
	a := make([]int32, rs.RowCount())
	if err := rs.Int32Column(1, a); err != nil {
		log.Fatal(err)
	}

# NULL handling

Primitive column accessors cannot return nil, so SQL NULL is reported as
NullInt8, NullInt16, NullInt32, NullInt64 (the minimum value of each type)
or NaN for floating point columns. Boolean columns are read together with
BoolNulls. Object accessors return sql.NullString, sql.NullTime,
decimal.NullDecimal and nil byte slices.

# Native helpers

When a helper library named libembeddednative is found next to the
executable, in the working directory or at the path in EMBEDDED_NATIVE_LIB,
it is loaded with purego and used to write null sentinels into primitive
column buffers. Without it the same work is done in Go. The library is not
built with the module: its source is in the native directory, and
"make -C native" builds it for the host platform.
*/
package embedded
