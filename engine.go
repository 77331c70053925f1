package embedded

import (
	"context"
)

// Engine starts the embedded database. Implementations live outside this
// package; see engine/duckdb.
type Engine interface {
	// Start initializes storage at location, or an in-memory database when
	// location is empty.
	Start(location string, quiet, sequential bool) (Instance, error)
}

// Instance is a running engine.
type Instance interface {
	NewSession() (Session, error)
	Stop() error
}

// Session is one engine connection. Calls run synchronously on the calling
// goroutine; closing a session interrupts whatever runs on it.
type Session interface {
	Execute(ctx context.Context, sql string) (*EngineResult, error)
	Prepare(ctx context.Context, sql string) (*Prepared, error)
	ReleasePrepared(id int) error
	Close() error
}

// DialectProvider is implemented by engines whose SQL parser needs literals
// written differently from DefaultDialect.
type DialectProvider interface {
	Dialect() Dialect
}

// ResultKind tells what a statement produced.
type ResultKind int

const (
	// KindUpdate is a data change statement reporting an affected row count.
	KindUpdate ResultKind = iota
	// KindSchema is a statement with no row count, such as DDL.
	KindSchema
	// KindTable is a statement that produced rows.
	KindTable
)

func (k ResultKind) String() string {
	switch k {
	case KindUpdate:
		return "update"
	case KindSchema:
		return "schema"
	case KindTable:
		return "table"
	}
	return "unknown"
}

// ColumnMeta describes one result column.
type ColumnMeta struct {
	Name     string
	TypeName string
	Digits   int
	Scale    int
	Schema   string
	Table    string
}

// EngineResult is what a session returns for an executed statement.
type EngineResult struct {
	Kind ResultKind
	// UpdateCount is the number of affected rows for KindUpdate.
	UpdateCount int64
	Columns     []ColumnMeta
	Buffers     []ColumnBuffer
	// Release frees engine memory behind Buffers. It may be nil.
	Release func()
}

// RowCount returns the number of rows of a table result.
func (r *EngineResult) RowCount() int {
	if len(r.Buffers) == 0 {
		return 0
	}
	return r.Buffers[0].Len()
}

// SlotMeta describes one slot of a prepared statement. Slots without a
// Column are parameters; the others describe result columns.
type SlotMeta struct {
	TypeName string
	Digits   int
	Scale    int
	Schema   string
	Table    string
	Column   string
}

// Prepared is an engine-side prepared statement.
type Prepared struct {
	ID    int
	Slots []SlotMeta
}

// VersionReporter is implemented by instances that know their engine version.
type VersionReporter interface {
	EngineVersion() (Version, error)
}
