// Package enginetest provides a scripted in-memory engine for tests of the
// embedded package. Statements are answered from scripted results; calls
// are recorded so tests can check what reached the engine.
package enginetest

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"

	embedded "github.com/semihalev/go-duckdb-embedded"
)

// Engine implements embedded.Engine.
type Engine struct {
	mu sync.Mutex

	// Failure injection. Errors are returned until reset to nil.
	StartErr   error
	StopErr    error
	SessionErr error
	ExecErr    map[string]error
	PrepareErr map[string]error

	// AfterPrepare, when set, runs after every successful prepare, outside
	// the engine lock.
	AfterPrepare func(id int)

	// Dialect, when set, is handed to the manager through DialectProvider.
	DialectOverride embedded.Dialect

	results  map[string]func() *embedded.EngineResult
	prepared map[string][]embedded.SlotMeta

	running      bool
	location     string
	quiet        bool
	sequential   bool
	starts       int
	stops        int
	nextID       int
	openSessions int
	executed     []string
	releasedIDs  []int
	freedResults int
}

// New returns an engine with no scripted statements.
func New() *Engine {
	return &Engine{
		ExecErr:    make(map[string]error),
		PrepareErr: make(map[string]error),
		results:    make(map[string]func() *embedded.EngineResult),
		prepared:   make(map[string][]embedded.SlotMeta),
	}
}

// OnExecute scripts the result of sql. build is called for every execution.
func (e *Engine) OnExecute(sql string, build func() *embedded.EngineResult) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.results[sql] = build
}

// OnPrepare scripts the slots reported when sql is prepared.
func (e *Engine) OnPrepare(sql string, slots ...embedded.SlotMeta) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prepared[sql] = slots
}

// Update builds an update result.
func Update(n int64) func() *embedded.EngineResult {
	return func() *embedded.EngineResult {
		return &embedded.EngineResult{Kind: embedded.KindUpdate, UpdateCount: n}
	}
}

// Schema builds a result without a row count.
func Schema() func() *embedded.EngineResult {
	return func() *embedded.EngineResult {
		return &embedded.EngineResult{Kind: embedded.KindSchema}
	}
}

// Table builds a table result. buffers are created per execution.
func Table(cols []embedded.ColumnMeta, buffers func() []embedded.ColumnBuffer) func() *embedded.EngineResult {
	return func() *embedded.EngineResult {
		return &embedded.EngineResult{Kind: embedded.KindTable, Columns: cols, Buffers: buffers()}
	}
}

// Param describes a parameter slot.
func Param(typeName string, digits, scale int) embedded.SlotMeta {
	return embedded.SlotMeta{TypeName: typeName, Digits: digits, Scale: scale}
}

// Column describes a result column slot.
func Column(name, typeName string) embedded.SlotMeta {
	return embedded.SlotMeta{TypeName: typeName, Column: name, Table: "t", Schema: "sys"}
}

// Dialect implements embedded.DialectProvider. It returns DialectOverride
// when set and embedded.DefaultDialect otherwise.
func (e *Engine) Dialect() embedded.Dialect {
	if e.DialectOverride != nil {
		return e.DialectOverride
	}
	return embedded.DefaultDialect
}

// Start implements embedded.Engine.
func (e *Engine) Start(location string, quiet, sequential bool) (embedded.Instance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.StartErr != nil {
		return nil, e.StartErr
	}
	if e.running {
		return nil, errors.New("engine already started")
	}
	e.running = true
	e.location = location
	e.quiet = quiet
	e.sequential = sequential
	e.starts++
	return &instance{e: e}, nil
}

// Running reports whether an instance is live.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Location returns the location of the last start.
func (e *Engine) Location() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.location
}

// Starts returns how many times the engine was started.
func (e *Engine) Starts() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.starts
}

// Stops returns how many times an instance was stopped.
func (e *Engine) Stops() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stops
}

// OpenSessions returns the number of sessions not yet closed.
func (e *Engine) OpenSessions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.openSessions
}

// Executed returns the statements executed so far, in order.
func (e *Engine) Executed() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.executed...)
}

// ReleasedIDs returns the prepared statement ids released so far.
func (e *Engine) ReleasedIDs() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]int(nil), e.releasedIDs...)
}

// FreedResults returns how many table results were released.
func (e *Engine) FreedResults() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.freedResults
}

type instance struct {
	e *Engine
}

func (i *instance) NewSession() (embedded.Session, error) {
	i.e.mu.Lock()
	defer i.e.mu.Unlock()
	if !i.e.running {
		return nil, errors.New("engine not running")
	}
	if i.e.SessionErr != nil {
		return nil, i.e.SessionErr
	}
	i.e.openSessions++
	return &session{e: i.e}, nil
}

func (i *instance) Stop() error {
	i.e.mu.Lock()
	defer i.e.mu.Unlock()
	if i.e.StopErr != nil {
		return i.e.StopErr
	}
	i.e.running = false
	i.e.stops++
	return nil
}

func (i *instance) EngineVersion() (embedded.Version, error) {
	return embedded.ParseVersion("v1.2.3-test")
}

type session struct {
	e      *Engine
	closed bool
}

func keyword(sql string) string {
	f := strings.Fields(sql)
	if len(f) == 0 {
		return ""
	}
	return strings.ToUpper(strings.TrimRight(f[0], ";("))
}

func (s *session) Execute(ctx context.Context, sql string) (*embedded.EngineResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	if s.closed {
		return nil, errors.New("session closed")
	}
	s.e.executed = append(s.e.executed, sql)
	if err := s.e.ExecErr[sql]; err != nil {
		return nil, err
	}

	var res *embedded.EngineResult
	if build, ok := s.e.results[sql]; ok {
		res = build()
	} else {
		switch keyword(sql) {
		case "INSERT", "UPDATE", "DELETE", "EXECUTE":
			res = &embedded.EngineResult{Kind: embedded.KindUpdate, UpdateCount: 1}
		case "SELECT", "WITH", "VALUES":
			res = &embedded.EngineResult{Kind: embedded.KindTable}
		default:
			res = &embedded.EngineResult{Kind: embedded.KindSchema}
		}
	}
	if res.Kind == embedded.KindTable {
		e := s.e
		res.Release = func() {
			e.mu.Lock()
			e.freedResults++
			e.mu.Unlock()
		}
	}
	return res, nil
}

func (s *session) Prepare(ctx context.Context, sql string) (*embedded.Prepared, error) {
	p, err := s.prepare(sql)
	if err != nil {
		return nil, err
	}
	s.e.mu.Lock()
	hook := s.e.AfterPrepare
	s.e.mu.Unlock()
	if hook != nil {
		hook(p.ID)
	}
	return p, nil
}

func (s *session) prepare(sql string) (*embedded.Prepared, error) {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	if s.closed {
		return nil, errors.New("session closed")
	}
	if err := s.e.PrepareErr[sql]; err != nil {
		return nil, err
	}
	slots, ok := s.e.prepared[sql]
	if !ok {
		for i := strings.Count(sql, "?"); i > 0; i-- {
			slots = append(slots, embedded.SlotMeta{TypeName: "varchar"})
		}
	}
	s.e.nextID++
	return &embedded.Prepared{ID: s.e.nextID, Slots: slots}, nil
}

func (s *session) ReleasePrepared(id int) error {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	s.e.releasedIDs = append(s.e.releasedIDs, id)
	return nil
}

func (s *session) Close() error {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()
	if !s.closed {
		s.closed = true
		s.e.openSessions--
	}
	return nil
}
