// Package duckdb runs the embedded database on DuckDB, through the
// github.com/duckdb/duckdb-go/v2 driver.
package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"net/url"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	ddb "github.com/duckdb/duckdb-go/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	embedded "github.com/semihalev/go-duckdb-embedded"
)

// Engine implements embedded.Engine.
type Engine struct {
	log      *logrus.Logger
	settings map[string]string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used by the engine.
func WithLogger(l *logrus.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithSetting passes a DuckDB configuration option, such as memory_limit,
// when the database is opened.
func WithSetting(name, value string) Option {
	return func(e *Engine) {
		e.settings[name] = value
	}
}

// NewEngine returns a DuckDB engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{settings: make(map[string]string)}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logrus.StandardLogger()
	}
	return e
}

// Dialect implements embedded.DialectProvider.
func (e *Engine) Dialect() embedded.Dialect { return Dialect }

// dsn builds the connection string. The sequential flag runs DuckDB on a
// single thread.
func (e *Engine) dsn(location string, sequential bool) string {
	params := url.Values{}
	for k, v := range e.settings {
		params.Set(k, v)
	}
	if sequential {
		params.Set("threads", "1")
	}
	if len(params) == 0 {
		return location
	}
	return location + "?" + params.Encode()
}

// Start implements embedded.Engine.
func (e *Engine) Start(location string, quiet, sequential bool) (embedded.Instance, error) {
	dsn := e.dsn(location, sequential)
	connector, err := ddb.NewConnector(dsn, nil)
	if err != nil {
		return nil, errors.Wrap(err, "opening duckdb")
	}
	db := sql.OpenDB(connector)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "connecting to duckdb")
	}

	fields := logrus.Fields{"dsn": dsn}
	if quiet {
		e.log.WithFields(fields).Debug("duckdb opened")
	} else {
		e.log.WithFields(fields).Info("duckdb opened")
	}
	return &Instance{db: db, log: e.log}, nil
}

// Instance is a running DuckDB database.
type Instance struct {
	db     *sql.DB
	log    *logrus.Logger
	nextID atomic.Int64
}

// NewSession implements embedded.Instance. Every session owns one
// connection of the pool, so transactions and prepared statements stay on
// it.
func (i *Instance) NewSession() (embedded.Session, error) {
	conn, err := i.db.Conn(context.Background())
	if err != nil {
		return nil, errors.Wrap(err, "acquiring duckdb connection")
	}
	return &Session{inst: i, conn: conn, prepared: make(map[int]embedded.ResultKind)}, nil
}

// Stop implements embedded.Instance. Closing the pool closes the database.
func (i *Instance) Stop() error {
	return errors.Wrap(i.db.Close(), "closing duckdb")
}

// EngineVersion implements embedded.VersionReporter.
func (i *Instance) EngineVersion() (embedded.Version, error) {
	var s string
	if err := i.db.QueryRow("SELECT version()").Scan(&s); err != nil {
		return embedded.Version{}, errors.Wrap(err, "reading duckdb version")
	}
	return embedded.ParseVersion(s)
}

// Session is one DuckDB connection.
type Session struct {
	inst *Instance
	conn *sql.Conn

	mu       sync.Mutex
	prepared map[int]embedded.ResultKind
}

// Execute implements embedded.Session.
func (s *Session) Execute(ctx context.Context, query string) (*embedded.EngineResult, error) {
	kind := classify(query)
	if id, ok := preparedCall(query); ok {
		s.mu.Lock()
		if k, known := s.prepared[id]; known {
			kind = k
		}
		s.mu.Unlock()
	}

	if kind == embedded.KindTable {
		rows, err := s.conn.QueryContext(ctx, query)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		return readRows(rows)
	}

	res, err := s.conn.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}
	if kind == embedded.KindSchema {
		return &embedded.EngineResult{Kind: embedded.KindSchema}, nil
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "reading affected rows")
	}
	return &embedded.EngineResult{Kind: embedded.KindUpdate, UpdateCount: n}, nil
}

// Prepare implements embedded.Session. The statement is prepared under a
// session-wide name so that the rendered EXECUTE call can reach it; the
// parameter types come from the driver's own prepared statement.
func (s *Session) Prepare(ctx context.Context, query string) (*embedded.Prepared, error) {
	slots, err := s.describeParams(ctx, query)
	if err != nil {
		return nil, err
	}
	id := int(s.inst.nextID.Add(1))
	body := strings.TrimRight(strings.TrimSpace(query), ";")
	if _, err := s.conn.ExecContext(ctx, "PREPARE "+statementName(id)+" AS "+body); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.prepared[id] = classify(query)
	s.mu.Unlock()
	return &embedded.Prepared{ID: id, Slots: slots}, nil
}

func (s *Session) describeParams(ctx context.Context, query string) ([]embedded.SlotMeta, error) {
	var slots []embedded.SlotMeta
	err := s.conn.Raw(func(driverConn interface{}) error {
		pc, ok := driverConn.(driver.ConnPrepareContext)
		if !ok {
			return errors.New("duckdb connection does not support prepare")
		}
		st, err := pc.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer st.Close()

		ds, typed := st.(*ddb.Stmt)
		for n := 1; n <= st.NumInput(); n++ {
			slot := embedded.SlotMeta{TypeName: "unknown"}
			if typed {
				if t, err := ds.ParamType(n); err == nil {
					slot = slotFromType(t)
				}
			}
			slots = append(slots, slot)
		}
		return nil
	})
	return slots, err
}

// ReleasePrepared implements embedded.Session.
func (s *Session) ReleasePrepared(id int) error {
	s.mu.Lock()
	delete(s.prepared, id)
	s.mu.Unlock()
	_, err := s.conn.ExecContext(context.Background(), "DEALLOCATE "+statementName(id))
	return err
}

// Close implements embedded.Session.
func (s *Session) Close() error {
	return s.conn.Close()
}

// PreparedIDs returns the ids of the statements prepared on s, in order.
func (s *Session) PreparedIDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, 0, len(s.prepared))
	for id := range s.prepared {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
