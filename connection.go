package embedded

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// NoRowsAffected is the update count of statements that change no rows by
// nature, such as CREATE TABLE. It differs from 0, which an UPDATE matching
// nothing reports.
const NoRowsAffected int64 = -2

// ExecResult is the outcome of an executed statement: either a result set or
// an update count.
type ExecResult struct {
	kind  ResultKind
	rs    *ResultSet
	count int64
}

// Kind returns what the statement produced.
func (r *ExecResult) Kind() ResultKind { return r.kind }

// IsResultSet reports whether the statement produced rows.
func (r *ExecResult) IsResultSet() bool { return r.rs != nil }

// ResultSet returns the rows, nil for update and schema statements.
func (r *ExecResult) ResultSet() *ResultSet { return r.rs }

// UpdateCount returns the number of affected rows, NoRowsAffected for
// schema statements and -1 when the statement produced rows.
func (r *ExecResult) UpdateCount() int64 { return r.count }

// Close closes the result set, if any.
func (r *ExecResult) Close() {
	if r.rs != nil {
		r.rs.Close()
	}
}

func (r *ExecResult) query() (*ResultSet, error) {
	if r.rs == nil {
		return nil, NewError(UnexpectedResult, "query did not produce a result set")
	}
	return r.rs, nil
}

func (r *ExecResult) update() (int64, error) {
	if r.rs != nil {
		r.rs.Close()
		return 0, NewError(UnexpectedResult, "query produced a result set")
	}
	return r.count, nil
}

// Connection is a logical connection to the running database. A connection
// is meant for one goroutine at a time; only closing is safe to race with
// the manager stopping the database.
type Connection struct {
	id           string
	manager      *Manager
	session      Session
	dialect      Dialect
	log          *logrus.Entry
	autoShutdown bool
	autoCommit   bool

	mu         sync.Mutex
	closed     bool
	results    map[*ResultSet]struct{}
	statements map[*PreparedStatement]struct{}
}

func newConnection(m *Manager, id string, s Session, d Dialect, autoShutdown bool) *Connection {
	return &Connection{
		id:           id,
		manager:      m,
		session:      s,
		dialect:      d,
		log:          m.log.WithField("connection", id),
		autoShutdown: autoShutdown,
		autoCommit:   true,
		results:      make(map[*ResultSet]struct{}),
		statements:   make(map[*PreparedStatement]struct{}),
	}
}

// ID returns the registry key of the connection.
func (c *Connection) ID() string { return c.id }

// IsClosed reports whether the connection was closed.
func (c *Connection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Connection) checkOpen() error {
	if c.IsClosed() {
		return NewError(ConnectionClosed, "connection is closed")
	}
	return nil
}

// Execute runs sql and returns its result set or update count.
func (c *Connection) Execute(sql string) (*ExecResult, error) {
	return c.ExecuteContext(context.Background(), sql)
}

// ExecuteContext is Execute with a context handed to the engine.
func (c *Connection) ExecuteContext(ctx context.Context, sql string) (*ExecResult, error) {
	return c.execute(ctx, sql, "execute")
}

// ExecuteQuery runs sql, which must produce rows.
func (c *Connection) ExecuteQuery(sql string) (*ResultSet, error) {
	return c.ExecuteQueryContext(context.Background(), sql)
}

// ExecuteQueryContext is ExecuteQuery with a context.
func (c *Connection) ExecuteQueryContext(ctx context.Context, sql string) (*ResultSet, error) {
	res, err := c.ExecuteContext(ctx, sql)
	if err != nil {
		return nil, err
	}
	return res.query()
}

// ExecuteUpdate runs sql, which must not produce rows, and returns its update count.
func (c *Connection) ExecuteUpdate(sql string) (int64, error) {
	return c.ExecuteUpdateContext(context.Background(), sql)
}

// ExecuteUpdateContext is ExecuteUpdate with a context.
func (c *Connection) ExecuteUpdateContext(ctx context.Context, sql string) (int64, error) {
	res, err := c.ExecuteContext(ctx, sql)
	if err != nil {
		return 0, err
	}
	return res.update()
}

func (c *Connection) execute(ctx context.Context, sql, op string) (*ExecResult, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	c.log.WithField("sql", sql).Debug(op)

	start := time.Now()
	res, err := c.session.Execute(ctx, sql)
	HistogramStatementDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		CounterStatements.WithLabelValues("error").Inc()
		return nil, engineError(err, op)
	}
	CounterStatements.WithLabelValues(res.Kind.String()).Inc()

	switch res.Kind {
	case KindTable:
		rs := newResultSet(c, res)
		if !c.track(func() { c.results[rs] = struct{}{} }) {
			rs.Close()
			return nil, NewError(ConnectionClosed, "connection closed during execution")
		}
		return &ExecResult{kind: KindTable, rs: rs, count: -1}, nil
	case KindSchema:
		return &ExecResult{kind: KindSchema, count: NoRowsAffected}, nil
	}
	return &ExecResult{kind: KindUpdate, count: res.UpdateCount}, nil
}

// track runs add under the connection lock unless the connection is closed.
func (c *Connection) track(add func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	add()
	return true
}

// Prepare prepares sql in the engine.
func (c *Connection) Prepare(sql string) (*PreparedStatement, error) {
	return c.PrepareContext(context.Background(), sql)
}

// PrepareContext is Prepare with a context.
func (c *Connection) PrepareContext(ctx context.Context, sql string) (*PreparedStatement, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	p, err := c.session.Prepare(ctx, sql)
	if err != nil {
		return nil, engineError(err, "prepare")
	}
	ps := newPreparedStatement(c, sql, p, c.dialect)
	if !c.track(func() { c.statements[ps] = struct{}{} }) {
		if err := c.session.ReleasePrepared(p.ID); err != nil {
			c.log.WithError(err).WithField("statement", p.ID).Debug("failed to release prepared statement")
		}
		return nil, NewError(ConnectionClosed, "connection closed during prepare")
	}
	c.log.WithFields(logrus.Fields{"statement": p.ID, "parameters": ps.ParameterCount()}).Debug("prepared")
	return ps, nil
}

func (c *Connection) forgetResult(rs *ResultSet) {
	c.mu.Lock()
	delete(c.results, rs)
	c.mu.Unlock()
}

func (c *Connection) releaseStatement(ps *PreparedStatement, id int) {
	c.mu.Lock()
	delete(c.statements, ps)
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}
	if err := c.session.ReleasePrepared(id); err != nil {
		c.log.WithError(err).WithField("statement", id).Warn("failed to release prepared statement")
	}
}

// Close closes the connection with its result sets and prepared statements
// and removes it from the manager. Closing twice does nothing.
func (c *Connection) Close() error {
	if !c.closeLocal() {
		return nil
	}
	if err := c.manager.RemoveConnection(c, c.autoShutdown); err != nil && !IsError(err, NotRunning) {
		c.log.WithError(err).Warn("failed to deregister connection")
	}
	return nil
}

// closeLocal closes everything the connection owns without touching the
// manager registry. It reports whether this call did the closing.
func (c *Connection) closeLocal() bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	c.closed = true
	results := c.results
	c.results = nil
	c.statements = nil
	c.mu.Unlock()

	for rs := range results {
		rs.Close()
	}
	if err := c.session.Close(); err != nil {
		c.log.WithError(err).Warn("failed to close engine session")
	}
	GaugeOpenConnections.Dec()
	c.log.Debug("connection closed")
	return true
}
