package embedded

import (
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// live is the manager currently running an instance. At most one instance
// runs per process; the slot is only claimed and released by a manager
// holding its own exclusive lock.
var live atomic.Pointer[Manager]

// StartStatus tells how StartOrJoin obtained the running instance.
type StartStatus int

const (
	// Started means the call started the instance.
	Started StartStatus = iota + 1
	// Joined means the instance was already running with the same settings.
	Joined
)

func (s StartStatus) String() string {
	switch s {
	case Started:
		return "started"
	case Joined:
		return "joined"
	}
	return "unknown"
}

// Manager owns the single database instance of the process and the
// registry of its connections. Mutations hold the exclusive lock; status
// queries hold the shared lock.
type Manager struct {
	engine Engine
	log    *logrus.Logger

	mu          sync.RWMutex
	inst        Instance
	dialect     Dialect
	location    string
	quiet       bool
	sequential  bool
	startedAt   time.Time
	connections map[string]*Connection
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger of the manager and its connections.
func WithLogger(l *logrus.Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}

// NewManager creates a manager starting instances with engine.
func NewManager(engine Engine, opts ...Option) *Manager {
	m := &Manager{engine: engine}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logrus.StandardLogger()
	}
	return m
}

// normalizeLocation maps the spellings of an in-memory database to "".
func normalizeLocation(location string) string {
	location = strings.TrimSpace(location)
	if location == "" || location == MemoryLocation {
		return ""
	}
	return filepath.Clean(location)
}

// lifecycle logs routine events, at debug level when quiet.
func (m *Manager) lifecycle(fields logrus.Fields, msg string) {
	entry := m.log.WithFields(fields)
	if m.quiet {
		entry.Debug(msg)
		return
	}
	entry.Info(msg)
}

// Start starts the database at location, in memory when location is empty
// or ":memory:". It fails with ErrAlreadyRunning if an instance is running
// anywhere in the process.
func (m *Manager) Start(location string, quiet, sequential bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startLocked(location, quiet, sequential)
}

// StartConfig starts the database with the settings of cfg.
func (m *Manager) StartConfig(cfg *Config) error {
	return m.Start(cfg.Directory, cfg.Quiet, cfg.Sequential)
}

func (m *Manager) startLocked(location string, quiet, sequential bool) error {
	if m.inst != nil {
		return NewError(AlreadyRunning, "database is already running")
	}
	if !live.CompareAndSwap(nil, m) {
		return NewError(AlreadyRunning, "another database is already running in this process")
	}

	location = normalizeLocation(location)
	inst, err := m.engine.Start(location, quiet, sequential)
	if err != nil {
		live.CompareAndSwap(m, nil)
		return engineError(err, "start")
	}

	m.inst = inst
	m.dialect = DefaultDialect
	if dp, ok := inst.(DialectProvider); ok {
		m.dialect = dp.Dialect()
	} else if dp, ok := m.engine.(DialectProvider); ok {
		m.dialect = dp.Dialect()
	}
	m.location = location
	m.quiet = quiet
	m.sequential = sequential
	m.startedAt = time.Now()
	m.connections = make(map[string]*Connection)
	CounterInstanceStarts.Inc()
	m.lifecycle(logrus.Fields{"location": m.describeLocation(), "sequential": sequential}, "database started")
	return nil
}

func (m *Manager) describeLocation() string {
	if m.location == "" {
		return MemoryLocation
	}
	return m.location
}

// StartOrJoin starts the database, or joins the running one when it was
// started by m with the same settings. Conflicting settings fail with
// ErrConfigMismatch wrapping one of ErrRunningInMemory,
// ErrRunningInDirectory, ErrDifferentDirectory, ErrDifferentQuietFlag or
// ErrDifferentSequentialFlag.
func (m *Manager) StartOrJoin(location string, quiet, sequential bool) (StartStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startOrJoinLocked(location, quiet, sequential)
}

func (m *Manager) startOrJoinLocked(location string, quiet, sequential bool) (StartStatus, error) {
	if m.inst == nil {
		if err := m.startLocked(location, quiet, sequential); err != nil {
			return 0, err
		}
		return Started, nil
	}
	if err := m.matchLocked(normalizeLocation(location), quiet, sequential); err != nil {
		return 0, err
	}
	return Joined, nil
}

func (m *Manager) matchLocked(location string, quiet, sequential bool) error {
	var cause error
	switch {
	case location != "" && m.location == "":
		cause = ErrRunningInMemory
	case location == "" && m.location != "":
		cause = ErrRunningInDirectory
	case location != m.location:
		cause = ErrDifferentDirectory
	case quiet != m.quiet:
		cause = ErrDifferentQuietFlag
	case sequential != m.sequential:
		cause = ErrDifferentSequentialFlag
	default:
		return nil
	}
	return &Error{Type: ConfigMismatch, Message: "cannot join the running database", Err: cause}
}

// OpenConnection starts or joins the database and opens a connection on
// it in one step. The database stops when the last connection opened this
// way is closed.
func (m *Manager) OpenConnection(location string, quiet, sequential bool) (*Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status, err := m.startOrJoinLocked(location, quiet, sequential)
	if err != nil {
		return nil, err
	}
	c, err := m.createLocked(true)
	if err != nil && status == Started {
		if serr := m.stopLocked(); serr != nil {
			m.log.WithError(serr).Warn("failed to stop database after connection failure")
		}
	}
	return c, err
}

// Stop closes every connection and stops the database. It fails with
// ErrNotRunning when no database is running. When the engine fails to stop
// the instance stays registered and Stop may be retried.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopLocked()
}

func (m *Manager) stopLocked() error {
	if m.inst == nil {
		return NewError(NotRunning, "database is not running")
	}
	for id, c := range m.connections {
		c.closeLocal()
		delete(m.connections, id)
	}
	if err := m.inst.Stop(); err != nil {
		return engineError(err, "stop")
	}
	m.inst = nil
	live.CompareAndSwap(m, nil)
	m.lifecycle(logrus.Fields{
		"location": m.describeLocation(),
		"uptime":   time.Since(m.startedAt).Round(time.Millisecond).String(),
	}, "database stopped")
	return nil
}

// CreateConnection opens a new connection on the running database.
func (m *Manager) CreateConnection() (*Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createLocked(false)
}

func (m *Manager) createLocked(autoShutdown bool) (*Connection, error) {
	if m.inst == nil {
		return nil, NewError(NotRunning, "database is not running")
	}
	s, err := m.inst.NewSession()
	if err != nil {
		return nil, engineError(err, "connect")
	}
	id := uuid.NewString()
	for m.connections[id] != nil {
		id = uuid.NewString()
	}
	c := newConnection(m, id, s, m.dialect, autoShutdown)
	m.connections[id] = c
	GaugeOpenConnections.Inc()
	c.log.Debug("connection opened")
	return c, nil
}

// RemoveConnection deregisters c. With autoShutdown the database stops
// once no connection is left.
func (m *Manager) RemoveConnection(c *Connection, autoShutdown bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inst == nil {
		return NewError(NotRunning, "database is not running")
	}
	delete(m.connections, c.id)
	if autoShutdown && len(m.connections) == 0 {
		return m.stopLocked()
	}
	return nil
}

// IsRunning reports whether m runs a database.
func (m *Manager) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inst != nil
}

// IsInMemory reports whether the running database is in memory.
func (m *Manager) IsInMemory() (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.inst == nil {
		return false, NewError(NotRunning, "database is not running")
	}
	return m.location == "", nil
}

// Directory returns the storage location, "" for an in-memory database.
func (m *Manager) Directory() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.inst == nil {
		return "", NewError(NotRunning, "database is not running")
	}
	return m.location, nil
}

// ConnectionCount returns the number of registered connections.
func (m *Manager) ConnectionCount() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.inst == nil {
		return 0, NewError(NotRunning, "database is not running")
	}
	return len(m.connections), nil
}

// QuietFlag returns the quiet flag the database was started with.
func (m *Manager) QuietFlag() (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.inst == nil {
		return false, NewError(NotRunning, "database is not running")
	}
	return m.quiet, nil
}

// SequentialFlag returns the sequential flag the database was started with.
func (m *Manager) SequentialFlag() (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.inst == nil {
		return false, NewError(NotRunning, "database is not running")
	}
	return m.sequential, nil
}

// ConnectionIDs returns the identifiers of the registered connections.
func (m *Manager) ConnectionIDs() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.inst == nil {
		return nil, NewError(NotRunning, "database is not running")
	}
	ids := make([]string, 0, len(m.connections))
	for id := range m.connections {
		ids = append(ids, id)
	}
	return ids, nil
}

// EngineVersion returns the version reported by the running engine.
func (m *Manager) EngineVersion() (Version, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.inst == nil {
		return Version{}, NewError(NotRunning, "database is not running")
	}
	vr, ok := m.inst.(VersionReporter)
	if !ok {
		return Version{}, NewError(EngineFailure, "engine does not report its version")
	}
	v, err := vr.EngineVersion()
	if err != nil {
		return Version{}, engineError(err, "version")
	}
	return v, nil
}
