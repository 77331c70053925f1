package cmd

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	embedded "github.com/semihalev/go-duckdb-embedded"
	"github.com/semihalev/go-duckdb-embedded/engine/duckdb"
)

// database is an open connection on a database started for one command.
type database struct {
	manager    *embedded.Manager
	conn       *embedded.Connection
	log        *logrus.Logger
	stopSignal func()
}

// openDatabase starts the database described by cfg, logging to stderr,
// and stops it again on SIGINT or SIGTERM.
func openDatabase(ctx context.Context, cfg *embedded.Config, stderr io.Writer) (*database, error) {
	log, err := cfg.NewLogger(stderr)
	if err != nil {
		return nil, err
	}
	m := embedded.NewManager(duckdb.NewEngine(duckdb.WithLogger(log)), embedded.WithLogger(log))
	conn, err := m.OpenConnection(cfg.Directory, cfg.Quiet, cfg.Sequential)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &database{
		manager:    m,
		conn:       conn,
		log:        log,
		stopSignal: m.StopOnSignal(ctx),
	}, nil
}

// close closes the connection, which stops the database.
func (db *database) close() {
	db.stopSignal()
	if err := db.conn.Close(); err != nil {
		db.log.WithError(err).Warn("closing connection")
	}
}

// run executes one statement and writes its outcome to w.
func (db *database) run(ctx context.Context, sql string, w io.Writer) error {
	start := time.Now()
	res, err := db.conn.ExecuteContext(ctx, sql)
	if err != nil {
		return err
	}
	defer res.Close()
	return writeResult(w, res, time.Since(start))
}
