// Package sqlitedrv provides a database/sql/driver implementation over the
// sqlitec bindings.
//
// It lets database/sql pool sqlitec connections and lets libraries written
// against database/sql, like sqlx, run on them. Each pooled connection is a
// *sqlitec.Conn, so statements wait on shared-cache locks held by other
// pooled connections instead of failing. A goroutine must not keep a
// result set or transaction open on one pooled connection while writing to
// the same tables through another one, that wait would never end.
//
// Values are bound as sqlitec binds them. In addition nil leaves the
// parameter NULL, bool binds as 0 or 1 and time.Time as RFC 3339 text.
// Blobs are not supported.
package sqlitedrv

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/nsqlite/sqlitebind/internal/log"
	"github.com/nsqlite/sqlitebind/internal/sqlitec"
)

// DriverName is the name the driver is registered with in database/sql.
const DriverName = "sqlitebind"

var (
	_ driver.Driver             = (*Driver)(nil)
	_ driver.Conn               = (*Conn)(nil)
	_ driver.ConnBeginTx        = (*Conn)(nil)
	_ driver.ConnPrepareContext = (*Conn)(nil)
	_ driver.ExecerContext      = (*Conn)(nil)
	_ driver.NamedValueChecker  = (*Conn)(nil)
	_ driver.Validator          = (*Conn)(nil)
	_ driver.SessionResetter    = (*Conn)(nil)
	_ driver.Connector          = (*Connector)(nil)
)

func init() {
	sql.Register(DriverName, &Driver{})
}

// Driver implements the database/sql/driver interface
type Driver struct{}

// Open creates a new connection to the SQLite database
func (driver *Driver) Open(dsn string) (driver.Conn, error) {
	connector := NewConnector(dsn)
	return connector.Connect(context.Background())
}

type connectorOption func(*Connector)

// WithPostConnectQueries sets a slice of queries to be executed after a
// connection is established, replacing the default ones.
func WithPostConnectQueries(queries []string) connectorOption {
	return func(connector *Connector) {
		connector.postConnectQueries = queries
	}
}

// WithLogger sets the logger handed to every connection.
func WithLogger(logger log.Logger) connectorOption {
	return func(connector *Connector) {
		connector.logger = logger
	}
}

// Connector implements the database/sql/driver.Connector interface
type Connector struct {
	dsn                string
	postConnectQueries []string
	logger             log.Logger
}

// NewConnector creates a new connector to the SQLite database
func NewConnector(dsn string, options ...connectorOption) driver.Connector {
	connector := &Connector{
		dsn:                dsn,
		postConnectQueries: sqlitec.DefaultPostOpenQueries,
		logger:             log.Discard(),
	}

	for _, option := range options {
		option(connector)
	}

	return connector
}

// Connect creates a new connection to the SQLite database
func (connector *Connector) Connect(ctx context.Context) (driver.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return newConn(connector.dsn, connector.postConnectQueries, connector.logger)
}

// Driver returns the driver
func (connector *Connector) Driver() driver.Driver {
	return &Driver{}
}

// Conn implements the database/sql/driver.Conn interface
type Conn struct {
	conn   *sqlitec.Conn
	logger log.Logger
}

// newConn creates a new connection to the SQLite database
func newConn(dsn string, postConnectQueries []string, logger log.Logger) (driver.Conn, error) {
	conn, err := sqlitec.Open(
		dsn,
		sqlitec.WithLogger(logger),
		sqlitec.WithPostOpenQueries(postConnectQueries),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}

	logger.DebugNs(log.NsDriver, "pooled connection opened", log.KV{"dsn": dsn})
	return &Conn{
		conn:   conn,
		logger: logger,
	}, nil
}

// RawConn returns the underlying SQLite C API connection
func (conn *Conn) RawConn() *sqlitec.Conn {
	return conn.conn
}

// Close closes the connection to the SQLite database
func (conn *Conn) Close() error {
	if err := conn.conn.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

// Prepare returns a prepared statement, bound to this connection.
func (conn *Conn) Prepare(query string) (driver.Stmt, error) {
	return conn.PrepareContext(context.Background(), query)
}

// PrepareContext returns a prepared statement, bound to this connection.
func (conn *Conn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if conn.conn.IsClosed() {
		return nil, driver.ErrBadConn
	}

	stmt, err := conn.conn.Prepare(query)
	if err != nil {
		return nil, err
	}
	return &Stmt{stmt: stmt}, nil
}

// ExecContext runs query on the connection. Without arguments the query may
// hold several statements, they run in order and the result only reports
// the rows they changed.
func (conn *Conn) ExecContext(
	ctx context.Context, query string, args []driver.NamedValue,
) (driver.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if conn.conn.IsClosed() {
		return nil, driver.ErrBadConn
	}

	if len(args) == 0 {
		before := conn.conn.TotalChanges()
		if err := conn.conn.Exec(query); err != nil {
			return nil, err
		}
		return &Result{rowsAffected: conn.conn.TotalChanges() - before}, nil
	}

	stmt, err := conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	return stmt.(*Stmt).ExecContext(ctx, args)
}

// Begin starts a deferred transaction.
func (conn *Conn) Begin() (driver.Tx, error) {
	return conn.BeginTx(context.Background(), driver.TxOptions{})
}

// BeginTx starts a transaction. Read-only transactions and the default
// isolation level are accepted, SQLite transactions being serializable.
func (conn *Conn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch sql.IsolationLevel(opts.Isolation) {
	case sql.LevelDefault, sql.LevelSerializable:
	default:
		return nil, fmt.Errorf("unsupported isolation level %s", sql.IsolationLevel(opts.Isolation))
	}

	if err := conn.conn.Exec("BEGIN"); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{conn: conn}, nil
}

// CheckNamedValue converts the values the core cannot bind directly.
// Named parameters are not supported.
func (conn *Conn) CheckNamedValue(nv *driver.NamedValue) error {
	if nv.Name != "" {
		return fmt.Errorf("named parameter %q is not supported", nv.Name)
	}

	value, err := driver.DefaultParameterConverter.ConvertValue(nv.Value)
	if err != nil {
		return err
	}

	switch v := value.(type) {
	case bool:
		if v {
			value = int64(1)
		} else {
			value = int64(0)
		}
	case time.Time:
		value = v.Format(time.RFC3339Nano)
	case []byte:
		return fmt.Errorf("failed to bind parameter %d: %w: %T", nv.Ordinal, sqlitec.ErrUnsupportedType, v)
	}

	nv.Value = value
	return nil
}

// ResetSession rejects connections closed behind the pool's back.
func (conn *Conn) ResetSession(_ context.Context) error {
	if conn.conn.IsClosed() {
		return driver.ErrBadConn
	}
	return nil
}

// IsValid reports whether the connection can be reused by the pool.
func (conn *Conn) IsValid() bool {
	return !conn.conn.IsClosed()
}
