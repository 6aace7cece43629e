package store

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// DB is the catalog handle. Inside RunInTx the same methods run against the
// transaction instead of the pool.
type DB struct {
	ext    sqlx.ExtContext
	root   *sqlx.DB
	driver string
}

// NewSQLiteDB opens (or creates) a SQLite catalog at path with foreign keys
// enforced on every connection.
func NewSQLiteDB(path string) (*DB, error) {
	return Open(DriverSQLite, sqliteDSN(path))
}

// Open connects with the given driver ("sqlite" or "pgx") and applies the schema.
func Open(driver, dsn string) (*DB, error) {
	root, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if driver == DriverSQLite {
		// A single writer avoids SQLITE_BUSY between pool connections.
		root.SetMaxOpenConns(1)
	}

	if err := root.Ping(); err != nil {
		_ = root.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	db := &DB{ext: root, root: root, driver: driver}
	if err := db.applySchema(); err != nil {
		_ = root.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return db, nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(30000)&_pragma=journal_mode(WAL)"
}

func (db *DB) applySchema() error {
	stmts := sqliteSchema
	if db.driver == DriverPostgres {
		stmts = postgresSchema
	}
	for _, stmt := range stmts {
		if _, err := db.root.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RunInTx runs fn inside a transaction, committing if fn returns nil.
func (db *DB) RunInTx(ctx context.Context, fn func(tx *DB) error) error {
	tx, err := db.root.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	txDB := &DB{ext: tx, root: db.root, driver: db.driver}
	if err := fn(txDB); err != nil {
		return err
	}
	return tx.Commit()
}

func (db *DB) Close() error {
	return db.root.Close()
}

func (db *DB) get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return sqlx.GetContext(ctx, db.ext, dest, db.ext.Rebind(query), args...)
}

func (db *DB) selectAll(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return sqlx.SelectContext(ctx, db.ext, dest, db.ext.Rebind(query), args...)
}

func (db *DB) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	res, err := db.ext.ExecContext(ctx, db.ext.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (db *DB) insertReturningID(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var id int64
	err := db.ext.QueryRowxContext(ctx, db.ext.Rebind(query), args...).Scan(&id)
	return id, err
}

// insertNamedReturningID binds :name parameters from arg's db tags.
func (db *DB) insertNamedReturningID(ctx context.Context, query string, arg interface{}) (int64, error) {
	q, args, err := sqlx.Named(query, arg)
	if err != nil {
		return 0, err
	}
	return db.insertReturningID(ctx, q, args...)
}

// prefixColumns qualifies a comma separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	cols := strings.Split(columns, ",")
	for i, c := range cols {
		cols[i] = alias + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}
