// Package sqlite implements the storage ports on SQLite. The schema is owned by
// golang-migrate; gorm maps rows over the same modernc connections.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

const (
	maxWriters = 1
	maxReaders = 4
)

// connPragmas run on every new connection.
var connPragmas = []string{
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
	"foreign_keys(ON)",
	"cache_size(-64000)",
}

// DB is a pair of pools over one database file: a single writer, which
// keeps SQLite from reporting "database is locked", and a few readers.
type DB struct {
	Writer *sql.DB
	Reader *sql.DB

	write *gorm.DB
	read  *gorm.DB
}

// NewDB opens the database at path in WAL mode, creating the file if needed.
func NewDB(path string) (*DB, error) {
	return openDB(buildDSN(path, "_pragma=journal_mode(WAL)"))
}

// buildDSN assembles a modernc file: DSN. extra parameters come first.
func buildDSN(name string, extra ...string) string {
	params := append([]string{}, extra...)
	for _, p := range connPragmas {
		params = append(params, "_pragma="+p)
	}
	params = append(params, "_time_format=sqlite")
	return "file:" + name + "?" + strings.Join(params, "&")
}

func openDB(dsn string) (*DB, error) {
	writer, err := openPool(dsn, maxWriters)
	if err != nil {
		return nil, fmt.Errorf("writer pool: %w", err)
	}
	reader, err := openPool(dsn, maxReaders)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("reader pool: %w", err)
	}

	db := &DB{Writer: writer, Reader: reader}
	if db.write, err = openGorm(writer); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("gorm writer: %w", err)
	}
	if db.read, err = openGorm(reader); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("gorm reader: %w", err)
	}
	return db, nil
}

func openPool(dsn string, maxConns int) (*sql.DB, error) {
	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(maxConns)
	if err := pool.Ping(); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return pool, nil
}

// openGorm wraps an existing pool. Timestamps are generated in UTC so that
// text-encoded times sort chronologically.
func openGorm(conn *sql.DB) (*gorm.DB, error) {
	return gorm.Open(gormsqlite.New(gormsqlite.Config{Conn: conn}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		NowFunc:                func() time.Time { return time.Now().UTC() },
		SkipDefaultTransaction: true,
	})
}

// Close closes both pools.
func (db *DB) Close() error {
	var errs []error
	if err := db.Reader.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close reader: %w", err))
	}
	if err := db.Writer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close writer: %w", err))
	}
	return errors.Join(errs...)
}
