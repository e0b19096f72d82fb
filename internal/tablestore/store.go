// Package tablestore is a small generic-table layer over an embedded SQLite
// database. Tables are described by ordered column lists, rows by
// column-to-value maps, and every value reaches the engine through a bound
// parameter.
//
// Table and column names are interpolated into statements unescaped. Callers
// must pass well-formed identifiers, or open the store WithStrictIdentifiers
// to have them validated against a plain-identifier allow-list.
//
// A Store owns exactly one connection and is not meant for concurrent use.
package tablestore

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	storeerrors "github.com/lepinkainen/barky/internal/errors"
)

const driverName = "sqlite"

type options struct {
	strictIdentifiers bool
	busyTimeout       int
	foreignKeys       bool
}

func defaults() options {
	return options{
		busyTimeout: 5000,
	}
}

// Option customises Open behaviour.
type Option func(*options)

// WithStrictIdentifiers rejects table and column names that are not plain
// identifiers ([A-Za-z_][A-Za-z0-9_]*) with a SchemaError.
func WithStrictIdentifiers() Option { return func(o *options) { o.strictIdentifiers = true } }

// WithBusyTimeout sets PRAGMA busy_timeout in milliseconds. Default: 5000.
func WithBusyTimeout(ms int) Option { return func(o *options) { o.busyTimeout = ms } }

// WithForeignKeys turns on PRAGMA foreign_keys.
func WithForeignKeys() Option { return func(o *options) { o.foreignKeys = true } }

// Store is a handle to one SQLite database file.
type Store struct {
	db                *sql.DB
	path              string
	strictIdentifiers bool

	mu     sync.Mutex
	closed bool
}

// Open opens the database at path, creating the file if it does not exist.
// The file is read once so that bad paths, missing permissions and files
// that are not databases fail here with a StorageUnavailableError.
//
// A plain path may not contain '?', since the driver would cut it there.
// SQLite URIs ("file:...?mode=ro") are passed through with their query.
func Open(path string, opts ...Option) (*Store, error) {
	cfg := defaults()
	for _, o := range opts {
		o(&cfg)
	}

	if strings.TrimSpace(path) == "" {
		return nil, storeerrors.NewStorageUnavailableError(path, errors.New("empty database path"))
	}
	if !strings.HasPrefix(path, "file:") && strings.Contains(path, "?") {
		return nil, storeerrors.NewStorageUnavailableError(path, errors.New("database path contains '?'; use a file: URI"))
	}

	db, err := sql.Open(driverName, dsn(path, cfg))
	if err != nil {
		return nil, storeerrors.NewStorageUnavailableError(path, fmt.Errorf("failed to open database: %w", err))
	}

	// One connection, kept for the lifetime of the store
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	var tables int
	if err := db.QueryRow("SELECT count(*) FROM sqlite_master").Scan(&tables); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(storeerrors.NewStorageUnavailableError(path, err), closeErr)
	}

	slog.Debug("Database opened", "path", path, "tables", tables)

	return &Store{
		db:                db,
		path:              path,
		strictIdentifiers: cfg.strictIdentifiers,
	}, nil
}

func dsn(path string, cfg options) string {
	var pragmas []string
	if cfg.busyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("_pragma=busy_timeout(%d)", cfg.busyTimeout))
	}
	if cfg.foreignKeys {
		pragmas = append(pragmas, "_pragma=foreign_keys(1)")
	}
	if len(pragmas) == 0 {
		return path
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(pragmas, "&")
}

// Path returns the database file path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// CreateTable creates table with the given columns unless it already exists.
func (s *Store) CreateTable(table string, schema Schema) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storeerrors.NewStoreClosedError("create table")
	}
	if err := s.checkIdentifiers(table, schema.Names()...); err != nil {
		return err
	}
	if schema.Len() == 0 {
		return storeerrors.NewSchemaError(table, errors.New("schema has no columns"))
	}
	for i, name := range schema.Names() {
		if strings.TrimSpace(name) == "" {
			return storeerrors.NewSchemaError(table, fmt.Errorf("column %d has no name", i))
		}
	}

	if _, err := s.exec(table, createTableSQL(table, schema)); err != nil {
		return err
	}

	slog.Debug("Table ready", "table", table, "columns", schema.Len())
	return nil
}

// DropTable removes table. Dropping a table that does not exist is not an error.
func (s *Store) DropTable(table string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storeerrors.NewStoreClosedError("drop table")
	}
	if err := s.checkIdentifiers(table); err != nil {
		return err
	}

	if _, err := s.exec(table, dropTableSQL(table)); err != nil {
		return err
	}

	slog.Debug("Table dropped", "table", table)
	return nil
}

// Insert adds row to table and returns the rowid the engine assigned.
// An empty row inserts a record made of column defaults.
func (s *Store) Insert(table string, row Row) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, storeerrors.NewStoreClosedError("insert")
	}
	if err := s.checkIdentifiers(table, sortedColumns(row)...); err != nil {
		return 0, err
	}

	query, args := insertSQL(table, row)
	result, err := s.exec(table, query, args...)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted row id: %w", err)
	}
	return id, nil
}

type selectConfig struct {
	order []orderTerm
}

// SelectOption adjusts a Select query.
type SelectOption func(*selectConfig)

// OrderBy sorts results by column, ascending. Repeat for secondary keys.
func OrderBy(column string) SelectOption {
	return func(c *selectConfig) { c.order = append(c.order, orderTerm{column: column}) }
}

// OrderByDesc sorts results by column, descending.
func OrderByDesc(column string) SelectOption {
	return func(c *selectConfig) { c.order = append(c.order, orderTerm{column: column, desc: true}) }
}

// Select returns every record of table whose columns equal all entries of
// filter. An empty filter matches every row. No match yields an empty,
// non-nil slice.
func (s *Store) Select(table string, filter Row, opts ...SelectOption) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, storeerrors.NewStoreClosedError("select")
	}

	var cfg selectConfig
	for _, o := range opts {
		o(&cfg)
	}

	columns := sortedColumns(filter)
	for _, o := range cfg.order {
		columns = append(columns, o.column)
	}
	if err := s.checkIdentifiers(table, columns...); err != nil {
		return nil, err
	}

	query, args := selectSQL(table, filter, cfg.order)
	slog.Debug("Executing query", "table", table, "sql", query, "args", len(args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, s.classify(table, err)
	}
	defer func() { _ = rows.Close() }()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	records := []Record{}
	for rows.Next() {
		raw := make([]any, len(names))
		dest := make([]any, len(names))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, s.classify(table, err)
		}

		values := make([]Value, len(raw))
		for i, v := range raw {
			values[i] = fromDriver(v)
		}
		records = append(records, Record{columns: names, values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, s.classify(table, err)
	}

	return records, nil
}

// Delete removes every row of table matching all entries of filter and
// returns how many were removed. An empty filter removes every row.
func (s *Store) Delete(table string, filter Row) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, storeerrors.NewStoreClosedError("delete")
	}
	if err := s.checkIdentifiers(table, sortedColumns(filter)...); err != nil {
		return 0, err
	}

	query, args := deleteSQL(table, filter)
	result, err := s.exec(table, query, args...)
	if err != nil {
		return 0, err
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	slog.Debug("Rows deleted", "table", table, "rows_deleted", removed)
	return removed, nil
}

// Update sets values on every row of table matching filter and returns how
// many rows changed. Empty values is a no-op.
func (s *Store) Update(table string, filter, values Row) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, storeerrors.NewStoreClosedError("update")
	}
	if len(values) == 0 {
		return 0, nil
	}
	if err := s.checkIdentifiers(table, append(sortedColumns(values), sortedColumns(filter)...)...); err != nil {
		return 0, err
	}

	query, args := updateSQL(table, filter, values)
	result, err := s.exec(table, query, args...)
	if err != nil {
		return 0, err
	}

	changed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return changed, nil
}

// TableExists reports whether table is present in the database catalog.
func (s *Store) TableExists(table string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, storeerrors.NewStoreClosedError("table exists")
	}

	var count int
	err := s.db.QueryRow("SELECT count(name) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&count)
	if err != nil {
		return false, s.classify(table, err)
	}
	return count > 0, nil
}

// Close releases the database connection. Calling Close more than once is
// a no-op. The file must not be removed before Close returns.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	slog.Debug("Database closed", "path", s.path)
	return nil
}

// exec runs a single autocommitted statement.
func (s *Store) exec(table, query string, args ...any) (sql.Result, error) {
	slog.Debug("Executing statement", "table", table, "sql", query, "args", len(args))

	result, err := s.db.Exec(query, args...)
	if err != nil {
		return nil, s.classify(table, err)
	}
	return result, nil
}
