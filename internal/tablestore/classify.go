package tablestore

import (
	"errors"

	storeerrors "github.com/lepinkainen/barky/internal/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// classify maps an engine error onto the store's error taxonomy using the
// primary SQLite result code.
func (s *Store) classify(table string, err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return storeerrors.NewStorageUnavailableError(s.path, err)
	}

	switch sqliteErr.Code() & 0xff {
	case sqlite3.SQLITE_CONSTRAINT, sqlite3.SQLITE_MISMATCH:
		return storeerrors.NewConstraintViolationError(table, err)
	case sqlite3.SQLITE_ERROR, sqlite3.SQLITE_RANGE:
		return storeerrors.NewSchemaError(table, err)
	default:
		return storeerrors.NewStorageUnavailableError(s.path, err)
	}
}
