package errors

import (
	stdErrors "errors"
	"fmt"
)

// StorageUnavailableError is returned when the database file cannot be
// opened, created or read (bad path, permissions, not a database, I/O).
type StorageUnavailableError struct {
	Path string
	Err  error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable at %s: %v", e.Path, e.Err)
}

func (e *StorageUnavailableError) Unwrap() error {
	return e.Err
}

// NewStorageUnavailableError wraps err as a StorageUnavailableError for path
func NewStorageUnavailableError(path string, err error) *StorageUnavailableError {
	return &StorageUnavailableError{Path: path, Err: err}
}

// IsStorageUnavailableError reports whether err is a StorageUnavailableError (even when wrapped).
func IsStorageUnavailableError(err error) bool {
	var storageErr *StorageUnavailableError
	return stdErrors.As(err, &storageErr)
}

// SchemaError is returned for malformed DDL, unknown tables or columns and
// rejected identifiers.
type SchemaError struct {
	Table string
	Err   error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error on table %s: %v", e.Table, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// NewSchemaError wraps err as a SchemaError for table
func NewSchemaError(table string, err error) *SchemaError {
	return &SchemaError{Table: table, Err: err}
}

// IsSchemaError reports whether err is a SchemaError (even when wrapped).
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return stdErrors.As(err, &schemaErr)
}

// ConstraintViolationError is returned when a write breaks a NOT NULL,
// UNIQUE, PRIMARY KEY, CHECK or datatype constraint.
type ConstraintViolationError struct {
	Table string
	Err   error
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("constraint violation on table %s: %v", e.Table, e.Err)
}

func (e *ConstraintViolationError) Unwrap() error {
	return e.Err
}

// NewConstraintViolationError wraps err as a ConstraintViolationError for table
func NewConstraintViolationError(table string, err error) *ConstraintViolationError {
	return &ConstraintViolationError{Table: table, Err: err}
}

// IsConstraintViolationError reports whether err is a ConstraintViolationError (even when wrapped).
func IsConstraintViolationError(err error) bool {
	var constraintErr *ConstraintViolationError
	return stdErrors.As(err, &constraintErr)
}

// StoreClosedError is returned by any store operation after the store was closed
type StoreClosedError struct {
	Op string
}

func (e *StoreClosedError) Error() string {
	return fmt.Sprintf("%s: store is closed", e.Op)
}

// NewStoreClosedError creates a StoreClosedError for the named operation
func NewStoreClosedError(op string) *StoreClosedError {
	return &StoreClosedError{Op: op}
}

// IsStoreClosedError reports whether err is a StoreClosedError (even when wrapped).
func IsStoreClosedError(err error) bool {
	var closedErr *StoreClosedError
	return stdErrors.As(err, &closedErr)
}
