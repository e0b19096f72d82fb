package tablestore

import (
	"fmt"
	"regexp"

	storeerrors "github.com/lepinkainen/barky/internal/errors"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether name is a plain SQL identifier that is
// safe to interpolate unquoted.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// checkIdentifiers validates table and column names when the store was
// opened WithStrictIdentifiers. Without it every name passes through as-is.
func (s *Store) checkIdentifiers(table string, columns ...string) error {
	if !s.strictIdentifiers {
		return nil
	}
	if !ValidIdentifier(table) {
		return storeerrors.NewSchemaError(table, fmt.Errorf("invalid table name %q", table))
	}
	for _, col := range columns {
		if !ValidIdentifier(col) {
			return storeerrors.NewSchemaError(table, fmt.Errorf("invalid column name %q", col))
		}
	}
	return nil
}
