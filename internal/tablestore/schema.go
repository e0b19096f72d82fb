package tablestore

// Column is one entry of a table schema. Definition is raw SQLite DDL for
// the column, for example "text not null".
type Column struct {
	Name       string
	Definition string
}

// Col is shorthand for Column{Name: name, Definition: definition}.
func Col(name, definition string) Column {
	return Column{Name: name, Definition: definition}
}

// Schema is an ordered list of columns. Column order in the CREATE TABLE
// statement follows the order given here.
type Schema struct {
	columns []Column
}

// NewSchema creates a Schema from columns in order.
func NewSchema(columns ...Column) Schema {
	cols := make([]Column, len(columns))
	copy(cols, columns)
	return Schema{columns: cols}
}

// Columns returns the schema's columns in order.
func (s Schema) Columns() []Column {
	return s.columns
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}

// Len returns the number of columns.
func (s Schema) Len() int {
	return len(s.columns)
}
