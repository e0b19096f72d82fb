package tablestore

import (
	"fmt"
	"sort"
	"strings"
)

// Statement builders. Identifiers are interpolated as given and are not
// quoted or escaped; every value is bound through a ? placeholder.

type orderTerm struct {
	column string
	desc   bool
}

func createTableSQL(table string, schema Schema) string {
	defs := make([]string, len(schema.columns))
	for i, c := range schema.columns {
		defs[i] = strings.TrimSpace(c.Name + " " + c.Definition)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(defs, ", "))
}

func dropTableSQL(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", table)
}

func insertSQL(table string, row Row) (string, []any) {
	if len(row) == 0 {
		return fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", table), nil
	}

	columns := sortedColumns(row)
	placeholders := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		placeholders[i] = "?"
		args[i] = row[col].Any()
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)
	return query, args
}

func selectSQL(table string, filter Row, order []orderTerm) (string, []any) {
	where, args := whereClause(filter)
	query := fmt.Sprintf("SELECT * FROM %s%s", table, where)

	if len(order) > 0 {
		terms := make([]string, len(order))
		for i, o := range order {
			dir := "ASC"
			if o.desc {
				dir = "DESC"
			}
			terms[i] = o.column + " " + dir
		}
		query += " ORDER BY " + strings.Join(terms, ", ")
	}
	return query, args
}

func deleteSQL(table string, filter Row) (string, []any) {
	where, args := whereClause(filter)
	return fmt.Sprintf("DELETE FROM %s%s", table, where), args
}

func updateSQL(table string, filter, values Row) (string, []any) {
	columns := sortedColumns(values)
	sets := make([]string, len(columns))
	args := make([]any, 0, len(columns)+len(filter))
	for i, col := range columns {
		sets[i] = col + " = ?"
		args = append(args, values[col].Any())
	}

	where, whereArgs := whereClause(filter)
	args = append(args, whereArgs...)
	return fmt.Sprintf("UPDATE %s SET %s%s", table, strings.Join(sets, ", "), where), args
}

// whereClause renders an AND conjunction of equality tests over filter.
// Null values compare with IS NULL since "= NULL" never matches.
// An empty filter yields no WHERE clause.
func whereClause(filter Row) (string, []any) {
	if len(filter) == 0 {
		return "", nil
	}

	columns := sortedColumns(filter)
	conds := make([]string, len(columns))
	var args []any
	for i, col := range columns {
		v := filter[col]
		if v.IsNull() {
			conds[i] = col + " IS NULL"
			continue
		}
		conds[i] = col + " = ?"
		args = append(args, v.Any())
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func sortedColumns(row Row) []string {
	columns := make([]string, 0, len(row))
	for col := range row {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns
}
