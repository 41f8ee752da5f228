package schema

import (
	"fmt"
	"strings"

	"mongolift/internal/dialect"
)

// CreateTableSQL renders the table-creation statement for a resolved
// schema. Every identifier goes through the dialect's quoting; field
// names come from source documents and are treated as hostile.
func CreateTableSQL(d dialect.Dialect, t *Table) string {
	defs := make([]string, 0, len(t.Columns))
	for _, col := range t.Columns {
		def := fmt.Sprintf("%s %s", d.QuoteIdentifier(col.Name), d.TypeKeyword(string(col.Type)))
		if col.PrimaryKey {
			def += " PRIMARY KEY"
		} else if !col.Nullable {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}
	return d.CreateTableQuery(t.Collection, defs)
}

// CreateIndexSQL renders the statements for the explicitly configured
// indexes. No index beyond the primary key is ever invented here.
func CreateIndexSQL(d dialect.Dialect, t *Table) []string {
	stmts := make([]string, 0, len(t.Indexes))
	for _, idx := range t.Indexes {
		cols := make([]string, len(idx.Columns))
		for i, c := range idx.Columns {
			cols[i] = d.QuoteIdentifier(c)
		}
		unique := ""
		if idx.Unique {
			unique = "UNIQUE "
		}
		stmts = append(stmts, fmt.Sprintf("CREATE %sINDEX %s ON %s (%s)",
			unique,
			d.QuoteIdentifier(idx.Name),
			d.QuoteIdentifier(t.Collection),
			strings.Join(cols, ", ")))
	}
	return stmts
}

// InsertSQL renders the parameterized single-row insert aligned with the
// schema's column order. The converter produces rows in the identical
// order, so placeholders and values never misalign.
func InsertSQL(d dialect.Dialect, t *Table) string {
	return d.InsertQuery(t.Collection, t.ColumnNames())
}
