package dialect

import (
	"fmt"
	"strings"
)

// SqliteDialect is the default destination. Affinity keywords pass
// through unchanged since the resolver already speaks SQLite affinities.
type SqliteDialect struct{}

func (d *SqliteDialect) Name() string   { return "sqlite" }
func (d *SqliteDialect) Driver() string { return "sqlite" }

func (d *SqliteDialect) QuoteIdentifier(name string) string {
	return QuoteAnsi(name)
}

func (d *SqliteDialect) TypeKeyword(affinity string) string {
	return affinity
}

func (d *SqliteDialect) CreateTableQuery(table string, columnDefs []string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)",
		d.QuoteIdentifier(table), strings.Join(columnDefs, ",\n  "))
}

func (d *SqliteDialect) InsertQuery(table string, cols []string) string {
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdentifier(table),
		strings.Join(QuoteList(cols, d.QuoteIdentifier), ", "),
		vals)
}

func (d *SqliteDialect) TruncateQuery(table string) string {
	// SQLite has no TRUNCATE.
	return fmt.Sprintf("DELETE FROM %s", d.QuoteIdentifier(table))
}

func (d *SqliteDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", d.QuoteIdentifier(table))
}

func (d *SqliteDialect) Placeholder(index int) string {
	return "?"
}
