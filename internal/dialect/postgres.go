package dialect

import (
	"fmt"
	"strings"
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string   { return "postgres" }
func (d *PostgresDialect) Driver() string { return "postgres" }

func (d *PostgresDialect) QuoteIdentifier(name string) string {
	return QuoteAnsi(name)
}

func (d *PostgresDialect) TypeKeyword(affinity string) string {
	switch affinity {
	case "INTEGER":
		return "BIGINT"
	case "REAL":
		return "DOUBLE PRECISION"
	case "BLOB":
		return "BYTEA"
	default:
		return "TEXT"
	}
}

func (d *PostgresDialect) CreateTableQuery(table string, columnDefs []string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)",
		d.QuoteIdentifier(table), strings.Join(columnDefs, ",\n  "))
}

func (d *PostgresDialect) InsertQuery(table string, cols []string) string {
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdentifier(table),
		strings.Join(QuoteList(cols, d.QuoteIdentifier), ", "),
		vals)
}

func (d *PostgresDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s", d.QuoteIdentifier(table))
}

func (d *PostgresDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", d.QuoteIdentifier(table))
}

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index+1)
}
