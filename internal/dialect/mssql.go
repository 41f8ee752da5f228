package dialect

import (
	"fmt"
	"strings"
)

type MSSQLDialect struct{}

func (d *MSSQLDialect) Name() string   { return "sqlserver" }
func (d *MSSQLDialect) Driver() string { return "sqlserver" }

func (d *MSSQLDialect) QuoteIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func (d *MSSQLDialect) TypeKeyword(affinity string) string {
	switch affinity {
	case "INTEGER":
		return "BIGINT"
	case "REAL":
		return "FLOAT"
	case "BLOB":
		return "VARBINARY(MAX)"
	default:
		return "NVARCHAR(MAX)"
	}
}

func (d *MSSQLDialect) CreateTableQuery(table string, columnDefs []string) string {
	// No IF NOT EXISTS in T-SQL CREATE TABLE; an existing table surfaces
	// as an execution error handled by the caller.
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)",
		d.QuoteIdentifier(table), strings.Join(columnDefs, ",\n  "))
}

func (d *MSSQLDialect) InsertQuery(table string, cols []string) string {
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdentifier(table),
		strings.Join(QuoteList(cols, d.QuoteIdentifier), ", "),
		vals)
}

func (d *MSSQLDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("DELETE FROM %s", d.QuoteIdentifier(table))
}

func (d *MSSQLDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE %s", d.QuoteIdentifier(table))
}

func (d *MSSQLDialect) Placeholder(index int) string {
	return fmt.Sprintf("@p%d", index+1)
}
