package dialect

import (
	"fmt"
	"strings"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string   { return "oracle" }
func (d *OracleDialect) Driver() string { return "oracle" }

func (d *OracleDialect) QuoteIdentifier(name string) string {
	return QuoteAnsi(name)
}

func (d *OracleDialect) TypeKeyword(affinity string) string {
	switch affinity {
	case "INTEGER":
		return "NUMBER(19)"
	case "REAL":
		return "BINARY_DOUBLE"
	case "BLOB":
		return "BLOB"
	default:
		return "CLOB"
	}
}

func (d *OracleDialect) CreateTableQuery(table string, columnDefs []string) string {
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)",
		d.QuoteIdentifier(table), strings.Join(columnDefs, ",\n  "))
}

func (d *OracleDialect) InsertQuery(table string, cols []string) string {
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdentifier(table),
		strings.Join(QuoteList(cols, d.QuoteIdentifier), ", "),
		vals)
}

func (d *OracleDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s", d.QuoteIdentifier(table))
}

func (d *OracleDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE %s", d.QuoteIdentifier(table))
}

func (d *OracleDialect) Placeholder(index int) string {
	return fmt.Sprintf(":%d", index+1)
}
