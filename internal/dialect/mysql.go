package dialect

import (
	"fmt"
	"strings"
)

type MysqlDialect struct{}

func (d *MysqlDialect) Name() string   { return "mysql" }
func (d *MysqlDialect) Driver() string { return "mysql" }

func (d *MysqlDialect) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (d *MysqlDialect) TypeKeyword(affinity string) string {
	switch affinity {
	case "INTEGER":
		return "BIGINT"
	case "REAL":
		return "DOUBLE"
	case "BLOB":
		return "LONGBLOB"
	default:
		// TEXT columns may hold serialized structures of arbitrary size.
		return "LONGTEXT"
	}
}

func (d *MysqlDialect) CreateTableQuery(table string, columnDefs []string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)",
		d.QuoteIdentifier(table), strings.Join(columnDefs, ",\n  "))
}

func (d *MysqlDialect) InsertQuery(table string, cols []string) string {
	vals := GeneratePlaceholders(len(cols), d.Placeholder)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdentifier(table),
		strings.Join(QuoteList(cols, d.QuoteIdentifier), ", "),
		vals)
}

func (d *MysqlDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s", d.QuoteIdentifier(table))
}

func (d *MysqlDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", d.QuoteIdentifier(table))
}

func (d *MysqlDialect) Placeholder(index int) string {
	return "?"
}
