package dialect_test

import (
	"testing"

	"mongolift/internal/dialect"
)

func TestGetDialect(t *testing.T) {
	cases := []struct {
		driver string
		want   string
	}{
		{"sqlite", "sqlite"},
		{"postgres", "postgres"},
		{"mysql", "mysql"},
		{"sqlserver", "sqlserver"},
		{"mssql", "sqlserver"},
		{"oracle", "oracle"},
		{"", "sqlite"},
		{"unknown", "sqlite"},
	}
	for _, c := range cases {
		if got := dialect.GetDialect(c.driver).Name(); got != c.want {
			t.Errorf("GetDialect(%q).Name() = %s, want %s", c.driver, got, c.want)
		}
	}
}

func TestQuoteIdentifier(t *testing.T) {
	cases := []struct {
		d    dialect.Dialect
		in   string
		want string
	}{
		{&dialect.SqliteDialect{}, `evil"name`, `"evil""name"`},
		{&dialect.PostgresDialect{}, `evil"name`, `"evil""name"`},
		{&dialect.OracleDialect{}, `evil"name`, `"evil""name"`},
		{&dialect.MysqlDialect{}, "evil`name", "`evil``name`"},
		{&dialect.MSSQLDialect{}, `evil]name`, `[evil]]name]`},
	}
	for _, c := range cases {
		if got := c.d.QuoteIdentifier(c.in); got != c.want {
			t.Errorf("%s.QuoteIdentifier(%q) = %s, want %s", c.d.Name(), c.in, got, c.want)
		}
	}
}

func TestTypeKeywordMapping(t *testing.T) {
	affinities := []string{"INTEGER", "REAL", "TEXT", "BLOB"}
	want := map[string][]string{
		"sqlite":    {"INTEGER", "REAL", "TEXT", "BLOB"},
		"postgres":  {"BIGINT", "DOUBLE PRECISION", "TEXT", "BYTEA"},
		"mysql":     {"BIGINT", "DOUBLE", "LONGTEXT", "LONGBLOB"},
		"sqlserver": {"BIGINT", "FLOAT", "NVARCHAR(MAX)", "VARBINARY(MAX)"},
		"oracle":    {"NUMBER(19)", "BINARY_DOUBLE", "CLOB", "BLOB"},
	}
	for name, keywords := range want {
		d := dialect.GetDialect(name)
		for i, affinity := range affinities {
			if got := d.TypeKeyword(affinity); got != keywords[i] {
				t.Errorf("%s.TypeKeyword(%s) = %s, want %s", name, affinity, got, keywords[i])
			}
		}
	}
}

func TestInsertQueryPlaceholders(t *testing.T) {
	cols := []string{"_id", "name", "age"}
	cases := []struct {
		d    dialect.Dialect
		want string
	}{
		{&dialect.SqliteDialect{}, `INSERT INTO "t" ("_id", "name", "age") VALUES (?, ?, ?)`},
		{&dialect.PostgresDialect{}, `INSERT INTO "t" ("_id", "name", "age") VALUES ($1, $2, $3)`},
		{&dialect.MysqlDialect{}, "INSERT INTO `t` (`_id`, `name`, `age`) VALUES (?, ?, ?)"},
		{&dialect.MSSQLDialect{}, `INSERT INTO [t] ([_id], [name], [age]) VALUES (@p1, @p2, @p3)`},
		{&dialect.OracleDialect{}, `INSERT INTO "t" ("_id", "name", "age") VALUES (:1, :2, :3)`},
	}
	for _, c := range cases {
		if got := c.d.InsertQuery("t", cols); got != c.want {
			t.Errorf("%s.InsertQuery = %s, want %s", c.d.Name(), got, c.want)
		}
	}
}

func TestTruncateQuery(t *testing.T) {
	// SQLite and SQL Server fall back to DELETE; the rest use TRUNCATE.
	cases := []struct {
		d    dialect.Dialect
		want string
	}{
		{&dialect.SqliteDialect{}, `DELETE FROM "t"`},
		{&dialect.MSSQLDialect{}, `DELETE FROM [t]`},
		{&dialect.PostgresDialect{}, `TRUNCATE TABLE "t"`},
		{&dialect.MysqlDialect{}, "TRUNCATE TABLE `t`"},
		{&dialect.OracleDialect{}, `TRUNCATE TABLE "t"`},
	}
	for _, c := range cases {
		if got := c.d.TruncateQuery("t"); got != c.want {
			t.Errorf("%s.TruncateQuery = %s, want %s", c.d.Name(), got, c.want)
		}
	}
}
