package dialect

// Dialect abstracts destination-specific SQL generation. Type keywords
// map 1:1 from the resolver's affinities (INTEGER, REAL, TEXT, BLOB) to
// the destination's declared types; identifiers are always quoted since
// column names derive from attacker-controlled document fields.
type Dialect interface {
	// Name is the dialect's configuration name.
	Name() string
	// Driver is the database/sql driver name to open connections with.
	Driver() string

	// Identifier and type handling
	QuoteIdentifier(name string) string
	TypeKeyword(affinity string) string

	// Query generation
	CreateTableQuery(table string, columnDefs []string) string
	InsertQuery(table string, cols []string) string
	TruncateQuery(table string) string
	DropTableQuery(table string) string
	Placeholder(index int) string // Returns ?, $1, @p1, :1, etc.
}
