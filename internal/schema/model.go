package schema

import (
	"mongolift/internal/document"
)

// ColumnType is a destination type affinity. Dialects map each affinity
// to their declared type keyword.
type ColumnType string

const (
	TypeInteger ColumnType = "INTEGER"
	TypeReal    ColumnType = "REAL"
	TypeText    ColumnType = "TEXT"
	TypeBlob    ColumnType = "BLOB"
)

// FieldStat accumulates per-path statistics over the document sample.
// Presence counts documents where the path appeared at all, including as
// null; Kinds counts occurrences per value kind.
type FieldStat struct {
	Path     string
	Kinds    map[document.Kind]int
	Presence int
}

// Column is one resolved column definition. Immutable once produced by
// the resolver.
type Column struct {
	Name       string          // identifier-safe destination name
	Path       string          // dot-separated source field path
	Type       ColumnType      // resolved destination affinity
	Kind       document.Kind   // dominant source kind
	Kinds      []document.Kind // all non-null kinds seen in the sample
	Nullable   bool
	PrimaryKey bool
	Fallback   bool // type conflict: lossless textual representation
	Ordinal    int
}

// Index is an explicitly configured secondary index. Indexes are never
// inferred; the primary key is the only constraint the resolver invents.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
}

// Table is the resolved schema for one collection. The column order is
// fixed at resolution time: DDL emission and row conversion both follow
// it, so a Row is always positionally aligned with Columns.
type Table struct {
	Collection string
	Columns    []Column
	Indexes    []Index
}

// ColumnNames returns the destination column names in schema order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}
