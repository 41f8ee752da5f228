package schema

import (
	"fmt"
	"sort"
	"strings"

	"mongolift/internal/document"
)

// IDColumn is the identifier column. It is always present, always first
// and always the primary key.
const IDColumn = "_id"

// kindPrecedence is the fixed, total order used to break ties between
// kinds with equal vote counts. Higher rank wins.
var kindPrecedence = []document.Kind{
	document.KindInt64,
	document.KindInt32,
	document.KindDouble,
	document.KindDecimal,
	document.KindBool,
	document.KindTimestamp,
	document.KindDateTime,
	document.KindObjectID,
	document.KindString,
	document.KindBinary,
	document.KindDocument,
	document.KindArray,
	document.KindOther,
}

var precedenceRank = func() map[document.Kind]int {
	m := make(map[document.Kind]int, len(kindPrecedence))
	for i, k := range kindPrecedence {
		m[k] = len(kindPrecedence) - i
	}
	return m
}()

// TypeOf maps a value kind to its destination type affinity.
func TypeOf(k document.Kind) ColumnType {
	switch k {
	case document.KindInt32, document.KindInt64, document.KindBool, document.KindTimestamp:
		return TypeInteger
	case document.KindDouble:
		return TypeReal
	case document.KindBinary:
		return TypeBlob
	case document.KindDecimal, document.KindDateTime, document.KindObjectID,
		document.KindString, document.KindDocument, document.KindArray,
		document.KindOther, document.KindNull:
		return TypeText
	default:
		return TypeText
	}
}

// Resolve turns collected field statistics into an ordered, immutable
// table schema.
//
// Type resolution per field: the dominant kind is the one with the most
// non-null occurrences, ties broken by kindPrecedence. The resolved type
// is accepted only when it is unanimous: every non-null occurrence must
// map to the same destination affinity as the dominant kind. Otherwise
// the column falls back to TEXT and every value is stored in a lossless
// textual form (precision traded for guaranteed losslessness). Int32 and
// Int64 mixes share the INTEGER affinity, so they are still unanimous.
//
// A column is nullable unless its path was present (possibly as null) in
// every sampled document. The identifier column is the only exception:
// it is non-nullable and the primary key regardless of the sample.
func Resolve(collection string, stats *Stats) (*Table, error) {
	if stats == nil || stats.SampleSize == 0 {
		return nil, fmt.Errorf("collection %q: empty sample, cannot infer schema", collection)
	}

	t := &Table{Collection: collection}
	taken := make(map[string]bool)

	idCol := Column{
		Name:       IDColumn,
		Path:       IDColumn,
		Type:       TypeText,
		Kind:       document.KindObjectID,
		Nullable:   false,
		PrimaryKey: true,
	}
	if stat, ok := stats.Fields[IDColumn]; ok {
		typ, kind, kinds, fallback := resolveType(stat)
		idCol.Type = typ
		idCol.Kind = kind
		idCol.Kinds = kinds
		idCol.Fallback = fallback
	}
	taken[idCol.Name] = true
	t.Columns = append(t.Columns, idCol)

	for _, path := range stats.Order {
		if path == IDColumn {
			continue
		}
		stat := stats.Fields[path]
		typ, kind, kinds, fallback := resolveType(stat)
		col := Column{
			Name:     uniqueName(sanitizeIdentifier(path), taken),
			Path:     path,
			Type:     typ,
			Kind:     kind,
			Kinds:    kinds,
			Nullable: stat.Presence < stats.SampleSize,
			Fallback: fallback,
		}
		taken[col.Name] = true
		t.Columns = append(t.Columns, col)
	}

	for i := range t.Columns {
		t.Columns[i].Ordinal = i
	}
	return t, nil
}

func resolveType(stat *FieldStat) (ColumnType, document.Kind, []document.Kind, bool) {
	kinds := make([]document.Kind, 0, len(stat.Kinds))
	for k := range stat.Kinds {
		if k != document.KindNull {
			kinds = append(kinds, k)
		}
	}
	sort.Slice(kinds, func(i, j int) bool {
		return precedenceRank[kinds[i]] > precedenceRank[kinds[j]]
	})

	// Only nulls seen: the most permissive type, nullable by presence.
	if len(kinds) == 0 {
		return TypeText, document.KindNull, nil, false
	}

	dominant := kinds[0]
	best := 0
	for _, k := range kinds {
		if c := stat.Kinds[k]; c > best {
			dominant = k
			best = c
		}
	}

	typ := TypeOf(dominant)
	for _, k := range kinds {
		if TypeOf(k) != typ {
			// Conflict across affinities: fall back to text.
			return TypeText, document.KindString, kinds, true
		}
	}
	return typ, dominant, kinds, false
}

// sanitizeIdentifier derives a destination-safe column name from a field
// path: segments joined by underscores, anything outside [A-Za-z0-9_]
// replaced, leading digits prefixed.
func sanitizeIdentifier(path string) string {
	var b strings.Builder
	for _, r := range path {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name := b.String()
	if name == "" {
		name = "field"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "f_" + name
	}
	return name
}

func uniqueName(name string, taken map[string]bool) string {
	if !taken[name] {
		return name
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d", name, i)
		if !taken[candidate] {
			return candidate
		}
	}
}
