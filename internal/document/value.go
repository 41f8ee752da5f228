package document

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Kind is the closed set of value kinds the migrator understands. Every
// value decoded from a source document is tagged with exactly one Kind;
// the schema resolver and the value converter both switch exhaustively
// over this set, so adding a kind is a compile-time visible change.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt32
	KindInt64
	KindDouble
	KindDecimal
	KindBool
	KindDateTime
	KindTimestamp
	KindObjectID
	KindString
	KindBinary
	KindDocument
	KindArray
	KindOther
)

var kindNames = map[Kind]string{
	KindNull:      "null",
	KindInt32:     "int32",
	KindInt64:     "int64",
	KindDouble:    "double",
	KindDecimal:   "decimal",
	KindBool:      "bool",
	KindDateTime:  "datetime",
	KindTimestamp: "timestamp",
	KindObjectID:  "objectid",
	KindString:    "string",
	KindBinary:    "binary",
	KindDocument:  "document",
	KindArray:     "array",
	KindOther:     "other",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// KindOf tags a value as decoded by the BSON driver into a bson.D element.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil, bson.Null, bson.Undefined:
		return KindNull
	case int32:
		return KindInt32
	case int64, int:
		return KindInt64
	case float64:
		return KindDouble
	case bson.Decimal128:
		return KindDecimal
	case bool:
		return KindBool
	case bson.DateTime, time.Time:
		return KindDateTime
	case bson.Timestamp:
		return KindTimestamp
	case bson.ObjectID:
		return KindObjectID
	case string:
		return KindString
	case bson.Binary:
		return KindBinary
	case bson.D, bson.M:
		return KindDocument
	case bson.A:
		return KindArray
	default:
		// Regex, JavaScript, Symbol, DBPointer, MinKey, MaxKey and any
		// future driver type.
		return KindOther
	}
}

// IsNested reports whether the kind is a nested structure the collector
// may descend into. Arrays are deliberately excluded: element types are
// not assumed homogeneous, so arrays are always leaves.
func (k Kind) IsNested() bool {
	return k == KindDocument
}

// Lookup resolves a dot-separated field path against a document and
// reports whether the full path was present. Intermediate segments must
// be embedded documents; anything else terminates the walk as absent.
func Lookup(doc bson.D, path string) (any, bool) {
	segments := strings.Split(path, ".")
	current := doc
	for i, seg := range segments {
		v, ok := get(current, seg)
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return v, true
		}
		next, ok := v.(bson.D)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

func get(doc bson.D, key string) (any, bool) {
	for _, elem := range doc {
		if elem.Key == key {
			return elem.Value, true
		}
	}
	return nil, false
}
