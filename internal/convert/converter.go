package convert

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"time"

	"mongolift/internal/document"
	"mongolift/internal/schema"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Warning records one value that could not be converted cleanly. The
// field is set to NULL and conversion continues; a warning never aborts
// a document.
type Warning struct {
	Column string
	Path   string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("column %s (path %s): %s", w.Column, w.Path, w.Reason)
}

// DocumentError marks a whole document as unconvertible. The orchestrator
// drops the document from its batch and counts it; the batch proceeds.
type DocumentError struct {
	Collection string
	Reason     string
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("collection %s: document dropped: %s", e.Collection, e.Reason)
}

// Document converts one source document into a row positionally aligned
// with the table's column order. Absent and null fields become NULL;
// kind mismatches are coerced best-effort and degrade to NULL with a
// warning. Only a missing identifier makes the document unconvertible.
func Document(doc bson.D, t *schema.Table) ([]any, []Warning, error) {
	row := make([]any, len(t.Columns))
	var warnings []Warning

	for i, col := range t.Columns {
		v, present := document.Lookup(doc, col.Path)
		if !present || document.KindOf(v) == document.KindNull {
			if col.PrimaryKey {
				return nil, nil, &DocumentError{Collection: t.Collection, Reason: "missing identifier value"}
			}
			row[i] = nil
			continue
		}

		converted, warn := convertValue(v, col)
		if warn != "" {
			warnings = append(warnings, Warning{Column: col.Name, Path: col.Path, Reason: warn})
		}
		if col.PrimaryKey && converted == nil {
			return nil, nil, &DocumentError{Collection: t.Collection, Reason: "unconvertible identifier value"}
		}
		row[i] = converted
	}
	return row, warnings, nil
}

// convertValue returns the destination value and a non-empty warning when
// the value degraded (NULL on coercion failure, or a lossy-width escape
// to text). The switch over column affinities is total; the inner kind
// switches are exhaustive over document.Kind.
func convertValue(v any, col schema.Column) (any, string) {
	if col.Fallback {
		return textual(v)
	}
	switch col.Type {
	case schema.TypeInteger:
		return toInteger(v)
	case schema.TypeReal:
		return toReal(v)
	case schema.TypeBlob:
		return toBlob(v)
	default:
		return toText(v, col)
	}
}

func toInteger(v any) (any, string) {
	switch kind := document.KindOf(v); kind {
	case document.KindInt32:
		return int64(v.(int32)), ""
	case document.KindInt64:
		if i, ok := v.(int); ok {
			return int64(i), ""
		}
		return v.(int64), ""
	case document.KindBool:
		if v.(bool) {
			return int64(1), ""
		}
		return int64(0), ""
	case document.KindTimestamp:
		return int64(v.(bson.Timestamp).T), ""
	case document.KindDouble:
		f := v.(float64)
		if f != math.Trunc(f) || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Sprintf("cannot coerce double %s to integer", document.FormatFloat(f))
		}
		if f < math.MinInt64 || f >= math.MaxInt64 {
			// Preserved as loss-free text rather than truncated.
			return document.FormatFloat(f), "integer width exceeded, stored as text"
		}
		return int64(f), ""
	case document.KindDecimal:
		s := v.(bson.Decimal128).String()
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, ""
		}
		return s, "decimal not representable as int64, stored as text"
	case document.KindString:
		s := v.(string)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, ""
		}
		return nil, fmt.Sprintf("cannot coerce string %q to integer", s)
	case document.KindDateTime, document.KindObjectID, document.KindBinary,
		document.KindDocument, document.KindArray, document.KindOther,
		document.KindNull:
		return nil, fmt.Sprintf("cannot coerce %s to integer", kind)
	default:
		return nil, fmt.Sprintf("cannot coerce %s to integer", kind)
	}
}

func toReal(v any) (any, string) {
	switch kind := document.KindOf(v); kind {
	case document.KindDouble:
		return v.(float64), ""
	case document.KindInt32:
		return float64(v.(int32)), ""
	case document.KindInt64:
		i, ok := v.(int64)
		if !ok {
			i = int64(v.(int))
		}
		// Above 2^53 a double can no longer represent every integer.
		if i > 1<<53 || i < -(1<<53) {
			return strconv.FormatInt(i, 10), "real precision exceeded, stored as text"
		}
		return float64(i), ""
	case document.KindDecimal:
		return v.(bson.Decimal128).String(), "decimal precision exceeded, stored as text"
	case document.KindString:
		s := v.(string)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, ""
		}
		return nil, fmt.Sprintf("cannot coerce string %q to real", s)
	case document.KindBool, document.KindDateTime, document.KindTimestamp,
		document.KindObjectID, document.KindBinary, document.KindDocument,
		document.KindArray, document.KindOther, document.KindNull:
		return nil, fmt.Sprintf("cannot coerce %s to real", kind)
	default:
		return nil, fmt.Sprintf("cannot coerce %s to real", kind)
	}
}

func toBlob(v any) (any, string) {
	switch kind := document.KindOf(v); kind {
	case document.KindBinary:
		return v.(bson.Binary).Data, ""
	case document.KindString:
		return []byte(v.(string)), ""
	default:
		return nil, fmt.Sprintf("cannot coerce %s to blob", kind)
	}
}

// toText handles TEXT columns. Opaque columns (dominant kind document,
// array or other) serialize the raw structure canonically; everything
// else renders its lossless textual form. Textualization only fails for
// values the serializer cannot represent.
func toText(v any, col schema.Column) (any, string) {
	switch col.Kind {
	case document.KindDocument, document.KindArray, document.KindOther:
		s, err := document.Canonical(v)
		if err != nil {
			return nil, err.Error()
		}
		return s, ""
	default:
		return textual(v)
	}
}

// textual renders any value as a loss-free string.
func textual(v any) (any, string) {
	switch kind := document.KindOf(v); kind {
	case document.KindString:
		return v.(string), ""
	case document.KindInt32:
		return strconv.FormatInt(int64(v.(int32)), 10), ""
	case document.KindInt64:
		if i, ok := v.(int); ok {
			return strconv.FormatInt(int64(i), 10), ""
		}
		return strconv.FormatInt(v.(int64), 10), ""
	case document.KindDouble:
		return document.FormatFloat(v.(float64)), ""
	case document.KindDecimal:
		return v.(bson.Decimal128).String(), ""
	case document.KindBool:
		return strconv.FormatBool(v.(bool)), ""
	case document.KindDateTime:
		if t, ok := v.(time.Time); ok {
			return document.FormatDateTime(t), ""
		}
		return document.FormatDateTime(v.(bson.DateTime).Time()), ""
	case document.KindTimestamp:
		return strconv.FormatInt(int64(v.(bson.Timestamp).T), 10), ""
	case document.KindObjectID:
		return v.(bson.ObjectID).Hex(), ""
	case document.KindBinary:
		return base64.StdEncoding.EncodeToString(v.(bson.Binary).Data), ""
	case document.KindDocument, document.KindArray, document.KindOther:
		s, err := document.Canonical(v)
		if err != nil {
			return nil, err.Error()
		}
		return s, ""
	case document.KindNull:
		return nil, ""
	default:
		return nil, fmt.Sprintf("cannot textualize %s", kind)
	}
}
