package document

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Canonical serializes a value into the textual representation stored in
// opaque columns. Object keys keep document order (bson.D is ordered), so
// serializing the same value always yields the same text. Scalars are
// rendered exactly as the value converter renders them standalone:
// datetimes as RFC 3339, ObjectIDs as hex, decimals as their literal
// string, binary payloads as base64.
func Canonical(v any) (string, error) {
	var b strings.Builder
	if err := appendJSON(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

func appendJSON(b *strings.Builder, v any) error {
	switch val := v.(type) {
	case nil, bson.Null, bson.Undefined:
		b.WriteString("null")
	case bool:
		b.WriteString(strconv.FormatBool(val))
	case int32:
		b.WriteString(strconv.FormatInt(int64(val), 10))
	case int64:
		b.WriteString(strconv.FormatInt(val, 10))
	case int:
		b.WriteString(strconv.FormatInt(int64(val), 10))
	case float64:
		appendFloat(b, val)
	case string:
		appendString(b, val)
	case bson.Decimal128:
		appendString(b, val.String())
	case bson.DateTime:
		appendString(b, FormatDateTime(val.Time()))
	case time.Time:
		appendString(b, FormatDateTime(val))
	case bson.Timestamp:
		b.WriteString(strconv.FormatInt(int64(val.T), 10))
	case bson.ObjectID:
		appendString(b, val.Hex())
	case bson.Binary:
		appendString(b, base64.StdEncoding.EncodeToString(val.Data))
	case bson.Regex:
		b.WriteString(`{"pattern":`)
		appendString(b, val.Pattern)
		b.WriteString(`,"options":`)
		appendString(b, val.Options)
		b.WriteByte('}')
	case bson.JavaScript:
		appendString(b, string(val))
	case bson.Symbol:
		appendString(b, string(val))
	case bson.MaxKey:
		appendString(b, "$maxKey")
	case bson.MinKey:
		appendString(b, "$minKey")
	case bson.D:
		b.WriteByte('{')
		for i, elem := range val {
			if i > 0 {
				b.WriteByte(',')
			}
			appendString(b, elem.Key)
			b.WriteByte(':')
			if err := appendJSON(b, elem.Value); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	case bson.M:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			appendString(b, k)
			b.WriteByte(':')
			if err := appendJSON(b, val[k]); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	case bson.A:
		b.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := appendJSON(b, elem); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	default:
		return fmt.Errorf("cannot serialize value of type %T", v)
	}
	return nil
}

// FormatDateTime renders a timestamp in the canonical textual form used
// for TEXT columns and serialized structures.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// FormatFloat renders a double without trailing zeros, round-trippable
// through strconv.ParseFloat.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func appendFloat(b *strings.Builder, f float64) {
	// JSON has no literal for non-finite numbers.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		appendString(b, FormatFloat(f))
		return
	}
	b.WriteString(FormatFloat(f))
}

func appendString(b *strings.Builder, s string) {
	// json.Marshal never fails for a string and produces valid JSON
	// escapes, which strconv.Quote does not guarantee.
	enc, _ := json.Marshal(s)
	b.Write(enc)
}
