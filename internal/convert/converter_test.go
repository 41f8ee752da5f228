package convert_test

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"mongolift/internal/convert"
	"mongolift/internal/document"
	"mongolift/internal/schema"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func tableFor(t *testing.T, docs []bson.D) *schema.Table {
	t.Helper()
	tbl, err := schema.Resolve("orders", schema.Collect(docs, 2))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	return tbl
}

func TestDocumentRowAlignsWithColumns(t *testing.T) {
	docs := []bson.D{
		{{Key: "_id", Value: int32(1)}, {Key: "name", Value: "a"}, {Key: "qty", Value: int32(3)}},
	}
	tbl := tableFor(t, docs)

	row, warnings, err := convert.Document(docs[0], tbl)
	if err != nil {
		t.Fatalf("Document failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(row) != len(tbl.Columns) {
		t.Fatalf("row width %d, columns %d", len(row), len(tbl.Columns))
	}
	if row[0] != int64(1) || row[1] != "a" || row[2] != int64(3) {
		t.Errorf("row = %v", row)
	}
}

func TestDocumentAbsentAndNullBecomeNULL(t *testing.T) {
	docs := []bson.D{
		{{Key: "_id", Value: int32(1)}, {Key: "a", Value: "x"}, {Key: "b", Value: "y"}},
		{{Key: "_id", Value: int32(2)}},
	}
	tbl := tableFor(t, docs)

	row, _, err := convert.Document(bson.D{
		{Key: "_id", Value: int32(3)},
		{Key: "a", Value: bson.Null{}},
	}, tbl)
	if err != nil {
		t.Fatalf("Document failed: %v", err)
	}
	if row[1] != nil || row[2] != nil {
		t.Errorf("null/absent fields must be NULL, got %v", row)
	}
}

func TestDocumentMissingIdentifierDropsDocument(t *testing.T) {
	docs := []bson.D{
		{{Key: "_id", Value: int32(1)}, {Key: "a", Value: "x"}},
	}
	tbl := tableFor(t, docs)

	if _, _, err := convert.Document(bson.D{{Key: "a", Value: "x"}}, tbl); err == nil {
		t.Fatal("document without identifier must be rejected")
	}
	if _, _, err := convert.Document(bson.D{
		{Key: "_id", Value: bson.Null{}},
		{Key: "a", Value: "x"},
	}, tbl); err == nil {
		t.Fatal("document with null identifier must be rejected")
	}
}

func TestIntegerCoercions(t *testing.T) {
	docs := []bson.D{
		{{Key: "_id", Value: int32(1)}, {Key: "n", Value: int32(1)}},
	}
	tbl := tableFor(t, docs)

	decInt, err := bson.ParseDecimal128("42")
	if err != nil {
		t.Fatal(err)
	}
	decFrac, err := bson.ParseDecimal128("12.50")
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name     string
		val      any
		want     any
		warnings int
	}{
		{"int32", int32(7), int64(7), 0},
		{"int64", int64(7), int64(7), 0},
		{"bool true", true, int64(1), 0},
		{"bool false", false, int64(0), 0},
		{"timestamp", bson.Timestamp{T: 100, I: 1}, int64(100), 0},
		{"integral double", 5.0, int64(5), 0},
		{"fractional double", 5.5, nil, 1},
		{"huge double stays text", 1e300, "1e+300", 1},
		{"numeric string", "42", int64(42), 0},
		{"junk string", "abc", nil, 1},
		{"integral decimal", decInt, int64(42), 0},
		{"fractional decimal stays text", decFrac, "12.50", 1},
		{"array", bson.A{1}, nil, 1},
	}
	for _, c := range cases {
		row, warnings, err := convert.Document(bson.D{
			{Key: "_id", Value: int32(1)},
			{Key: "n", Value: c.val},
		}, tbl)
		if err != nil {
			t.Errorf("%s: Document failed: %v", c.name, err)
			continue
		}
		if row[1] != c.want {
			t.Errorf("%s: converted = %v (%T), want %v", c.name, row[1], row[1], c.want)
		}
		if len(warnings) != c.warnings {
			t.Errorf("%s: warnings = %v, want %d", c.name, warnings, c.warnings)
		}
	}
}

func TestRealCoercions(t *testing.T) {
	docs := []bson.D{
		{{Key: "_id", Value: int32(1)}, {Key: "f", Value: 1.5}},
	}
	tbl := tableFor(t, docs)

	cases := []struct {
		name     string
		val      any
		want     any
		warnings int
	}{
		{"double", 1.5, 1.5, 0},
		{"int32", int32(4), float64(4), 0},
		{"small int64", int64(4), float64(4), 0},
		{"int64 beyond 2^53 stays text", int64(1) << 60, "1152921504606846976", 1},
		{"numeric string", "2.5", 2.5, 0},
		{"bool", true, nil, 1},
	}
	for _, c := range cases {
		row, warnings, err := convert.Document(bson.D{
			{Key: "_id", Value: int32(1)},
			{Key: "f", Value: c.val},
		}, tbl)
		if err != nil {
			t.Errorf("%s: Document failed: %v", c.name, err)
			continue
		}
		if row[1] != c.want {
			t.Errorf("%s: converted = %v (%T), want %v", c.name, row[1], row[1], c.want)
		}
		if len(warnings) != c.warnings {
			t.Errorf("%s: warnings = %v, want %d", c.name, warnings, c.warnings)
		}
	}
}

func TestBlobCoercions(t *testing.T) {
	docs := []bson.D{
		{{Key: "_id", Value: int32(1)}, {Key: "payload", Value: bson.Binary{Data: []byte{1}}}},
	}
	tbl := tableFor(t, docs)

	row, warnings, err := convert.Document(bson.D{
		{Key: "_id", Value: int32(1)},
		{Key: "payload", Value: bson.Binary{Subtype: 0, Data: []byte{1, 2, 3}}},
	}, tbl)
	if err != nil || len(warnings) != 0 {
		t.Fatalf("Document failed: %v %v", err, warnings)
	}
	b, ok := row[1].([]byte)
	if !ok || len(b) != 3 {
		t.Errorf("binary payload = %v", row[1])
	}

	// Strings pass through as raw bytes.
	row, _, err = convert.Document(bson.D{
		{Key: "_id", Value: int32(2)},
		{Key: "payload", Value: "hi"},
	}, tbl)
	if err != nil {
		t.Fatal(err)
	}
	if string(row[1].([]byte)) != "hi" {
		t.Errorf("string-to-blob = %v", row[1])
	}
}

func TestTextRendersLosslessScalars(t *testing.T) {
	docs := []bson.D{
		{{Key: "_id", Value: int32(1)}, {Key: "s", Value: "x"}},
	}
	tbl := tableFor(t, docs)

	oid, _ := bson.ObjectIDFromHex("507f1f77bcf86cd799439011")
	when := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	dec, err := bson.ParseDecimal128("12.50")
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		val  any
		want string
	}{
		{"string", "hello", "hello"},
		{"int64", int64(-7), "-7"},
		{"double", 2.5, "2.5"},
		{"bool", true, "true"},
		{"objectid", oid, "507f1f77bcf86cd799439011"},
		{"datetime", bson.NewDateTimeFromTime(when), "2024-05-01T12:00:00Z"},
		{"decimal", dec, "12.50"},
		{"binary", bson.Binary{Data: []byte("hi")}, "aGk="},
	}
	for _, c := range cases {
		row, warnings, err := convert.Document(bson.D{
			{Key: "_id", Value: int32(1)},
			{Key: "s", Value: c.val},
		}, tbl)
		if err != nil || len(warnings) != 0 {
			t.Errorf("%s: Document failed: %v %v", c.name, err, warnings)
			continue
		}
		if row[1] != c.want {
			t.Errorf("%s: text = %v, want %s", c.name, row[1], c.want)
		}
	}
}

func TestOpaqueColumnSerializesStructure(t *testing.T) {
	docs := []bson.D{
		{{Key: "_id", Value: int32(1)}, {Key: "meta", Value: bson.D{{Key: "a", Value: int32(1)}}}},
	}
	// Depth 1 keeps meta opaque.
	tbl, err := schema.Resolve("orders", schema.Collect(docs, 1))
	if err != nil {
		t.Fatal(err)
	}

	meta := tbl.Columns[1]
	if meta.Kind != document.KindDocument || meta.Type != schema.TypeText {
		t.Fatalf("meta column = %+v, want opaque TEXT document", meta)
	}

	row, warnings, err := convert.Document(docs[0], tbl)
	if err != nil || len(warnings) != 0 {
		t.Fatalf("Document failed: %v %v", err, warnings)
	}
	if row[1] != `{"a":1}` {
		t.Errorf("serialized structure = %v", row[1])
	}
}

func TestOpaqueColumnRoundTrip(t *testing.T) {
	docs := []bson.D{
		{{Key: "_id", Value: int32(1)}, {Key: "meta", Value: bson.D{
			{Key: "tags", Value: bson.A{"x", int32(2)}},
			{Key: "flag", Value: true},
			{Key: "inner", Value: bson.D{{Key: "n", Value: int64(9)}}},
		}}},
	}
	tbl, err := schema.Resolve("orders", schema.Collect(docs, 1))
	if err != nil {
		t.Fatal(err)
	}

	row, warnings, err := convert.Document(docs[0], tbl)
	if err != nil || len(warnings) != 0 {
		t.Fatalf("Document failed: %v %v", err, warnings)
	}

	// What lands in the TEXT column must parse back into the same tree.
	var parsed map[string]any
	if err := json.Unmarshal([]byte(row[1].(string)), &parsed); err != nil {
		t.Fatalf("stored column text is not valid JSON: %v", err)
	}
	want := map[string]any{
		"tags":  []any{"x", float64(2)},
		"flag":  true,
		"inner": map[string]any{"n": float64(9)},
	}
	if !reflect.DeepEqual(parsed, want) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", parsed, want)
	}
}

func TestFallbackColumnKeepsEveryValueTextual(t *testing.T) {
	docs := []bson.D{
		{{Key: "_id", Value: int32(1)}, {Key: "v", Value: int32(1)}},
		{{Key: "_id", Value: int32(2)}, {Key: "v", Value: int32(2)}},
		{{Key: "_id", Value: int32(3)}, {Key: "v", Value: "three"}},
	}
	tbl := tableFor(t, docs)
	if !tbl.Columns[1].Fallback {
		t.Fatal("expected fallback column")
	}

	for i, want := range []string{"1", "2", "three"} {
		row, _, err := convert.Document(docs[i], tbl)
		if err != nil {
			t.Fatal(err)
		}
		if row[1] != want {
			t.Errorf("doc %d: fallback text = %v, want %s", i, row[1], want)
		}
	}
}

func TestWarningString(t *testing.T) {
	w := convert.Warning{Column: "n", Path: "n", Reason: "cannot coerce"}
	if w.String() == "" {
		t.Error("warning should render")
	}
}
