package schema

import (
	"mongolift/internal/document"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Stats is the collector's output: per-path statistics plus the order in
// which paths were first seen. The resolver needs that order to produce a
// stable, human-predictable column layout.
type Stats struct {
	SampleSize int
	Fields     map[string]*FieldStat
	Order      []string
}

// Collect walks a bounded sample of documents depth-first and gathers
// per-path type and presence statistics.
//
// Depth rule: a field's depth is its number of path segments, so root
// fields sit at depth 1. A document-valued field is descended into only
// while its depth is strictly less than maxDepth; at the bound it becomes
// an opaque leaf, never partially flattened. Arrays are always leaves
// because element types are not assumed homogeneous.
func Collect(docs []bson.D, maxDepth int) *Stats {
	if maxDepth < 1 {
		maxDepth = 1
	}
	s := &Stats{
		SampleSize: len(docs),
		Fields:     make(map[string]*FieldStat),
	}
	for _, doc := range docs {
		seen := make(map[string]bool)
		s.walk(doc, "", 1, maxDepth, seen)
	}
	return s
}

func (s *Stats) walk(doc bson.D, prefix string, depth, maxDepth int, seen map[string]bool) {
	for _, elem := range doc {
		path := elem.Key
		if prefix != "" {
			path = prefix + "." + elem.Key
		}
		kind := document.KindOf(elem.Value)
		if kind.IsNested() && depth < maxDepth {
			if nested, ok := elem.Value.(bson.D); ok {
				s.walk(nested, path, depth+1, maxDepth, seen)
				continue
			}
		}
		s.record(path, kind, seen)
	}
}

func (s *Stats) record(path string, kind document.Kind, seen map[string]bool) {
	stat, ok := s.Fields[path]
	if !ok {
		stat = &FieldStat{Path: path, Kinds: make(map[document.Kind]int)}
		s.Fields[path] = stat
		s.Order = append(s.Order, path)
	}
	stat.Kinds[kind]++
	// BSON permits duplicate keys; presence counts a document once.
	if !seen[path] {
		seen[path] = true
		stat.Presence++
	}
}
