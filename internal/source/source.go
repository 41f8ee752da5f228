package source

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Source is the upstream document store. Sample feeds schema inference;
// Stream covers the whole collection in the source's default cursor
// order, with no stronger ordering guarantee.
type Source interface {
	Collections(ctx context.Context) ([]string, error)
	Count(ctx context.Context, collection string) (int64, error)
	Sample(ctx context.Context, collection string, n int) ([]bson.D, error)
	Stream(ctx context.Context, collection string, batchSize int) (Cursor, error)
}

// Cursor yields bounded batches of documents. Next returns an empty
// batch once the collection is exhausted; the final non-empty batch may
// be smaller than the configured size.
type Cursor interface {
	Next(ctx context.Context) ([]bson.D, error)
	Close(ctx context.Context) error
}
