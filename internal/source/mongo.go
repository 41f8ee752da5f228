package source

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Mongo implements Source on top of the official driver.
type Mongo struct {
	client *mongo.Client
	dbName string
}

// Connect opens a client for the given URI and verifies the connection
// with a ping before returning.
func Connect(ctx context.Context, uri, dbName string) (*Mongo, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetAppName("mongolift"))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Mongo{client: client, dbName: dbName}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) Collections(ctx context.Context) ([]string, error) {
	names, err := m.client.Database(m.dbName).ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return names, nil
}

func (m *Mongo) Count(ctx context.Context, collection string) (int64, error) {
	count, err := m.client.Database(m.dbName).Collection(collection).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return count, nil
}

// Sample draws up to n documents via the $sample aggregation stage, so
// large collections are sampled server-side without a full scan.
func (m *Mongo) Sample(ctx context.Context, collection string, n int) ([]bson.D, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$sample", Value: bson.D{{Key: "size", Value: int64(n)}}}},
	}
	cur, err := m.client.Database(m.dbName).Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	var docs []bson.D
	for cur.Next(ctx) {
		var doc bson.D
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode sample document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("sample cursor: %w", err)
	}
	return docs, nil
}

func (m *Mongo) Stream(ctx context.Context, collection string, batchSize int) (Cursor, error) {
	opts := options.Find().SetBatchSize(int32(batchSize))
	cur, err := m.client.Database(m.dbName).Collection(collection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("stream %s: %w", collection, err)
	}
	return &mongoCursor{cur: cur, batchSize: batchSize}, nil
}

type mongoCursor struct {
	cur       *mongo.Cursor
	batchSize int
	done      bool
}

func (c *mongoCursor) Next(ctx context.Context) ([]bson.D, error) {
	if c.done {
		return nil, nil
	}
	docs := make([]bson.D, 0, c.batchSize)
	for len(docs) < c.batchSize {
		if !c.cur.Next(ctx) {
			c.done = true
			break
		}
		var doc bson.D
		if err := c.cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := c.cur.Err(); err != nil {
		return nil, fmt.Errorf("cursor: %w", err)
	}
	return docs, nil
}

func (c *mongoCursor) Close(ctx context.Context) error {
	return c.cur.Close(ctx)
}
