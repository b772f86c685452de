package kv

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DefaultMongoCollection is the collection used when none is configured.
const DefaultMongoCollection = "kv"

// mongoEntry is the stored document shape. Value keeps the raw JSON text so
// the collection is readable from the mongo shell.
type mongoEntry struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Mongo is a Store keeping one document per key.
type Mongo struct {
	c *mongo.Collection
}

// NewMongo returns a Store over db.Collection(name).
func NewMongo(db *mongo.Database, name string) *Mongo {
	if name == "" {
		name = DefaultMongoCollection
	}
	return &Mongo{c: db.Collection(name)}
}

// Collection exposes the underlying collection (schema setup, tests).
func (m *Mongo) Collection() *mongo.Collection { return m.c }

func (m *Mongo) Get(ctx context.Context, key string) ([]byte, error) {
	var e mongoEntry
	if err := m.c.FindOne(ctx, bson.M{"_id": key}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(e.Value), nil
}

func (m *Mongo) Put(ctx context.Context, key string, value []byte) error {
	e := mongoEntry{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	_, err := m.c.ReplaceOne(ctx, bson.M{"_id": key}, e, options.Replace().SetUpsert(true))
	return err
}

func (m *Mongo) Delete(ctx context.Context, key string) error {
	_, err := m.c.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.c.Database().Client().Ping(ctx, readpref.Primary())
}
