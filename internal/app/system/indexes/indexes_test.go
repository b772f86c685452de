package indexes_test

import (
	"context"
	"testing"

	"github.com/dalemusser/thinkedge/internal/app/system/indexes"
	"github.com/dalemusser/thinkedge/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexNames(t *testing.T, ctx context.Context, coll *mongo.Collection) map[string]bool {
	t.Helper()
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list indexes: %v", err)
	}
	defer cur.Close(ctx)
	names := map[string]bool{}
	for cur.Next(ctx) {
		var idx struct {
			Name string `bson:"name"`
		}
		if err := cur.Decode(&idx); err != nil {
			t.Fatalf("decode: %v", err)
		}
		names[idx.Name] = true
	}
	return names
}

func TestEnsureAll_CreatesAndIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 2; i++ {
		if err := indexes.EnsureAll(ctx, db, "records"); err != nil {
			t.Fatalf("EnsureAll pass %d: %v", i+1, err)
		}
	}
	if names := indexNames(t, ctx, db.Collection("records")); !names[indexes.KVUpdatedAt] {
		t.Errorf("expected %s, got %v", indexes.KVUpdatedAt, names)
	}
}

func TestEnsureAll_RenamesStaleIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	coll := db.Collection("kv")
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: -1}},
		Options: options.Index().SetName("updated_at_-1"),
	})
	if err != nil {
		t.Fatalf("create stale index: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db, "kv"); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	names := indexNames(t, ctx, coll)
	if names["updated_at_-1"] || !names[indexes.KVUpdatedAt] {
		t.Errorf("stale index not replaced: %v", names)
	}
}
