// Package indexes reconciles the MongoDB indexes the record store relies on.
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// KVUpdatedAt is the index name on the kv collection's write timestamp.
const KVUpdatedAt = "idx_kv_updated_at"

// wanted lists the indexes for the kv collection. Documents are keyed by
// record-store key in _id, so the only extra index serves "recently
// written" queries from the CLI and operators.
func wanted() []mongo.IndexModel {
	return []mongo.IndexModel{{
		Keys:    bson.D{{Key: "updated_at", Value: -1}},
		Options: options.Index().SetName(KVUpdatedAt),
	}}
}

// EnsureAll brings the indexes on kvCollection in line with wanted. An
// index on the same keys under another name is dropped and recreated.
// Safe to call on every startup.
func EnsureAll(ctx context.Context, db *mongo.Database, kvCollection string) error {
	coll := db.Collection(kvCollection)
	have, err := existing(ctx, coll)
	if err != nil {
		return fmt.Errorf("%s: list indexes: %w", kvCollection, err)
	}

	var errs []error
	for _, m := range wanted() {
		keys := signature(m.Keys.(bson.D))
		name := *m.Options.Name

		if cur, ok := have[keys]; ok {
			if cur == name {
				zap.L().Debug("index present", zap.String("collection", kvCollection), zap.String("name", name))
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, cur); err != nil {
				errs = append(errs, fmt.Errorf("%s: drop %s: %w", kvCollection, cur, err))
				continue
			}
			zap.L().Info("dropped index with stale name",
				zap.String("collection", kvCollection), zap.String("old", cur), zap.String("new", name))
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if strings.Contains(err.Error(), "IndexOptionsConflict") {
				continue
			}
			errs = append(errs, fmt.Errorf("%s: create %s: %w", kvCollection, name, err))
			continue
		}
		zap.L().Info("index created", zap.String("collection", kvCollection), zap.String("name", name), zap.String("keys", keys))
	}
	return errors.Join(errs...)
}

// existing maps key signature to index name.
func existing(ctx context.Context, coll *mongo.Collection) (map[string]string, error) {
	out := map[string]string{}
	cur, err := coll.Indexes().List(ctx)
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 26 { // NamespaceNotFound: CreateOne will make the collection
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var idx struct {
			Name string `bson:"name"`
			Key  bson.D `bson:"key"`
		}
		if err := cur.Decode(&idx); err != nil {
			return nil, err
		}
		out[signature(idx.Key)] = idx.Name
	}
	return out, cur.Err()
}

func signature(keys bson.D) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s:%v", k.Key, k.Value)
	}
	return strings.Join(parts, ",")
}
