// Package validators attaches MongoDB JSON-Schema validators to the
// collections the record store writes.
package validators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Server error codes handled here.
const (
	codeNamespaceExists = 48
	codeCommandNotFound = 59
	codeNotImplemented  = 115
)

// EnsureAll creates kvCollection when missing and sets its validator.
// Servers without collMod validator support (some DocumentDB releases)
// get the collection only.
func EnsureAll(ctx context.Context, db *mongo.Database, kvCollection string) error {
	if err := db.CreateCollection(ctx, kvCollection); err != nil && !hasCode(err, codeNamespaceExists, "already exists") {
		return fmt.Errorf("%s: create: %w", kvCollection, err)
	}

	cmd := bson.D{
		{Key: "collMod", Value: kvCollection},
		{Key: "validator", Value: kvSchema()},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	err := db.RunCommand(ctx, cmd).Err()
	switch {
	case err == nil:
		zap.L().Info("kv validator set", zap.String("collection", kvCollection))
		return nil
	case hasCode(err, codeCommandNotFound, "no such command"), hasCode(err, codeNotImplemented, "not supported"):
		zap.L().Info("kv validator unsupported by server, skipped", zap.String("collection", kvCollection))
		return nil
	default:
		return fmt.Errorf("%s: collMod: %w", kvCollection, err)
	}
}

// hasCode matches a server error by code, or by message for proxies that
// rewrite codes.
func hasCode(err error, code int32, phrase string) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), phrase)
}

// kvSchema matches the documents written by kv.Mongo.
func kvSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"_id", "value", "updated_at"},
			"properties": bson.M{
				"_id":        bson.M{"bsonType": "string", "minLength": 1},
				"value":      bson.M{"bsonType": "string"},
				"updated_at": bson.M{"bsonType": "date"},
			},
		},
	}
}
