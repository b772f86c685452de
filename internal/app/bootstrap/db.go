// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/thinkedge/internal/app/store/audit"
	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/app/system/indexes"
	"github.com/dalemusser/thinkedge/internal/app/system/kv"
	"github.com/dalemusser/thinkedge/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the configured record-store backend and wraps it in the
// record and audit stores.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	deps := DBDeps{Backend: appCfg.StoreBackend}

	switch appCfg.StoreBackend {
	case BackendBolt:
		b, err := kv.OpenBolt(appCfg.BoltPath)
		if err != nil {
			logger.Error("open bolt store failed", zap.String("path", appCfg.BoltPath), zap.Error(err))
			return DBDeps{}, fmt.Errorf("open bolt %s: %w", appCfg.BoltPath, err)
		}
		logger.Info("bolt store opened", zap.String("path", b.Path()))
		deps.Bolt = b
		deps.KV = b

	case BackendMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(appCfg.MongoURI))
		if err != nil {
			logger.Error("MongoDB connect failed", zap.Error(err))
			return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			logger.Error("MongoDB ping failed", zap.Error(err))
			return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
		}
		db := client.Database(appCfg.MongoDatabase)
		logger.Info("connected to MongoDB",
			zap.String("database", appCfg.MongoDatabase),
			zap.String("collection", appCfg.MongoKVCollection))
		deps.MongoClient = client
		deps.MongoDatabase = db
		deps.KV = kv.NewMongo(db, appCfg.MongoKVCollection)

	default:
		deps.KV = kv.NewMemory()
	}

	deps.Records = records.New(deps.KV)
	deps.Audit = audit.New(deps.KV)
	return deps, nil
}

// EnsureSchema prepares the Mongo collection (when used) and seeds every
// record collection that has never been written.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase != nil {
		if err := validators.EnsureAll(ctx, deps.MongoDatabase, appCfg.MongoKVCollection); err != nil {
			logger.Error("ensure validators failed", zap.Error(err))
			return err
		}
		if err := indexes.EnsureAll(ctx, deps.MongoDatabase, appCfg.MongoKVCollection); err != nil {
			logger.Error("ensure indexes failed", zap.Error(err))
			return err
		}
	}

	written, err := deps.Records.Seed(ctx)
	if err != nil {
		logger.Error("seed failed", zap.Error(err))
		return err
	}
	if len(written) > 0 {
		logger.Info("seeded default records", zap.Strings("collections", written))
	}
	return nil
}
