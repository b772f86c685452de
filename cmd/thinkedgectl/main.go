// Command thinkedgectl runs maintenance tasks against a ThinkEdge record
// store: seeding, dumps, approvals, promotions, roster imports and
// password resets.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dalemusser/thinkedge/internal/app/store/audit"
	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/app/system/auditlog"
	"github.com/dalemusser/thinkedge/internal/app/system/kv"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	global := flag.NewFlagSet("thinkedgectl", flag.ExitOnError)
	dbPath := global.String("db", "", "bbolt database file (default $THINKEDGE_BOLT_PATH or thinkedge.db)")
	mongoURI := global.String("mongo", "", "MongoDB URI; uses the mongo backend instead of bolt")
	database := global.String("database", "", "MongoDB database name (default $THINKEDGE_MONGO_DATABASE or thinkedge)")
	envFile := global.String("env", "", "load environment variables from this file first")
	global.Usage = func() {
		fmt.Fprintln(global.Output(), "Usage: thinkedgectl [-db path | -mongo uri -database name] [-env file] <command> [flags]")
		global.PrintDefaults()
		printUsage(global.Output())
	}
	_ = global.Parse(os.Args[1:])

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			logger.Fatal("load env file", zap.String("file", *envFile), zap.Error(err))
		}
	}

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, *dbPath, *mongoURI, *database)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer closeStore()

	cli := &commandLine{
		rs:    records.New(store),
		audit: auditlog.New(audit.New(store), logger, auditlog.Config{Auth: auditlog.ModeAll, Admin: auditlog.ModeAll}),
		out:   os.Stdout,
		log:   logger,
	}
	if err := cli.run(ctx, global.Args()); err != nil {
		if !errors.Is(err, errHelp) {
			logger.Error("command failed", zap.Error(err))
		}
		closeStore()
		os.Exit(1)
	}
}

// openStore picks the backend the same way the server does: an explicit
// flag wins, then THINKEDGE_* variables, then the bolt default.
func openStore(ctx context.Context, dbPath, mongoURI, database string) (kv.Store, func(), error) {
	if mongoURI == "" && strings.EqualFold(os.Getenv("THINKEDGE_STORE_BACKEND"), "mongo") {
		mongoURI = os.Getenv("THINKEDGE_MONGO_URI")
	}
	if mongoURI != "" {
		if database == "" {
			database = envOr("THINKEDGE_MONGO_DATABASE", "thinkedge")
		}
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		coll := envOr("THINKEDGE_MONGO_KV_COLLECTION", kv.DefaultMongoCollection)
		return kv.NewMongo(client.Database(database), coll), closeFn, nil
	}

	if dbPath == "" {
		dbPath = envOr("THINKEDGE_BOLT_PATH", "thinkedge.db")
	}
	b, err := kv.OpenBolt(dbPath)
	if err != nil {
		return nil, nil, err
	}
	return b, func() { _ = b.Close() }, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
