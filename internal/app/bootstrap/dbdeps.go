// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/thinkedge/internal/app/store/audit"
	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/app/system/kv"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the record store and the backend handles behind it.
// Only the handles for the configured backend are non-nil.
type DBDeps struct {
	Backend string

	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Bolt          *kv.Bolt

	KV      kv.Store
	Records *records.Store
	Audit   *audit.Store
}
