package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/app/system/kv"
	"github.com/dalemusser/thinkedge/internal/app/system/passwords"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	// Full-cost bcrypt makes every seeded read slow; tests don't need it.
	passwords.Cost = bcrypt.MinCost
}

// TestContext returns a context suitable for a single test's store calls.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// NewStore returns a record store over a fresh in-memory backend.
func NewStore(t *testing.T) *records.Store {
	t.Helper()
	return records.New(kv.NewMemory())
}

// NewBoltStore returns a record store over a bbolt file in t.TempDir().
// The file is closed when the test ends.
func NewBoltStore(t *testing.T) (*records.Store, *kv.Bolt) {
	t.Helper()
	b, err := kv.OpenBolt(t.TempDir() + "/records.db")
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return records.New(b), b
}

// SetupTestDB connects to the test MongoDB and returns a uniquely named
// database that is dropped when the test ends. The test is skipped when no
// server answers.
//
// THINKEDGE_TEST_MONGO_URI overrides the default mongodb://localhost:27017.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("THINKEDGE_TEST_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(2*time.Second))
	if err != nil {
		t.Skipf("mongo unavailable: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("mongo unavailable: %v", err)
	}

	db := client.Database(fmt.Sprintf("thinkedge_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}
