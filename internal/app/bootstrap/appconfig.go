// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// Record-store backends selectable with store_backend.
const (
	BackendBolt   = "bolt"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers ports, TLS, logging and CORS. Everything
// specific to ThinkEdge lives here and is passed to every lifecycle hook.
type AppConfig struct {
	// Record store
	StoreBackend string // bolt, mongo or memory
	BoltPath     string // bbolt file (bolt backend)

	MongoURI          string // mongo backend only
	MongoDatabase     string
	MongoKVCollection string // one document per record-store key

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: thinkedge-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Base URL for deep links and notification emails
	BaseURL string // e.g. "https://lms.example.com" or "http://localhost:8080"

	// TrustProxyHeaders lets the login limiter key on forwarded client
	// addresses. Off, any client could rotate the header to dodge limits.
	TrustProxyHeaders bool

	// Audit logging
	AuditLogAuth  string // all, db, log or off
	AuditLogAdmin string
}
