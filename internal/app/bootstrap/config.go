// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dalemusser/thinkedge/internal/app/system/auditlog"
	"github.com/dalemusser/thinkedge/internal/app/system/kv"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for ThinkEdge.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: store_backend, session_name, etc.
//   - Environment variables: THINKEDGE_STORE_BACKEND, THINKEDGE_SESSION_NAME, etc.
//   - Command-line flags: --store_backend, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "store_backend", Default: BackendBolt, Desc: "Record store backend: 'bolt', 'mongo' or 'memory'"},
	{Name: "bolt_path", Default: "thinkedge.db", Desc: "bbolt database file (bolt backend)"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI (mongo backend)"},
	{Name: "mongo_database", Default: "thinkedge", Desc: "MongoDB database name"},
	{Name: "mongo_kv_collection", Default: kv.DefaultMongoCollection, Desc: "Collection holding the record store"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "thinkedge-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime (e.g., 24h, 30m)"},

	{Name: "base_url", Default: "http://localhost:8080", Desc: "Public base URL for deep links and notification emails"},
	{Name: "trust_proxy_headers", Default: false, Desc: "Use X-Forwarded-For/X-Real-IP for login throttling (only behind a reverse proxy that sets them)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: auditlog.ModeAll, Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: auditlog.ModeAll, Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, THINKEDGE_* for app) and flags,
// merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "THINKEDGE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StoreBackend: strings.ToLower(strings.TrimSpace(appValues.String("store_backend"))),
		BoltPath:     appValues.String("bolt_path"),

		MongoURI:          appValues.String("mongo_uri"),
		MongoDatabase:     appValues.String("mongo_database"),
		MongoKVCollection: appValues.String("mongo_kv_collection"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		BaseURL:           strings.TrimRight(appValues.String("base_url"), "/"),
		TrustProxyHeaders: appValues.Bool("trust_proxy_headers"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Backend settings are checked here so a typo fails before any file or
// connection is opened.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StoreBackend {
	case BackendBolt:
		if strings.TrimSpace(appCfg.BoltPath) == "" {
			return fmt.Errorf("store_backend %q requires bolt_path", BackendBolt)
		}
	case BackendMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if strings.TrimSpace(appCfg.MongoDatabase) == "" {
			return fmt.Errorf("store_backend %q requires mongo_database", BackendMongo)
		}
	case BackendMemory:
		logger.Warn("memory store backend: data is lost on restart")
	default:
		return fmt.Errorf("unknown store_backend %q (want bolt, mongo or memory)", appCfg.StoreBackend)
	}

	if len(appCfg.SessionKey) < 32 {
		if coreCfg != nil && coreCfg.Env == "prod" {
			return fmt.Errorf("session_key must be at least 32 bytes in prod")
		}
		logger.Warn("session_key is short; set a strong key before deploying")
	}
	if appCfg.SessionMaxAge <= 0 {
		return fmt.Errorf("session_max_age must be positive")
	}

	for name, mode := range map[string]string{
		"audit_log_auth":  appCfg.AuditLogAuth,
		"audit_log_admin": appCfg.AuditLogAdmin,
	} {
		if !slices.Contains(auditlog.Modes, mode) {
			return fmt.Errorf("%s: unknown mode %q", name, mode)
		}
	}

	return nil
}
