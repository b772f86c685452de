// Package timeouts holds the deadlines handlers and the CLI put on record
// store work.
//
//   - Ping: health checks
//   - Short: single record lookups (current user, one assessment)
//   - Medium: collection reads and single writes (lists, approve, complete)
//   - Long: multi-collection writes (promotion, registration approval)
//   - Batch: roster imports
//
// Values default to the constants below and may be overridden once at
// startup with Configure or ConfigureFromEnv.
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
	DefaultBatch  = 60 * time.Second
)

// EnvPrefix prefixes the environment variables read by ConfigureFromEnv,
// e.g. THINKEDGE_TIMEOUT_BATCH=2m.
const EnvPrefix = "THINKEDGE_TIMEOUT_"

// Config holds timeout values. Zero fields are ignored by Configure.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
	Batch  time.Duration
}

var (
	mu  sync.RWMutex
	cur = defaults()
)

func defaults() Config {
	return Config{
		Ping:   DefaultPing,
		Short:  DefaultShort,
		Medium: DefaultMedium,
		Long:   DefaultLong,
		Batch:  DefaultBatch,
	}
}

func get(pick func(Config) time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return pick(cur)
}

func Ping() time.Duration   { return get(func(c Config) time.Duration { return c.Ping }) }
func Short() time.Duration  { return get(func(c Config) time.Duration { return c.Short }) }
func Medium() time.Duration { return get(func(c Config) time.Duration { return c.Medium }) }
func Long() time.Duration   { return get(func(c Config) time.Duration { return c.Long }) }
func Batch() time.Duration  { return get(func(c Config) time.Duration { return c.Batch }) }

// Configure overrides the non-zero fields of cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	for _, f := range fields(&cur) {
		if v := f.from(cfg); v > 0 {
			*f.ptr = v
		}
	}
}

// Reset restores the defaults. Tests use it.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cur = defaults()
}

// ConfigureFromEnv reads THINKEDGE_TIMEOUT_{PING,SHORT,MEDIUM,LONG,BATCH}
// as Go durations. Unset, unparsable and non-positive values are skipped.
// It returns how many values were applied.
func ConfigureFromEnv() int {
	mu.Lock()
	defer mu.Unlock()
	n := 0
	for _, f := range fields(&cur) {
		v := os.Getenv(EnvPrefix + f.name)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*f.ptr = d
			n++
		}
	}
	return n
}

// Current returns the active values.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}

type field struct {
	name string
	ptr  *time.Duration
	from func(Config) time.Duration
}

func fields(c *Config) []field {
	return []field{
		{"PING", &c.Ping, func(x Config) time.Duration { return x.Ping }},
		{"SHORT", &c.Short, func(x Config) time.Duration { return x.Short }},
		{"MEDIUM", &c.Medium, func(x Config) time.Duration { return x.Medium }},
		{"LONG", &c.Long, func(x Config) time.Duration { return x.Long }},
		{"BATCH", &c.Batch, func(x Config) time.Duration { return x.Batch }},
	}
}

// WithTimeout is context.WithTimeout whose cancel func logs a warning
// when the deadline was hit.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "roster import")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
