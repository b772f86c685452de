// internal/app/store/audit/store.go
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/thinkedge/internal/app/system/kv"
	"github.com/google/uuid"
)

// Key is the KV key holding the audit trail.
const Key = "auditLog"

// DefaultMaxEvents caps the stored trail; older events are dropped.
const DefaultMaxEvents = 1000

// Event categories
const (
	CategoryAuth  = "auth"
	CategoryAdmin = "admin"
)

// Auth event types
const (
	EventLoginSuccess = "login_success"
	EventLoginFailed  = "login_failed"
	EventLogout       = "logout"
	EventRegistered   = "user_registered"
	EventPasswordSet  = "password_set"
)

// Admin event types
const (
	EventUserApproved              = "user_approved"
	EventClassPromoted             = "class_promoted"
	EventRegistrationStatusChanged = "registration_status_changed"
	EventStudentsImported          = "students_imported"
	EventContentAdded              = "content_added"
)

// Event represents an audit event.
type Event struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	InstituteID string    `json:"instituteId,omitempty"`

	// Event classification
	Category  string `json:"category"`
	EventType string `json:"eventType"`

	// Who
	UserID  string `json:"userId,omitempty"`  // affected user
	ActorID string `json:"actorId,omitempty"` // who performed action (for admin actions)

	// Request context
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`

	// Outcome
	Success       bool              `json:"success"`
	FailureReason string            `json:"failureReason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

// Store keeps a bounded, newest-first audit trail in a single KV value.
type Store struct {
	kv  kv.Store
	max int
	mu  sync.Mutex
}

// New creates a Store over backend holding at most DefaultMaxEvents.
func New(backend kv.Store) *Store {
	return &Store{kv: backend, max: DefaultMaxEvents}
}

// WithMax sets the retention cap (n <= 0 keeps the default).
func (s *Store) WithMax(n int) *Store {
	if n > 0 {
		s.max = n
	}
	return s
}

// Log records an event, filling in ID and Timestamp when unset.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.load(ctx)
	if err != nil {
		return err
	}
	events = append([]Event{event}, events...)
	if len(events) > s.max {
		events = events[:s.max]
	}
	b, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encode audit log: %w", err)
	}
	return s.kv.Put(ctx, Key, b)
}

// QueryFilter narrows Query. Zero fields match everything.
type QueryFilter struct {
	Category    string
	EventType   string
	UserID      string
	InstituteID string
	Since       time.Time
	Limit       int
}

// Query returns matching events, newest first.
func (s *Store) Query(ctx context.Context, f QueryFilter) ([]Event, error) {
	s.mu.Lock()
	events, err := s.load(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out := make([]Event, 0)
	for _, e := range events {
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if f.EventType != "" && e.EventType != f.EventType {
			continue
		}
		if f.UserID != "" && e.UserID != f.UserID {
			continue
		}
		if f.InstituteID != "" && e.InstituteID != f.InstituteID {
			continue
		}
		if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

// GetRecent returns up to limit events.
func (s *Store) GetRecent(ctx context.Context, limit int) ([]Event, error) {
	return s.Query(ctx, QueryFilter{Limit: limit})
}

// GetByUser returns up to limit events affecting userID.
func (s *Store) GetByUser(ctx context.Context, userID string, limit int) ([]Event, error) {
	return s.Query(ctx, QueryFilter{UserID: userID, Limit: limit})
}

// GetFailedLogins returns failed logins since the given time.
func (s *Store) GetFailedLogins(ctx context.Context, since time.Time, limit int) ([]Event, error) {
	return s.Query(ctx, QueryFilter{EventType: EventLoginFailed, Since: since, Limit: limit})
}

func (s *Store) load(ctx context.Context) ([]Event, error) {
	b, err := s.kv.Get(ctx, Key)
	if errors.Is(err, kv.ErrNotFound) || (err == nil && len(b) == 0) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var events []Event
	if err := json.Unmarshal(b, &events); err != nil {
		return nil, fmt.Errorf("decode audit log: %w", err)
	}
	return events, nil
}
