// Package records is the record store: typed collections persisted as JSON
// arrays in a kv.Store, one key per collection.
//
// A read of a collection that was never written returns its seeded default.
// Writes replace the whole array under the collection key; the per-record
// helpers on Table (Upsert, Delete, Update) are read-modify-write on top of
// that and are serialized within one Store value.
package records

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dalemusser/thinkedge/internal/app/system/kv"
	"github.com/dalemusser/thinkedge/internal/domain/models"
)

// Collection keys. These are the persisted layout and must not change.
const (
	KeyUsers         = "users"
	KeyInstitutes    = "institutes"
	KeyClasses       = "classes"
	KeyContents      = "contents"
	KeyAssessments   = "assessments"
	KeyNotifications = "notifications"
	KeyRegistrations = "registrations"

	// KeyCurrentUserID holds a single raw id string, not a JSON array.
	KeyCurrentUserID = "currentUserId"
)

// CollectionKeys lists every array-valued key in the store.
var CollectionKeys = []string{
	KeyUsers,
	KeyInstitutes,
	KeyClasses,
	KeyContents,
	KeyAssessments,
	KeyNotifications,
	KeyRegistrations,
}

var (
	// ErrNotFound is returned when a record id is not present in a collection.
	ErrNotFound = errors.New("record not found")
	// ErrUnknownCollection is returned for a key outside CollectionKeys.
	ErrUnknownCollection = errors.New("unknown collection")
	// ErrEmptyID is returned when upserting a record without an id.
	ErrEmptyID = errors.New("record id is empty")
)

// Store is the record store DAO. Construct one per backend with New and pass
// it to the components that need it.
type Store struct {
	kv kv.Store
	mu sync.Mutex // serializes read-modify-write helpers
}

// New returns a Store over the given key-value backend.
func New(store kv.Store) *Store {
	return &Store{kv: store}
}

// KV exposes the backing key-value store.
func (s *Store) KV() kv.Store { return s.kv }

// Ping checks the backend.
func (s *Store) Ping(ctx context.Context) error { return s.kv.Ping(ctx) }

// Users returns the users collection.
func (s *Store) Users() Table[models.User] {
	return Table[models.User]{s: s, key: KeyUsers, seed: DefaultUsers}
}

// Institutes returns the institutes collection.
func (s *Store) Institutes() Table[models.Institute] {
	return Table[models.Institute]{s: s, key: KeyInstitutes, seed: DefaultInstitutes}
}

// Classes returns the classes collection.
func (s *Store) Classes() Table[models.Class] {
	return Table[models.Class]{s: s, key: KeyClasses, seed: DefaultClasses}
}

// Contents returns the content collection.
func (s *Store) Contents() Table[models.Content] {
	return Table[models.Content]{s: s, key: KeyContents, seed: DefaultContents}
}

// Assessments returns the assessments collection.
func (s *Store) Assessments() Table[models.Assessment] {
	return Table[models.Assessment]{s: s, key: KeyAssessments, seed: DefaultAssessments}
}

// Notifications returns the notification outbox.
func (s *Store) Notifications() Table[models.Notification] {
	return Table[models.Notification]{s: s, key: KeyNotifications, seed: DefaultNotifications}
}

// Registrations returns the institute registration requests.
func (s *Store) Registrations() Table[models.InstituteRegistration] {
	return Table[models.InstituteRegistration]{s: s, key: KeyRegistrations, seed: DefaultRegistrations}
}

// CurrentUserID returns the recorded current user id, or "" when none is set.
func (s *Store) CurrentUserID(ctx context.Context) (string, error) {
	b, err := s.kv.Get(ctx, KeyCurrentUserID)
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", KeyCurrentUserID, err)
	}
	return string(b), nil
}

// SetCurrentUserID records id as the current user.
func (s *Store) SetCurrentUserID(ctx context.Context, id string) error {
	if err := s.kv.Put(ctx, KeyCurrentUserID, []byte(id)); err != nil {
		return fmt.Errorf("set %s: %w", KeyCurrentUserID, err)
	}
	return nil
}

// ClearCurrentUserID removes the recorded current user.
func (s *Store) ClearCurrentUserID(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyCurrentUserID); err != nil {
		return fmt.Errorf("clear %s: %w", KeyCurrentUserID, err)
	}
	return nil
}

// Raw returns the bytes stored under a collection key exactly as written,
// or the encoded seed when the key has never been written.
func (s *Store) Raw(ctx context.Context, key string) ([]byte, error) {
	switch key {
	case KeyUsers:
		return s.Users().raw(ctx)
	case KeyInstitutes:
		return s.Institutes().raw(ctx)
	case KeyClasses:
		return s.Classes().raw(ctx)
	case KeyContents:
		return s.Contents().raw(ctx)
	case KeyAssessments:
		return s.Assessments().raw(ctx)
	case KeyNotifications:
		return s.Notifications().raw(ctx)
	case KeyRegistrations:
		return s.Registrations().raw(ctx)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, key)
}

// Seed persists the default array for every collection that has never been
// written. Existing collections are left alone. It returns the keys written.
func (s *Store) Seed(ctx context.Context) ([]string, error) {
	seeders := []interface {
		seedIfMissing(ctx context.Context) (bool, error)
		name() string
	}{
		s.Users(), s.Institutes(), s.Classes(), s.Contents(),
		s.Assessments(), s.Notifications(), s.Registrations(),
	}

	var written []string
	for _, sd := range seeders {
		ok, err := sd.seedIfMissing(ctx)
		if err != nil {
			return written, fmt.Errorf("seed %s: %w", sd.name(), err)
		}
		if ok {
			written = append(written, sd.name())
		}
	}
	return written, nil
}
