// Package sequencer gates a student's content by a single progress pointer.
//
// A class's content sorted by priority is a strict sequence. With
// progressCount k, items before k are completed, item k is the only one
// that can be opened and completed, and everything after it is locked.
package sequencer

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/domain/models"
)

// State is the lock state of one item.
type State string

const (
	Completed State = "completed"
	Active    State = "active"
	Locked    State = "locked"
)

var (
	// ErrNotActive is returned when completing anything but the active item.
	ErrNotActive = errors.New("content item is not the active item")
	// ErrNotStudent is returned when the user has no student role.
	ErrNotStudent = errors.New("user is not a student")
)

// Item pairs a content record with its position and state.
type Item struct {
	Index   int            `json:"index"`
	State   State          `json:"state"`
	Content models.Content `json:"content"`
}

// Sort orders items ascending by priority. Equal priorities keep their
// stored order.
func Sort(items []models.Content) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority < items[j].Priority
	})
}

// StateAt returns the state of position i under progress k.
func StateAt(i, k int) State {
	switch {
	case i < k:
		return Completed
	case i == k:
		return Active
	default:
		return Locked
	}
}

// States annotates an already sorted list with lock states. k outside
// [0, len(items)] is clamped.
func States(items []models.Content, k int) []Item {
	k = clamp(k, len(items))
	out := make([]Item, len(items))
	for i, c := range items {
		out[i] = Item{Index: i, State: StateAt(i, k), Content: c}
	}
	return out
}

// CertificateReady reports whether every item in a non-empty sequence is done.
func CertificateReady(progress, total int) bool {
	return total > 0 && progress >= total
}

// ForUser loads and sorts the content of u's institute and class.
func ForUser(ctx context.Context, rs *records.Store, u models.User) ([]models.Content, error) {
	items, err := rs.Contents().Filter(ctx, func(c models.Content) bool {
		return c.ClassName == u.ClassName && sameInstitute(c.InstituteID, u.InstituteID)
	})
	if err != nil {
		return nil, err
	}
	Sort(items)
	return items, nil
}

// Complete marks contentID done for the student userID. Only the active
// item can be completed; doing so advances progressCount by exactly one.
// It returns the updated user.
func Complete(ctx context.Context, rs *records.Store, userID, contentID string) (models.User, error) {
	u, err := rs.Users().Find(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if !u.IsStudent() {
		return models.User{}, ErrNotStudent
	}

	items, err := ForUser(ctx, rs, u)
	if err != nil {
		return models.User{}, fmt.Errorf("load content: %w", err)
	}

	k := clamp(u.ProgressCount, len(items))
	if k >= len(items) || items[k].ID != contentID {
		return u, ErrNotActive
	}

	var updated models.User
	err = rs.Users().Update(ctx, func(users []models.User) ([]models.User, error) {
		for i := range users {
			if users[i].ID != userID {
				continue
			}
			// Re-check under the write lock so a double submit can't skip ahead.
			if users[i].ProgressCount != u.ProgressCount {
				return nil, ErrNotActive
			}
			users[i].ProgressCount++
			updated = users[i]
			return users, nil
		}
		return nil, fmt.Errorf("users %q: %w", userID, records.ErrNotFound)
	})
	if err != nil {
		return u, err
	}
	return updated, nil
}

// sameInstitute treats an empty institute on either side as a wildcard so
// records imported without an institute still sequence by class.
func sameInstitute(a, b string) bool {
	return a == "" || b == "" || a == b
}

func clamp(k, n int) int {
	if k < 0 {
		return 0
	}
	if k > n {
		return n
	}
	return k
}
