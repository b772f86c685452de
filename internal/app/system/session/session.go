// Package session resolves who is signed in: login by email and password,
// logout, and lookup of the current user.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/app/system/auth"
	"github.com/dalemusser/thinkedge/internal/app/system/normalize"
	"github.com/dalemusser/thinkedge/internal/app/system/passwords"
	"github.com/dalemusser/thinkedge/internal/domain/models"
)

// ErrInvalidCredentials is the single failure for every rejected login:
// unknown email, wrong password, and unapproved account are not told apart.
var ErrInvalidCredentials = errors.New("invalid credentials or pending approval")

// Slot holds the current user id for some scope (the whole store, or one
// client's cookie).
type Slot interface {
	CurrentID(ctx context.Context) (string, error)
	SetCurrentID(ctx context.Context, id string) error
	ClearCurrentID(ctx context.Context) error
}

// StoreSlot is the store-wide slot kept under the currentUserId key.
type StoreSlot struct {
	Records *records.Store
}

func (s StoreSlot) CurrentID(ctx context.Context) (string, error) {
	return s.Records.CurrentUserID(ctx)
}

func (s StoreSlot) SetCurrentID(ctx context.Context, id string) error {
	return s.Records.SetCurrentUserID(ctx, id)
}

func (s StoreSlot) ClearCurrentID(ctx context.Context) error {
	return s.Records.ClearCurrentUserID(ctx)
}

// Accessor binds the user collection to a Slot.
type Accessor struct {
	records *records.Store
	slot    Slot
}

// New returns an Accessor over rs using slot for the current id.
func New(rs *records.Store, slot Slot) *Accessor {
	return &Accessor{records: rs, slot: slot}
}

// NewStoreAccessor returns an Accessor using the store-wide slot.
func NewStoreAccessor(rs *records.Store) *Accessor {
	return New(rs, StoreSlot{Records: rs})
}

// Authenticate finds the first user whose email matches case-insensitively
// and returns it when the account is approved and the password matches
// exactly. It does not touch the slot.
func Authenticate(ctx context.Context, rs *records.Store, email, password string) (*models.User, error) {
	users, err := rs.Users().All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	for i := range users {
		if !normalize.SameEmail(users[i].Email, email) {
			continue
		}
		// First match decides; later duplicates are never considered.
		u := users[i]
		if !u.IsApproved || !passwords.Matches(u.Password, password) {
			return nil, ErrInvalidCredentials
		}
		return &u, nil
	}
	return nil, ErrInvalidCredentials
}

// Login authenticates and records the user as current.
func (a *Accessor) Login(ctx context.Context, email, password string) (*models.User, error) {
	u, err := Authenticate(ctx, a.records, email, password)
	if err != nil {
		return nil, err
	}
	if err := a.slot.SetCurrentID(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("record current user: %w", err)
	}
	return u, nil
}

// Logout clears the recorded id.
func (a *Accessor) Logout(ctx context.Context) error {
	return a.slot.ClearCurrentID(ctx)
}

// CurrentUser resolves the recorded id against the user collection. It
// returns nil, nil when no id is recorded or the id no longer resolves.
func (a *Accessor) CurrentUser(ctx context.Context) (*models.User, error) {
	id, err := a.slot.CurrentID(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}
	u, err := a.records.Users().Find(ctx, id)
	if errors.Is(err, records.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Fetcher adapts the user collection to auth.UserFetcher. Unapproved or
// missing users resolve to nil so their cookies stop working.
type Fetcher struct {
	Records *records.Store
}

// NewFetcher returns a Fetcher over rs.
func NewFetcher(rs *records.Store) *Fetcher {
	return &Fetcher{Records: rs}
}

func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	u, err := f.Records.Users().Find(ctx, userID)
	if err != nil || !u.IsApproved {
		return nil
	}
	return ToSessionUser(u)
}

// ToSessionUser copies the fields handlers need into an auth.SessionUser.
func ToSessionUser(u models.User) *auth.SessionUser {
	return &auth.SessionUser{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		InstituteID: u.InstituteID,
		ClassName:   u.ClassName,
	}
}
