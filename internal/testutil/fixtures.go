package testutil

import (
	"context"
	"net/http"
	"testing"

	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/app/system/passwords"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// DefaultPassword is the password given to every fixture user.
const DefaultPassword = "password123"

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
//
// Fixture collections start empty (not seeded) so tests only see what they
// create; call records.Store.Seed first to work against the defaults.
type Fixtures struct {
	rs *records.Store
	t  *testing.T
}

// NewFixtures creates a Fixtures instance and empties every collection.
func NewFixtures(t *testing.T, rs *records.Store) *Fixtures {
	t.Helper()
	f := &Fixtures{rs: rs, t: t}
	ctx, cancel := TestContext()
	defer cancel()
	f.must(rs.Users().Replace(ctx, nil))
	f.must(rs.Institutes().Replace(ctx, nil))
	f.must(rs.Classes().Replace(ctx, nil))
	f.must(rs.Contents().Replace(ctx, nil))
	f.must(rs.Assessments().Replace(ctx, nil))
	f.must(rs.Notifications().Replace(ctx, nil))
	f.must(rs.Registrations().Replace(ctx, nil))
	return f
}

// Store returns the underlying record store.
func (f *Fixtures) Store() *records.Store {
	return f.rs
}

func (f *Fixtures) must(err error) {
	f.t.Helper()
	if err != nil {
		f.t.Fatalf("fixture: %v", err)
	}
}

// CreateInstitute creates a test institute.
func (f *Fixtures) CreateInstitute(ctx context.Context, name string) models.Institute {
	f.t.Helper()
	inst := models.Institute{ID: uuid.NewString(), Name: name, Address: "1 Test Road"}
	f.must(f.rs.Institutes().Upsert(ctx, inst))
	return inst
}

// CreateClass creates an active class in the institute.
func (f *Fixtures) CreateClass(ctx context.Context, name, instituteID string) models.Class {
	f.t.Helper()
	c := models.Class{ID: uuid.NewString(), Name: name, InstituteID: instituteID, AcademicYear: "2023-24"}
	f.must(f.rs.Classes().Upsert(ctx, c))
	return c
}

// CreateUser creates a user with DefaultPassword.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role, instituteID, className string, approved bool) models.User {
	f.t.Helper()
	hash, err := passwords.Hash(DefaultPassword)
	f.must(err)
	u := models.User{
		ID:          uuid.NewString(),
		Name:        name,
		Email:       email,
		Password:    hash,
		Role:        role,
		InstituteID: instituteID,
		ClassName:   className,
		IsApproved:  approved,
	}
	f.must(f.rs.Users().Upsert(ctx, u))
	return u
}

// CreateAdmin creates an approved admin.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email, instituteID string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleAdmin, instituteID, "", true)
}

// CreateTeacher creates an approved teacher of className.
func (f *Fixtures) CreateTeacher(ctx context.Context, name, email, instituteID, className string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleTeacher, instituteID, className, true)
}

// CreateStudent creates an approved student in className with the given progress.
func (f *Fixtures) CreateStudent(ctx context.Context, name, email, instituteID, className string, progress int) models.User {
	f.t.Helper()
	u := f.CreateUser(ctx, name, email, models.RoleStudent, instituteID, className, true)
	if progress != 0 {
		u.ProgressCount = progress
		f.must(f.rs.Users().Upsert(ctx, u))
	}
	return u
}

// CreateContent creates a content item for the class.
func (f *Fixtures) CreateContent(ctx context.Context, instituteID, className, title string, priority int) models.Content {
	f.t.Helper()
	c := models.Content{
		ID:          uuid.NewString(),
		InstituteID: instituteID,
		ClassName:   className,
		Title:       title,
		Type:        models.ContentTypeVideo,
		URL:         "https://example.com/" + title,
		Priority:    priority,
	}
	f.must(f.rs.Contents().Upsert(ctx, c))
	return c
}

// CreateAssessment creates an assessment whose question i has correct
// answer correct[i] out of four options.
func (f *Fixtures) CreateAssessment(ctx context.Context, title, instituteID string, correct ...int) models.Assessment {
	f.t.Helper()
	a := models.Assessment{
		ID:          uuid.NewString(),
		Title:       title,
		Type:        models.AssessmentTypeStudent,
		InstituteID: instituteID,
	}
	for i, c := range correct {
		a.Questions = append(a.Questions, models.Question{
			ID:            "q" + string(rune('1'+i)),
			Text:          title + " question",
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: c,
		})
	}
	f.must(f.rs.Assessments().Upsert(ctx, a))
	return a
}

// CreateRegistration creates a pending institute registration.
func (f *Fixtures) CreateRegistration(ctx context.Context, name, email string) models.InstituteRegistration {
	f.t.Helper()
	r := models.InstituteRegistration{
		ID:      uuid.NewString(),
		Name:    name,
		Admin:   "Test Admin",
		Email:   email,
		Address: "1 Test Road",
		Status:  models.RegistrationPending,
		Date:    "2024-05-10",
	}
	f.must(f.rs.Registrations().Upsert(ctx, r))
	return r
}
