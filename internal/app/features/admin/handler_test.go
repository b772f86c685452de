package admin_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/thinkedge/internal/app/features/admin"
	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/app/system/auth"
	"github.com/dalemusser/thinkedge/internal/app/system/enrollment"
	"github.com/dalemusser/thinkedge/internal/app/system/mailer"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"github.com/dalemusser/thinkedge/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type captureSender struct {
	mu   sync.Mutex
	sent []mailer.Email
}

func (c *captureSender) Send(_ context.Context, e mailer.Email) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, e)
	return nil
}

type env struct {
	rs     *records.Store
	mail   *captureSender
	router chi.Router
}

func newEnv(t *testing.T) env {
	t.Helper()
	logger := zap.NewNop()
	rs := testutil.NewStore(t)
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	mail := &captureSender{}
	h := admin.NewHandler(rs, mail, nil, nil, "https://lms.example.com/", logger)
	return env{rs: rs, mail: mail, router: admin.Routes(h, sm)}
}

func (e env) do(req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

var (
	superAdmin = models.User{ID: "1", Role: models.RoleAdmin, InstituteID: "1"}
	instAdmin2 = models.User{ID: "ia", Role: models.RoleInstituteAdmin, InstituteID: "2"}
	teacher    = models.User{ID: "2", Role: models.RoleTeacher, InstituteID: "1", ClassName: "10th A"}
)

func register(t *testing.T, rs *records.Store, email, inst string) models.User {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u, err := enrollment.Register(ctx, rs, enrollment.RegisterInput{
		Name: "Pending " + email, Email: email, Password: "secret1",
		Role: models.RoleTeacher, InstituteID: inst,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return u
}

func TestRoleGating(t *testing.T) {
	e := newEnv(t)

	rec := e.do(testutil.NewJSONRequest("GET", "/users/pending", nil))
	rec.AssertStatus(t, http.StatusUnauthorized)

	rec = e.do(testutil.NewAuthenticatedRequest("GET", "/users/pending", nil, teacher))
	rec.AssertStatus(t, http.StatusForbidden)

	// Institute admins may not manage registrations.
	rec = e.do(testutil.NewAuthenticatedRequest("GET", "/registrations", nil, instAdmin2))
	rec.AssertStatus(t, http.StatusForbidden)

	rec = e.do(testutil.NewAuthenticatedRequest("GET", "/registrations", nil, superAdmin))
	rec.AssertStatus(t, http.StatusOK)
}

func TestPending_ScopedByInstitute(t *testing.T) {
	e := newEnv(t)
	register(t, e.rs, "one@x.com", "1")
	register(t, e.rs, "two@x.com", "2")

	var all []models.User
	e.do(testutil.NewAuthenticatedRequest("GET", "/users/pending", nil, superAdmin)).DecodeJSON(t, &all)
	if len(all) != 2 {
		t.Errorf("platform admin sees %d pending, want 2", len(all))
	}

	var scoped []models.User
	e.do(testutil.NewAuthenticatedRequest("GET", "/users/pending", nil, instAdmin2)).DecodeJSON(t, &scoped)
	if len(scoped) != 1 || scoped[0].Email != "two@x.com" {
		t.Errorf("institute admin sees %+v", scoped)
	}
	for _, u := range append(all, scoped...) {
		if u.Password != "" {
			t.Error("password leaked in pending list")
		}
	}
}

func TestApprove(t *testing.T) {
	e := newEnv(t)
	u := register(t, e.rs, "new@x.com", "1")

	rec := e.do(testutil.NewAuthenticatedRequest("POST", "/users/"+u.ID+"/approve", nil, superAdmin))
	rec.AssertStatus(t, http.StatusOK)

	var body struct {
		User         models.User         `json:"user"`
		Notification models.Notification `json:"notification"`
	}
	rec.DecodeJSON(t, &body)
	if !body.User.IsApproved {
		t.Error("user not approved")
	}
	if body.Notification.Subject != enrollment.ApprovalSubject || body.Notification.UserEmail != "new@x.com" {
		t.Errorf("notification = %+v", body.Notification)
	}

	if len(e.mail.sent) != 1 || e.mail.sent[0].To != "new@x.com" {
		t.Fatalf("emails sent = %+v", e.mail.sent)
	}

	// Second approval conflicts.
	rec = e.do(testutil.NewAuthenticatedRequest("POST", "/users/"+u.ID+"/approve", nil, superAdmin))
	rec.AssertStatus(t, http.StatusConflict)

	rec = e.do(testutil.NewAuthenticatedRequest("POST", "/users/ghost/approve", nil, superAdmin))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestApprove_OtherInstituteForbidden(t *testing.T) {
	e := newEnv(t)
	u := register(t, e.rs, "elsewhere@x.com", "1")

	rec := e.do(testutil.NewAuthenticatedRequest("POST", "/users/"+u.ID+"/approve", nil, instAdmin2))
	rec.AssertStatus(t, http.StatusForbidden)
	if len(e.mail.sent) != 0 {
		t.Error("no email expected")
	}
}

func TestPromote(t *testing.T) {
	e := newEnv(t)

	rec := e.do(testutil.NewAuthenticatedRequest("POST", "/classes/1/promote",
		map[string]string{"nextClassName": "11th A"}, superAdmin))
	rec.AssertStatus(t, http.StatusOK)

	var res struct {
		Found    bool   `json:"found"`
		From     string `json:"fromClassName"`
		Promoted int    `json:"promoted"`
	}
	rec.DecodeJSON(t, &res)
	if !res.Found || res.From != "10th A" || res.Promoted != 1 {
		t.Errorf("result = %+v", res)
	}

	var active []models.Class
	e.do(testutil.NewAuthenticatedRequest("GET", "/classes?active=true", nil, superAdmin)).DecodeJSON(t, &active)
	if len(active) != 1 || active[0].ID != "2" {
		t.Errorf("active classes after promotion = %+v", active)
	}
}

func TestPromote_Errors(t *testing.T) {
	e := newEnv(t)

	rec := e.do(testutil.NewAuthenticatedRequest("POST", "/classes/1/promote",
		map[string]string{"nextClassName": "  "}, superAdmin))
	rec.AssertStatus(t, http.StatusBadRequest)

	// Missing class is a no-op, not an error.
	rec = e.do(testutil.NewAuthenticatedRequest("POST", "/classes/nope/promote",
		map[string]string{"nextClassName": "12th A"}, superAdmin))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"found":false`)

	rec = e.do(testutil.NewAuthenticatedRequest("POST", "/classes/1/promote",
		map[string]string{"nextClassName": "11th A"}, instAdmin2))
	rec.AssertStatus(t, http.StatusForbidden)

	// A second promotion of the same class is refused.
	rec = e.do(testutil.NewAuthenticatedRequest("POST", "/classes/1/promote",
		map[string]string{"nextClassName": "11th A"}, superAdmin))
	rec.AssertStatus(t, http.StatusOK)
	rec = e.do(testutil.NewAuthenticatedRequest("POST", "/classes/1/promote",
		map[string]string{"nextClassName": "12th A"}, superAdmin))
	rec.AssertStatus(t, http.StatusConflict)
}

func TestNotifications_Preview(t *testing.T) {
	e := newEnv(t)
	u := register(t, e.rs, "p@x.com", "1")
	e.do(testutil.NewAuthenticatedRequest("POST", "/users/"+u.ID+"/approve", nil, superAdmin))

	var items []struct {
		Subject string        `json:"subject"`
		Preview *mailer.Email `json:"preview"`
	}
	e.do(testutil.NewAuthenticatedRequest("GET", "/notifications?preview=true", nil, superAdmin)).DecodeJSON(t, &items)
	if len(items) != 1 || items[0].Preview == nil {
		t.Fatalf("items = %+v", items)
	}
	if items[0].Preview.To != "p@x.com" || items[0].Preview.HTMLBody == "" {
		t.Errorf("preview = %+v", items[0].Preview)
	}

	rec := e.do(testutil.NewAuthenticatedRequest("GET", "/notifications?limit=-1", nil, superAdmin))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestRegistrationStatus(t *testing.T) {
	e := newEnv(t)

	var pending []models.InstituteRegistration
	e.do(testutil.NewAuthenticatedRequest("GET", "/registrations?status=pending", nil, superAdmin)).DecodeJSON(t, &pending)
	if len(pending) != 1 || pending[0].ID != "1" {
		t.Fatalf("pending registrations = %+v", pending)
	}

	rec := e.do(testutil.NewAuthenticatedRequest("POST", "/registrations/1/status",
		map[string]string{"status": "approved"}, superAdmin))
	rec.AssertStatus(t, http.StatusOK)

	var reg models.InstituteRegistration
	rec.DecodeJSON(t, &reg)
	if reg.Status != models.RegistrationApproved || reg.InstituteID == "" {
		t.Errorf("registration = %+v", reg)
	}
	if len(e.mail.sent) != 1 || e.mail.sent[0].Subject != enrollment.CredentialsSubject {
		t.Errorf("credentials email = %+v", e.mail.sent)
	}

	rec = e.do(testutil.NewAuthenticatedRequest("POST", "/registrations/1/status",
		map[string]string{"status": "archived"}, superAdmin))
	rec.AssertStatus(t, http.StatusBadRequest)
}
