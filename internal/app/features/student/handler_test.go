package student_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/thinkedge/internal/app/features/student"
	"github.com/dalemusser/thinkedge/internal/app/system/auth"
	"github.com/dalemusser/thinkedge/internal/app/system/sequencer"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"github.com/dalemusser/thinkedge/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type path struct {
	Progress         int              `json:"progress"`
	Total            int              `json:"total"`
	CertificateReady bool             `json:"certificateReady"`
	Items            []sequencer.Item `json:"items"`
}

var alice = models.User{ID: "3", Name: "Alice Johnson", Role: models.RoleStudent, InstituteID: "1", ClassName: "10th A"}

func newRouter(t *testing.T) chi.Router {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return student.Routes(student.NewHandler(testutil.NewStore(t), nil, logger), sm)
}

func do(r chi.Router, req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func states(p path) []sequencer.State {
	out := make([]sequencer.State, len(p.Items))
	for i, it := range p.Items {
		out[i] = it.State
	}
	return out
}

func TestContents_Initial(t *testing.T) {
	r := newRouter(t)

	var p path
	do(r, testutil.NewAuthenticatedRequest("GET", "/contents", nil, alice)).DecodeJSON(t, &p)
	if p.Total != 2 || p.Progress != 0 || p.CertificateReady {
		t.Fatalf("path = %+v", p)
	}
	got := states(p)
	if got[0] != sequencer.Active || got[1] != sequencer.Locked {
		t.Errorf("states = %v", got)
	}
}

func TestComplete_WalksThePath(t *testing.T) {
	r := newRouter(t)

	// Locked item first.
	rec := do(r, testutil.NewAuthenticatedRequest("POST", "/contents/c2/complete", nil, alice))
	rec.AssertStatus(t, http.StatusConflict)

	rec = do(r, testutil.NewAuthenticatedRequest("POST", "/contents/c1/complete", nil, alice))
	rec.AssertStatus(t, http.StatusOK)
	var p path
	rec.DecodeJSON(t, &p)
	if got := states(p); got[0] != sequencer.Completed || got[1] != sequencer.Active {
		t.Errorf("after c1: %v", got)
	}

	var cert struct {
		Ready bool `json:"ready"`
	}
	do(r, testutil.NewAuthenticatedRequest("GET", "/certificate", nil, alice)).DecodeJSON(t, &cert)
	if cert.Ready {
		t.Error("certificate should not be ready halfway")
	}

	rec = do(r, testutil.NewAuthenticatedRequest("POST", "/contents/c2/complete", nil, alice))
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &p)
	if !p.CertificateReady || p.Progress != 2 {
		t.Errorf("after c2: %+v", p)
	}

	var done struct {
		Ready     bool   `json:"ready"`
		Name      string `json:"name"`
		Completed int    `json:"completed"`
		Total     int    `json:"total"`
	}
	do(r, testutil.NewAuthenticatedRequest("GET", "/certificate", nil, alice)).DecodeJSON(t, &done)
	if !done.Ready || done.Name != "Alice Johnson" || done.Completed != 2 || done.Total != 2 {
		t.Errorf("certificate = %+v", done)
	}
}

func TestTeacherForbidden(t *testing.T) {
	r := newRouter(t)
	teacher := models.User{ID: "2", Role: models.RoleTeacher}
	rec := do(r, testutil.NewAuthenticatedRequest("GET", "/contents", nil, teacher))
	rec.AssertStatus(t, http.StatusForbidden)
}
