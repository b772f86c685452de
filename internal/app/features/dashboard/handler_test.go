package dashboard_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/thinkedge/internal/app/features/dashboard"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"github.com/dalemusser/thinkedge/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *dashboard.Handler {
	t.Helper()
	return dashboard.NewHandler(testutil.NewStore(t), zap.NewNop())
}

func TestServeDashboard_Unauthenticated(t *testing.T) {
	rec := testutil.NewRecorder()
	newTestHandler(t).ServeDashboard(rec, testutil.NewRequest("GET", "/dashboard"))
	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestServeDashboard_Admin(t *testing.T) {
	rec := testutil.NewRecorder()
	admin := models.User{ID: "1", Name: "Super Admin", Role: models.RoleAdmin}
	newTestHandler(t).ServeDashboard(rec, testutil.WithUser(testutil.NewRequest("GET", "/dashboard"), admin))
	rec.AssertStatus(t, http.StatusOK)

	var body struct {
		Title  string `json:"title"`
		Counts struct {
			Institutes           int64 `json:"institutes"`
			Students             int64 `json:"students"`
			PendingRegistrations int64 `json:"pendingRegistrations"`
		} `json:"counts"`
	}
	rec.DecodeJSON(t, &body)
	if body.Title != "Admin Dashboard" {
		t.Errorf("title = %q", body.Title)
	}
	if body.Counts.Institutes != 1 || body.Counts.Students != 1 || body.Counts.PendingRegistrations != 1 {
		t.Errorf("counts = %+v", body.Counts)
	}
}

func TestServeDashboard_Teacher(t *testing.T) {
	rec := testutil.NewRecorder()
	teacher := models.User{ID: "2", Role: models.RoleTeacher, InstituteID: "1", ClassName: "10th A"}
	newTestHandler(t).ServeDashboard(rec, testutil.WithUser(testutil.NewRequest("GET", "/dashboard"), teacher))
	rec.AssertStatus(t, http.StatusOK)

	var body struct {
		Contents int `json:"contents"`
		Students int `json:"students"`
		Finished int `json:"finished"`
	}
	rec.DecodeJSON(t, &body)
	if body.Contents != 2 || body.Students != 1 || body.Finished != 0 {
		t.Errorf("teacher dashboard = %+v", body)
	}
}

func TestServeDashboard_Student(t *testing.T) {
	rec := testutil.NewRecorder()
	alice := models.User{ID: "3", Role: models.RoleStudent, InstituteID: "1", ClassName: "10th A"}
	newTestHandler(t).ServeDashboard(rec, testutil.WithUser(testutil.NewRequest("GET", "/dashboard"), alice))
	rec.AssertStatus(t, http.StatusOK)

	var body struct {
		Progress         int  `json:"progress"`
		Total            int  `json:"total"`
		CertificateReady bool `json:"certificateReady"`
	}
	rec.DecodeJSON(t, &body)
	if body.Progress != 0 || body.Total != 2 || body.CertificateReady {
		t.Errorf("student dashboard = %+v", body)
	}
}

func TestServeDashboard_UnknownRole(t *testing.T) {
	rec := testutil.NewRecorder()
	odd := models.User{ID: "z", Role: "guest"}
	newTestHandler(t).ServeDashboard(rec, testutil.WithUser(testutil.NewRequest("GET", "/dashboard"), odd))
	rec.AssertStatus(t, http.StatusForbidden)
}
