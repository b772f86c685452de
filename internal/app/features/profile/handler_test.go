package profile_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/thinkedge/internal/app/features/profile"
	"github.com/dalemusser/thinkedge/internal/app/system/passwords"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"github.com/dalemusser/thinkedge/internal/testutil"
	"go.uber.org/zap"
)

var alice = models.User{ID: "3", Role: models.RoleStudent}

func TestHandleChangePassword(t *testing.T) {
	tests := []struct {
		name    string
		body    map[string]string
		want    int
		changed bool
	}{
		{"ok", map[string]string{
			"currentPassword": "password123", "newPassword": "fresh-secret", "confirmPassword": "fresh-secret",
		}, http.StatusNoContent, true},
		{"wrong current", map[string]string{
			"currentPassword": "nope", "newPassword": "fresh-secret", "confirmPassword": "fresh-secret",
		}, http.StatusBadRequest, false},
		{"mismatch", map[string]string{
			"currentPassword": "password123", "newPassword": "fresh-secret", "confirmPassword": "other",
		}, http.StatusBadRequest, false},
		{"same as current", map[string]string{
			"currentPassword": "password123", "newPassword": "password123", "confirmPassword": "password123",
		}, http.StatusBadRequest, false},
		{"too short", map[string]string{
			"currentPassword": "password123", "newPassword": "abc", "confirmPassword": "abc",
		}, http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := testutil.NewStore(t)
			h := profile.NewHandler(rs, nil, zap.NewNop())

			rec := testutil.NewRecorder()
			h.HandleChangePassword(rec, testutil.NewAuthenticatedRequest("POST", "/profile/password", tt.body, alice))
			rec.AssertStatus(t, tt.want)

			ctx, cancel := testutil.TestContext()
			defer cancel()
			u, _ := rs.Users().Find(ctx, "3")
			if got := passwords.Matches(u.Password, "fresh-secret"); got != tt.changed {
				t.Errorf("password changed = %v, want %v", got, tt.changed)
			}
		})
	}
}

func TestHandleChangePassword_Unauthenticated(t *testing.T) {
	h := profile.NewHandler(testutil.NewStore(t), nil, zap.NewNop())
	rec := testutil.NewRecorder()
	h.HandleChangePassword(rec, testutil.NewJSONRequest("POST", "/profile/password", map[string]string{}))
	rec.AssertStatus(t, http.StatusUnauthorized)
}
