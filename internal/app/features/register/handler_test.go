package register_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/thinkedge/internal/app/features/register"
	"github.com/dalemusser/thinkedge/internal/domain/models"
	"github.com/dalemusser/thinkedge/internal/testutil"
	"go.uber.org/zap"
)

func TestHandleRegister(t *testing.T) {
	rs := testutil.NewStore(t)
	h := register.NewHandler(rs, nil, nil, zap.NewNop())

	rec := testutil.NewRecorder()
	h.HandleRegister(rec, testutil.NewJSONRequest("POST", "/register", map[string]string{
		"name":        "  Bob   Lee ",
		"email":       "Bob@School.com",
		"password":    "secret1",
		"role":        "teacher",
		"instituteId": "1",
		"className":   "10th A",
	}))
	rec.AssertStatus(t, http.StatusCreated)

	var u models.User
	rec.DecodeJSON(t, &u)
	if u.Name != "Bob Lee" || u.Email != "bob@school.com" {
		t.Errorf("input not normalized: %+v", u)
	}
	if u.IsApproved {
		t.Error("new registrations must start unapproved")
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	stored, err := rs.Users().Find(ctx, u.ID)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if stored.Password == "" || stored.Password == "secret1" {
		t.Error("password should be stored hashed")
	}
}

func TestHandleRegister_Errors(t *testing.T) {
	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{"duplicate email", map[string]string{
			"name": "Alice", "email": "ALICE@student.com", "password": "secret1", "role": "student",
		}, http.StatusConflict},
		{"bad email", map[string]string{
			"name": "X", "email": "not-an-email", "password": "secret1", "role": "student",
		}, http.StatusUnprocessableEntity},
		{"short password", map[string]string{
			"name": "X", "email": "x@y.com", "password": "123", "role": "student",
		}, http.StatusUnprocessableEntity},
		{"admin role not self-service", map[string]string{
			"name": "X", "email": "x@y.com", "password": "secret1", "role": "admin",
		}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := register.NewHandler(testutil.NewStore(t), nil, nil, zap.NewNop())
			rec := testutil.NewRecorder()
			h.HandleRegister(rec, testutil.NewJSONRequest("POST", "/register", tt.body))
			rec.AssertStatus(t, tt.want)
		})
	}
}
