package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/thinkedge/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

type stubFetcher map[string]*auth.SessionUser

func (f stubFetcher) FetchUser(_ context.Context, id string) *auth.SessionUser {
	return f[id]
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	_, err := auth.NewSessionManager("", "x", "", time.Hour, false, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for empty session key")
	}
}

func TestRequireSignedIn_NoUser_RedirectsToLogin(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireSignedIn(okHandler())

	req := httptest.NewRequest("GET", "/student/contents", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login") {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
}

func TestRequireSignedIn_NoUser_API_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireSignedIn(okHandler())

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error"`) {
		t.Errorf("expected JSON error body, got %q", rec.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	sm := newTestSessionManager(t)

	tests := []struct {
		name    string
		role    string
		allowed []string
		want    int
	}{
		{"matching role", "teacher", []string{"teacher"}, http.StatusOK},
		{"one of several", "institute-admin", []string{"admin", "app-admin", "institute-admin"}, http.StatusOK},
		{"case insensitive", "TEACHER", []string{"teacher"}, http.StatusOK},
		{"wrong role", "student", []string{"teacher"}, http.StatusForbidden},
		{"no user", "", []string{"teacher"}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := sm.RequireRole(tt.allowed...)(okHandler())
			req := httptest.NewRequest("GET", "/teacher/contents", nil)
			if tt.role != "" {
				req = auth.WithTestUser(req, &auth.SessionUser{ID: "1", Role: tt.role})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	user, ok := auth.CurrentUser(req)
	if ok || user != nil {
		t.Errorf("expected no user, got %+v (ok=%v)", user, ok)
	}
}

func TestCookieSlot_RoundTrip(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(stubFetcher{
		"3": {ID: "3", Name: "Alice Johnson", Role: "student"},
	})

	// Record the id in a fresh cookie.
	req := httptest.NewRequest("POST", "/login", nil)
	rec := httptest.NewRecorder()
	if err := sm.Slot(rec, req).SetCurrentID(req.Context(), "3"); err != nil {
		t.Fatalf("SetCurrentID: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	// Replay the cookie through LoadSessionUser.
	var got *auth.SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))
	req2 := httptest.NewRequest("GET", "/me", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req2)

	if got == nil || got.ID != "3" {
		t.Fatalf("expected user 3 in context, got %+v", got)
	}
}

func TestCookieSlot_UnknownUserIsDropped(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(stubFetcher{})

	req := httptest.NewRequest("POST", "/login", nil)
	rec := httptest.NewRecorder()
	if err := sm.Slot(rec, req).SetCurrentID(req.Context(), "ghost"); err != nil {
		t.Fatalf("SetCurrentID: %v", err)
	}

	signedIn := true
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, signedIn = auth.CurrentUser(r)
	}))
	req2 := httptest.NewRequest("GET", "/me", nil)
	for _, c := range rec.Result().Cookies() {
		req2.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req2)

	if signedIn {
		t.Error("expected unknown user id to leave request anonymous")
	}
}

func TestCookieSlot_ClearExpiresCookie(t *testing.T) {
	sm := newTestSessionManager(t)
	req := httptest.NewRequest("POST", "/logout", nil)
	rec := httptest.NewRecorder()

	if err := sm.Slot(rec, req).ClearCurrentID(req.Context()); err != nil {
		t.Fatalf("ClearCurrentID: %v", err)
	}

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == sm.Name() {
			found = true
			if c.MaxAge >= 0 {
				t.Errorf("expected negative MaxAge, got %d", c.MaxAge)
			}
		}
	}
	if !found {
		t.Error("expected deletion cookie to be written")
	}
}
