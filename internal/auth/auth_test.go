package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pamir-ai/aic3204-go/internal/auth"
)

// writeUsersJSON writes users.json to dir.
func writeUsersJSON(t *testing.T, dir string, users map[string]interface{}) {
	t.Helper()
	data, err := json.Marshal(users)
	if err != nil {
		t.Fatalf("json.Marshal users: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "users.json"), data, 0644); err != nil {
		t.Fatalf("WriteFile users.json: %v", err)
	}
}

func newService(t *testing.T, dir string) *auth.Service {
	t.Helper()
	svc, err := auth.NewService(dir)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	t.Cleanup(svc.Close)
	return svc
}

func TestOpenModeWithoutUsersFile(t *testing.T) {
	svc := newService(t, t.TempDir())

	if !svc.IsOpenMode() {
		t.Error("IsOpenMode() = false, want true when no users.json")
	}
	if svc.VerifyKey("") {
		t.Error("empty key must always be rejected")
	}
	if svc.VerifyKey("any-key-at-all") {
		t.Error("VerifyKey matched with no users configured")
	}
}

func TestVerifyKeyAgainstUsersFile(t *testing.T) {
	dir := t.TempDir()
	writeUsersJSON(t, dir, map[string]interface{}{
		"admin": map[string]string{
			"type":          "user",
			"access_key":    "secret-key-1",
			"password_hash": "x",
		},
	})
	svc := newService(t, dir)

	if svc.IsOpenMode() {
		t.Error("IsOpenMode() = true with a password hash configured")
	}
	if !svc.VerifyKey("secret-key-1") {
		t.Error("VerifyKey rejected the configured key")
	}
	if svc.VerifyKey("wrong-key") {
		t.Error("VerifyKey accepted a wrong key")
	}
}

func TestMiddlewareOpenModePassesThrough(t *testing.T) {
	svc := newService(t, t.TempDir())

	called := false
	handler := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if !called {
		t.Error("open mode must pass requests through")
	}
}

func TestMiddlewareEnforcesKey(t *testing.T) {
	dir := t.TempDir()
	writeUsersJSON(t, dir, map[string]interface{}{
		"admin": map[string]string{
			"type":          "user",
			"access_key":    "secret-key-1",
			"password_hash": "x",
		},
	})
	svc := newService(t, dir)

	handler := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// No credentials
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no credentials: status %d, want 401", rec.Code)
	}

	// api-key header
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("api-key", "secret-key-1")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid header key: status %d, want 200", rec.Code)
	}

	// api-key query parameter
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status?api-key=secret-key-1", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("valid query key: status %d, want 200", rec.Code)
	}
}

func TestReloadPicksUpNewUsers(t *testing.T) {
	dir := t.TempDir()
	svc := newService(t, dir)

	writeUsersJSON(t, dir, map[string]interface{}{
		"admin": map[string]string{
			"type":       "user",
			"access_key": "late-key",
		},
	})
	if err := svc.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if !svc.VerifyKey("late-key") {
		t.Error("Reload did not pick up the new user")
	}
}
