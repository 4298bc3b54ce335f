package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mertdogan/fleettrack/internal/models"
	"github.com/mertdogan/fleettrack/internal/scope"
	"github.com/mertdogan/fleettrack/internal/store"
)

func TestAPIKeyAuthenticate(t *testing.T) {
	mem := store.NewMemory()
	mw := NewAPIKeyMiddleware(mem, "X-API-Key", scope.NewResolver(mem))

	profileID := uuid.New()
	mem.PutProfile(models.Profile{ID: profileID, Email: "svc@example.com", Role: models.RoleUser, IsApproved: true})
	mem.PutAPIKey(models.APIKey{ID: uuid.New(), ProfileID: profileID, KeyHash: HashAPIKey("valid-key")})

	expiredAt := time.Now().Add(-time.Hour)
	mem.PutAPIKey(models.APIKey{ID: uuid.New(), ProfileID: profileID, KeyHash: HashAPIKey("stale-key"), ExpiresAt: &expiredAt})

	unapproved := uuid.New()
	mem.PutProfile(models.Profile{ID: unapproved, Role: models.RoleUser})
	mem.PutAPIKey(models.APIKey{ID: uuid.New(), ProfileID: unapproved, KeyHash: HashAPIKey("unapproved-key")})

	tests := []struct {
		name       string
		key        string
		wantStatus int
		wantNext   bool
	}{
		{"valid key", "valid-key", http.StatusOK, true},
		{"unknown key", "wrong-key", http.StatusUnauthorized, false},
		{"expired key", "stale-key", http.StatusUnauthorized, false},
		{"unapproved profile", "unapproved-key", http.StatusForbidden, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				if p := ProfileFromContext(r.Context()); p == nil || p.ID != profileID {
					t.Errorf("profile not stashed in context")
				}
				if sc, ok := ScopeFromContext(r.Context()); !ok || sc.ActorID() != profileID {
					t.Errorf("scope not stashed in context")
				}
				w.WriteHeader(http.StatusOK)
			}))

			r := httptest.NewRequest(http.MethodGet, "/companies", nil)
			r.Header.Set("X-API-Key", tt.key)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, r)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != tt.wantNext {
				t.Fatalf("called = %v, want %v", called, tt.wantNext)
			}
		})
	}
}

func TestAPIKeyAbsentFallsThrough(t *testing.T) {
	mem := store.NewMemory()
	mw := NewAPIKeyMiddleware(mem, "X-API-Key", scope.NewResolver(mem))

	called := false
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if p := ProfileFromContext(r.Context()); p != nil {
			t.Errorf("no profile expected without a key")
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/companies", nil))

	if !called {
		t.Fatalf("request without key must fall through to the next middleware")
	}
}

func TestRequireAdmin(t *testing.T) {
	called := false
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	// No scope at all.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/users", nil))
	if rec.Code != http.StatusForbidden || called {
		t.Fatalf("missing scope must be rejected: %d", rec.Code)
	}

	// Owner scope.
	r := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	r = r.WithContext(WithScope(r.Context(), scope.Owner(uuid.New())))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusForbidden || called {
		t.Fatalf("owner scope must be rejected: %d", rec.Code)
	}

	// Admin scope.
	r = httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	r = r.WithContext(WithScope(r.Context(), scope.Admin(uuid.New())))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK || !called {
		t.Fatalf("admin scope must pass: %d", rec.Code)
	}
}
