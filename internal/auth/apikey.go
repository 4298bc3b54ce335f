package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/mertdogan/fleettrack/internal/scope"
	"github.com/mertdogan/fleettrack/internal/store"
)

// APIKeyMiddleware authenticates machine callers. A key is bound to a
// profile and passes through the same approval gate and scope resolution
// as an interactive session. Requests without the header fall through to
// the JWT middleware.
type APIKeyMiddleware struct {
	keys       store.ProfileStore
	headerName string
	scopes     *scope.Resolver
}

func NewAPIKeyMiddleware(keys store.ProfileStore, headerName string, scopes *scope.Resolver) *APIKeyMiddleware {
	return &APIKeyMiddleware{
		keys:       keys,
		headerName: headerName,
		scopes:     scopes,
	}
}

func (m *APIKeyMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(m.headerName)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		hash := HashAPIKey(key)
		ak, err := m.keys.APIKeyByHash(r.Context(), hash)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		now := time.Now()
		if ak.ExpiresAt != nil && ak.ExpiresAt.Before(now) {
			writeError(w, http.StatusUnauthorized, "API key expired")
			return
		}

		p, err := m.keys.ProfileByID(r.Context(), ak.ProfileID)
		if err != nil {
			p = nil
		}
		if !CanAccess(p, now) {
			writeError(w, http.StatusForbidden, "account not approved or subscription expired")
			return
		}

		// best effort; key usage tracking must not block the request
		touchCtx := context.WithoutCancel(r.Context())
		go func() { _ = m.keys.TouchAPIKey(touchCtx, ak.ID, now) }()

		sc := m.scopes.Resolve(r.Context(), ak.ProfileID)
		ctx := WithProfile(r.Context(), p)
		ctx = WithScope(ctx, sc)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func HashAPIKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}
