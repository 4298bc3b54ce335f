package auth

import "net/http"

// RequireAdmin guards admin-only routes. An owner scope, or a request
// that somehow skipped authentication, is rejected — never widened.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sc, ok := ScopeFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusForbidden, "no scope in context")
			return
		}
		if !sc.IsAdmin() {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
