package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mertdogan/fleettrack/internal/auth"
	"github.com/mertdogan/fleettrack/internal/guard"
	"github.com/mertdogan/fleettrack/internal/scope"
	"github.com/mertdogan/fleettrack/internal/store"
)

// respondError maps the error taxonomy onto HTTP statuses. Refused
// deletes carry the blocking rows so clients can show them.
func respondError(w http.ResponseWriter, err error) {
	var valErr *store.ValidationError
	if errors.As(err, &valErr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": valErr.Error()})
		return
	}

	var depErr *guard.DependentsError
	if errors.As(err, &depErr) {
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":      "dependent records exist",
			"dependents": depErr.Dependents,
		})
		return
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, store.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, store.ErrHasDependents):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "dependent records exist"})
	default:
		var transient *store.TransientError
		if errors.As(err, &transient) {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "temporarily unavailable"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// requestScope pulls the resolved scope from the request context. The
// auth middleware always sets one; a miss means the route is wired
// outside the auth chain.
func requestScope(w http.ResponseWriter, r *http.Request) (scope.Scope, bool) {
	sc, ok := auth.ScopeFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return scope.Scope{}, false
	}
	return sc, true
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, store.Invalid("id", "must be a positive integer")
	}
	return id, nil
}
