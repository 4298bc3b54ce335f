package handlers

import (
	"net/http"

	"github.com/mertdogan/fleettrack/internal/auth"
)

type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

// Me returns the authenticated caller's own profile.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	p := auth.ProfileFromContext(r.Context())
	if p == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}
