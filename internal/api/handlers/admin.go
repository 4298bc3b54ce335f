package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mertdogan/fleettrack/internal/audit"
	"github.com/mertdogan/fleettrack/internal/profile"
	"github.com/mertdogan/fleettrack/internal/store"
)

type AdminHandler struct {
	profiles *profile.Service
	auditSvc *audit.Service
}

func NewAdminHandler(profiles *profile.Service, auditSvc *audit.Service) *AdminHandler {
	return &AdminHandler{profiles: profiles, auditSvc: auditSvc}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.profiles.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users, "count": len(users)})
}

func (h *AdminHandler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	sc, ok := requestScope(w, r)
	if !ok {
		return
	}

	id, err := userIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req struct {
		SubscriptionActive bool       `json:"subscription_active"`
		ExpiresAt          *time.Time `json:"expires_at"`
	}
	if r.Body != nil {
		// An empty body approves without a subscription window.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	p, err := h.profiles.Approve(r.Context(), id, req.SubscriptionActive, req.ExpiresAt)
	if err != nil {
		respondError(w, err)
		return
	}

	logAuditUser(r, h.auditSvc, sc.ActorID(), "user.approve", id)

	writeJSON(w, http.StatusOK, p)
}

func (h *AdminHandler) RejectUser(w http.ResponseWriter, r *http.Request) {
	sc, ok := requestScope(w, r)
	if !ok {
		return
	}

	id, err := userIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	p, err := h.profiles.Reject(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	logAuditUser(r, h.auditSvc, sc.ActorID(), "user.reject", id)

	writeJSON(w, http.StatusOK, p)
}

func (h *AdminHandler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	sc, ok := requestScope(w, r)
	if !ok {
		return
	}

	id, err := userIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	p, err := h.profiles.SetRole(r.Context(), id, req.Role)
	if err != nil {
		respondError(w, err)
		return
	}

	logAuditUser(r, h.auditSvc, sc.ActorID(), "user.set_role", id)

	writeJSON(w, http.StatusOK, p)
}

func (h *AdminHandler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	q := store.AuditQuery{
		Action: r.URL.Query().Get("action"),
	}

	q.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	q.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if q.Limit <= 0 {
		q.Limit = 50
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err == nil {
			q.StartDate = &t
		}
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err == nil {
			q.EndDate = &t
		}
	}

	logs, err := h.auditSvc.List(r.Context(), q)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"audit_logs": logs, "count": len(logs)})
}

func userIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, store.Invalid("id", "must be a uuid")
	}
	return id, nil
}

func logAuditUser(r *http.Request, svc *audit.Service, actor uuid.UUID, action string, target uuid.UUID) {
	if svc == nil {
		return
	}
	_ = svc.Log(r.Context(), audit.Entry{
		Actor:        &actor,
		Action:       action,
		ResourceType: "user",
		Details:      map[string]interface{}{"user_id": target.String()},
		IPAddress:    clientIP(r),
	})
}
