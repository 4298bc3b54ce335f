package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mertdogan/fleettrack/internal/audit"
	"github.com/mertdogan/fleettrack/internal/company"
	"github.com/mertdogan/fleettrack/internal/models"
)

type CompanyHandler struct {
	svc      *company.Service
	auditSvc *audit.Service
}

func NewCompanyHandler(svc *company.Service, auditSvc *audit.Service) *CompanyHandler {
	return &CompanyHandler{svc: svc, auditSvc: auditSvc}
}

func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	sc, ok := requestScope(w, r)
	if !ok {
		return
	}

	companies, err := h.svc.List(r.Context(), sc)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"companies": companies, "count": len(companies)})
}

func (h *CompanyHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	sc, ok := requestScope(w, r)
	if !ok {
		return
	}

	var c models.Company
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	saved, err := h.svc.Upsert(r.Context(), c, sc)
	if err != nil {
		respondError(w, err)
		return
	}

	status := http.StatusOK
	action := "company.update"
	if c.ID == 0 {
		status = http.StatusCreated
		action = "company.create"
	}
	logAudit(r, h.auditSvc, sc.ActorID(), action, "company", saved.ID, map[string]interface{}{"name": saved.Name})

	writeJSON(w, status, saved)
}

func (h *CompanyHandler) Dependents(w http.ResponseWriter, r *http.Request) {
	sc, ok := requestScope(w, r)
	if !ok {
		return
	}

	id, err := idParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	deps, err := h.svc.Dependents(r.Context(), id, sc)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deps)
}

func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sc, ok := requestScope(w, r)
	if !ok {
		return
	}

	id, err := idParam(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id, sc); err != nil {
		respondError(w, err)
		return
	}

	logAudit(r, h.auditSvc, sc.ActorID(), "company.delete", "company", id, nil)

	w.WriteHeader(http.StatusNoContent)
}
