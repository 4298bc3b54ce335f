package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mertdogan/fleettrack/internal/audit"
	"github.com/mertdogan/fleettrack/internal/contract"
	"github.com/mertdogan/fleettrack/internal/models"
	"github.com/mertdogan/fleettrack/pkg/dateonly"
)

type ContractHandler struct {
	svc      *contract.Service
	auditSvc *audit.Service
}

func NewContractHandler(svc *contract.Service, auditSvc *audit.Service) *ContractHandler {
	return &ContractHandler{svc: svc, auditSvc: auditSvc}
}

func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	sc, ok := requestScope(w, r)
	if !ok {
		return
	}

	contracts, err := h.svc.List(r.Context(), sc)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"contracts": contracts, "count": len(contracts)})
}

// Active previews which contract would bill a given company, vehicle and
// date without writing anything.
func (h *ContractHandler) Active(w http.ResponseWriter, r *http.Request) {
	sc, ok := requestScope(w, r)
	if !ok {
		return
	}

	companyID, err := strconv.ParseInt(r.URL.Query().Get("company_id"), 10, 64)
	if err != nil || companyID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "company_id must be a positive integer"})
		return
	}

	var vehicleID *int64
	if s := r.URL.Query().Get("vehicle_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "vehicle_id must be a positive integer"})
			return
		}
		vehicleID = &id
	}

	day, err := dateonly.Parse(r.URL.Query().Get("date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be formatted YYYY-MM-DD"})
		return
	}

	active, err := h.svc.ResolveActive(r.Context(), companyID, vehicleID, day, sc)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"contract": active})
}

func (h *ContractHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	sc, ok := requestScope(w, r)
	if !ok {
		return
	}

	var c models.Contract
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
	action := "contract.update"
	if c.ID == 0 {
		status = http.StatusCreated
		action = "contract.create"
	}
	logAudit(r, h.auditSvc, sc.ActorID(), action, "contract", saved.ID, map[string]interface{}{
		"daily_rate":    saved.DailyRate,
		"overtime_rate": saved.OvertimeRate,
	})

	writeJSON(w, status, saved)
}

func (h *ContractHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	logAudit(r, h.auditSvc, sc.ActorID(), "contract.delete", "contract", id, nil)

	w.WriteHeader(http.StatusNoContent)
}
