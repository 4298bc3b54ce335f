package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mertdogan/fleettrack/internal/audit"
	"github.com/mertdogan/fleettrack/internal/models"
	"github.com/mertdogan/fleettrack/internal/vehicle"
)

type VehicleHandler struct {
	svc      *vehicle.Service
	auditSvc *audit.Service
}

func NewVehicleHandler(svc *vehicle.Service, auditSvc *audit.Service) *VehicleHandler {
	return &VehicleHandler{svc: svc, auditSvc: auditSvc}
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	sc, ok := requestScope(w, r)
	if !ok {
		return
	}

	vehicles, err := h.svc.List(r.Context(), sc)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"vehicles": vehicles, "count": len(vehicles)})
}

func (h *VehicleHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	sc, ok := requestScope(w, r)
	if !ok {
		return
	}

	var v models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	saved, err := h.svc.Upsert(r.Context(), v, sc)
	if err != nil {
		respondError(w, err)
		return
	}

	status := http.StatusOK
	action := "vehicle.update"
	if v.ID == 0 {
		status = http.StatusCreated
		action = "vehicle.create"
	}
	logAudit(r, h.auditSvc, sc.ActorID(), action, "vehicle", saved.ID, map[string]interface{}{"plate_number": saved.PlateNumber})

	writeJSON(w, status, saved)
}

func (h *VehicleHandler) Dependents(w http.ResponseWriter, r *http.Request) {
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

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	logAudit(r, h.auditSvc, sc.ActorID(), "vehicle.delete", "vehicle", id, nil)

	w.WriteHeader(http.StatusNoContent)
}
