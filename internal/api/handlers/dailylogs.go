package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/mertdogan/fleettrack/internal/audit"
	"github.com/mertdogan/fleettrack/internal/dailylog"
	"github.com/mertdogan/fleettrack/internal/models"
	"github.com/mertdogan/fleettrack/internal/store"
)

type DailyLogHandler struct {
	svc      *dailylog.Service
	auditSvc *audit.Service
}

func NewDailyLogHandler(svc *dailylog.Service, auditSvc *audit.Service) *DailyLogHandler {
	return &DailyLogHandler{svc: svc, auditSvc: auditSvc}
}

func (h *DailyLogHandler) List(w http.ResponseWriter, r *http.Request) {
	sc, ok := requestScope(w, r)
	if !ok {
		return
	}

	year, month, err := monthParams(r, false)
	if err != nil {
		respondError(w, err)
		return
	}

	logs, err := h.svc.List(r.Context(), sc, year, month)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": logs, "count": len(logs)})
}

func (h *DailyLogHandler) Add(w http.ResponseWriter, r *http.Request) {
	sc, ok := requestScope(w, r)
	if !ok {
		return
	}

	var l models.DailyLog
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	saved, err := h.svc.Add(r.Context(), l, sc)
	if err != nil {
		respondError(w, err)
		return
	}

	logAudit(r, h.auditSvc, sc.ActorID(), "daily_log.create", "daily_log", saved.ID, map[string]interface{}{
		"date":           saved.Date.String(),
		"calculated_fee": saved.CalculatedFee,
	})

	writeJSON(w, http.StatusCreated, saved)
}

func (h *DailyLogHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	logAudit(r, h.auditSvc, sc.ActorID(), "daily_log.delete", "daily_log", id, nil)

	w.WriteHeader(http.StatusNoContent)
}

func (h *DailyLogHandler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	sc, ok := requestScope(w, r)
	if !ok {
		return
	}

	year, month, err := monthParams(r, true)
	if err != nil {
		respondError(w, err)
		return
	}

	report, err := h.svc.MonthlyVehicleSummary(r.Context(), sc, year, month)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// monthParams reads ?year= and ?month=. When required is false and both
// are absent, the zero year means no month filter.
func monthParams(r *http.Request, required bool) (int, time.Month, error) {
	ys := r.URL.Query().Get("year")
	ms := r.URL.Query().Get("month")

	if ys == "" && ms == "" && !required {
		return 0, 0, nil
	}

	year, err := strconv.Atoi(ys)
	if err != nil || year <= 0 {
		return 0, 0, store.Invalid("year", "must be a positive integer")
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m < 1 || m > 12 {
		return 0, 0, store.Invalid("month", "must be between 1 and 12")
	}
	return year, time.Month(m), nil
}
