package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mertdogan/fleettrack/internal/guard"
	"github.com/mertdogan/fleettrack/internal/models"
	"github.com/mertdogan/fleettrack/internal/store"
)

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", store.Invalid("name", "required"), http.StatusBadRequest},
		{"not found", store.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", errors.Join(errors.New("ctx"), store.ErrNotFound), http.StatusNotFound},
		{"forbidden", store.ErrForbidden, http.StatusForbidden},
		{"dependents sentinel", store.ErrHasDependents, http.StatusConflict},
		{"dependents with rows", &guard.DependentsError{Dependents: guard.Dependents{Contracts: []models.Contract{{ID: 1}}}}, http.StatusConflict},
		{"transient", &store.TransientError{Err: errors.New("conn reset")}, http.StatusServiceUnavailable},
		{"store error", &store.StoreError{Code: "23505", Message: "duplicate"}, http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, tt.err)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Fatalf("content type = %q", ct)
			}
		})
	}
}

func TestRespondErrorCarriesDependentRows(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, &guard.DependentsError{Dependents: guard.Dependents{
		Contracts: []models.Contract{{ID: 1}, {ID: 2}},
	}})

	var body struct {
		Error      string `json:"error"`
		Dependents struct {
			Contracts []models.Contract `json:"contracts"`
		} `json:"dependents"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Dependents.Contracts) != 2 {
		t.Fatalf("dependent rows missing from payload: %+v", body)
	}
	if body.Error == "" {
		t.Fatalf("error message missing")
	}
}
