package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/mertdogan/fleettrack/internal/billing"
	"github.com/mertdogan/fleettrack/internal/contract"
	"github.com/mertdogan/fleettrack/internal/models"
	"github.com/mertdogan/fleettrack/internal/queue"
	"github.com/mertdogan/fleettrack/internal/scope"
	"github.com/mertdogan/fleettrack/pkg/dateonly"
)

type FeeStore interface {
	ContractCandidates(ctx context.Context, companyID int64, day dateonly.Date, sc scope.Scope) ([]models.Contract, error)
	LogsForCompany(ctx context.Context, companyID int64, from dateonly.Date, to *dateonly.Date, sc scope.Scope) ([]models.DailyLog, error)
	UpdateLogFee(ctx context.Context, id int64, fee float64) error
}

// FeeWorker rewrites calculated fees after a contract change. Each log
// in the affected window is re-resolved against the current contract set
// so the stored fee always reflects the rates in force.
type FeeWorker struct {
	store FeeStore
}

func NewFeeWorker(st FeeStore) *FeeWorker {
	return &FeeWorker{store: st}
}

func (w *FeeWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.FeeRecalcPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	ownerID, err := uuid.Parse(payload.OwnerID)
	if err != nil {
		return fmt.Errorf("parse owner id: %w", err)
	}
	from, err := dateonly.Parse(payload.From)
	if err != nil {
		return fmt.Errorf("parse window start: %w", err)
	}
	var to *dateonly.Date
	if payload.To != nil {
		d, err := dateonly.Parse(*payload.To)
		if err != nil {
			return fmt.Errorf("parse window end: %w", err)
		}
		to = &d
	}

	sc := scope.Owner(ownerID)
	logs, err := w.store.LogsForCompany(ctx, payload.CompanyID, from, to, sc)
	if err != nil {
		return fmt.Errorf("load affected logs: %w", err)
	}

	var updated int
	for _, l := range logs {
		candidates, err := w.store.ContractCandidates(ctx, payload.CompanyID, l.Date, sc)
		if err != nil {
			return fmt.Errorf("load candidates for log %d: %w", l.ID, err)
		}

		var fee float64
		if c := contract.ResolveActive(candidates, l.VehicleID, l.Date); c != nil {
			fee = billing.Fee(*c, l.IsOvertime)
		}
		if fee == l.CalculatedFee {
			continue
		}
		if err := w.store.UpdateLogFee(ctx, l.ID, fee); err != nil {
			return fmt.Errorf("update fee for log %d: %w", l.ID, err)
		}
		updated++
	}

	slog.Info("fee recalculation done",
		"contract_id", payload.ContractID,
		"company_id", payload.CompanyID,
		"logs_seen", len(logs),
		"logs_updated", updated)
	return nil
}
