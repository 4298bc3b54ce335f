package contract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mertdogan/fleettrack/internal/enrich"
	"github.com/mertdogan/fleettrack/internal/models"
	"github.com/mertdogan/fleettrack/internal/scope"
	"github.com/mertdogan/fleettrack/internal/store"
	"github.com/mertdogan/fleettrack/pkg/dateonly"

	"github.com/google/uuid"
)

// FeeRecalcScheduler is notified after a contract upsert so dependent
// log fees can be rewritten asynchronously.
type FeeRecalcScheduler interface {
	ScheduleFeeRecalc(ctx context.Context, c models.Contract) error
}

type Store interface {
	store.ContractStore
	enrich.ProfileBatch
}

type Service struct {
	store   Store
	recalcs FeeRecalcScheduler
}

// NewService wires the contract engine. recalcs may be nil when no queue
// is available; upserts then skip the recalculation hand-off.
func NewService(st Store, recalcs FeeRecalcScheduler) *Service {
	return &Service{store: st, recalcs: recalcs}
}

func (s *Service) List(ctx context.Context, sc scope.Scope) ([]models.ContractWithAuthor, error) {
	rows, err := s.store.ListContracts(ctx, sc)
	if err != nil {
		return nil, err
	}

	out := make([]models.ContractWithAuthor, len(rows))
	for i, c := range rows {
		out[i] = models.ContractWithAuthor{Contract: c}
	}
	if !sc.IsAdmin() {
		return out, nil
	}

	ownerIDs := make([]uuid.UUID, len(rows))
	for i, c := range rows {
		ownerIDs[i] = c.OwnerID
	}
	authors, err := enrich.Authors(ctx, s.store, ownerIDs)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Author = enrich.Lookup(authors, out[i].OwnerID)
	}
	return out, nil
}

// ResolveActive loads the candidate window for the day and applies the
// specificity tie-break. Pass a nil vehicleID to preview the general
// rate only.
func (s *Service) ResolveActive(ctx context.Context, companyID int64, vehicleID *int64, day dateonly.Date, sc scope.Scope) (*models.Contract, error) {
	candidates, err := s.store.ContractCandidates(ctx, companyID, day, sc)
	if err != nil {
		return nil, fmt.Errorf("resolve active contract: %w", err)
	}
	return ResolveActive(candidates, vehicleID, day), nil
}

func validate(c models.Contract) error {
	if c.StartDate.IsZero() {
		return store.Invalid("start_date", "required")
	}
	if c.EndDate != nil && c.EndDate.Before(c.StartDate) {
		return store.Invalid("end_date", "must not precede start_date")
	}
	if c.DailyRate < 0 {
		return store.Invalid("daily_rate", "must not be negative")
	}
	if c.OvertimeRate < 0 {
		return store.Invalid("overtime_rate", "must not be negative")
	}
	return nil
}

// Upsert validates and persists a contract. The owner is stamped from
// the acting identity on creation and never rewritten afterwards.
func (s *Service) Upsert(ctx context.Context, c models.Contract, sc scope.Scope) (*models.Contract, error) {
	if err := validate(c); err != nil {
		return nil, err
	}
	if c.ID == 0 {
		c.OwnerID = sc.ActorID()
	}

	saved, err := s.store.UpsertContract(ctx, c, sc)
	if err != nil {
		return nil, err
	}
	s.scheduleRecalc(ctx, *saved)
	return saved, nil
}

// Delete removes a contract and schedules a fee recalculation over its
// window, since logs in that window now resolve against different rates.
func (s *Service) Delete(ctx context.Context, id int64, sc scope.Scope) error {
	c, err := s.store.ContractByID(ctx, id, sc)
	if err != nil {
		return err
	}
	affected, err := s.store.DeleteContract(ctx, id, sc)
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	s.scheduleRecalc(ctx, *c)
	return nil
}

// scheduleRecalc hands the contract's window to the fee worker. The row
// is already persisted at this point, so a queue outage must not fail
// the request; stored fees catch up on the next successful enqueue.
func (s *Service) scheduleRecalc(ctx context.Context, c models.Contract) {
	if s.recalcs == nil {
		return
	}
	if err := s.recalcs.ScheduleFeeRecalc(ctx, c); err != nil {
		slog.Warn("fee recalc not scheduled, stored fees may be stale",
			"contract_id", c.ID, "error", err)
	}
}
