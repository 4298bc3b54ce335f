// Package guard protects deletes of referenced entities. Dependents are
// surfaced to the caller before any destructive action, and store-level
// constraint violations are translated into the same typed condition for
// the race where a dependent appears between check and delete.
package guard

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mertdogan/fleettrack/internal/models"
	"github.com/mertdogan/fleettrack/internal/scope"
	"github.com/mertdogan/fleettrack/internal/store"
)

type Kind string

const (
	KindCompany Kind = "company"
	KindVehicle Kind = "vehicle"
)

// Dependents are the rows blocking a delete. Logs are only populated for
// vehicles.
type Dependents struct {
	Contracts []models.Contract `json:"contracts"`
	Logs      []models.DailyLog `json:"logs,omitempty"`
}

func (d Dependents) Empty() bool {
	return len(d.Contracts) == 0 && len(d.Logs) == 0
}

// DependentsError refuses a delete and carries the discovered rows so
// the caller can present them.
type DependentsError struct {
	Dependents
}

func (e *DependentsError) Error() string {
	return fmt.Sprintf("delete blocked: %d dependent contracts, %d dependent logs",
		len(e.Contracts), len(e.Logs))
}

func (e *DependentsError) Is(target error) bool { return target == store.ErrHasDependents }

type Store interface {
	store.CompanyStore
	store.VehicleStore
	store.ContractStore
	store.LogStore
}

type Guard struct {
	store Store
}

func NewGuard(st Store) *Guard {
	return &Guard{store: st}
}

// CheckDependents lists the rows that reference the entity under the
// caller's scope. For a vehicle only contracts naming that exact vehicle
// count; general contracts belong to the company, not to any vehicle.
// The two vehicle sub-queries are independent and run concurrently.
func (g *Guard) CheckDependents(ctx context.Context, kind Kind, id int64, sc scope.Scope) (Dependents, error) {
	switch kind {
	case KindCompany:
		contracts, err := g.store.ContractsByCompany(ctx, id, sc)
		if err != nil {
			return Dependents{}, fmt.Errorf("check company dependents: %w", err)
		}
		return Dependents{Contracts: contracts}, nil

	case KindVehicle:
		var deps Dependents
		eg, egCtx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			contracts, err := g.store.ContractsByVehicle(egCtx, id, sc)
			deps.Contracts = contracts
			return err
		})
		eg.Go(func() error {
			logs, err := g.store.LogsByVehicle(egCtx, id, sc)
			deps.Logs = logs
			return err
		})
		if err := eg.Wait(); err != nil {
			return Dependents{}, fmt.Errorf("check vehicle dependents: %w", err)
		}
		return deps, nil

	default:
		return Dependents{}, store.Invalid("entity", fmt.Sprintf("unknown kind %q", kind))
	}
}

// Delete removes the entity unless dependents exist. A zero-row delete
// with no error is reported as not found, never as success.
func (g *Guard) Delete(ctx context.Context, kind Kind, id int64, sc scope.Scope) error {
	deps, err := g.CheckDependents(ctx, kind, id, sc)
	if err != nil {
		return err
	}
	if !deps.Empty() {
		return &DependentsError{Dependents: deps}
	}

	var affected int64
	switch kind {
	case KindCompany:
		affected, err = g.store.DeleteCompany(ctx, id, sc)
	case KindVehicle:
		affected, err = g.store.DeleteVehicle(ctx, id, sc)
	default:
		return store.Invalid("entity", fmt.Sprintf("unknown kind %q", kind))
	}

	if err != nil {
		// a dependent created between check and delete trips the store's
		// referential constraint; re-read the rows for the caller
		if errors.Is(err, store.ErrHasDependents) {
			deps, checkErr := g.CheckDependents(ctx, kind, id, sc)
			if checkErr == nil {
				return &DependentsError{Dependents: deps}
			}
			return &DependentsError{}
		}
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
