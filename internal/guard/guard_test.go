package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/mertdogan/fleettrack/internal/models"
	"github.com/mertdogan/fleettrack/internal/scope"
	"github.com/mertdogan/fleettrack/internal/store"
	"github.com/mertdogan/fleettrack/pkg/dateonly"
)

func i64(v int64) *int64 { return &v }

func day(t *testing.T, s string) dateonly.Date {
	t.Helper()
	d, err := dateonly.Parse(s)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return d
}

// seeds one owner with a company, a vehicle, a contract binding them and
// one usage log.
func seed(t *testing.T) (*store.Memory, scope.Scope, models.Company, models.Vehicle) {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()
	owner := uuid.New()
	sc := scope.Owner(owner)

	c, err := mem.UpsertCompany(ctx, models.Company{Name: "Acme Lojistik", OwnerID: owner}, sc)
	if err != nil {
		t.Fatalf("seed company: %v", err)
	}
	v, err := mem.UpsertVehicle(ctx, models.Vehicle{PlateNumber: "34ABC123", OwnerID: owner}, sc)
	if err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	_, err = mem.UpsertContract(ctx, models.Contract{
		CompanyID: &c.ID, VehicleID: &v.ID, DailyRate: 150,
		StartDate: day(t, "2024-01-01"), OwnerID: owner,
	}, sc)
	if err != nil {
		t.Fatalf("seed contract: %v", err)
	}
	_, err = mem.InsertLog(ctx, models.DailyLog{
		Date: day(t, "2024-01-15"), CompanyID: &c.ID, VehicleID: &v.ID,
		CalculatedFee: 150, OwnerID: owner,
	})
	if err != nil {
		t.Fatalf("seed log: %v", err)
	}
	return mem, sc, *c, *v
}

func TestCheckDependents(t *testing.T) {
	mem, sc, c, v := seed(t)
	g := NewGuard(mem)
	ctx := context.Background()

	deps, err := g.CheckDependents(ctx, KindCompany, c.ID, sc)
	if err != nil {
		t.Fatalf("company dependents: %v", err)
	}
	if len(deps.Contracts) != 1 || len(deps.Logs) != 0 {
		t.Fatalf("company dependents = %+v", deps)
	}

	deps, err = g.CheckDependents(ctx, KindVehicle, v.ID, sc)
	if err != nil {
		t.Fatalf("vehicle dependents: %v", err)
	}
	if len(deps.Contracts) != 1 || len(deps.Logs) != 1 {
		t.Fatalf("vehicle dependents = %+v", deps)
	}

	if _, err := g.CheckDependents(ctx, Kind("driver"), 1, sc); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestDeleteBlockedByDependents(t *testing.T) {
	mem, sc, c, v := seed(t)
	g := NewGuard(mem)
	ctx := context.Background()

	err := g.Delete(ctx, KindVehicle, v.ID, sc)
	if !errors.Is(err, store.ErrHasDependents) {
		t.Fatalf("expected dependents refusal, got %v", err)
	}

	var depErr *DependentsError
	if !errors.As(err, &depErr) {
		t.Fatalf("expected *DependentsError, got %T", err)
	}
	if len(depErr.Contracts) != 1 || len(depErr.Logs) != 1 {
		t.Fatalf("refusal must carry the blocking rows: %+v", depErr.Dependents)
	}

	// Refused delete must leave the vehicle untouched.
	vs, err := mem.ListVehicles(ctx, sc)
	if err != nil || len(vs) != 1 {
		t.Fatalf("vehicle must survive a refused delete: %v %v", vs, err)
	}

	if err := g.Delete(ctx, KindCompany, c.ID, sc); !errors.Is(err, store.ErrHasDependents) {
		t.Fatalf("expected company dependents refusal, got %v", err)
	}
}

func TestDeleteSucceedsWithoutDependents(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	owner := uuid.New()
	sc := scope.Owner(owner)
	g := NewGuard(mem)

	v, err := mem.UpsertVehicle(ctx, models.Vehicle{PlateNumber: "06XYZ789", OwnerID: owner}, sc)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := g.Delete(ctx, KindVehicle, v.ID, sc); err != nil {
		t.Fatalf("delete: %v", err)
	}
	vs, _ := mem.ListVehicles(ctx, sc)
	if len(vs) != 0 {
		t.Fatalf("vehicle not deleted")
	}
}

func TestDeleteMissingRowIsNotFound(t *testing.T) {
	mem := store.NewMemory()
	g := NewGuard(mem)
	sc := scope.Owner(uuid.New())

	if err := g.Delete(context.Background(), KindCompany, 42, sc); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteOutOfScopeIsNotFound(t *testing.T) {
	mem, _, _, v := seed(t)
	g := NewGuard(mem)
	stranger := scope.Owner(uuid.New())

	// Another owner's vehicle is invisible, not forbidden.
	if err := g.Delete(context.Background(), KindVehicle, v.ID, stranger); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found for out-of-scope row, got %v", err)
	}
}
