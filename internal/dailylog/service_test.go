package dailylog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mertdogan/fleettrack/internal/contract"
	"github.com/mertdogan/fleettrack/internal/models"
	"github.com/mertdogan/fleettrack/internal/scope"
	"github.com/mertdogan/fleettrack/internal/store"
	"github.com/mertdogan/fleettrack/pkg/dateonly"
)

func day(t *testing.T, s string) dateonly.Date {
	t.Helper()
	d, err := dateonly.Parse(s)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return d
}

func newFixture(t *testing.T) (*store.Memory, *Service, scope.Scope, models.Company, models.Vehicle) {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()
	owner := uuid.New()
	mem.PutProfile(models.Profile{ID: owner, Email: "owner@example.com", FullName: "Owner", Role: models.RoleUser, IsApproved: true})
	sc := scope.Owner(owner)

	c, err := mem.UpsertCompany(ctx, models.Company{Name: "Acme Lojistik", OwnerID: owner}, sc)
	if err != nil {
		t.Fatalf("seed company: %v", err)
	}
	v, err := mem.UpsertVehicle(ctx, models.Vehicle{PlateNumber: "34ABC123", DriverName: "Ali", OwnerID: owner}, sc)
	if err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}

	// General contract plus a pricier vehicle-specific one for January.
	if _, err := mem.UpsertContract(ctx, models.Contract{
		CompanyID: &c.ID, DailyRate: 100, StartDate: day(t, "2024-01-01"), OwnerID: owner,
	}, sc); err != nil {
		t.Fatalf("seed general contract: %v", err)
	}
	end := day(t, "2024-01-20")
	if _, err := mem.UpsertContract(ctx, models.Contract{
		CompanyID: &c.ID, VehicleID: &v.ID, DailyRate: 150, OvertimeRate: 50,
		StartDate: day(t, "2024-01-10"), EndDate: &end, OwnerID: owner,
	}, sc); err != nil {
		t.Fatalf("seed vehicle contract: %v", err)
	}

	svc := NewService(mem, contract.NewService(mem, nil), nil, 0)
	return mem, svc, sc, *c, *v
}

func TestAddComputesFeeFromActiveContract(t *testing.T) {
	_, svc, sc, c, v := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		date     string
		vehicle  *int64
		overtime bool
		wantFee  float64
	}{
		{"specific contract", "2024-01-15", &v.ID, false, 150},
		{"specific with overtime", "2024-01-15", &v.ID, true, 200},
		{"general after window", "2024-01-25", &v.ID, false, 100},
		{"general for unlisted vehicle", "2024-01-15", nil, false, 100},
		{"before any contract", "2023-12-15", &v.ID, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved, err := svc.Add(ctx, models.DailyLog{
				Date: day(t, tt.date), CompanyID: &c.ID, VehicleID: tt.vehicle, IsOvertime: tt.overtime,
			}, sc)
			if err != nil {
				t.Fatalf("Add: %v", err)
			}
			if saved.CalculatedFee != tt.wantFee {
				t.Fatalf("fee = %v, want %v", saved.CalculatedFee, tt.wantFee)
			}
			if saved.OwnerID != sc.ActorID() {
				t.Fatalf("owner not stamped")
			}
			if saved.ID == 0 {
				t.Fatalf("id not assigned")
			}
		})
	}
}

func TestAddWithoutCompanyHasZeroFee(t *testing.T) {
	_, svc, sc, _, v := newFixture(t)

	saved, err := svc.Add(context.Background(), models.DailyLog{
		Date: day(t, "2024-01-15"), VehicleID: &v.ID, IsOvertime: true,
	}, sc)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if saved.CalculatedFee != 0 {
		t.Fatalf("fee without company = %v, want 0", saved.CalculatedFee)
	}
}

func TestAddIgnoresClientFee(t *testing.T) {
	_, svc, sc, c, v := newFixture(t)

	saved, err := svc.Add(context.Background(), models.DailyLog{
		Date: day(t, "2024-01-15"), CompanyID: &c.ID, VehicleID: &v.ID,
		CalculatedFee: 9999,
	}, sc)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if saved.CalculatedFee != 150 {
		t.Fatalf("client-supplied fee must be overwritten, got %v", saved.CalculatedFee)
	}
}

func TestAddRequiresDate(t *testing.T) {
	_, svc, sc, c, _ := newFixture(t)

	_, err := svc.Add(context.Background(), models.DailyLog{CompanyID: &c.ID}, sc)
	var valErr *store.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListMonthFilter(t *testing.T) {
	_, svc, sc, c, v := newFixture(t)
	ctx := context.Background()

	for _, d := range []string{"2024-01-05", "2024-01-31", "2024-02-01"} {
		if _, err := svc.Add(ctx, models.DailyLog{Date: day(t, d), CompanyID: &c.ID, VehicleID: &v.ID}, sc); err != nil {
			t.Fatalf("Add %s: %v", d, err)
		}
	}

	logs, err := svc.List(ctx, sc, 2024, time.January)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 January logs, got %d", len(logs))
	}
	// Newest first.
	if !logs[0].Date.After(logs[1].Date) {
		t.Fatalf("logs not ordered newest first")
	}

	all, err := svc.List(ctx, sc, 0, 0)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 logs unfiltered, got %d", len(all))
	}

	if _, err := svc.List(ctx, sc, 2024, 13); err == nil {
		t.Fatalf("expected error for month 13")
	}
}

func TestOwnerIsolation(t *testing.T) {
	mem, svc, sc, c, v := newFixture(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, models.DailyLog{Date: day(t, "2024-01-15"), CompanyID: &c.ID, VehicleID: &v.ID}, sc); err != nil {
		t.Fatalf("Add: %v", err)
	}

	stranger := uuid.New()
	mem.PutProfile(models.Profile{ID: stranger, Email: "other@example.com", Role: models.RoleUser, IsApproved: true})

	logs, err := svc.List(ctx, scope.Owner(stranger), 0, 0)
	if err != nil {
		t.Fatalf("List as stranger: %v", err)
	}
	if len(logs) != 0 {
		t.Fatalf("stranger must not see other owners' logs, got %d", len(logs))
	}

	admin := uuid.New()
	adminLogs, err := svc.List(ctx, scope.Admin(admin), 0, 0)
	if err != nil {
		t.Fatalf("List as admin: %v", err)
	}
	if len(adminLogs) != 1 {
		t.Fatalf("admin must see all logs, got %d", len(adminLogs))
	}
	if adminLogs[0].Author == nil || adminLogs[0].Author.Email != "owner@example.com" {
		t.Fatalf("admin listing must carry author identity: %+v", adminLogs[0].Author)
	}

	// Owner listings carry no author enrichment.
	own, _ := svc.List(ctx, sc, 0, 0)
	if own[0].Author != nil {
		t.Fatalf("owner listing must not be enriched")
	}
}

func TestDelete(t *testing.T) {
	mem, svc, sc, c, v := newFixture(t)
	ctx := context.Background()

	saved, err := svc.Add(ctx, models.DailyLog{Date: day(t, "2024-01-15"), CompanyID: &c.ID, VehicleID: &v.ID}, sc)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := svc.Delete(ctx, saved.ID, scope.Owner(uuid.New())); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("stranger delete must be not found, got %v", err)
	}

	if err := svc.Delete(ctx, saved.ID, sc); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, saved.ID, sc); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second delete must be not found, got %v", err)
	}

	logs, _ := mem.ListLogs(ctx, sc, nil, nil)
	if len(logs) != 0 {
		t.Fatalf("log not removed")
	}
}

func TestMonthlyVehicleSummary(t *testing.T) {
	_, svc, sc, c, v := newFixture(t)
	ctx := context.Background()

	// Two January days on the specific contract, one with overtime, plus
	// a February day that must stay out of the report.
	add := func(d string, overtime bool) {
		t.Helper()
		if _, err := svc.Add(ctx, models.DailyLog{Date: day(t, d), CompanyID: &c.ID, VehicleID: &v.ID, IsOvertime: overtime}, sc); err != nil {
			t.Fatalf("Add %s: %v", d, err)
		}
	}
	add("2024-01-15", false) // 150
	add("2024-01-16", true)  // 200
	add("2024-02-05", false) // 100, out of scope

	report, err := svc.MonthlyVehicleSummary(ctx, sc, 2024, time.January)
	if err != nil {
		t.Fatalf("MonthlyVehicleSummary: %v", err)
	}
	if report.Year != 2024 || report.Month != time.January {
		t.Fatalf("report window = %d-%d", report.Year, report.Month)
	}
	if len(report.Vehicles) != 1 {
		t.Fatalf("expected 1 vehicle group, got %d", len(report.Vehicles))
	}

	g := report.Vehicles[0]
	if g.TotalFee != 350 || g.LogCount != 2 || g.OvertimeCount != 1 {
		t.Fatalf("unexpected group: %+v", g)
	}
	if g.PlateNumber != "34ABC123" || g.DriverName != "Ali" {
		t.Fatalf("vehicle metadata missing: %+v", g)
	}
	if report.GrandTotal != 350 {
		t.Fatalf("grand total = %v, want 350", report.GrandTotal)
	}

	if _, err := svc.MonthlyVehicleSummary(ctx, sc, 0, time.January); err == nil {
		t.Fatalf("expected error for missing year")
	}
	if _, err := svc.MonthlyVehicleSummary(ctx, sc, 2024, 0); err == nil {
		t.Fatalf("expected error for month 0")
	}
}
