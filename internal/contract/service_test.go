package contract

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

func dateZero() dateonly.Date { return dateonly.Date{} }

type recordingScheduler struct {
	scheduled []models.Contract
	err       error
}

func (r *recordingScheduler) ScheduleFeeRecalc(_ context.Context, c models.Contract) error {
	if r.err != nil {
		return r.err
	}
	r.scheduled = append(r.scheduled, c)
	return nil
}

func TestUpsertValidation(t *testing.T) {
	svc := NewService(store.NewMemory(), nil)
	sc := scope.Owner(uuid.New())
	ctx := context.Background()

	valid := models.Contract{CompanyID: i64(1), DailyRate: 100, StartDate: day("2024-01-01")}

	tests := []struct {
		name   string
		mutate func(*models.Contract)
	}{
		{"missing start date", func(c *models.Contract) { c.StartDate = dateZero() }},
		{"end before start", func(c *models.Contract) { c.EndDate = datePtr("2023-12-01") }},
		{"negative daily rate", func(c *models.Contract) { c.DailyRate = -1 }},
		{"negative overtime rate", func(c *models.Contract) { c.OvertimeRate = -0.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			_, err := svc.Upsert(ctx, c, sc)
			var valErr *store.ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	if _, err := svc.Upsert(ctx, valid, sc); err != nil {
		t.Fatalf("valid contract rejected: %v", err)
	}
}

func TestUpsertStampsOwnerAndSchedulesRecalc(t *testing.T) {
	mem := store.NewMemory()
	sched := &recordingScheduler{}
	svc := NewService(mem, sched)
	owner := uuid.New()
	sc := scope.Owner(owner)
	ctx := context.Background()

	saved, err := svc.Upsert(ctx, models.Contract{
		CompanyID: i64(1), DailyRate: 100, StartDate: day("2024-01-01"),
	}, sc)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if saved.OwnerID != owner {
		t.Fatalf("owner not stamped: %v", saved.OwnerID)
	}
	if len(sched.scheduled) != 1 || sched.scheduled[0].ID != saved.ID {
		t.Fatalf("recalc not scheduled: %+v", sched.scheduled)
	}

	// Update keeps the original owner even when the payload carries none.
	saved.DailyRate = 120
	saved.OwnerID = uuid.Nil
	updated, err := svc.Upsert(ctx, *saved, sc)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.OwnerID != owner {
		t.Fatalf("update rewrote owner: %v", updated.OwnerID)
	}
	if updated.DailyRate != 120 {
		t.Fatalf("rate not updated")
	}
	if len(sched.scheduled) != 2 {
		t.Fatalf("recalc not scheduled on update")
	}
}

func TestUpsertSurvivesSchedulerOutage(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(mem, &recordingScheduler{err: errors.New("queue down")})
	sc := scope.Owner(uuid.New())
	ctx := context.Background()

	saved, err := svc.Upsert(ctx, models.Contract{
		CompanyID: i64(1), DailyRate: 100, StartDate: day("2024-01-01"),
	}, sc)
	if err != nil {
		t.Fatalf("queue outage must not fail the upsert: %v", err)
	}
	if saved == nil || saved.ID == 0 {
		t.Fatalf("saved contract not returned: %+v", saved)
	}

	// The row persisted; a retry of the same create must not be needed
	// (and would duplicate the contract).
	rows, err := mem.ListContracts(ctx, sc)
	if err != nil {
		t.Fatalf("ListContracts: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly one stored contract, got %d", len(rows))
	}
}

func TestUpsertForeignContractIsNotFound(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(mem, nil)
	ctx := context.Background()
	owner := uuid.New()

	saved, err := svc.Upsert(ctx, models.Contract{
		CompanyID: i64(1), DailyRate: 100, StartDate: day("2024-01-01"),
	}, scope.Owner(owner))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err = svc.Upsert(ctx, *saved, scope.Owner(uuid.New()))
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found for foreign row, got %v", err)
	}
}

func TestListAdminEnrichment(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(mem, nil)
	ctx := context.Background()

	owner := uuid.New()
	mem.PutProfile(models.Profile{ID: owner, Email: "owner@example.com", FullName: "Owner", Role: models.RoleUser})

	if _, err := svc.Upsert(ctx, models.Contract{
		CompanyID: i64(1), DailyRate: 100, StartDate: day("2024-01-01"),
	}, scope.Owner(owner)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	admin, err := svc.List(ctx, scope.Admin(uuid.New()))
	if err != nil {
		t.Fatalf("List admin: %v", err)
	}
	if len(admin) != 1 || admin[0].Author == nil || admin[0].Author.Email != "owner@example.com" {
		t.Fatalf("admin listing must carry author: %+v", admin)
	}

	own, err := svc.List(ctx, scope.Owner(owner))
	if err != nil {
		t.Fatalf("List owner: %v", err)
	}
	if len(own) != 1 || own[0].Author != nil {
		t.Fatalf("owner listing must not be enriched: %+v", own)
	}
}

func TestDeleteContract(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(mem, nil)
	ctx := context.Background()
	sc := scope.Owner(uuid.New())

	saved, err := svc.Upsert(ctx, models.Contract{
		CompanyID: i64(1), DailyRate: 100, StartDate: day("2024-01-01"),
	}, sc)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.Delete(ctx, saved.ID, sc); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, saved.ID, sc); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found on repeat delete, got %v", err)
	}
}

func TestDeleteSchedulesRecalc(t *testing.T) {
	mem := store.NewMemory()
	sched := &recordingScheduler{}
	svc := NewService(mem, sched)
	ctx := context.Background()
	sc := scope.Owner(uuid.New())

	saved, err := svc.Upsert(ctx, models.Contract{
		CompanyID: i64(1), DailyRate: 100, StartDate: day("2024-01-01"),
	}, sc)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.Delete(ctx, saved.ID, sc); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// One enqueue for the create, one for the delete, both carrying the
	// contract's window so affected log fees get rewritten.
	if len(sched.scheduled) != 2 {
		t.Fatalf("expected recalc on delete, scheduled %d", len(sched.scheduled))
	}
	if last := sched.scheduled[1]; last.ID != saved.ID {
		t.Fatalf("recalc scheduled for wrong contract: %+v", last)
	}
}
