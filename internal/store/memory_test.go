package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mertdogan/fleettrack/internal/models"
	"github.com/mertdogan/fleettrack/internal/scope"
)

func TestListCompaniesScoped(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	a, b := uuid.New(), uuid.New()

	for _, c := range []models.Company{
		{Name: "Beta Nakliyat", OwnerID: a},
		{Name: "Acme Lojistik", OwnerID: a},
		{Name: "Gamma Tasimacilik", OwnerID: b},
	} {
		if _, err := mem.UpsertCompany(ctx, c, scope.Owner(c.OwnerID)); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	own, err := mem.ListCompanies(ctx, scope.Owner(a))
	if err != nil {
		t.Fatalf("ListCompanies: %v", err)
	}
	if len(own) != 2 {
		t.Fatalf("owner sees %d companies, want 2", len(own))
	}
	if own[0].Name != "Acme Lojistik" || own[1].Name != "Beta Nakliyat" {
		t.Fatalf("not ordered by name: %v, %v", own[0].Name, own[1].Name)
	}

	all, _ := mem.ListCompanies(ctx, scope.Admin(uuid.New()))
	if len(all) != 3 {
		t.Fatalf("admin sees %d companies, want 3", len(all))
	}
}

func TestExpireSubscriptions(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	expired := models.Profile{ID: uuid.New(), SubscriptionActive: true, SubscriptionExpiresAt: &past}
	current := models.Profile{ID: uuid.New(), SubscriptionActive: true, SubscriptionExpiresAt: &future}
	unlimited := models.Profile{ID: uuid.New(), SubscriptionActive: true}
	mem.PutProfile(expired)
	mem.PutProfile(current)
	mem.PutProfile(unlimited)

	n, err := mem.ExpireSubscriptions(ctx, now)
	if err != nil {
		t.Fatalf("ExpireSubscriptions: %v", err)
	}
	if n != 1 {
		t.Fatalf("expired %d subscriptions, want 1", n)
	}

	p, _ := mem.ProfileByID(ctx, expired.ID)
	if p.SubscriptionActive {
		t.Fatalf("expired subscription still active")
	}
	p, _ = mem.ProfileByID(ctx, current.ID)
	if !p.SubscriptionActive {
		t.Fatalf("current subscription deactivated")
	}
	p, _ = mem.ProfileByID(ctx, unlimited.ID)
	if !p.SubscriptionActive {
		t.Fatalf("unlimited subscription deactivated")
	}
}
