package company

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/mertdogan/fleettrack/internal/enrich"
	"github.com/mertdogan/fleettrack/internal/guard"
	"github.com/mertdogan/fleettrack/internal/models"
	"github.com/mertdogan/fleettrack/internal/scope"
	"github.com/mertdogan/fleettrack/internal/store"
)

type Store interface {
	store.CompanyStore
	enrich.ProfileBatch
}

type Service struct {
	store Store
	guard *guard.Guard
}

func NewService(st Store, g *guard.Guard) *Service {
	return &Service{store: st, guard: g}
}

func (s *Service) List(ctx context.Context, sc scope.Scope) ([]models.CompanyWithAuthor, error) {
	rows, err := s.store.ListCompanies(ctx, sc)
	if err != nil {
		return nil, err
	}

	out := make([]models.CompanyWithAuthor, len(rows))
	for i, c := range rows {
		out[i] = models.CompanyWithAuthor{Company: c}
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

func (s *Service) Upsert(ctx context.Context, c models.Company, sc scope.Scope) (*models.Company, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, store.Invalid("name", "required")
	}
	if c.ID == 0 {
		c.OwnerID = sc.ActorID()
	}
	return s.store.UpsertCompany(ctx, c, sc)
}

func (s *Service) Dependents(ctx context.Context, id int64, sc scope.Scope) (guard.Dependents, error) {
	return s.guard.CheckDependents(ctx, guard.KindCompany, id, sc)
}

func (s *Service) Delete(ctx context.Context, id int64, sc scope.Scope) error {
	return s.guard.Delete(ctx, guard.KindCompany, id, sc)
}
