package vehicle

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
	store.VehicleStore
	enrich.ProfileBatch
}

type Service struct {
	store Store
	guard *guard.Guard
}

func NewService(st Store, g *guard.Guard) *Service {
	return &Service{store: st, guard: g}
}

func (s *Service) List(ctx context.Context, sc scope.Scope) ([]models.VehicleWithAuthor, error) {
	rows, err := s.store.ListVehicles(ctx, sc)
	if err != nil {
		return nil, err
	}

	out := make([]models.VehicleWithAuthor, len(rows))
	for i, v := range rows {
		out[i] = models.VehicleWithAuthor{Vehicle: v}
	}
	if !sc.IsAdmin() {
		return out, nil
	}

	ownerIDs := make([]uuid.UUID, len(rows))
	for i, v := range rows {
		ownerIDs[i] = v.OwnerID
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

func (s *Service) Upsert(ctx context.Context, v models.Vehicle, sc scope.Scope) (*models.Vehicle, error) {
	v.PlateNumber = strings.TrimSpace(v.PlateNumber)
	if v.PlateNumber == "" {
		return nil, store.Invalid("plate_number", "required")
	}
	if v.ID == 0 {
		v.OwnerID = sc.ActorID()
	}
	return s.store.UpsertVehicle(ctx, v, sc)
}

func (s *Service) Dependents(ctx context.Context, id int64, sc scope.Scope) (guard.Dependents, error) {
	return s.guard.CheckDependents(ctx, guard.KindVehicle, id, sc)
}

func (s *Service) Delete(ctx context.Context, id int64, sc scope.Scope) error {
	return s.guard.Delete(ctx, guard.KindVehicle, id, sc)
}
