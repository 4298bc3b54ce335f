// Package profile manages identity records: self lookup plus the admin
// approval and role workflow.
package profile

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mertdogan/fleettrack/internal/models"
	"github.com/mertdogan/fleettrack/internal/store"
)

type Service struct {
	store store.ProfileStore
}

func NewService(st store.ProfileStore) *Service {
	return &Service{store: st}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return s.store.ProfileByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]models.Profile, error) {
	return s.store.ListProfiles(ctx)
}

// Approve grants access, optionally opening a subscription window. A nil
// expiry with an active subscription means unlimited.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, subscriptionActive bool, expiresAt *time.Time) (*models.Profile, error) {
	if expiresAt != nil && !expiresAt.After(time.Now()) {
		return nil, store.Invalid("subscription_expires_at", "must be in the future")
	}
	return s.store.SetApproval(ctx, id, true, subscriptionActive, expiresAt)
}

// Reject withdraws approval; the identity loses access to all scoped
// data until approved again.
func (s *Service) Reject(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return s.store.SetApproval(ctx, id, false, false, nil)
}

func (s *Service) SetRole(ctx context.Context, id uuid.UUID, role string) (*models.Profile, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, store.Invalid("role", "must be user or admin")
	}
	return s.store.SetRole(ctx, id, role)
}
