// Package enrich attaches authoring identities to admin-scoped result
// rows. Owner-scoped reads never pass through here.
package enrich

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mertdogan/fleettrack/internal/models"
)

type ProfileBatch interface {
	ProfilesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error)
}

// Authors resolves the distinct owner ids to display identities. Owners
// whose profile no longer exists are simply absent from the map; callers
// attach nil for those rows instead of failing the whole read.
func Authors(ctx context.Context, profiles ProfileBatch, ownerIDs []uuid.UUID) (map[uuid.UUID]models.Author, error) {
	distinct := make([]uuid.UUID, 0, len(ownerIDs))
	seen := make(map[uuid.UUID]bool, len(ownerIDs))
	for _, id := range ownerIDs {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		distinct = append(distinct, id)
	}
	if len(distinct) == 0 {
		return nil, nil
	}

	rows, err := profiles.ProfilesByIDs(ctx, distinct)
	if err != nil {
		return nil, fmt.Errorf("load authors: %w", err)
	}

	authors := make(map[uuid.UUID]models.Author, len(rows))
	for _, p := range rows {
		authors[p.ID] = p.AuthorRef()
	}
	return authors, nil
}

// Lookup returns a pointer into the author map or nil when missing.
func Lookup(authors map[uuid.UUID]models.Author, ownerID uuid.UUID) *models.Author {
	if a, ok := authors[ownerID]; ok {
		return &a
	}
	return nil
}
