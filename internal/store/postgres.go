package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mertdogan/fleettrack/internal/models"
)

// Postgres is the production Store adapter backed by pgxpool. All driver
// errors pass through classify before they leave this package.
type Postgres struct {
	db *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

const profileColumns = "id, email, full_name, role, is_approved, subscription_active, subscription_expires_at, created_at"

func scanProfile(row interface{ Scan(...any) error }) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.IsApproved,
		&p.SubscriptionActive, &p.SubscriptionExpiresAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Postgres) ProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	p, err := scanProfile(s.db.QueryRow(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE id = $1", id))
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", classify(err))
	}
	return p, nil
}

func (s *Postgres) ProfilesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, fmt.Errorf("get profiles: %w", classify(err))
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", classify(err))
		}
		profiles = append(profiles, *p)
	}
	return profiles, classify(rows.Err())
}

func (s *Postgres) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+profileColumns+" FROM profiles ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", classify(err))
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", classify(err))
		}
		profiles = append(profiles, *p)
	}
	return profiles, classify(rows.Err())
}

func (s *Postgres) SetApproval(ctx context.Context, id uuid.UUID, approved, subscriptionActive bool, expiresAt *time.Time) (*models.Profile, error) {
	p, err := scanProfile(s.db.QueryRow(ctx,
		`UPDATE profiles
		 SET is_approved = $2, subscription_active = $3, subscription_expires_at = $4
		 WHERE id = $1
		 RETURNING `+profileColumns,
		id, approved, subscriptionActive, expiresAt))
	if err != nil {
		return nil, fmt.Errorf("set approval: %w", classify(err))
	}
	return p, nil
}

func (s *Postgres) SetRole(ctx context.Context, id uuid.UUID, role string) (*models.Profile, error) {
	p, err := scanProfile(s.db.QueryRow(ctx,
		"UPDATE profiles SET role = $2 WHERE id = $1 RETURNING "+profileColumns,
		id, role))
	if err != nil {
		return nil, fmt.Errorf("set role: %w", classify(err))
	}
	return p, nil
}

func (s *Postgres) ExpireSubscriptions(ctx context.Context, asOf time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE profiles SET subscription_active = FALSE
		 WHERE subscription_active = TRUE
		   AND subscription_expires_at IS NOT NULL
		   AND subscription_expires_at < $1`, asOf)
	if err != nil {
		return 0, fmt.Errorf("expire subscriptions: %w", classify(err))
	}
	return tag.RowsAffected(), nil
}

func (s *Postgres) APIKeyByHash(ctx context.Context, hash string) (*models.APIKey, error) {
	var k models.APIKey
	err := s.db.QueryRow(ctx,
		`SELECT id, profile_id, key_hash, name, last_used_at, expires_at, created_at
		 FROM api_keys WHERE key_hash = $1`, hash,
	).Scan(&k.ID, &k.ProfileID, &k.KeyHash, &k.Name, &k.LastUsedAt, &k.ExpiresAt, &k.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get api key: %w", classify(err))
	}
	return &k, nil
}

func (s *Postgres) TouchAPIKey(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	_, err := s.db.Exec(ctx,
		"UPDATE api_keys SET last_used_at = $2 WHERE id = $1", id, usedAt)
	return classify(err)
}
