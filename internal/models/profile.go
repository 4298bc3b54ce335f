package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Profile is the identity record. Every other entity is stamped with a
// profile id as its owner.
type Profile struct {
	ID                    uuid.UUID  `json:"id" db:"id"`
	Email                 string     `json:"email" db:"email"`
	FullName              string     `json:"full_name,omitempty" db:"full_name"`
	Role                  string     `json:"role" db:"role"`
	IsApproved            bool       `json:"is_approved" db:"is_approved"`
	SubscriptionActive    bool       `json:"subscription_active" db:"subscription_active"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty" db:"subscription_expires_at"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
}

// Author is the subset of a profile attached to admin-scoped list rows.
type Author struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name,omitempty"`
}

func (p Profile) AuthorRef() Author {
	return Author{ID: p.ID, Email: p.Email, FullName: p.FullName}
}

type APIKey struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	ProfileID  uuid.UUID  `json:"profile_id" db:"profile_id"`
	KeyHash    string     `json:"-" db:"key_hash"`
	Name       string     `json:"name" db:"name"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty" db:"last_used_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
