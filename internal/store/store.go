// Package store defines the data-store boundary. Every list and delete
// takes a scope and applies the owner filter itself; the core never
// trusts the backing store's own row-level security alone.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mertdogan/fleettrack/internal/models"
	"github.com/mertdogan/fleettrack/internal/scope"
	"github.com/mertdogan/fleettrack/pkg/dateonly"
)

type ProfileStore interface {
	ProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	ProfilesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error)
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	// SetApproval overwrites the approval and subscription fields.
	SetApproval(ctx context.Context, id uuid.UUID, approved, subscriptionActive bool, expiresAt *time.Time) (*models.Profile, error)
	SetRole(ctx context.Context, id uuid.UUID, role string) (*models.Profile, error)
	// ExpireSubscriptions deactivates subscriptions whose expiry passed
	// and returns the number of rows changed.
	ExpireSubscriptions(ctx context.Context, asOf time.Time) (int64, error)

	APIKeyByHash(ctx context.Context, hash string) (*models.APIKey, error)
	TouchAPIKey(ctx context.Context, id uuid.UUID, usedAt time.Time) error
}

type CompanyStore interface {
	// ListCompanies returns companies visible under sc, ordered by name.
	ListCompanies(ctx context.Context, sc scope.Scope) ([]models.Company, error)
	// UpsertCompany inserts when c.ID is zero, otherwise overwrites the
	// row in place. Updates never change owner_id and only touch rows
	// visible under sc.
	UpsertCompany(ctx context.Context, c models.Company, sc scope.Scope) (*models.Company, error)
	// DeleteCompany returns the number of rows removed.
	DeleteCompany(ctx context.Context, id int64, sc scope.Scope) (int64, error)
}

type VehicleStore interface {
	// ListVehicles returns vehicles visible under sc, ordered by plate.
	ListVehicles(ctx context.Context, sc scope.Scope) ([]models.Vehicle, error)
	// VehiclesByIDs is the join source for summaries; ids always come
	// from rows already filtered by scope.
	VehiclesByIDs(ctx context.Context, ids []int64) ([]models.Vehicle, error)
	UpsertVehicle(ctx context.Context, v models.Vehicle, sc scope.Scope) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, id int64, sc scope.Scope) (int64, error)
}

type ContractStore interface {
	// ListContracts returns contracts visible under sc, newest first.
	ListContracts(ctx context.Context, sc scope.Scope) ([]models.Contract, error)
	// ContractCandidates returns the company's contracts whose validity
	// window contains day, under sc.
	ContractCandidates(ctx context.Context, companyID int64, day dateonly.Date, sc scope.Scope) ([]models.Contract, error)
	// ContractsByCompany and ContractsByVehicle list hard dependents.
	// Only contracts naming the exact vehicle count as its dependents;
	// general contracts belong to the company, not to any vehicle.
	ContractsByCompany(ctx context.Context, companyID int64, sc scope.Scope) ([]models.Contract, error)
	ContractsByVehicle(ctx context.Context, vehicleID int64, sc scope.Scope) ([]models.Contract, error)
	// ContractByID returns the contract when it is visible under sc,
	// ErrNotFound otherwise.
	ContractByID(ctx context.Context, id int64, sc scope.Scope) (*models.Contract, error)
	UpsertContract(ctx context.Context, c models.Contract, sc scope.Scope) (*models.Contract, error)
	DeleteContract(ctx context.Context, id int64, sc scope.Scope) (int64, error)
}

type LogStore interface {
	// ListLogs returns logs visible under sc ordered by date descending,
	// optionally restricted to [from, to] inclusive.
	ListLogs(ctx context.Context, sc scope.Scope, from, to *dateonly.Date) ([]models.DailyLog, error)
	LogByID(ctx context.Context, id int64, sc scope.Scope) (*models.DailyLog, error)
	LogsByVehicle(ctx context.Context, vehicleID int64, sc scope.Scope) ([]models.DailyLog, error)
	// LogsForCompany returns a company's logs from the given day onward,
	// bounded above by to when non-nil.
	LogsForCompany(ctx context.Context, companyID int64, from dateonly.Date, to *dateonly.Date, sc scope.Scope) ([]models.DailyLog, error)
	InsertLog(ctx context.Context, l models.DailyLog) (*models.DailyLog, error)
	UpdateLogFee(ctx context.Context, id int64, fee float64) error
	DeleteLog(ctx context.Context, id int64, sc scope.Scope) (int64, error)
}

type AuditStore interface {
	InsertAuditLog(ctx context.Context, l models.AuditLog) error
	ListAuditLogs(ctx context.Context, q AuditQuery) ([]models.AuditLog, error)
}

// AuditQuery filters the audit trail listing.
type AuditQuery struct {
	Action    string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// Store is the full data-store boundary, satisfied by the Postgres
// adapter in production and by Memory in tests.
type Store interface {
	ProfileStore
	CompanyStore
	VehicleStore
	ContractStore
	LogStore
	AuditStore
}
