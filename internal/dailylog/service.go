// Package dailylog manages per-day usage records and the monthly
// per-vehicle rollups built from them. Fees are always computed
// server-side from the resolved contract; the client's fee value is
// ignored.
package dailylog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mertdogan/fleettrack/internal/billing"
	"github.com/mertdogan/fleettrack/internal/enrich"
	"github.com/mertdogan/fleettrack/internal/models"
	"github.com/mertdogan/fleettrack/internal/scope"
	"github.com/mertdogan/fleettrack/internal/store"
	"github.com/mertdogan/fleettrack/pkg/dateonly"
)

type Store interface {
	store.LogStore
	VehiclesByIDs(ctx context.Context, ids []int64) ([]models.Vehicle, error)
	enrich.ProfileBatch
}

// ContractResolver finds the contract governing a company/vehicle/day.
type ContractResolver interface {
	ResolveActive(ctx context.Context, companyID int64, vehicleID *int64, day dateonly.Date, sc scope.Scope) (*models.Contract, error)
}

// ReportCache is a best-effort cache for monthly reports; any failure is
// treated as a miss.
type ReportCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Service struct {
	store     Store
	contracts ContractResolver
	cache     ReportCache
	cacheTTL  time.Duration
}

// NewService wires the usage-log engine. cache may be nil; reports are
// then always computed from the store.
func NewService(st Store, contracts ContractResolver, cache ReportCache, cacheTTL time.Duration) *Service {
	return &Service{store: st, contracts: contracts, cache: cache, cacheTTL: cacheTTL}
}

// List returns logs visible under sc, newest first, optionally filtered
// to one calendar month.
func (s *Service) List(ctx context.Context, sc scope.Scope, year int, month time.Month) ([]models.DailyLogWithAuthor, error) {
	var from, to *dateonly.Date
	if year != 0 {
		if month < time.January || month > time.December {
			return nil, store.Invalid("month", "must be between 1 and 12")
		}
		first, last := dateonly.MonthRange(year, month)
		from, to = &first, &last
	}

	rows, err := s.store.ListLogs(ctx, sc, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]models.DailyLogWithAuthor, len(rows))
	for i, l := range rows {
		out[i] = models.DailyLogWithAuthor{DailyLog: l}
	}
	if !sc.IsAdmin() {
		return out, nil
	}

	ownerIDs := make([]uuid.UUID, len(rows))
	for i, l := range rows {
		ownerIDs[i] = l.OwnerID
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

// Add computes the fee from the active contract for the log's day and
// persists the record. A day with no applicable contract gets a zero
// fee; that is a data state, not an error.
func (s *Service) Add(ctx context.Context, l models.DailyLog, sc scope.Scope) (*models.DailyLog, error) {
	if l.Date.IsZero() {
		return nil, store.Invalid("date", "required")
	}

	l.CalculatedFee = 0
	if l.CompanyID != nil {
		c, err := s.contracts.ResolveActive(ctx, *l.CompanyID, l.VehicleID, l.Date, sc)
		if err != nil {
			return nil, err
		}
		if c != nil {
			l.CalculatedFee = billing.Fee(*c, l.IsOvertime)
		}
	}

	l.ID = 0
	l.OwnerID = sc.ActorID()
	saved, err := s.store.InsertLog(ctx, l)
	if err != nil {
		return nil, err
	}
	s.invalidateReports(ctx, sc, saved.Date)
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, id int64, sc scope.Scope) error {
	l, err := s.store.LogByID(ctx, id, sc)
	if err != nil {
		return err
	}
	affected, err := s.store.DeleteLog(ctx, id, sc)
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	s.invalidateReports(ctx, sc, l.Date)
	return nil
}

// MonthlyReport is the per-vehicle rollup for one calendar month.
type MonthlyReport struct {
	Year       int                      `json:"year"`
	Month      time.Month               `json:"month"`
	Vehicles   []billing.VehicleSummary `json:"vehicles"`
	GrandTotal float64                  `json:"grand_total"`
}

func (s *Service) MonthlyVehicleSummary(ctx context.Context, sc scope.Scope, year int, month time.Month) (*MonthlyReport, error) {
	if year <= 0 {
		return nil, store.Invalid("year", "required")
	}
	if month < time.January || month > time.December {
		return nil, store.Invalid("month", "must be between 1 and 12")
	}

	key := reportKey(sc, year, month)
	if s.cache != nil {
		var cached MonthlyReport
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	first, last := dateonly.MonthRange(year, month)
	logs, err := s.store.ListLogs(ctx, sc, &first, &last)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	var vehicleIDs []int64
	for _, l := range logs {
		if l.VehicleID != nil && !seen[*l.VehicleID] {
			seen[*l.VehicleID] = true
			vehicleIDs = append(vehicleIDs, *l.VehicleID)
		}
	}
	vehicles, err := s.store.VehiclesByIDs(ctx, vehicleIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Vehicle, len(vehicles))
	for _, v := range vehicles {
		byID[v.ID] = v
	}

	summaries, grand := billing.MonthlySummary(logs, byID)
	report := &MonthlyReport{Year: year, Month: month, Vehicles: summaries, GrandTotal: grand}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, report, s.cacheTTL); err != nil {
			slog.Debug("report cache set failed", "key", key, "error", err)
		}
	}
	return report, nil
}

func reportKey(sc scope.Scope, year int, month time.Month) string {
	if sc.IsAdmin() {
		return fmt.Sprintf("report:admin:%04d-%02d", year, int(month))
	}
	return fmt.Sprintf("report:%s:%04d-%02d", sc.OwnerID(), year, int(month))
}

// invalidateReports drops the cached report for the log's month, both
// the owner's view and the admin view.
func (s *Service) invalidateReports(ctx context.Context, sc scope.Scope, day dateonly.Date) {
	if s.cache == nil {
		return
	}
	year, month := day.Year(), day.Month()
	keys := []string{
		fmt.Sprintf("report:%s:%04d-%02d", sc.ActorID(), year, int(month)),
		fmt.Sprintf("report:admin:%04d-%02d", year, int(month)),
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		slog.Debug("report cache invalidation failed", "error", err)
	}
}
