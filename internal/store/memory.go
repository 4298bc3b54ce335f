package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mertdogan/fleettrack/internal/models"
	"github.com/mertdogan/fleettrack/internal/scope"
	"github.com/mertdogan/fleettrack/pkg/dateonly"
)

// Memory is an in-memory Store used by tests. It mirrors the Postgres
// adapter's scope filtering, ordering, and referential checks so the
// engines can be exercised without a live database.
type Memory struct {
	mu        sync.RWMutex
	profiles  map[uuid.UUID]models.Profile
	apiKeys   map[string]models.APIKey
	companies map[int64]models.Company
	vehicles  map[int64]models.Vehicle
	contracts map[int64]models.Contract
	logs      map[int64]models.DailyLog
	audits    []models.AuditLog
	nextID    int64
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		profiles:  make(map[uuid.UUID]models.Profile),
		apiKeys:   make(map[string]models.APIKey),
		companies: make(map[int64]models.Company),
		vehicles:  make(map[int64]models.Vehicle),
		contracts: make(map[int64]models.Contract),
		logs:      make(map[int64]models.DailyLog),
	}
}

func (m *Memory) nextSeq() int64 {
	m.nextID++
	return m.nextID
}

// --- Profiles ---

func (m *Memory) PutProfile(p models.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p
}

func (m *Memory) PutAPIKey(k models.APIKey) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apiKeys[k.KeyHash] = k
}

func (m *Memory) ProfileByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *Memory) ProfilesByIDs(_ context.Context, ids []uuid.UUID) ([]models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Profile
	for _, id := range ids {
		if p, ok := m.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *Memory) ListProfiles(_ context.Context) ([]models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Profile
	for _, p := range m.profiles {
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) SetApproval(_ context.Context, id uuid.UUID, approved, subscriptionActive bool, expiresAt *time.Time) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.IsApproved = approved
	p.SubscriptionActive = subscriptionActive
	p.SubscriptionExpiresAt = expiresAt
	m.profiles[id] = p
	return &p, nil
}

func (m *Memory) SetRole(_ context.Context, id uuid.UUID, role string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Role = role
	m.profiles[id] = p
	return &p, nil
}

func (m *Memory) ExpireSubscriptions(_ context.Context, asOf time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, p := range m.profiles {
		if p.SubscriptionActive && p.SubscriptionExpiresAt != nil && p.SubscriptionExpiresAt.Before(asOf) {
			p.SubscriptionActive = false
			m.profiles[id] = p
			n++
		}
	}
	return n, nil
}

func (m *Memory) APIKeyByHash(_ context.Context, hash string) (*models.APIKey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	k, ok := m.apiKeys[hash]
	if !ok {
		return nil, ErrNotFound
	}
	return &k, nil
}

func (m *Memory) TouchAPIKey(_ context.Context, id uuid.UUID, usedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for hash, k := range m.apiKeys {
		if k.ID == id {
			k.LastUsedAt = &usedAt
			m.apiKeys[hash] = k
		}
	}
	return nil
}

// --- Companies ---

func (m *Memory) ListCompanies(_ context.Context, sc scope.Scope) ([]models.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Company
	for _, c := range m.companies {
		if sc.Allows(c.OwnerID) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) UpsertCompany(_ context.Context, c models.Company, sc scope.Scope) (*models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		c.ID = m.nextSeq()
		c.CreatedAt = time.Now()
		m.companies[c.ID] = c
		return &c, nil
	}
	existing, ok := m.companies[c.ID]
	if !ok || !sc.Allows(existing.OwnerID) {
		return nil, ErrNotFound
	}
	existing.Name = c.Name
	existing.Address = c.Address
	m.companies[c.ID] = existing
	return &existing, nil
}

func (m *Memory) DeleteCompany(_ context.Context, id int64, sc scope.Scope) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.companies[id]
	if !ok || !sc.Allows(c.OwnerID) {
		return 0, nil
	}
	for _, ct := range m.contracts {
		if ct.CompanyID != nil && *ct.CompanyID == id {
			return 0, ErrHasDependents
		}
	}
	for _, l := range m.logs {
		if l.CompanyID != nil && *l.CompanyID == id {
			return 0, ErrHasDependents
		}
	}
	delete(m.companies, id)
	return 1, nil
}

// --- Vehicles ---

func (m *Memory) ListVehicles(_ context.Context, sc scope.Scope) ([]models.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Vehicle
	for _, v := range m.vehicles {
		if sc.Allows(v.OwnerID) {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PlateNumber < out[j].PlateNumber })
	return out, nil
}

func (m *Memory) VehiclesByIDs(_ context.Context, ids []int64) ([]models.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Vehicle
	for _, id := range ids {
		if v, ok := m.vehicles[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *Memory) UpsertVehicle(_ context.Context, v models.Vehicle, sc scope.Scope) (*models.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v.ID == 0 {
		v.ID = m.nextSeq()
		v.CreatedAt = time.Now()
		m.vehicles[v.ID] = v
		return &v, nil
	}
	existing, ok := m.vehicles[v.ID]
	if !ok || !sc.Allows(existing.OwnerID) {
		return nil, ErrNotFound
	}
	existing.PlateNumber = v.PlateNumber
	existing.DriverName = v.DriverName
	existing.DriverPhone = v.DriverPhone
	existing.Capacity = v.Capacity
	m.vehicles[v.ID] = existing
	return &existing, nil
}

func (m *Memory) DeleteVehicle(_ context.Context, id int64, sc scope.Scope) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vehicles[id]
	if !ok || !sc.Allows(v.OwnerID) {
		return 0, nil
	}
	for _, ct := range m.contracts {
		if ct.VehicleID != nil && *ct.VehicleID == id {
			return 0, ErrHasDependents
		}
	}
	for _, l := range m.logs {
		if l.VehicleID != nil && *l.VehicleID == id {
			return 0, ErrHasDependents
		}
	}
	delete(m.vehicles, id)
	return 1, nil
}

// --- Contracts ---

func (m *Memory) contractsWhere(sc scope.Scope, keep func(models.Contract) bool) []models.Contract {
	var out []models.Contract
	for _, c := range m.contracts {
		if sc.Allows(c.OwnerID) && keep(c) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Memory) ListContracts(_ context.Context, sc scope.Scope) ([]models.Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := m.contractsWhere(sc, func(models.Contract) bool { return true })
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *Memory) ContractCandidates(_ context.Context, companyID int64, day dateonly.Date, sc scope.Scope) ([]models.Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.contractsWhere(sc, func(c models.Contract) bool {
		return c.CompanyID != nil && *c.CompanyID == companyID && c.ActiveOn(day)
	}), nil
}

func (m *Memory) ContractsByCompany(_ context.Context, companyID int64, sc scope.Scope) ([]models.Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.contractsWhere(sc, func(c models.Contract) bool {
		return c.CompanyID != nil && *c.CompanyID == companyID
	}), nil
}

func (m *Memory) ContractsByVehicle(_ context.Context, vehicleID int64, sc scope.Scope) ([]models.Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.contractsWhere(sc, func(c models.Contract) bool {
		return c.VehicleID != nil && *c.VehicleID == vehicleID
	}), nil
}

func (m *Memory) ContractByID(_ context.Context, id int64, sc scope.Scope) (*models.Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.contracts[id]
	if !ok || !sc.Allows(c.OwnerID) {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *Memory) UpsertContract(_ context.Context, c models.Contract, sc scope.Scope) (*models.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		c.ID = m.nextSeq()
		c.CreatedAt = time.Now()
		m.contracts[c.ID] = c
		return &c, nil
	}
	existing, ok := m.contracts[c.ID]
	if !ok || !sc.Allows(existing.OwnerID) {
		return nil, ErrNotFound
	}
	existing.CompanyID = c.CompanyID
	existing.VehicleID = c.VehicleID
	existing.DailyRate = c.DailyRate
	existing.OvertimeRate = c.OvertimeRate
	existing.StartDate = c.StartDate
	existing.EndDate = c.EndDate
	m.contracts[c.ID] = existing
	return &existing, nil
}

func (m *Memory) DeleteContract(_ context.Context, id int64, sc scope.Scope) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contracts[id]
	if !ok || !sc.Allows(c.OwnerID) {
		return 0, nil
	}
	delete(m.contracts, id)
	return 1, nil
}

// --- Daily logs ---

func (m *Memory) logsWhere(sc scope.Scope, keep func(models.DailyLog) bool) []models.DailyLog {
	var out []models.DailyLog
	for _, l := range m.logs {
		if sc.Allows(l.OwnerID) && keep(l) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m *Memory) ListLogs(_ context.Context, sc scope.Scope, from, to *dateonly.Date) ([]models.DailyLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.logsWhere(sc, func(l models.DailyLog) bool {
		if from != nil && l.Date.Before(*from) {
			return false
		}
		if to != nil && l.Date.After(*to) {
			return false
		}
		return true
	}), nil
}

func (m *Memory) LogByID(_ context.Context, id int64, sc scope.Scope) (*models.DailyLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.logs[id]
	if !ok || !sc.Allows(l.OwnerID) {
		return nil, ErrNotFound
	}
	return &l, nil
}

func (m *Memory) LogsByVehicle(_ context.Context, vehicleID int64, sc scope.Scope) ([]models.DailyLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.logsWhere(sc, func(l models.DailyLog) bool {
		return l.VehicleID != nil && *l.VehicleID == vehicleID
	}), nil
}

func (m *Memory) LogsForCompany(_ context.Context, companyID int64, from dateonly.Date, to *dateonly.Date, sc scope.Scope) ([]models.DailyLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := m.logsWhere(sc, func(l models.DailyLog) bool {
		if l.CompanyID == nil || *l.CompanyID != companyID {
			return false
		}
		if l.Date.Before(from) {
			return false
		}
		return to == nil || !l.Date.After(*to)
	})
	// oldest first for recalculation passes
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) InsertLog(_ context.Context, l models.DailyLog) (*models.DailyLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = m.nextSeq()
	l.CreatedAt = time.Now()
	m.logs[l.ID] = l
	return &l, nil
}

func (m *Memory) UpdateLogFee(_ context.Context, id int64, fee float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.logs[id]
	if !ok {
		return ErrNotFound
	}
	l.CalculatedFee = fee
	m.logs[id] = l
	return nil
}

func (m *Memory) DeleteLog(_ context.Context, id int64, sc scope.Scope) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.logs[id]
	if !ok || !sc.Allows(l.OwnerID) {
		return 0, nil
	}
	delete(m.logs, id)
	return 1, nil
}

// --- Audit ---

func (m *Memory) InsertAuditLog(_ context.Context, l models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.CreatedAt = time.Now()
	m.audits = append(m.audits, l)
	return nil
}

func (m *Memory) ListAuditLogs(_ context.Context, q AuditQuery) ([]models.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.AuditLog
	for i := len(m.audits) - 1; i >= 0; i-- {
		l := m.audits[i]
		if q.Action != "" && l.Action != q.Action {
			continue
		}
		if q.StartDate != nil && l.CreatedAt.Before(*q.StartDate) {
			continue
		}
		if q.EndDate != nil && l.CreatedAt.After(*q.EndDate) {
			continue
		}
		out = append(out, l)
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}
