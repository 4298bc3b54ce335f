package store

import (
	"context"
	"fmt"
	"time"

	"github.com/mertdogan/fleettrack/internal/models"
	"github.com/mertdogan/fleettrack/internal/scope"
	"github.com/mertdogan/fleettrack/pkg/dateonly"
)

// Scope filtering is part of every fleet query: "$n OR owner_id = $m"
// with the admin flag and owner id bound explicitly, so the adapter works
// even against a store with no row-level security of its own.

func optDateArg(d *dateonly.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time()
	return &t
}

func optDateFrom(t *time.Time) *dateonly.Date {
	if t == nil {
		return nil
	}
	d := dateonly.FromTime(*t)
	return &d
}

// --- Companies ---

const companyColumns = "id, name, COALESCE(address, ''), owner_id, created_at"

func (s *Postgres) ListCompanies(ctx context.Context, sc scope.Scope) ([]models.Company, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+companyColumns+` FROM companies
		 WHERE ($1 OR owner_id = $2) ORDER BY name`,
		sc.IsAdmin(), sc.OwnerID())
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", classify(err))
	}
	defer rows.Close()

	var companies []models.Company
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.OwnerID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", classify(err))
		}
		companies = append(companies, c)
	}
	return companies, classify(rows.Err())
}

func (s *Postgres) UpsertCompany(ctx context.Context, c models.Company, sc scope.Scope) (*models.Company, error) {
	var out models.Company
	var err error
	if c.ID == 0 {
		err = s.db.QueryRow(ctx,
			`INSERT INTO companies (name, address, owner_id) VALUES ($1, $2, $3)
			 RETURNING `+companyColumns,
			c.Name, c.Address, c.OwnerID,
		).Scan(&out.ID, &out.Name, &out.Address, &out.OwnerID, &out.CreatedAt)
	} else {
		// owner_id is stamped at creation and never rewritten
		err = s.db.QueryRow(ctx,
			`UPDATE companies SET name = $2, address = $3
			 WHERE id = $1 AND ($4 OR owner_id = $5)
			 RETURNING `+companyColumns,
			c.ID, c.Name, c.Address, sc.IsAdmin(), sc.OwnerID(),
		).Scan(&out.ID, &out.Name, &out.Address, &out.OwnerID, &out.CreatedAt)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert company: %w", classify(err))
	}
	return &out, nil
}

func (s *Postgres) DeleteCompany(ctx context.Context, id int64, sc scope.Scope) (int64, error) {
	tag, err := s.db.Exec(ctx,
		"DELETE FROM companies WHERE id = $1 AND ($2 OR owner_id = $3)",
		id, sc.IsAdmin(), sc.OwnerID())
	if err != nil {
		return 0, fmt.Errorf("delete company: %w", classify(err))
	}
	return tag.RowsAffected(), nil
}

// --- Vehicles ---

const vehicleColumns = "id, plate_number, COALESCE(driver_name, ''), COALESCE(driver_phone, ''), COALESCE(capacity, 0), owner_id, created_at"

func scanVehicle(row interface{ Scan(...any) error }) (*models.Vehicle, error) {
	var v models.Vehicle
	err := row.Scan(&v.ID, &v.PlateNumber, &v.DriverName, &v.DriverPhone, &v.Capacity, &v.OwnerID, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Postgres) ListVehicles(ctx context.Context, sc scope.Scope) ([]models.Vehicle, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles
		 WHERE ($1 OR owner_id = $2) ORDER BY plate_number`,
		sc.IsAdmin(), sc.OwnerID())
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", classify(err))
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", classify(err))
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, classify(rows.Err())
}

func (s *Postgres) VehiclesByIDs(ctx context.Context, ids []int64) ([]models.Vehicle, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(ctx,
		"SELECT "+vehicleColumns+" FROM vehicles WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, fmt.Errorf("get vehicles: %w", classify(err))
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", classify(err))
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, classify(rows.Err())
}

func (s *Postgres) UpsertVehicle(ctx context.Context, v models.Vehicle, sc scope.Scope) (*models.Vehicle, error) {
	var (
		out *models.Vehicle
		err error
	)
	if v.ID == 0 {
		out, err = scanVehicle(s.db.QueryRow(ctx,
			`INSERT INTO vehicles (plate_number, driver_name, driver_phone, capacity, owner_id)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING `+vehicleColumns,
			v.PlateNumber, v.DriverName, v.DriverPhone, v.Capacity, v.OwnerID))
	} else {
		out, err = scanVehicle(s.db.QueryRow(ctx,
			`UPDATE vehicles SET plate_number = $2, driver_name = $3, driver_phone = $4, capacity = $5
			 WHERE id = $1 AND ($6 OR owner_id = $7)
			 RETURNING `+vehicleColumns,
			v.ID, v.PlateNumber, v.DriverName, v.DriverPhone, v.Capacity, sc.IsAdmin(), sc.OwnerID()))
	}
	if err != nil {
		return nil, fmt.Errorf("upsert vehicle: %w", classify(err))
	}
	return out, nil
}

func (s *Postgres) DeleteVehicle(ctx context.Context, id int64, sc scope.Scope) (int64, error) {
	tag, err := s.db.Exec(ctx,
		"DELETE FROM vehicles WHERE id = $1 AND ($2 OR owner_id = $3)",
		id, sc.IsAdmin(), sc.OwnerID())
	if err != nil {
		return 0, fmt.Errorf("delete vehicle: %w", classify(err))
	}
	return tag.RowsAffected(), nil
}

// --- Contracts ---

const contractColumns = "id, company_id, vehicle_id, daily_rate, overtime_rate, start_date, end_date, owner_id, created_at"

func scanContract(row interface{ Scan(...any) error }) (*models.Contract, error) {
	var (
		c     models.Contract
		start time.Time
		end   *time.Time
	)
	err := row.Scan(&c.ID, &c.CompanyID, &c.VehicleID, &c.DailyRate, &c.OvertimeRate,
		&start, &end, &c.OwnerID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.StartDate = dateonly.FromTime(start)
	c.EndDate = optDateFrom(end)
	return &c, nil
}

func (s *Postgres) queryContracts(ctx context.Context, what, query string, args ...any) ([]models.Contract, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, classify(err))
	}
	defer rows.Close()

	var contracts []models.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contract: %w", classify(err))
		}
		contracts = append(contracts, *c)
	}
	return contracts, classify(rows.Err())
}

func (s *Postgres) ListContracts(ctx context.Context, sc scope.Scope) ([]models.Contract, error) {
	return s.queryContracts(ctx, "list contracts",
		`SELECT `+contractColumns+` FROM contracts
		 WHERE ($1 OR owner_id = $2) ORDER BY id DESC`,
		sc.IsAdmin(), sc.OwnerID())
}

func (s *Postgres) ContractCandidates(ctx context.Context, companyID int64, day dateonly.Date, sc scope.Scope) ([]models.Contract, error) {
	return s.queryContracts(ctx, "contract candidates",
		`SELECT `+contractColumns+` FROM contracts
		 WHERE company_id = $1 AND start_date <= $2
		   AND (end_date IS NULL OR end_date >= $2)
		   AND ($3 OR owner_id = $4)
		 ORDER BY id`,
		companyID, day.Time(), sc.IsAdmin(), sc.OwnerID())
}

func (s *Postgres) ContractsByCompany(ctx context.Context, companyID int64, sc scope.Scope) ([]models.Contract, error) {
	return s.queryContracts(ctx, "contracts by company",
		`SELECT `+contractColumns+` FROM contracts
		 WHERE company_id = $1 AND ($2 OR owner_id = $3) ORDER BY id`,
		companyID, sc.IsAdmin(), sc.OwnerID())
}

func (s *Postgres) ContractsByVehicle(ctx context.Context, vehicleID int64, sc scope.Scope) ([]models.Contract, error) {
	return s.queryContracts(ctx, "contracts by vehicle",
		`SELECT `+contractColumns+` FROM contracts
		 WHERE vehicle_id = $1 AND ($2 OR owner_id = $3) ORDER BY id`,
		vehicleID, sc.IsAdmin(), sc.OwnerID())
}

func (s *Postgres) ContractByID(ctx context.Context, id int64, sc scope.Scope) (*models.Contract, error) {
	c, err := scanContract(s.db.QueryRow(ctx,
		`SELECT `+contractColumns+` FROM contracts
		 WHERE id = $1 AND ($2 OR owner_id = $3)`,
		id, sc.IsAdmin(), sc.OwnerID()))
	if err != nil {
		return nil, fmt.Errorf("contract by id: %w", classify(err))
	}
	return c, nil
}

func (s *Postgres) UpsertContract(ctx context.Context, c models.Contract, sc scope.Scope) (*models.Contract, error) {
	var (
		out *models.Contract
		err error
	)
	if c.ID == 0 {
		out, err = scanContract(s.db.QueryRow(ctx,
			`INSERT INTO contracts (company_id, vehicle_id, daily_rate, overtime_rate, start_date, end_date, owner_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING `+contractColumns,
			c.CompanyID, c.VehicleID, c.DailyRate, c.OvertimeRate,
			c.StartDate.Time(), optDateArg(c.EndDate), c.OwnerID))
	} else {
		out, err = scanContract(s.db.QueryRow(ctx,
			`UPDATE contracts
			 SET company_id = $2, vehicle_id = $3, daily_rate = $4, overtime_rate = $5, start_date = $6, end_date = $7
			 WHERE id = $1 AND ($8 OR owner_id = $9)
			 RETURNING `+contractColumns,
			c.ID, c.CompanyID, c.VehicleID, c.DailyRate, c.OvertimeRate,
			c.StartDate.Time(), optDateArg(c.EndDate), sc.IsAdmin(), sc.OwnerID()))
	}
	if err != nil {
		return nil, fmt.Errorf("upsert contract: %w", classify(err))
	}
	return out, nil
}

func (s *Postgres) DeleteContract(ctx context.Context, id int64, sc scope.Scope) (int64, error) {
	tag, err := s.db.Exec(ctx,
		"DELETE FROM contracts WHERE id = $1 AND ($2 OR owner_id = $3)",
		id, sc.IsAdmin(), sc.OwnerID())
	if err != nil {
		return 0, fmt.Errorf("delete contract: %w", classify(err))
	}
	return tag.RowsAffected(), nil
}

// --- Daily logs ---

const logColumns = "id, date, company_id, vehicle_id, is_overtime, calculated_fee, COALESCE(description, ''), owner_id, created_at"

func scanLog(row interface{ Scan(...any) error }) (*models.DailyLog, error) {
	var (
		l   models.DailyLog
		day time.Time
	)
	err := row.Scan(&l.ID, &day, &l.CompanyID, &l.VehicleID, &l.IsOvertime,
		&l.CalculatedFee, &l.Description, &l.OwnerID, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	l.Date = dateonly.FromTime(day)
	return &l, nil
}

func (s *Postgres) queryLogs(ctx context.Context, what, query string, args ...any) ([]models.DailyLog, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, classify(err))
	}
	defer rows.Close()

	var logs []models.DailyLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan daily log: %w", classify(err))
		}
		logs = append(logs, *l)
	}
	return logs, classify(rows.Err())
}

func (s *Postgres) ListLogs(ctx context.Context, sc scope.Scope, from, to *dateonly.Date) ([]models.DailyLog, error) {
	return s.queryLogs(ctx, "list daily logs",
		`SELECT `+logColumns+` FROM daily_logs
		 WHERE ($1 OR owner_id = $2)
		   AND ($3::date IS NULL OR date >= $3)
		   AND ($4::date IS NULL OR date <= $4)
		 ORDER BY date DESC, id DESC`,
		sc.IsAdmin(), sc.OwnerID(), optDateArg(from), optDateArg(to))
}

func (s *Postgres) LogByID(ctx context.Context, id int64, sc scope.Scope) (*models.DailyLog, error) {
	l, err := scanLog(s.db.QueryRow(ctx,
		`SELECT `+logColumns+` FROM daily_logs
		 WHERE id = $1 AND ($2 OR owner_id = $3)`,
		id, sc.IsAdmin(), sc.OwnerID()))
	if err != nil {
		return nil, fmt.Errorf("get daily log: %w", classify(err))
	}
	return l, nil
}

func (s *Postgres) LogsByVehicle(ctx context.Context, vehicleID int64, sc scope.Scope) ([]models.DailyLog, error) {
	return s.queryLogs(ctx, "logs by vehicle",
		`SELECT `+logColumns+` FROM daily_logs
		 WHERE vehicle_id = $1 AND ($2 OR owner_id = $3)
		 ORDER BY date DESC, id DESC`,
		vehicleID, sc.IsAdmin(), sc.OwnerID())
}

func (s *Postgres) LogsForCompany(ctx context.Context, companyID int64, from dateonly.Date, to *dateonly.Date, sc scope.Scope) ([]models.DailyLog, error) {
	return s.queryLogs(ctx, "logs for company",
		`SELECT `+logColumns+` FROM daily_logs
		 WHERE company_id = $1 AND date >= $2
		   AND ($3::date IS NULL OR date <= $3)
		   AND ($4 OR owner_id = $5)
		 ORDER BY date, id`,
		companyID, from.Time(), optDateArg(to), sc.IsAdmin(), sc.OwnerID())
}

func (s *Postgres) InsertLog(ctx context.Context, l models.DailyLog) (*models.DailyLog, error) {
	out, err := scanLog(s.db.QueryRow(ctx,
		`INSERT INTO daily_logs (date, company_id, vehicle_id, is_overtime, calculated_fee, description, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+logColumns,
		l.Date.Time(), l.CompanyID, l.VehicleID, l.IsOvertime, l.CalculatedFee, l.Description, l.OwnerID))
	if err != nil {
		return nil, fmt.Errorf("insert daily log: %w", classify(err))
	}
	return out, nil
}

func (s *Postgres) UpdateLogFee(ctx context.Context, id int64, fee float64) error {
	_, err := s.db.Exec(ctx,
		"UPDATE daily_logs SET calculated_fee = $2 WHERE id = $1", id, fee)
	if err != nil {
		return fmt.Errorf("update log fee: %w", classify(err))
	}
	return nil
}

func (s *Postgres) DeleteLog(ctx context.Context, id int64, sc scope.Scope) (int64, error) {
	tag, err := s.db.Exec(ctx,
		"DELETE FROM daily_logs WHERE id = $1 AND ($2 OR owner_id = $3)",
		id, sc.IsAdmin(), sc.OwnerID())
	if err != nil {
		return 0, fmt.Errorf("delete daily log: %w", classify(err))
	}
	return tag.RowsAffected(), nil
}
