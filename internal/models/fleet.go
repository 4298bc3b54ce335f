package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mertdogan/fleettrack/pkg/dateonly"
)

type Company struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Address   string    `json:"address,omitempty" db:"address"`
	OwnerID   uuid.UUID `json:"owner_id" db:"owner_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Vehicle struct {
	ID          int64     `json:"id" db:"id"`
	PlateNumber string    `json:"plate_number" db:"plate_number"`
	DriverName  string    `json:"driver_name,omitempty" db:"driver_name"`
	DriverPhone string    `json:"driver_phone,omitempty" db:"driver_phone"`
	Capacity    int       `json:"capacity,omitempty" db:"capacity"`
	OwnerID     uuid.UUID `json:"owner_id" db:"owner_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Contract is a rate agreement for a company, optionally narrowed to one
// vehicle. A nil VehicleID means the contract covers every vehicle of the
// company. A nil EndDate means open-ended.
type Contract struct {
	ID           int64          `json:"id" db:"id"`
	CompanyID    *int64         `json:"company_id" db:"company_id"`
	VehicleID    *int64         `json:"vehicle_id" db:"vehicle_id"`
	DailyRate    float64        `json:"daily_rate" db:"daily_rate"`
	OvertimeRate float64        `json:"overtime_rate" db:"overtime_rate"`
	StartDate    dateonly.Date  `json:"start_date" db:"start_date"`
	EndDate      *dateonly.Date `json:"end_date,omitempty" db:"end_date"`
	OwnerID      uuid.UUID      `json:"owner_id" db:"owner_id"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}

// CoversVehicle reports whether the contract is narrowed to the given
// vehicle id.
func (c Contract) CoversVehicle(vehicleID int64) bool {
	return c.VehicleID != nil && *c.VehicleID == vehicleID
}

// IsGeneral reports whether the contract applies to all vehicles of its
// company.
func (c Contract) IsGeneral() bool { return c.VehicleID == nil }

// ActiveOn reports whether day falls inside the contract's validity
// window.
func (c Contract) ActiveOn(day dateonly.Date) bool {
	if day.Before(c.StartDate) {
		return false
	}
	return c.EndDate == nil || !c.EndDate.Before(day)
}

// DailyLog is one day's billable record. CalculatedFee is always computed
// server-side from the resolved contract, never taken from the caller.
type DailyLog struct {
	ID            int64         `json:"id" db:"id"`
	Date          dateonly.Date `json:"date" db:"date"`
	CompanyID     *int64        `json:"company_id" db:"company_id"`
	VehicleID     *int64        `json:"vehicle_id" db:"vehicle_id"`
	IsOvertime    bool          `json:"is_overtime" db:"is_overtime"`
	CalculatedFee float64       `json:"calculated_fee" db:"calculated_fee"`
	Description   string        `json:"description,omitempty" db:"description"`
	OwnerID       uuid.UUID     `json:"owner_id" db:"owner_id"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// Admin-scoped list rows carry the authoring identity.

type CompanyWithAuthor struct {
	Company
	Author *Author `json:"author,omitempty"`
}

type VehicleWithAuthor struct {
	Vehicle
	Author *Author `json:"author,omitempty"`
}

type ContractWithAuthor struct {
	Contract
	Author *Author `json:"author,omitempty"`
}

type DailyLogWithAuthor struct {
	DailyLog
	Author *Author `json:"author,omitempty"`
}
