package billing

import (
	"sort"

	"github.com/mertdogan/fleettrack/internal/models"
)

// Placeholders for logs whose vehicle was deleted after the log was
// written; aggregation must keep working for them.
const (
	UnknownPlate  = "unknown"
	UnknownDriver = "-"
)

type VehicleSummary struct {
	VehicleID     int64   `json:"vehicle_id"`
	PlateNumber   string  `json:"plate_number"`
	DriverName    string  `json:"driver_name"`
	TotalFee      float64 `json:"total_fee"`
	LogCount      int     `json:"log_count"`
	OvertimeCount int     `json:"overtime_count"`
}

// MonthlySummary groups logs by vehicle and accumulates fees. Logs
// without a vehicle are skipped. Output is ordered by total fee
// descending; ties keep encounter order. The second return value is the
// grand total across all groups.
func MonthlySummary(logs []models.DailyLog, vehiclesByID map[int64]models.Vehicle) ([]VehicleSummary, float64) {
	groups := make(map[int64]*VehicleSummary)
	var order []int64

	for _, l := range logs {
		if l.VehicleID == nil {
			continue
		}
		id := *l.VehicleID
		g, ok := groups[id]
		if !ok {
			g = &VehicleSummary{
				VehicleID:   id,
				PlateNumber: UnknownPlate,
				DriverName:  UnknownDriver,
			}
			if v, found := vehiclesByID[id]; found {
				g.PlateNumber = v.PlateNumber
				if v.DriverName != "" {
					g.DriverName = v.DriverName
				}
			}
			groups[id] = g
			order = append(order, id)
		}

		g.TotalFee += l.CalculatedFee
		g.LogCount++
		if l.IsOvertime {
			g.OvertimeCount++
		}
	}

	out := make([]VehicleSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *groups[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalFee > out[j].TotalFee })

	var grand float64
	for _, g := range out {
		grand += g.TotalFee
	}
	return out, grand
}
