// Package billing computes per-day fees and monthly per-vehicle rollups.
// The model is flat-rate: no proration, no rounding beyond float64.
package billing

import "github.com/mertdogan/fleettrack/internal/models"

// Fee is the charge for one usage day under the contract. Negative rates
// are rejected at upsert time, so no clamping happens here.
func Fee(c models.Contract, overtime bool) float64 {
	fee := c.DailyRate
	if overtime {
		fee += c.OvertimeRate
	}
	return fee
}
