// Package contract holds the rate-agreement logic: deciding which
// contract governs a given company/vehicle/day and the scoped CRUD
// around it.
package contract

import (
	"github.com/mertdogan/fleettrack/internal/models"
	"github.com/mertdogan/fleettrack/pkg/dateonly"
)

// ResolveActive picks the single contract governing the given day from a
// candidate set. Overlapping validity windows are permitted in the data;
// disambiguation happens here:
//
//  1. A contract naming the requested vehicle always wins, regardless of
//     recency.
//  2. Otherwise the general (no-vehicle) contract with the most recent
//     start date wins; ties keep encounter order. Well-formed data has at
//     most one valid general contract per company and day, so this is a
//     deterministic tolerance for duplicates, not a merge rule.
//  3. No match returns nil.
//
// Callers may pass a nil vehicleID to restrict resolution to general
// candidates. The function is pure; candidates are not mutated.
func ResolveActive(candidates []models.Contract, vehicleID *int64, day dateonly.Date) *models.Contract {
	var general *models.Contract
	for i := range candidates {
		c := &candidates[i]
		if !c.ActiveOn(day) {
			continue
		}
		if vehicleID != nil && c.CoversVehicle(*vehicleID) {
			return c
		}
		if c.IsGeneral() {
			if general == nil || c.StartDate.After(general.StartDate) {
				general = c
			}
		}
	}
	return general
}
