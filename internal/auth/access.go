package auth

import (
	"time"

	"github.com/mertdogan/fleettrack/internal/models"
)

// CanAccess is the approval/subscription gate applied after
// authentication:
//
//   - a missing or unapproved profile has no access to any scoped data
//   - an approved profile without an active subscription is unrestricted
//     (subscription does not gate approved users)
//   - an active subscription with no expiry is unlimited
//   - otherwise the expiry must be in the future
func CanAccess(p *models.Profile, now time.Time) bool {
	if p == nil || !p.IsApproved {
		return false
	}
	if !p.SubscriptionActive {
		return true
	}
	if p.SubscriptionExpiresAt == nil {
		return true
	}
	return p.SubscriptionExpiresAt.After(now)
}
