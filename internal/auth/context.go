package auth

import (
	"context"

	"github.com/mertdogan/fleettrack/internal/models"
	"github.com/mertdogan/fleettrack/internal/scope"
)

type ctxKey string

const (
	profileKey ctxKey = "profile"
	scopeKey   ctxKey = "scope"
)

func WithProfile(ctx context.Context, p *models.Profile) context.Context {
	return context.WithValue(ctx, profileKey, p)
}

func ProfileFromContext(ctx context.Context) *models.Profile {
	p, _ := ctx.Value(profileKey).(*models.Profile)
	return p
}

func WithScope(ctx context.Context, sc scope.Scope) context.Context {
	return context.WithValue(ctx, scopeKey, sc)
}

// ScopeFromContext returns the request scope set by the authentication
// middleware. ok is false on unauthenticated contexts; callers must
// treat that as no access, not as admin.
func ScopeFromContext(ctx context.Context) (scope.Scope, bool) {
	sc, ok := ctx.Value(scopeKey).(scope.Scope)
	return sc, ok
}
