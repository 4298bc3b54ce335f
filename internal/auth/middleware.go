package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mertdogan/fleettrack/internal/scope"
)

type Claims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type JWTMiddleware struct {
	secret   []byte
	profiles scope.ProfileLookup
	scopes   *scope.Resolver
}

func NewJWTMiddleware(secret string, profiles scope.ProfileLookup, scopes *scope.Resolver) *JWTMiddleware {
	return &JWTMiddleware{
		secret:   []byte(secret),
		profiles: profiles,
		scopes:   scopes,
	}
}

func (m *JWTMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// an upstream middleware (API key) may have authenticated already
		if ProfileFromContext(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}

		tokenStr := extractBearerToken(r)
		if tokenStr == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
			writeError(w, http.StatusUnauthorized, "token expired")
			return
		}

		userID, err := uuid.Parse(claims.Sub)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid user ID in token")
			return
		}

		ctx := r.Context()

		p, err := m.profiles.ProfileByID(ctx, userID)
		if err != nil {
			p = nil
		}
		if !CanAccess(p, time.Now()) {
			writeError(w, http.StatusForbidden, "account not approved or subscription expired")
			return
		}

		sc := m.scopes.Resolve(ctx, userID)
		ctx = WithProfile(ctx, p)
		ctx = WithScope(ctx, sc)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
