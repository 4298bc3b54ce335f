package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mertdogan/fleettrack/internal/api/handlers"
	"github.com/mertdogan/fleettrack/internal/api/middleware"
	"github.com/mertdogan/fleettrack/internal/audit"
	"github.com/mertdogan/fleettrack/internal/auth"
	"github.com/mertdogan/fleettrack/internal/cache"
	"github.com/mertdogan/fleettrack/internal/company"
	"github.com/mertdogan/fleettrack/internal/config"
	"github.com/mertdogan/fleettrack/internal/contract"
	"github.com/mertdogan/fleettrack/internal/dailylog"
	"github.com/mertdogan/fleettrack/internal/guard"
	"github.com/mertdogan/fleettrack/internal/profile"
	"github.com/mertdogan/fleettrack/internal/queue"
	"github.com/mertdogan/fleettrack/internal/scope"
	"github.com/mertdogan/fleettrack/internal/store"
	"github.com/mertdogan/fleettrack/internal/vehicle"
)

type Router struct {
	mux    *chi.Mux
	db     *pgxpool.Pool
	redis  *redis.Client
	cfg    *config.Config
	st     *store.Postgres
	jwt    *auth.JWTMiddleware
	apikey *auth.APIKeyMiddleware
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	st := store.NewPostgres(db)
	scopes := scope.NewResolver(st)
	return &Router{
		mux:    chi.NewRouter(),
		db:     db,
		redis:  rdb,
		cfg:    cfg,
		st:     st,
		jwt:    auth.NewJWTMiddleware(cfg.Auth.JWTSecret, st, scopes),
		apikey: auth.NewAPIKeyMiddleware(st, cfg.Auth.APIKeyHeader, scopes),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Initialize services
	g := guard.NewGuard(rt.st)
	auditSvc := audit.NewService(rt.st)
	queueClient := queue.NewClient(rt.cfg.Redis)
	reportCache := cache.NewCache(rt.redis)

	companySvc := company.NewService(rt.st, g)
	vehicleSvc := vehicle.NewService(rt.st, g)
	contractSvc := contract.NewService(rt.st, queueClient)
	logSvc := dailylog.NewService(rt.st, contractSvc, reportCache, rt.cfg.Reports.CacheTTL)
	profileSvc := profile.NewService(rt.st)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Auth: try API key first, then JWT
		r.Use(rt.apikey.Authenticate)
		r.Use(rt.jwt.Authenticate)

		meH := handlers.NewProfileHandler()
		r.Get("/me", meH.Me)

		companyH := handlers.NewCompanyHandler(companySvc, auditSvc)
		r.Route("/companies", func(r chi.Router) {
			r.Get("/", companyH.List)
			r.Post("/", companyH.Upsert)
			r.Get("/{id}/dependents", companyH.Dependents)
			r.Delete("/{id}", companyH.Delete)
		})

		vehicleH := handlers.NewVehicleHandler(vehicleSvc, auditSvc)
		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", vehicleH.List)
			r.Post("/", vehicleH.Upsert)
			r.Get("/{id}/dependents", vehicleH.Dependents)
			r.Delete("/{id}", vehicleH.Delete)
		})

		contractH := handlers.NewContractHandler(contractSvc, auditSvc)
		r.Route("/contracts", func(r chi.Router) {
			r.Get("/", contractH.List)
			r.Get("/active", contractH.Active)
			r.Post("/", contractH.Upsert)
			r.Delete("/{id}", contractH.Delete)
		})

		logH := handlers.NewDailyLogHandler(logSvc, auditSvc)
		r.Route("/logs", func(r chi.Router) {
			r.Get("/", logH.List)
			r.Post("/", logH.Add)
			r.Delete("/{id}", logH.Delete)
		})

		r.Get("/reports/vehicles", logH.MonthlyReport)

		// Admin routes
		adminH := handlers.NewAdminHandler(profileSvc, auditSvc)
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Get("/users", adminH.ListUsers)
			r.Post("/users/{id}/approve", adminH.ApproveUser)
			r.Post("/users/{id}/reject", adminH.RejectUser)
			r.Put("/users/{id}/role", adminH.SetUserRole)
			r.Get("/audit", adminH.AuditLogs)
		})
	})

	return r
}
