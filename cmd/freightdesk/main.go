package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	portssvc "github.com/freightdesk/backend/internal/core/ports/services"
	"github.com/freightdesk/backend/internal/core/services"
	"github.com/freightdesk/backend/internal/handlers"
	"github.com/freightdesk/backend/internal/middleware"
	"github.com/freightdesk/backend/internal/platform/cache"
	"github.com/freightdesk/backend/internal/repositories/database/pgsql"
	"github.com/freightdesk/backend/pkg/config"
	"github.com/freightdesk/backend/pkg/database"
)

// @title FreightDesk Backend API
// @version 1.0
// @description Admin backend for freight forwarding: quotations, invoices and role-based access.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Repositories
	quotationRepo := pgsql.NewQuotationRepository(dbPool)
	invoiceRepo := pgsql.NewInvoiceRepository(dbPool)
	quoteCounterRepo := pgsql.NewQuoteCounterRepository()
	invoiceCounterRepo := pgsql.NewInvoiceCounterRepository()
	refRepo := pgsql.NewReferenceRepository()
	userRepo := pgsql.NewUserRepository(dbPool)
	tokenRepo := pgsql.NewTokenRepository(dbPool)
	grantRepo := pgsql.NewGrantRepository(dbPool)

	// Services
	authSvc := services.NewAuthService(userRepo, tokenRepo, cacheClient, services.AuthServiceConfig{
		JWTSecret:          cfg.JWTSecret,
		AccessTokenExpiry:  cfg.JWTExpiryDuration,
		RefreshTokenExpiry: cfg.RefreshTokenExpiry,
		Issuer:             cfg.JWTIssuer,
		UserCacheTTL:       cfg.UserCacheTTL,
	})
	permSvc := services.NewPermissionService(userRepo, grantRepo, cacheClient, services.PermissionServiceConfig{
		UserCacheTTL:       cfg.UserCacheTTL,
		PermissionCacheTTL: cfg.PermissionCacheTTL,
	})
	container := &portssvc.ServiceContainer{
		Auth:       authSvc,
		Permission: permSvc,
		Quotation:  services.NewQuotationService(quotationRepo, quoteCounterRepo, refRepo),
		Invoice:    services.NewInvoiceService(invoiceRepo, quotationRepo, invoiceCounterRepo, refRepo),
		Role:       services.NewRoleService(grantRepo),
	}

	// Every route outside /auth, /health and /api goes through the
	// permission guard.
	r.Use(middleware.PermissionGuard(cfg.JWTSecret, authSvc, permSvc))

	handlers.RegisterRoutes(r, cfg, container, loginRateLimiter(cfg, logger))

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// loginRateLimiter builds the per-IP limiter applied to /auth/login.
func loginRateLimiter(cfg *config.Config, logger *slog.Logger) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(cfg.LoginRateLimit)
	if err != nil {
		logger.Warn("Invalid LOGIN_RATE_LIMIT, falling back to 10-M", slog.String("error", err.Error()))
		rate, _ = limiter.NewRateFromFormatted("10-M")
	}
	store := memory.NewStore()
	return middleware.RateLimit(limiter.New(store, rate))
}

// runMigrations applies all pending "up" migrations from ./migrations.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	// Open a standard sql.DB connection for migrate, using the pgx
	// stdlib driver so it matches the main pool.
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
