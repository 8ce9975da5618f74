package config

import (
	"context"
	"time"

	"github.com/AryanCoding77/muscle-ai-waitlist/config/router"
	"github.com/AryanCoding77/muscle-ai-waitlist/internal/log"
	"github.com/AryanCoding77/muscle-ai-waitlist/internal/models"
	"github.com/AryanCoding77/muscle-ai-waitlist/pkg/constants"
	"github.com/AryanCoding77/muscle-ai-waitlist/pkg/utils"
	"gorm.io/gorm"
)

type ApplicationConfig struct {
	DB              *gorm.DB
	RouterService   *router.RouterService
	Logger          *log.Logger
	Config          *AppConfig
	TracingShutdown func(context.Context) error
	StartedAt       time.Time
}

type AppConfig struct {
	Port                string
	RequestTimeout      time.Duration
	GinMode             string
	TrustedProxies      []string
	MaxRequestBodyBytes int64
	CORSAllowedOrigins  []string
	HSTS                router.HSTSConfig
	MetricsEnabled      bool
	MigrationsDir       string

	Database *DBConfig
	Waitlist WaitlistConfig
}

type WaitlistConfig struct {
	ProductName string
	// FoldEmailCase makes duplicate detection case-insensitive instead of following the
	// store's collation.
	FoldEmailCase bool
}

// LoadAppConfig reads .env and the process environment once. The server and the CLI both
// start here.
func LoadAppConfig(logger *log.Logger) *AppConfig {
	InitializeEnvFile(logger)

	return &AppConfig{
		Port:                utils.GetEnvTrimmedOrDefault("PORT", constants.DefaultAppPort),
		RequestTimeout:      utils.GetEnvPositiveDuration("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		GinMode:             utils.GetEnvTrimmed("GIN_MODE"),
		TrustedProxies:      router.ParseTrustedProxies(utils.GetEnvTrimmed("TRUSTED_PROXIES")),
		MaxRequestBodyBytes: utils.GetEnvPositiveInt64("MAX_REQUEST_BODY_BYTES", constants.DefaultMaxRequestBodyBytes),
		CORSAllowedOrigins:  utils.SplitList(utils.GetEnvTrimmed("CORS_ALLOWED_ORIGIN")),
		HSTS: router.HSTSConfig{
			Enabled:           utils.GetEnvBool("HSTS_ENABLED", false),
			MaxAge:            utils.GetEnvPositiveInt64("HSTS_MAX_AGE", constants.DefaultHSTSMaxAgeSeconds),
			IncludeSubdomains: utils.GetEnvBool("HSTS_INCLUDE_SUBDOMAINS", false),
		},
		MetricsEnabled: utils.GetEnvBool("METRICS_ENABLED", true),
		MigrationsDir:  utils.GetEnvTrimmedOrDefault("MIGRATIONS_DIR", "migrations"),
		Database:       NewDBConfigFromEnv(),
		Waitlist: WaitlistConfig{
			ProductName:   utils.GetEnvTrimmedOrDefault("WAITLIST_PRODUCT_NAME", constants.DefaultProductName),
			FoldEmailCase: utils.GetEnvBool("WAITLIST_FOLD_EMAIL_CASE", false),
		},
	}
}

func (ac *AppConfig) RouterConfig() *router.RouterConfig {
	return &router.RouterConfig{
		Port:                ac.Port,
		RequestTimeout:      ac.RequestTimeout,
		GinMode:             ac.GinMode,
		TrustedProxies:      ac.TrustedProxies,
		MaxRequestBodyBytes: ac.MaxRequestBodyBytes,
		CORSAllowedOrigins:  ac.CORSAllowedOrigins,
		HSTS:                ac.HSTS,
		DisableMetrics:      !ac.MetricsEnabled,
	}
}

func (ac *ApplicationConfig) Cleanup() {
	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	if ac.DB != nil {
		CloseDatabase(ac.DB, ac.Logger)
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	ac.Logger.Info("Application cleanup completed")
}

func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	appConfig := LoadAppConfig(logger)

	if autoMigrate {
		appEnv := GetAppEnv()
		if err := ValidateAutoMigrateAllowed(appEnv); err != nil {
			return nil, err
		}
		if appEnv == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	tracingShutdown, err := SetupTracing(logger)
	if err != nil {
		return nil, err
	}

	db, err := NewDatabase(logger, appConfig.Database)
	if err != nil {
		return nil, err
	}

	if autoMigrate {
		if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
			CloseDatabase(db, logger)
			return nil, err
		}
	}

	routerService := router.CreateRouterService(logger, appConfig.RouterConfig())

	logger.Info("Application configuration loaded successfully")

	return &ApplicationConfig{
		DB:              db,
		RouterService:   routerService,
		Logger:          logger,
		Config:          appConfig,
		TracingShutdown: tracingShutdown,
		StartedAt:       time.Now(),
	}, nil
}
