package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AryanCoding77/muscle-ai-waitlist/internal/log"
	"github.com/AryanCoding77/muscle-ai-waitlist/pkg/retry"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSQLitePath = "muscle-ai-waitlist.db"
)

type DBConfig struct {
	Driver string

	// URL wins over the discrete POSTGRES_* values when set.
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string // Default: "require" for prod safety

	SQLitePath string

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration

	// ConnectRetry bounds how long startup waits for the database to accept connections.
	ConnectRetry *retry.Config
}

func NewDBConfigFromEnv() *DBConfig {
	return &DBConfig{
		Driver:     strings.ToLower(sanitizeEnv(GetValueFromEnvironmentVariable("APP_DATABASE_DRIVER", DriverPostgres))),
		URL:        sanitizeEnv(GetValueFromEnvironmentVariable("APP_DATABASE_URL", "")),
		Host:       sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_HOST", "")),
		Port:       sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_PORT", "")),
		User:       sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_USER", "")),
		Password:   sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_PASSWORD", "")),
		Name:       sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_DB_NAME", "")),
		SSLMode:    sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_SSLMODE", "")),
		SQLitePath: sanitizeEnv(GetValueFromEnvironmentVariable("SQLITE_PATH", "")),
	}
}

func (cfg *DBConfig) withDefaults() *DBConfig {
	out := *cfg
	if out.Driver == "" {
		out.Driver = DriverPostgres
	}
	if out.SSLMode == "" {
		out.SSLMode = "require"
	}
	if out.SQLitePath == "" {
		out.SQLitePath = defaultSQLitePath
	}
	if out.MaxIdleConns <= 0 {
		out.MaxIdleConns = 10
	}
	if out.MaxOpenConns <= 0 {
		out.MaxOpenConns = 100
	}
	if out.ConnMaxLifetime <= 0 {
		out.ConnMaxLifetime = time.Minute
	}
	if out.ConnectRetry == nil {
		out.ConnectRetry = retry.DefaultConfig()
	}
	return &out
}

// PostgresDSN returns the connection string for the postgres driver. Every missing variable
// is named in the error so an operator can fix them in one pass.
func (cfg *DBConfig) PostgresDSN() (string, error) {
	if strings.TrimSpace(cfg.URL) != "" {
		return cfg.URL, nil
	}

	missing := []string{}

	if cfg.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}

	if cfg.Port == "" {
		missing = append(missing, "POSTGRES_PORT")
	}

	if cfg.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}

	if cfg.Name == "" {
		missing = append(missing, "POSTGRES_DB_NAME")
	}

	if len(missing) > 0 {
		return "", &MissingEnvError{Vars: missing}
	}

	port, err := strconv.Atoi(cfg.Port)
	if err != nil || port <= 0 {
		return "", fmt.Errorf("invalid POSTGRES_PORT %q", cfg.Port)
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, port, cfg.User, cfg.Password, cfg.Name, sslMode,
	), nil
}

// MissingEnvError lists required environment variables that were not set.
type MissingEnvError struct {
	Vars []string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("missing required database env vars: %s", strings.Join(e.Vars, ", "))
}

func (cfg *DBConfig) dialector(logger *log.Logger) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverPostgres:
		dsn, err := cfg.PostgresDSN()
		if err != nil {
			return nil, err
		}
		if cfg.URL != "" {
			logger.Info("Using APP_DATABASE_URL for database connection")
		} else {
			logger.Info("Connecting to database",
				"host", cfg.Host,
				"port", cfg.Port,
				"user", cfg.User,
				"dbname", cfg.Name,
				"sslmode", cfg.SSLMode,
			)
		}
		return postgres.Open(dsn), nil
	case DriverSQLite:
		path := cfg.SQLitePath
		if cfg.URL != "" {
			path = cfg.URL
		}
		logger.Info("Using sqlite database", "path", path)
		return sqlite.Open(path), nil
	default:
		return nil, fmt.Errorf("unsupported APP_DATABASE_DRIVER %q (supported: %s, %s)", cfg.Driver, DriverPostgres, DriverSQLite)
	}
}

func NewDatabase(logger *log.Logger, dbConfig *DBConfig) (*gorm.DB, error) {
	if dbConfig == nil {
		dbConfig = NewDBConfigFromEnv()
	}
	cfg := dbConfig.withDefaults()

	dialector, err := cfg.dialector(logger)
	if err != nil {
		logger.Error("Invalid database configuration", "error", err)
		return nil, err
	}

	// TranslateError turns driver unique violations into gorm.ErrDuplicatedKey.
	gdb, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		logger.Error("Failed to get database instance", "error", err)
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// sqlite serialises writers; a single connection also keeps :memory: databases alive.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	policy := retry.NewExponentialBackoff(cfg.ConnectRetry)
	err = policy.Execute(context.Background(), func(ctx context.Context) error {
		pingErr := sqlDB.PingContext(ctx)
		if pingErr != nil {
			logger.Warn("Database ping failed", "error", pingErr)
		}
		return pingErr
	})
	if err != nil {
		logger.Error("Database ping failed", "error", err)
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Database connection established successfully", "driver", cfg.Driver)
	return gdb, nil
}

func sanitizeEnv(v string) string {
	s := strings.TrimSpace(v)

	if len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')) {
		s = s[1 : len(s)-1]
	}

	return s
}

func AutoMigrate(logger *log.Logger, db *gorm.DB, models ...interface{}) error {
	if db == nil {
		logger.Error("Cannot migrate: db is empty")
		return fmt.Errorf("cannot migrate: db is empty")
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Database migration failed", "error", err)
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	logger.Info("Database migration completed successfully")

	return nil
}

// PingDatabase reports whether the store answers within ctx.
func PingDatabase(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database is not configured")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

func CloseDatabase(db *gorm.DB, logger *log.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get SQL DB instance", "error", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	} else {
		logger.Info("Database closed successfully")
	}
}
