package database

import (
	"ashtray_server/config"
	"ashtray_server/structs"
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// DB wraps the bun database handle with additional functionality
type DB struct {
	*bun.DB
}

var instance *DB

// DSN builds a postgres:// URL from the configuration.
func DSN(cfg *structs.DatabaseConfig) string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:   "/" + cfg.Name,
	}
	q := u.Query()
	q.Set("sslmode", cfg.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Open connects with the configured driver and verifies the connection.
func Open(cfg *structs.DatabaseConfig, logger *gecho.Logger) (*DB, error) {
	sqldb, err := openSQL(cfg)
	if err != nil {
		return nil, err
	}

	sqldb.SetMaxOpenConns(cfg.MaxConns)
	sqldb.SetMaxIdleConns(cfg.MinConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)
	sqldb.SetConnMaxIdleTime(cfg.MaxIdleTime)

	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(&slowQueryHook{logger: logger, threshold: cfg.SlowQueryThreshold})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database successfully", gecho.Field("driver", cfg.Driver))

	return &DB{db}, nil
}

func openSQL(cfg *structs.DatabaseConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case "pgx":
		connCfg, err := pgx.ParseConfig(DSN(cfg))
		if err != nil {
			return nil, fmt.Errorf("invalid database config: %w", err)
		}
		return stdlib.OpenDB(*connCfg), nil
	case "", "pgdriver":
		connector := pgdriver.NewConnector(
			pgdriver.WithDSN(DSN(cfg)),
			pgdriver.WithReadTimeout(cfg.ReadTimeout),
			pgdriver.WithWriteTimeout(cfg.WriteTimeout),
		)
		return sql.OpenDB(connector), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// Initialize sets up the global database instance using centralized configuration
func Initialize() error {
	db, err := Open(config.GetConfig().Database, config.GetLogger())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	instance = db
	return nil
}

// GetInstance returns the global database instance
func GetInstance() *DB {
	if instance == nil {
		panic("database instance is not initialized, call Initialize() first")
	}
	return instance
}

// CloseInstance closes the global database instance
func CloseInstance() error {
	if instance != nil {
		return instance.Close()
	}
	return nil
}

// Health checks the database connection health
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return db.PingContext(ctx)
}

// slowQueryHook logs queries slower than threshold and dropped connections.
type slowQueryHook struct {
	logger    *gecho.Logger
	threshold time.Duration
}

var _ bun.QueryHook = (*slowQueryHook)(nil)

func (h *slowQueryHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *slowQueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	duration := time.Since(event.StartTime)
	if h.threshold > 0 && duration > h.threshold {
		h.logger.Warn("Slow database query detected",
			gecho.Field("query", event.Query),
			gecho.Field("duration", duration),
		)
	}

	if event.Err != nil && (event.Err.Error() == "EOF" || event.Err.Error() == "unexpected EOF") {
		h.logger.Error("Database connection EOF error - connection may have been closed by server",
			gecho.Field("error", event.Err),
			gecho.Field("operation", event.Operation()),
		)
	}
}
