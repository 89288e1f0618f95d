package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"user-rest-service/internal/config"
	apperrors "user-rest-service/pkg/errors"
	"user-rest-service/pkg/logger"
)

// createUsersTable is the SQLite schema. AUTOINCREMENT keeps ids of deleted
// rows from being handed out again.
const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    email TEXT UNIQUE NOT NULL
)`

var errStoreClosed = apperrors.NewInternalError("store is closed", nil)

// Config describes which backing store to open and how.
type Config struct {
	Driver           string // config.DriverSQLite or config.DriverPostgres
	Path             string // SQLite file
	DSN              string // Postgres DSN
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
	SlowQuerySeconds float64
	LogLevel         string
}

// ConfigFrom derives the store configuration from the application config.
// test selects the isolated test database file instead of the live one.
func ConfigFrom(cfg *config.Config, test bool) Config {
	return Config{
		Driver:           cfg.DB.Driver,
		Path:             cfg.DB.FilePath(test),
		DSN:              cfg.DB.DSN(),
		MaxOpenConns:     cfg.DB.MaxOpenConns,
		MaxIdleConns:     cfg.DB.MaxIdleConns,
		ConnMaxLifetime:  time.Duration(cfg.DB.ConnMaxLifetime) * time.Second,
		SlowQuerySeconds: cfg.Logger.SlowQuerySeconds,
		LogLevel:         cfg.Logger.Level,
	}
}

// Store is the shared handle to the backing database. The connection is
// opened and the schema created on the first call to Conn; later calls reuse it.
// A Store is safe for concurrent use.
type Store struct {
	cfg Config
	log *zap.Logger

	once sync.Once
	db   *gorm.DB
	err  error
}

// New creates a Store. Nothing is opened until Conn is called.
func New(cfg Config, log *zap.Logger) *Store {
	return &Store{cfg: cfg, log: log}
}

// Conn returns the shared connection bound to ctx, initializing it on first use.
// If initialization failed, the same error is returned on every call.
func (s *Store) Conn(ctx context.Context) (*gorm.DB, error) {
	s.once.Do(func() {
		// the handle outlives the request that happens to open it
		s.db, s.err = s.open(context.WithoutCancel(ctx))
	})
	if s.err != nil {
		return nil, s.err
	}
	return s.db.WithContext(ctx), nil
}

func (s *Store) open(ctx context.Context) (*gorm.DB, error) {
	dialector, err := s.dialector()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to open database", err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.NewGormLogger(s.log, s.cfg.SlowQuerySeconds, s.cfg.LogLevel),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, apperrors.NewInternalError("failed to open database", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get underlying sql.DB", err)
	}
	sqlDB.SetMaxOpenConns(s.cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(s.cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(s.cfg.ConnMaxLifetime)

	if err := s.ensureSchema(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, apperrors.NewInternalError("failed to create users table", err)
	}

	s.log.Info("database ready",
		zap.String("driver", s.cfg.Driver),
		zap.String("path", s.cfg.Path),
		zap.Int("max_open_conns", s.cfg.MaxOpenConns),
	)

	return db, nil
}

func (s *Store) dialector() (gorm.Dialector, error) {
	switch s.cfg.Driver {
	case config.DriverSQLite, "":
		if s.cfg.Path == "" {
			return nil, fmt.Errorf("sqlite path is empty")
		}
		if s.cfg.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(s.cfg.Path), 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		return sqlite.Open(s.cfg.Path), nil
	case config.DriverPostgres:
		return pgdriver.Open(s.cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", s.cfg.Driver)
	}
}

func (s *Store) ensureSchema(ctx context.Context, db *gorm.DB) error {
	if s.cfg.Driver == config.DriverPostgres {
		return db.WithContext(ctx).AutoMigrate(&UserSchema{})
	}
	return db.WithContext(ctx).Exec(createUsersTable).Error
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.Conn(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection if it was opened. A Store that was never
// opened is marked closed and will not open afterwards.
func (s *Store) Close() error {
	s.once.Do(func() { s.err = errStoreClosed })
	if s.db == nil {
		return nil
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
