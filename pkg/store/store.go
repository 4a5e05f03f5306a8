// Package store persists credentials, orders and warranty runs with gorm.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vunguyen00/Netflix/internal/models"
	"github.com/vunguyen00/Netflix/pkg/clock"
	"github.com/vunguyen00/Netflix/pkg/config"
	"github.com/vunguyen00/Netflix/pkg/logger"
)

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientBalance is returned when a customer cannot pay for a plan
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrPoolEmpty is returned when no credential is available
	ErrPoolEmpty = errors.New("credential pool is empty")

	// ErrConflict is returned when a guarded update lost a race
	ErrConflict = errors.New("record changed concurrently")

	// ErrDuplicate is returned when a unique field is already taken
	ErrDuplicate = errors.New("record already exists")

	// ErrNotAvailable is returned when a credential is no longer in the pool
	ErrNotAvailable = errors.New("credential is not available")
)

// Store groups the repositories over one database handle
type Store struct {
	db    *gorm.DB
	clock clock.Clock

	Credentials *CredentialStore
	Orders      *OrderStore
	Customers   *CustomerStore
	Runs        *RunStore
}

// Open connects to the configured database and migrates the schema when enabled
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: unsupported driver %q", config.ErrDatabaseConfig, cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(cfg.LogQueries),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.Driver == "sqlite" {
		// sqlite allows one writer; a single connection also keeps :memory: databases shared
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	logger.Info("Database connected",
		zap.String("driver", cfg.Driver),
		zap.Bool("auto_migrate", cfg.AutoMigrate))
	return db, nil
}

// Migrate creates or updates every table
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// New creates a store over db
func New(db *gorm.DB, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &Store{
		db:          db,
		clock:       clk,
		Credentials: &CredentialStore{db: db, clock: clk},
		Orders:      &OrderStore{db: db, clock: clk},
		Customers:   &CustomerStore{db: db},
		Runs:        &RunStore{db: db},
	}
}

// DB returns the underlying gorm handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Ping checks database connectivity
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}
