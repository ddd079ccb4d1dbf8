// Package repository selects and opens the storage driver named by the configuration.
package repository

import (
	"context"
	"fmt"

	"github.com/iho/partledger/internal/adapter/repository/memory"
	mysqlRepo "github.com/iho/partledger/internal/adapter/repository/mysql"
	postgresRepo "github.com/iho/partledger/internal/adapter/repository/postgres"
	"github.com/iho/partledger/internal/infrastructure/config"
	"github.com/iho/partledger/internal/infrastructure/mysql"
	"github.com/iho/partledger/internal/infrastructure/postgres"
	"github.com/iho/partledger/internal/usecase"
)

// Storage bundles the repositories of one driver.
type Storage struct {
	Driver    string
	TxManager usecase.TransactionManager
	Parts     usecase.PartRepository
	Movements usecase.MovementRepository
	Ledger    usecase.LedgerRepository
	Users     usecase.UserRepository
	Ping      func(ctx context.Context) error
	Close     func()
}

// Open connects to the configured driver. Migrations run first when enabled.
func Open(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		if cfg.RunMigrations {
			if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.DefaultMigrationsPath()); err != nil {
				return nil, err
			}
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, err
		}

		return &Storage{
			Driver:    cfg.StorageDriver,
			TxManager: postgresRepo.NewTxManager(pool),
			Parts:     postgresRepo.NewPartRepository(pool),
			Movements: postgresRepo.NewMovementRepository(pool),
			Ledger:    postgresRepo.NewLedgerRepository(pool),
			Users:     postgresRepo.NewUserRepository(pool),
			Ping:      pool.Ping,
			Close:     pool.Close,
		}, nil

	case config.DriverMySQL:
		if cfg.RunMigrations {
			if err := mysql.RunMigrations(cfg.MySQLDSN, cfg.DefaultMigrationsPath()); err != nil {
				return nil, err
			}
		}

		db, err := mysql.Open(ctx, mysql.Config{
			DSN:            cfg.MySQLDSN,
			MaxOpenConns:   cfg.MySQLMaxOpenConns,
			MaxIdleConns:   cfg.MySQLMaxIdleConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, err
		}

		return &Storage{
			Driver:    cfg.StorageDriver,
			TxManager: mysqlRepo.NewTxManager(db),
			Parts:     mysqlRepo.NewPartRepository(db),
			Movements: mysqlRepo.NewMovementRepository(db),
			Ledger:    mysqlRepo.NewLedgerRepository(db),
			Users:     mysqlRepo.NewUserRepository(db),
			Ping:      db.PingContext,
			Close:     func() { db.Close() },
		}, nil

	case config.DriverMemory:
		db := memory.NewDB()
		return &Storage{
			Driver:    cfg.StorageDriver,
			TxManager: memory.NewTxManager(db),
			Parts:     memory.NewPartRepository(db),
			Movements: memory.NewMovementRepository(db),
			Ledger:    memory.NewLedgerRepository(db),
			Users:     memory.NewUserRepository(db),
			Ping:      db.Ping,
			Close:     func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// Migrate applies (up) or rolls back one step of (down) the driver's migrations.
func Migrate(cfg *config.Config, direction string) error {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		if direction == "down" {
			return postgres.RunMigrationsDown(cfg.DatabaseURL, cfg.DefaultMigrationsPath())
		}
		return postgres.RunMigrations(cfg.DatabaseURL, cfg.DefaultMigrationsPath())
	case config.DriverMySQL:
		if direction == "down" {
			return mysql.RunMigrationsDown(cfg.MySQLDSN, cfg.DefaultMigrationsPath())
		}
		return mysql.RunMigrations(cfg.MySQLDSN, cfg.DefaultMigrationsPath())
	default:
		return fmt.Errorf("driver %q has no migrations", cfg.StorageDriver)
	}
}
