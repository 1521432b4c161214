package infra

import (
	"fmt"

	"shopfloor/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported DB_DRIVER values.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// NewDatabase opens a GORM connection for the given driver, runs AutoMigrate
// and then applies the idempotent schema patches GORM cannot express.
//
// TranslateError is enabled so unique violations surface as
// gorm.ErrDuplicatedKey on both drivers; the assignment and serial retry
// paths depend on it.
func NewDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres, "":
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// SQLite has a single writer; one connection keeps transactions from
		// tripping over SQLITE_BUSY and keeps in-memory databases alive.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates / updates all tables and applies schema patches.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that both Postgres and SQLite accept.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// One IN_PROGRESS order per machine. Assignment catches the duplicate
		// key and hands back the order that won.
		{"work_orders one active job per machine", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_work_orders_machine_in_progress
    ON work_orders (assigned_machine_id)
    WHERE status = 'IN_PROGRESS'`},
		// FIFO scan for the poller.
		{"work_orders waiting queue", `
CREATE INDEX IF NOT EXISTS idx_work_orders_waiting
    ON work_orders (id)
    WHERE status = 'WAITING'`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
