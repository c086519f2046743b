package db

import (
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"medcamp/internal/model"
)

// Open returns a connected GORM DB instance for the given driver ("mysql" or "postgres").
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, Config())
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	return db, nil
}

// Config is the GORM configuration shared by every dialector.
// Profiles are optional for a submitter, so camp rows must not carry a hard FK to them.
// Driver errors are translated so a unique-index violation reads as gorm.ErrDuplicatedKey.
func Config() *gorm.Config {
	return &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	}
}

func tables() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Profile{},
		&model.CampSubmission{},
		&model.CampStatusChange{},
	}
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(tables()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops every table the service owns. Missing tables are logged and skipped.
func Reset(db *gorm.DB) {
	all := tables()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(all[i]); err != nil {
			log.Printf("Warning: failed to drop table (may not exist): %v", err)
		}
	}
	log.Println("Tables dropped")
}
