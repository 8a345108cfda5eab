package sqlite

import (
	"appointments/cmd/internal/domain/entity"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm/schema"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Init opens the database at dsn and migrates all tables. Table names are
// prefixed with "<tablePrefix>_" unless tablePrefix is empty.
func Init(dsn, tablePrefix string) (*gorm.DB, error) {
	naming := schema.NamingStrategy{}
	if p := strings.TrimSuffix(tablePrefix, "_"); p != "" {
		naming.TablePrefix = p + "_"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{NamingStrategy: naming})
	if err != nil {
		return nil, err
	}

	// A single connection keeps ":memory:" databases alive and serializes writers.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Grant{},
		&entity.RecurringAppointment{},
		&entity.OneTimeAppointment{},
		&entity.GameEncounter{},
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}
