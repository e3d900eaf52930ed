package migration_1

import (
	"database/sql"
	"fmt"

	"gorm.io/gorm"
)

type Run struct {
	Seed sql.NullInt64
}

func Migration(db *gorm.DB) error {
	if err := db.Migrator().AddColumn(&Run{}, "seed"); err != nil {
		return fmt.Errorf("error adding Seed column: %w", err)
	}
	return nil
}

func Rollback(db *gorm.DB) error {
	if err := db.Migrator().DropColumn(&Run{}, "seed"); err != nil {
		return fmt.Errorf("error dropping Seed column: %w", err)
	}
	return nil
}
