package migration_0

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Run struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	Mode   string `gorm:"size:20;not null"`
	Intent string
	Status string `gorm:"size:20;not null"`
	Error  sql.NullString

	TrainingRatio float64
	ItemCount     int `gorm:"default:0"`

	Location string
	Input    datatypes.JSON

	CreationTime   time.Time
	CompletionTime sql.NullTime

	Files []RunFile `gorm:"foreignKey:RunId;constraint:OnDelete:CASCADE"`
}

type RunFile struct {
	RunId uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name  string    `gorm:"primaryKey"`
	Key   string    `gorm:"not null"`
	Count int       `gorm:"default:0"`
}

func Migration(db *gorm.DB) error {
	if err := db.AutoMigrate(&Run{}, &RunFile{}); err != nil {
		return fmt.Errorf("initial migration failed: %w", err)
	}
	return nil
}
