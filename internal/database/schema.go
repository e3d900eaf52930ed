package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ModeSentences string = "SENTENCES"
	ModeStories   string = "STORIES"
)

const (
	JobRunning   string = "RUNNING"
	JobCompleted string = "COMPLETED"
	JobFailed    string = "FAILED"
)

// Run records one generation request and the files it produced.
type Run struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	Mode   string `gorm:"size:20;not null"`
	Intent string
	Status string `gorm:"size:20;not null"`
	Error  sql.NullString

	Seed          sql.NullInt64
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
