package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrRunNotFound = errors.New("run not found")

func CreateRun(ctx context.Context, db *gorm.DB, run *Run) error {
	if run.Id == uuid.Nil {
		run.Id = uuid.New()
	}
	if run.Status == "" {
		run.Status = JobRunning
	}
	if run.CreationTime.IsZero() {
		run.CreationTime = time.Now().UTC()
	}

	if err := db.WithContext(ctx).Create(run).Error; err != nil {
		slog.Error("error creating run", "run_id", run.Id, "error", err)
		return fmt.Errorf("error creating run: %w", err)
	}
	return nil
}

func CompleteRun(ctx context.Context, db *gorm.DB, runId uuid.UUID, itemCount int, files []RunFile) error {
	for i := range files {
		files[i].RunId = runId
	}

	return db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		if len(files) > 0 {
			if err := txn.Create(&files).Error; err != nil {
				slog.Error("error saving run files", "run_id", runId, "error", err)
				return fmt.Errorf("error saving run files: %w", err)
			}
		}

		updates := map[string]any{
			"status":          JobCompleted,
			"item_count":      itemCount,
			"completion_time": time.Now().UTC(),
		}
		if err := txn.Model(&Run{Id: runId}).Updates(updates).Error; err != nil {
			slog.Error("error updating run status", "run_id", runId, "status", JobCompleted, "error", err)
			return fmt.Errorf("error updating run status: %w", err)
		}
		return nil
	})
}

func FailRun(ctx context.Context, db *gorm.DB, runId uuid.UUID, runErr error) {
	updates := map[string]any{
		"status":          JobFailed,
		"error":           sql.NullString{String: runErr.Error(), Valid: true},
		"completion_time": time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Model(&Run{Id: runId}).Updates(updates).Error; err != nil {
		slog.Error("error updating run status", "run_id", runId, "status", JobFailed, "error", err)
	}
}

func GetRun(ctx context.Context, db *gorm.DB, runId uuid.UUID) (Run, error) {
	var run Run
	if err := db.WithContext(ctx).Preload("Files").First(&run, "id = ?", runId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, runId)
		}
		return Run{}, fmt.Errorf("error retrieving run: %w", err)
	}
	return run, nil
}

// ListRuns returns runs newest first. A limit of zero or less returns every run
// after offset.
func ListRuns(ctx context.Context, db *gorm.DB, limit, offset int) ([]Run, error) {
	query := db.WithContext(ctx).Preload("Files").Order("creation_time DESC").Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}

	var runs []Run
	if err := query.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("error listing runs: %w", err)
	}
	return runs, nil
}
