package database_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"xwords/internal/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func createDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewDatabase(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	return db
}

func TestNewDatabase_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "xwords.db")

	db, err := database.NewDatabase(path)
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable(&database.Run{}))
	assert.True(t, db.Migrator().HasTable(&database.RunFile{}))
	assert.True(t, db.Migrator().HasColumn(&database.Run{}, "seed"))

	// reopening an existing database runs no migrations
	_, err = database.NewDatabase(path)
	require.NoError(t, err)
}

func TestRunLifecycle(t *testing.T) {
	db := createDB(t)
	ctx := context.Background()

	run := database.Run{
		Mode:          database.ModeSentences,
		Intent:        "count_pets",
		TrainingRatio: 0.7,
		Location:      "/tmp/out",
		Input:         datatypes.JSON(`{"Intents":["hi"]}`),
	}
	require.NoError(t, database.CreateRun(ctx, db, &run))
	assert.NotEqual(t, uuid.Nil, run.Id)
	assert.Equal(t, database.JobRunning, run.Status)

	files := []database.RunFile{
		{Name: "training.md", Key: run.Id.String() + "/training.md", Count: 7},
		{Name: "testing.md", Key: run.Id.String() + "/testing.md", Count: 3},
	}
	require.NoError(t, database.CompleteRun(ctx, db, run.Id, 10, files))

	got, err := database.GetRun(ctx, db, run.Id)
	require.NoError(t, err)
	assert.Equal(t, database.JobCompleted, got.Status)
	assert.Equal(t, 10, got.ItemCount)
	assert.True(t, got.CompletionTime.Valid)
	assert.False(t, got.Error.Valid)
	assert.ElementsMatch(t, files, got.Files)
	assert.JSONEq(t, `{"Intents":["hi"]}`, string(got.Input))
}

func TestFailRun(t *testing.T) {
	db := createDB(t)
	ctx := context.Background()

	run := database.Run{Mode: database.ModeStories, Intent: "buy"}
	require.NoError(t, database.CreateRun(ctx, db, &run))

	database.FailRun(ctx, db, run.Id, errors.New("empty value list"))

	got, err := database.GetRun(ctx, db, run.Id)
	require.NoError(t, err)
	assert.Equal(t, database.JobFailed, got.Status)
	assert.Equal(t, "empty value list", got.Error.String)
	assert.Empty(t, got.Files)
}

func TestGetRun_NotFound(t *testing.T) {
	db := createDB(t)

	_, err := database.GetRun(context.Background(), db, uuid.New())
	require.ErrorIs(t, err, database.ErrRunNotFound)
}

func TestListRuns(t *testing.T) {
	db := createDB(t)
	ctx := context.Background()

	start := time.Now().UTC().Add(-time.Hour)
	ids := make([]uuid.UUID, 5)
	for i := range ids {
		run := database.Run{Mode: database.ModeSentences, CreationTime: start.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, database.CreateRun(ctx, db, &run))
		ids[i] = run.Id
	}

	all, err := database.ListRuns(ctx, db, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, ids[4], all[0].Id)
	assert.Equal(t, ids[0], all[4].Id)

	page, err := database.ListRuns(ctx, db, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[3], page[0].Id)
	assert.Equal(t, ids[2], page[1].Id)

	rest, err := database.ListRuns(ctx, db, 0, 3)
	require.NoError(t, err)
	assert.Len(t, rest, 2)
}
