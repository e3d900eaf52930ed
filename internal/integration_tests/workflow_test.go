//go:build integration

package integrationtests

import (
	"context"
	"net/http"
	"testing"
	"time"

	backend "xwords/internal/api"
	"xwords/internal/database"
	"xwords/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationWorkflow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	objectStore, _ := setupTestObjectStore(t, ctx, "workflow")
	db := createDB(t, ctx)

	service := backend.NewBackendService(db, objectStore, backend.ServiceOpts{MaxCombinations: 1000})
	router := chi.NewRouter()
	service.AddRoutes(router)

	ratio := 0.75
	var sentences api.GenerateResponse
	require.NoError(t, httpRequest(router, http.MethodPost, "/sentences", api.GenerateSentencesRequest{
		Intents:       []string{"book a flight to @[city] ~[when]"},
		Entities:      []api.ValueList{{Key: "@[city]", Values: []string{"Paris", "Rome"}}},
		Aliases:       []api.ValueList{{Key: "~[when]", Values: []string{"today", "tomorrow"}}},
		Intent:        "book_flight",
		TrainingRatio: &ratio,
	}, &sentences))
	assert.Equal(t, 4, sentences.Count)
	assert.Equal(t, []api.File{{Name: "training.md", Count: 3}, {Name: "testing.md", Count: 1}}, sentences.Files)

	var stories api.GenerateResponse
	require.NoError(t, httpRequest(router, http.MethodPost, "/stories", api.GenerateStoriesRequest{
		Entities: []api.ValueList{{Key: "@[city]", Values: []string{"Paris", "Rome"}}},
		Intent:   "book_flight",
		Count:    10,
	}, &stories))
	assert.Equal(t, 10, stories.Count)

	var runs []api.Run
	require.NoError(t, httpRequest(router, http.MethodGet, "/runs", nil, &runs))
	require.Len(t, runs, 2)
	for _, run := range runs {
		assert.Equal(t, database.JobCompleted, run.Status)
		assert.Equal(t, "s3://test-bucket/workflow", run.Location)
	}

	objs, err := objectStore.ListObjects(ctx, sentences.RunId.String()+"/")
	require.NoError(t, err)
	assert.Len(t, objs, 2)
}
