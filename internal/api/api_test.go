package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	backend "xwords/internal/api"
	"xwords/internal/database"
	"xwords/internal/storage"
	"xwords/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testConfig = `Total number of @[subject_filter] ~[owners]

@[subject_filter]
    cats
    dogs

~[owners]
    owners
    possessors
`

func createDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewDatabase(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	return db
}

func setupRouter(t *testing.T, opts backend.ServiceOpts) (chi.Router, *gorm.DB) {
	t.Helper()
	db := createDB(t)
	store, err := storage.NewLocalObjectStore(t.TempDir())
	require.NoError(t, err)

	service := backend.NewBackendService(db, store, opts)
	router := chi.NewRouter()
	service.AddRoutes(router)
	return router, db
}

func doRequest(router http.Handler, method, endpoint string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Reader
	switch p := payload.(type) {
	case nil:
		body = bytes.NewReader(nil)
	case string:
		body = bytes.NewReader([]byte(p))
	default:
		data, _ := json.Marshal(p)
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, endpoint, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestHealth(t *testing.T) {
	router, _ := setupRouter(t, backend.ServiceOpts{})

	rec := doRequest(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGenerateSentences_FromConfig(t *testing.T) {
	router, _ := setupRouter(t, backend.ServiceOpts{})

	ratio := 0.5
	res := decode[api.GenerateResponse](t, doRequest(router, http.MethodPost, "/sentences", api.GenerateSentencesRequest{
		Config:        testConfig,
		Intent:        "count_pets",
		TrainingRatio: &ratio,
	}))

	assert.Equal(t, 4, res.Count)
	assert.Equal(t, []string{
		"Total number of [cats](subject_filter) owners",
		"Total number of [cats](subject_filter) possessors",
		"Total number of [dogs](subject_filter) owners",
		"Total number of [dogs](subject_filter) possessors",
	}, res.Items)
	assert.Equal(t, []api.File{{Name: "training.md", Count: 2}, {Name: "testing.md", Count: 2}}, res.Files)

	run := decode[api.Run](t, doRequest(router, http.MethodGet, "/runs/"+res.RunId.String(), nil))
	assert.Equal(t, database.JobCompleted, run.Status)
	assert.Equal(t, database.ModeSentences, run.Mode)
	assert.Equal(t, "count_pets", run.Intent)
	assert.Equal(t, 4, run.Count)
	assert.NotNil(t, run.Seed)
	assert.NotNil(t, run.CompletionTime)
	assert.Len(t, run.Files, 2)

	rec := doRequest(router, http.MethodGet, "/runs/"+res.RunId.String()+"/files/training.md", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "## intent:count_pets\n- Total number of "))
	assert.Equal(t, 3, strings.Count(rec.Body.String(), "\n"))
}

func TestGenerateSentences_FromLists(t *testing.T) {
	router, _ := setupRouter(t, backend.ServiceOpts{})

	n := 2
	seed := int64(7)
	req := api.GenerateSentencesRequest{
		Intents:   []string{"I want a $[color] #[size] shirt"},
		Entities:  []api.ValueList{{Key: "$[color]", Values: []string{"red", "blue"}}},
		Aliases:   []api.ValueList{{Key: "#[size]", Values: []string{"small", "large"}}},
		Grammar:   []string{"%", "$", "#", "&"},
		Subsample: &n,
		Seed:      &seed,
		Prefix:    "shirts",
	}

	first := decode[api.GenerateResponse](t, doRequest(router, http.MethodPost, "/sentences", req))
	assert.Equal(t, 2, first.Count)
	assert.Equal(t, []api.File{{Name: "shirtstraining.md", Count: 2}}, first.Files)
	for _, item := range first.Items {
		assert.Regexp(t, `^I want a \[(red|blue)\]\(color\) (small|large) shirt$`, item)
	}

	second := decode[api.GenerateResponse](t, doRequest(router, http.MethodPost, "/sentences", req))
	assert.Equal(t, first.Items, second.Items)
	assert.NotEqual(t, first.RunId, second.RunId)
}

func TestGenerateStories(t *testing.T) {
	router, _ := setupRouter(t, backend.ServiceOpts{Seed: 3})

	res := decode[api.GenerateResponse](t, doRequest(router, http.MethodPost, "/stories", api.GenerateStoriesRequest{
		Config: testConfig,
		Intent: "count_pets",
		Count:  5,
	}))

	assert.Equal(t, 5, res.Count)
	for _, story := range res.Items {
		assert.True(t, strings.HasPrefix(story, "## Generated Story "))
		assert.Contains(t, story, `- slot{"subject_filter": "`)
		assert.True(t, strings.HasSuffix(story, "    - action_count_pets\n"))
	}

	rec := doRequest(router, http.MethodGet, "/runs/"+res.RunId.String()+"/files/training.md", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, strings.Count(rec.Body.String(), "## Generated Story "))
}

func TestGenerate_Errors(t *testing.T) {
	router, db := setupRouter(t, backend.ServiceOpts{MaxCombinations: 3})

	negative := -1
	badRatio := 1.5

	tests := []struct {
		name     string
		endpoint string
		payload  any
		code     int
	}{
		{"bad json", "/sentences", "{not json", http.StatusBadRequest},
		{"bad grammar", "/sentences", api.GenerateSentencesRequest{Intents: []string{"hi"}, Grammar: []string{"@", "@", "~", "&"}}, http.StatusUnprocessableEntity},
		{"too many combinations", "/sentences", api.GenerateSentencesRequest{Config: testConfig}, http.StatusUnprocessableEntity},
		{"negative subsample", "/sentences", api.GenerateSentencesRequest{Intents: []string{"hi"}, Subsample: &negative}, http.StatusUnprocessableEntity},
		{"bad ratio", "/sentences", api.GenerateSentencesRequest{Intents: []string{"hi"}, TrainingRatio: &badRatio}, http.StatusUnprocessableEntity},
		{"key collision", "/sentences", api.GenerateSentencesRequest{
			Intents:  []string{"@[x]"},
			Entities: []api.ValueList{{Key: "@[x]", Values: []string{"a"}}},
			Aliases:  []api.ValueList{{Key: "@[x]", Values: []string{"b"}}},
		}, http.StatusUnprocessableEntity},
		{"placeholder in value", "/sentences", api.GenerateSentencesRequest{
			Intents:  []string{"@[x]"},
			Entities: []api.ValueList{{Key: "@[x]", Values: []string{"@[y]"}}, {Key: "@[y]", Values: []string{"b"}}},
		}, http.StatusUnprocessableEntity},
		{"bad prefix", "/sentences", api.GenerateSentencesRequest{Intents: []string{"hi"}, Prefix: "../up"}, http.StatusBadRequest},
		{"bad yaml", "/sentences", api.GenerateSentencesRequest{Config: "intents: [", ConfigFormat: "yaml"}, http.StatusUnprocessableEntity},
		{"story without intent", "/stories", api.GenerateStoriesRequest{Config: testConfig, Count: 2}, http.StatusUnprocessableEntity},
		{"story with empty list", "/stories", api.GenerateStoriesRequest{
			Intent:   "buy",
			Entities: []api.ValueList{{Key: "@[color]"}},
			Count:    2,
		}, http.StatusUnprocessableEntity},
		{"negative story count", "/stories", api.GenerateStoriesRequest{Config: testConfig, Intent: "buy", Count: -2}, http.StatusUnprocessableEntity},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodPost, test.endpoint, test.payload)
			assert.Equal(t, test.code, rec.Code, rec.Body.String())
		})
	}

	// failures past validation are recorded
	var failed int64
	require.NoError(t, db.Model(&database.Run{}).Where("status = ?", database.JobFailed).Count(&failed).Error)
	assert.Greater(t, failed, int64(0))
}

func TestListRuns(t *testing.T) {
	router, _ := setupRouter(t, backend.ServiceOpts{})

	ids := make([]uuid.UUID, 3)
	for i := range ids {
		res := decode[api.GenerateResponse](t, doRequest(router, http.MethodPost, "/sentences", api.GenerateSentencesRequest{
			Intents: []string{fmt.Sprintf("sentence %d", i)},
		}))
		ids[i] = res.RunId
	}

	all := decode[[]api.Run](t, doRequest(router, http.MethodGet, "/runs", nil))
	require.Len(t, all, 3)

	got := make([]uuid.UUID, 0, len(all))
	for _, run := range all {
		got = append(got, run.Id)
	}
	assert.ElementsMatch(t, ids, got)

	page := decode[[]api.Run](t, doRequest(router, http.MethodGet, "/runs?limit=2&offset=1", nil))
	assert.Len(t, page, 2)

	rec := doRequest(router, http.MethodGet, "/runs?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(router, http.MethodGet, "/runs?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRun_NotFound(t *testing.T) {
	router, _ := setupRouter(t, backend.ServiceOpts{})

	rec := doRequest(router, http.MethodGet, "/runs/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(router, http.MethodGet, "/runs/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	res := decode[api.GenerateResponse](t, doRequest(router, http.MethodPost, "/sentences", api.GenerateSentencesRequest{Intents: []string{"hi"}}))

	rec = doRequest(router, http.MethodGet, "/runs/"+res.RunId.String()+"/files/testing.md", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(router, http.MethodGet, "/runs/"+uuid.NewString()+"/files/training.md", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
