package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"xwords/internal/core/combine"
	"xwords/internal/core/datagen"
	"xwords/internal/core/grammar"
	"xwords/internal/core/sampling"
	"xwords/internal/core/types"
	"xwords/internal/corpus"
	"xwords/internal/database"
	"xwords/internal/output"
	"xwords/internal/storage"
	"xwords/pkg/api"

	"github.com/go-chi/chi/v5"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ServiceOpts struct {
	MaxCombinations    int
	AllowAliasOverride bool
	// Seed is used for requests that do not give their own. Zero seeds each
	// request from the clock.
	Seed int64
}

type BackendService struct {
	db    *gorm.DB
	store storage.ObjectStore
	opts  ServiceOpts
}

func NewBackendService(db *gorm.DB, store storage.ObjectStore, opts ServiceOpts) *BackendService {
	return &BackendService{db: db, store: store, opts: opts}
}

func (s *BackendService) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(func(r *http.Request) (any, error) { return nil, nil }))
	r.Post("/sentences", RestHandler(s.GenerateSentences))
	r.Post("/stories", RestHandler(s.GenerateStories))
	r.Route("/runs", func(r chi.Router) {
		r.Get("/", RestHandler(s.ListRuns))
		r.Get("/{run_id}", RestHandler(s.GetRun))
		r.Get("/{run_id}/files/{name}", RawHandler("text/markdown; charset=utf-8", s.GetRunFile))
	})
}

// generationError maps errors caused by the request content to 422.
func generationError(err error) error {
	var collision *types.KeyCollisionError
	switch {
	case errors.Is(err, grammar.ErrInvalidGrammar),
		errors.Is(err, combine.ErrEmptyValueList),
		errors.Is(err, combine.ErrTooManyCombinations),
		errors.Is(err, combine.ErrPlaceholderInValue),
		errors.Is(err, sampling.ErrInvalidSampleSize),
		errors.Is(err, datagen.ErrMissingIntent),
		errors.As(err, &collision):
		return CodedError(http.StatusUnprocessableEntity, err)
	default:
		return CodedErrorf(http.StatusInternalServerError, "error generating training data: %w", err)
	}
}

func parseGrammar(symbols []string) (grammar.Grammar, error) {
	if len(symbols) == 0 {
		return grammar.Default(), nil
	}
	g, err := grammar.FromSymbols(symbols)
	if err != nil {
		return grammar.Grammar{}, CodedError(http.StatusUnprocessableEntity, err)
	}
	return g, nil
}

func buildCorpus(config, format string, g grammar.Grammar, intents []string, entities, aliases []api.ValueList) (corpus.Corpus, error) {
	c := corpus.Corpus{Entities: types.NewLists(), Aliases: types.NewLists()}

	if config != "" {
		f := corpus.FormatText
		if strings.EqualFold(format, string(corpus.FormatYAML)) {
			f = corpus.FormatYAML
		}

		var err error
		c, err = corpus.Read(strings.NewReader(config), f, g)
		if err != nil {
			return corpus.Corpus{}, CodedErrorf(http.StatusUnprocessableEntity, "invalid config: %v", err)
		}
	}

	c.Intents = append(c.Intents, intents...)
	for _, e := range entities {
		c.Entities.Set(e.Key, e.Values)
	}
	for _, a := range aliases {
		c.Aliases.Set(a.Key, a.Values)
	}

	return c, nil
}

type generation struct {
	mode    string
	grammar grammar.Grammar
	corpus  corpus.Corpus
	opts    datagen.Opts
	seed    *int64
	input   any
}

func (s *BackendService) generate(r *http.Request, gen generation) (api.GenerateResponse, error) {
	ctx := r.Context()

	if err := validatePrefix(gen.opts.Prefix); err != nil {
		return api.GenerateResponse{}, err
	}

	seed := s.opts.Seed
	if gen.seed != nil {
		seed = *gen.seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	input, err := json.Marshal(gen.input)
	if err != nil {
		return api.GenerateResponse{}, CodedErrorf(http.StatusInternalServerError, "error serializing request: %w", err)
	}

	run := database.Run{
		Mode:          gen.mode,
		Intent:        gen.opts.Intent,
		TrainingRatio: gen.opts.TrainingRatio,
		Location:      s.store.Location(),
		Input:         datatypes.JSON(input),
	}
	run.Seed.Int64, run.Seed.Valid = seed, true

	if err := database.CreateRun(ctx, s.db, &run); err != nil {
		return api.GenerateResponse{}, CodedErrorf(http.StatusInternalServerError, "failed to create run entry")
	}

	rng := rand.New(rand.NewSource(seed))
	generator := datagen.NewGenerator(datagen.GeneratorOpts{
		Grammar:            gen.grammar,
		Rand:               rng,
		MaxCombinations:    s.opts.MaxCombinations,
		AllowAliasOverride: s.opts.AllowAliasOverride,
	})

	gen.opts.Dir = run.Id.String()
	res, err := generator.Generate(ctx, gen.corpus, output.NewWriter(s.store, rng), gen.opts)
	if err != nil {
		database.FailRun(ctx, s.db, run.Id, err)
		return api.GenerateResponse{}, generationError(err)
	}

	files := make([]database.RunFile, 0, len(res.Files))
	for _, f := range res.Files {
		files = append(files, database.RunFile{Name: f.Name, Key: f.Key, Count: f.Count})
	}
	if err := database.CompleteRun(ctx, s.db, run.Id, len(res.Items), files); err != nil {
		return api.GenerateResponse{}, CodedErrorf(http.StatusInternalServerError, "failed to update run entry")
	}

	slog.Info("run completed", "run_id", run.Id, "mode", gen.mode, "count", len(res.Items))

	return api.GenerateResponse{
		RunId: run.Id,
		Count: len(res.Items),
		Items: res.Items,
		Files: convertOutputFiles(res.Files),
	}, nil
}

func trainingRatio(ratio *float64) float64 {
	if ratio == nil {
		return 1.0
	}
	return *ratio
}

func (s *BackendService) GenerateSentences(r *http.Request) (any, error) {
	req, err := ParseRequest[api.GenerateSentencesRequest](r)
	if err != nil {
		return nil, err
	}

	g, err := parseGrammar(req.Grammar)
	if err != nil {
		return nil, err
	}

	c, err := buildCorpus(req.Config, req.ConfigFormat, g, req.Intents, req.Entities, req.Aliases)
	if err != nil {
		return nil, err
	}

	return s.generate(r, generation{
		mode:    database.ModeSentences,
		grammar: g,
		corpus:  c,
		seed:    req.Seed,
		input:   req,
		opts: datagen.Opts{
			Intent:        req.Intent,
			Subsample:     req.Subsample,
			Prefix:        req.Prefix,
			TrainingRatio: trainingRatio(req.TrainingRatio),
		},
	})
}

func (s *BackendService) GenerateStories(r *http.Request) (any, error) {
	req, err := ParseRequest[api.GenerateStoriesRequest](r)
	if err != nil {
		return nil, err
	}

	if req.Intent == "" {
		return nil, CodedError(http.StatusUnprocessableEntity, datagen.ErrMissingIntent)
	}

	g, err := parseGrammar(req.Grammar)
	if err != nil {
		return nil, err
	}

	c, err := buildCorpus(req.Config, req.ConfigFormat, g, nil, req.Entities, nil)
	if err != nil {
		return nil, err
	}

	count := req.Count
	return s.generate(r, generation{
		mode:    database.ModeStories,
		grammar: g,
		corpus:  c,
		seed:    req.Seed,
		input:   req,
		opts: datagen.Opts{
			Stories:       true,
			Intent:        req.Intent,
			Subsample:     &count,
			Prefix:        req.Prefix,
			TrainingRatio: trainingRatio(req.TrainingRatio),
		},
	})
}

func (s *BackendService) ListRuns(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[api.ListRunsParams](r)
	if err != nil {
		return nil, err
	}

	if params.Limit < 0 || params.Offset < 0 {
		return nil, CodedErrorf(http.StatusBadRequest, "limit and offset must not be negative")
	}

	runs, err := database.ListRuns(r.Context(), s.db, params.Limit, params.Offset)
	if err != nil {
		slog.Error("error listing runs", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving run records")
	}

	return convertRuns(runs), nil
}

func (s *BackendService) getRun(r *http.Request) (database.Run, error) {
	runId, err := URLParamUUID(r, "run_id")
	if err != nil {
		return database.Run{}, err
	}

	run, err := database.GetRun(r.Context(), s.db, runId)
	if err != nil {
		if errors.Is(err, database.ErrRunNotFound) {
			return database.Run{}, CodedErrorf(http.StatusNotFound, "run not found")
		}
		slog.Error("error getting run", "run_id", runId, "error", err)
		return database.Run{}, CodedErrorf(http.StatusInternalServerError, "error retrieving run record")
	}

	return run, nil
}

func (s *BackendService) GetRun(r *http.Request) (any, error) {
	run, err := s.getRun(r)
	if err != nil {
		return nil, err
	}
	return convertRun(run), nil
}

func (s *BackendService) GetRunFile(r *http.Request) ([]byte, error) {
	run, err := s.getRun(r)
	if err != nil {
		return nil, err
	}

	name := chi.URLParam(r, "name")
	for _, f := range run.Files {
		if f.Name != name {
			continue
		}

		data, err := s.store.GetObject(r.Context(), f.Key)
		if err != nil {
			if errors.Is(err, storage.ErrObjectNotFound) {
				return nil, CodedErrorf(http.StatusNotFound, "file '%s' is missing from storage", name)
			}
			slog.Error("error reading run file", "run_id", run.Id, "key", f.Key, "error", err)
			return nil, CodedErrorf(http.StatusInternalServerError, "error reading run file")
		}
		return data, nil
	}

	return nil, CodedErrorf(http.StatusNotFound, "run has no file '%s'", name)
}
