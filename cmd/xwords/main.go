package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"net/url"
	"os"
	"strings"
	"time"

	"xwords/cmd"
	"xwords/internal/config"
	"xwords/internal/core/datagen"
	"xwords/internal/core/grammar"
	"xwords/internal/corpus"
	"xwords/internal/database"
	"xwords/internal/output"
	"xwords/internal/storage"
)

func loadCorpus(ctx context.Context, path string, g grammar.Grammar, cfg config.Config) (corpus.Corpus, error) {
	if !strings.HasPrefix(path, "s3://") {
		return corpus.LoadFile(path, g)
	}

	u, err := url.Parse(path)
	if err != nil {
		return corpus.Corpus{}, fmt.Errorf("invalid config location '%s': %w", path, err)
	}

	store, err := storage.NewS3ObjectStore(u.Host, "", cfg.S3ClientConfig())
	if err != nil {
		return corpus.Corpus{}, err
	}
	return corpus.Load(ctx, store, strings.TrimPrefix(u.Path, "/"), g)
}

func recordRun(ctx context.Context, dsn string, store storage.ObjectStore, opts datagen.Opts, seed int64, res datagen.Result) error {
	db, err := database.NewDatabase(dsn)
	if err != nil {
		return err
	}

	input, err := json.Marshal(opts)
	if err != nil {
		return fmt.Errorf("error serializing options: %w", err)
	}

	mode := database.ModeSentences
	if opts.Stories {
		mode = database.ModeStories
	}

	run := database.Run{
		Mode:          mode,
		Intent:        opts.Intent,
		TrainingRatio: opts.TrainingRatio,
		Location:      store.Location(),
		Input:         input,
	}
	run.Seed.Int64, run.Seed.Valid = seed, true

	if err := database.CreateRun(ctx, db, &run); err != nil {
		return err
	}

	files := make([]database.RunFile, 0, len(res.Files))
	for _, f := range res.Files {
		files = append(files, database.RunFile{Name: f.Name, Key: f.Key, Count: f.Count})
	}
	return database.CompleteRun(ctx, db, run.Id, len(res.Items), files)
}

func main() {
	configPath := flag.String("config", "", "config file to expand, a local path or s3://bucket/key (required)")
	out := flag.String("out", "", "output directory or s3://bucket/prefix (default $XWORDS_OUTPUT)")
	intent := flag.String("intent", "", "intent label, written as the NLU header and used for story actions")
	prefix := flag.String("prefix", "", "prefix added to the output file names")
	ratio := flag.Float64("ratio", 1.0, "share of items written to the training file, the rest go to the testing file")
	stories := flag.Bool("stories", false, "generate dialogue stories instead of NLU sentences")
	n := flag.Int("n", -1, "number of sentences to subsample, or number of stories to generate")
	markers := flag.String("grammar", "", "the generic, entity, alias and intent markers, e.g. %@~&")
	seed := flag.Int64("seed", 0, "random seed (default $SEED, or the clock)")
	maxCombinations := flag.Int("max-combinations", -1, "cap on the number of expanded sentences (default $MAX_COMBINATIONS)")
	allowAliasOverride := flag.Bool("allow-alias-override", false, "let aliases replace entities of the same name")
	progress := flag.Bool("progress", false, "show a progress bar while writing")
	record := flag.Bool("record", false, "record the run in the database at $DATABASE_URL")

	cmd.LoadEnvFile()

	cfg := cmd.LoadConfig()

	if *configPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	g, err := cmd.ParseGrammar(*markers)
	if err != nil {
		log.Fatalf("invalid grammar: %v", err)
	}

	if *out == "" {
		*out = cfg.OutputLocation
	}
	if *seed == 0 {
		*seed = cfg.Seed
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	if *maxCombinations < 0 {
		*maxCombinations = cfg.MaxCombinations
	}

	var subsample *int
	if *n >= 0 {
		subsample = n
	}

	ctx := context.Background()

	c, err := loadCorpus(ctx, *configPath, g, cfg)
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	store, err := storage.Open(ctx, *out, cfg.S3ClientConfig())
	if err != nil {
		log.Fatalf("error opening output location: %v", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	generator := datagen.NewGenerator(datagen.GeneratorOpts{
		Grammar:            g,
		Rand:               rng,
		MaxCombinations:    *maxCombinations,
		AllowAliasOverride: *allowAliasOverride || cfg.AllowAliasOverride,
	})

	writer := output.NewWriter(store, rng)
	if *progress {
		writer.WithProgress(os.Stderr)
	}

	opts := datagen.Opts{
		Stories:       *stories,
		Intent:        *intent,
		Subsample:     subsample,
		Prefix:        *prefix,
		TrainingRatio: *ratio,
	}

	res, err := generator.Generate(ctx, c, writer, opts)
	if err != nil {
		log.Fatalf("error generating training data: %v", err)
	}

	if *record {
		if err := recordRun(ctx, cfg.DatabaseURL, store, opts, *seed, res); err != nil {
			slog.Error("error recording run", "error", err)
		}
	}

	for _, f := range res.Files {
		fmt.Printf("%d objects written in %s\n", f.Count, f.Key)
	}
}
