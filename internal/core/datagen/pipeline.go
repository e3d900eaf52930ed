package datagen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"xwords/internal/core/sampling"
	"xwords/internal/corpus"
	"xwords/internal/output"
)

var ErrMissingIntent = errors.New("an intent is required to generate stories")

type Opts struct {
	Stories bool
	Intent  string

	// Subsample is the number of sentences to keep, or the number of stories
	// to build. Stories require it; for sentences nil keeps every combination.
	Subsample *int

	Dir           string
	Prefix        string
	TrainingRatio float64
}

type Result struct {
	Items []string
	Files []output.File
}

// Generate expands a loaded config into sentences or stories and writes the
// training and testing files.
func (g *Generator) Generate(ctx context.Context, c corpus.Corpus, w *output.Writer, opts Opts) (Result, error) {
	var (
		items  []string
		format output.Format
		err    error
	)

	if opts.Stories {
		if opts.Intent == "" {
			return Result{}, ErrMissingIntent
		}
		if opts.Subsample == nil {
			return Result{}, fmt.Errorf("%w: the number of stories is required", sampling.ErrInvalidSampleSize)
		}
		format = output.Core
		items, err = g.Stories(opts.Intent, c.Entities, *opts.Subsample)
	} else {
		format = output.NLU
		items, err = g.Sentences(c.Intents, c.Entities, c.Aliases, opts.Subsample)
	}
	if err != nil {
		slog.Error("error generating training data", "stories", opts.Stories, "error", err)
		return Result{}, err
	}

	files, err := w.Write(ctx, items, output.Opts{
		Dir:           opts.Dir,
		Prefix:        opts.Prefix,
		Format:        format,
		Intent:        opts.Intent,
		TrainingRatio: opts.TrainingRatio,
	})
	if err != nil {
		return Result{}, err
	}

	return Result{Items: items, Files: files}, nil
}
