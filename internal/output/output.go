package output

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"path"
	"time"

	"xwords/internal/core/sampling"
	"xwords/internal/storage"

	"github.com/schollz/progressbar/v3"
)

type Format string

const (
	// NLU writes one "- sentence" line per item under an optional intent header.
	NLU Format = "nlu"
	// Core writes stories separated by blank lines.
	Core Format = "core"
)

const (
	TrainingFile = "training.md"
	TestingFile  = "testing.md"
)

type Opts struct {
	// Dir is the key prefix the files are written under. Empty means the root
	// of the store.
	Dir    string
	Prefix string
	Format Format

	// Intent is written as a "## intent:" header in NLU files when set.
	Intent string

	// TrainingRatio is the share of items kept in the training file, the rest
	// go to the testing file. A ratio of 1 writes no testing file.
	TrainingRatio float64
}

type File struct {
	Name  string
	Key   string
	Count int
}

type Writer struct {
	store    storage.ObjectStore
	rng      *rand.Rand
	progress io.Writer
}

// NewWriter creates a writer storing files in store. rng may be nil, in which
// case a time seeded source is used.
func NewWriter(store storage.ObjectStore, rng *rand.Rand) *Writer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Writer{store: store, rng: rng}
}

// WithProgress reports rendering progress on w.
func (w *Writer) WithProgress(out io.Writer) *Writer {
	w.progress = out
	return w
}

// Write splits items into training and testing sets and stores them as
// markdown files. It returns the written files, training first.
func (w *Writer) Write(ctx context.Context, items []string, opts Opts) ([]File, error) {
	train, test, err := sampling.Split(w.rng, items, opts.TrainingRatio)
	if err != nil {
		return nil, fmt.Errorf("error splitting training and testing sets: %w", err)
	}

	sets := []struct {
		name  string
		items []string
	}{{opts.Prefix + TrainingFile, train}}
	if opts.TrainingRatio != 1.0 {
		sets = append(sets, struct {
			name  string
			items []string
		}{opts.Prefix + TestingFile, test})
	}

	files := make([]File, 0, len(sets))
	for _, set := range sets {
		key := set.name
		if opts.Dir != "" {
			key = path.Join(opts.Dir, set.name)
		}

		data, err := w.render(set.items, opts)
		if err != nil {
			return nil, err
		}

		if err := w.store.PutObject(ctx, key, bytes.NewReader(data)); err != nil {
			slog.Error("error writing output file", "key", key, "error", err)
			return nil, fmt.Errorf("error writing %s: %w", key, err)
		}

		slog.Info("objects written", "count", len(set.items), "key", key, "location", w.store.Location())
		files = append(files, File{Name: set.name, Key: key, Count: len(set.items)})
	}

	return files, nil
}

func (w *Writer) render(items []string, opts Opts) ([]byte, error) {
	var bar *progressbar.ProgressBar
	if w.progress != nil {
		bar = progressbar.NewOptions(len(items),
			progressbar.OptionSetWriter(w.progress),
			progressbar.OptionSetDescription("writing"),
			progressbar.OptionSetWidth(30),
			progressbar.OptionClearOnFinish(),
		)
	}

	var buf bytes.Buffer
	if err := Render(&buf, items, opts.Format, opts.Intent, func() {
		if bar != nil {
			_ = bar.Add(1)
		}
	}); err != nil {
		return nil, err
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return buf.Bytes(), nil
}

// Render writes items in the given format. onItem, if not nil, is called after
// each item.
func Render(out io.Writer, items []string, format Format, intent string, onItem func()) error {
	switch format {
	case NLU, Core:
	default:
		return fmt.Errorf("unknown output format '%s'", format)
	}

	if format == NLU && intent != "" {
		if _, err := fmt.Fprintf(out, "## intent:%s\n", intent); err != nil {
			return fmt.Errorf("error rendering output: %w", err)
		}
	}

	for _, item := range items {
		var err error
		if format == Core {
			_, err = fmt.Fprintf(out, "%s\n", item)
		} else {
			_, err = fmt.Fprintf(out, "- %s\n", item)
		}
		if err != nil {
			return fmt.Errorf("error rendering output: %w", err)
		}
		if onItem != nil {
			onItem()
		}
	}
	return nil
}
