package datagen

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"xwords/internal/core/combine"
	"xwords/internal/core/grammar"
	"xwords/internal/core/sampling"
	"xwords/internal/core/types"
)

type GeneratorOpts struct {
	Grammar grammar.Grammar // Defaults to grammar.Default()
	Rand    *rand.Rand      // Defaults to a time seeded source

	// MaxCombinations caps the total number of sentences produced before
	// sampling. Zero means no cap.
	MaxCombinations int

	// AllowAliasOverride lets an alias silently replace an entity of the same
	// name instead of failing with a KeyCollisionError.
	AllowAliasOverride bool
}

// Generator expands templates into flat training sentences and dialogue-flow
// stories.
type Generator struct {
	grammar            grammar.Grammar
	rng                *rand.Rand
	maxCombinations    int
	allowAliasOverride bool
}

func NewGenerator(opts GeneratorOpts) *Generator {
	g := opts.Grammar
	if g.IsZero() {
		g = grammar.Default()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{
		grammar:            g,
		rng:                rng,
		maxCombinations:    opts.MaxCombinations,
		allowAliasOverride: opts.AllowAliasOverride,
	}
}

func (g *Generator) Grammar() grammar.Grammar {
	return g.grammar
}

// Sentences expands every intent template with every combination of entity and
// alias values. Results keep template order, then combination order. If nSub
// is set and smaller than the number of sentences, a random subsequence of
// nSub sentences is returned instead.
func (g *Generator) Sentences(intents []string, entities, aliases *types.Lists, nSub *int) ([]string, error) {
	lookup, err := entities.Merge(aliases, g.allowAliasOverride)
	if err != nil {
		return nil, fmt.Errorf("error merging entities and aliases: %w", err)
	}

	expander := combine.Expander{
		Grammar:         g.grammar,
		Mode:            combine.Flat,
		Rand:            g.rng,
		MaxCombinations: g.maxCombinations,
	}

	var sentences []string
	for _, intent := range intents {
		expanded, err := expander.Expand(intent, lookup)
		if err != nil {
			return nil, err
		}
		if g.maxCombinations > 0 && len(sentences)+len(expanded) > g.maxCombinations {
			return nil, fmt.Errorf("%w: more than %d sentences", combine.ErrTooManyCombinations, g.maxCombinations)
		}
		sentences = append(sentences, expanded...)
	}

	slog.Info("sentences generated", "count", len(sentences))

	sampled, err := sampling.Subsample(g.rng, sentences, nSub)
	if err != nil {
		return nil, fmt.Errorf("error subsampling sentences: %w", err)
	}
	if len(sampled) != len(sentences) {
		slog.Info("sentences selected", "selected", len(sampled), "total", len(sentences))
	}

	return sampled, nil
}
