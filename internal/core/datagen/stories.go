package datagen

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"xwords/internal/core/combine"
	"xwords/internal/core/grammar"
	"xwords/internal/core/sampling"
	"xwords/internal/core/types"
)

const (
	utterAskPrefix = "utter_ask_"
	actionPrefix   = "action_"
	storyIdLimit   = 1_000_000_000_000_000
)

// UtterActions maps every entity key to the bot action asking for it, e.g.
// "@[color]" to "utter_ask_color".
func UtterActions(g grammar.Grammar, entities *types.Lists) map[string]string {
	actions := make(map[string]string, entities.Len())
	for _, key := range entities.Keys() {
		actions[key] = utterAskPrefix + g.Strip(key)
	}
	return actions
}

// Stories builds n dialogue-flow stories for intent. Each story gives a random
// subset of the entities up front and has the bot ask for the others, then
// fills every entity slot with one random value. No entities means no stories.
func (g *Generator) Stories(intent string, entities *types.Lists, n int) ([]string, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: cannot generate %d stories", sampling.ErrInvalidSampleSize, n)
	}
	if entities.Len() == 0 {
		slog.Info("no entities defined, skipping story generation", "intent", intent)
		return nil, nil
	}

	actions := UtterActions(g.grammar, entities)
	expander := combine.Expander{Grammar: g.grammar, Mode: combine.Story, Rand: g.rng}

	stories := make([]string, 0, n)
	for range n {
		skeleton := g.emptyStory(intent, entities.Keys(), actions)

		story, err := expander.Expand(skeleton, entities)
		if err != nil {
			return nil, fmt.Errorf("error filling story for intent '%s': %w", intent, err)
		}
		stories = append(stories, story...)
	}

	slog.Info("stories generated", "count", len(stories), "intent", intent)

	return stories, nil
}

// emptyStory writes a story skeleton whose slots still hold entity placeholders.
func (g *Generator) emptyStory(intent string, keys []string, actions map[string]string) string {
	k := g.rng.Intn(len(keys) + 1)
	provided := make([]string, 0, k)
	for _, i := range g.rng.Perm(len(keys))[:k] {
		provided = append(provided, keys[i])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Generated Story %d\n", g.rng.Int63n(storyIdLimit))
	fmt.Fprintf(&b, "* %s{%s}\n", intent, strings.Join(provided, ", "))

	for _, key := range provided {
		fmt.Fprintf(&b, "    - slot{%s}\n", key)
	}
	for _, key := range keys {
		if slices.Contains(provided, key) {
			continue
		}
		fmt.Fprintf(&b, "    - %s\n", actions[key])
		fmt.Fprintf(&b, "* %s{%s}\n", intent, key)
		fmt.Fprintf(&b, "    - slot{%s}\n", key)
	}
	fmt.Fprintf(&b, "    - %s%s\n", actionPrefix, intent)

	return b.String()
}
