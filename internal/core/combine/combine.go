package combine

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"xwords/internal/core/grammar"
	"xwords/internal/core/types"
)

var (
	ErrEmptyValueList      = errors.New("cannot draw from an empty value list")
	ErrTooManyCombinations = errors.New("too many combinations")
	ErrPlaceholderInValue  = errors.New("value contains placeholder syntax")
)

// Mode selects the output grammar.
type Mode int

const (
	// Flat expands a template into every combination of values, one training
	// sentence per combination.
	Flat Mode = iota
	// Story fills a dialogue-flow skeleton with one random value per
	// placeholder, rendered as "name": "value" slot pairs.
	Story
)

func (m Mode) String() string {
	if m == Story {
		return "story"
	}
	return "flat"
}

// Placeholder is a placeholder token found in a template together with the
// values it can take.
type Placeholder struct {
	Token  string
	Kind   grammar.Kind
	Values []string
}

// Extract returns the placeholders of tmpl that have a value list, in order of
// first appearance. Tokens without a value list are left as literal text.
func Extract(g grammar.Grammar, tmpl grammar.Template, lists *types.Lists) []Placeholder {
	var placeholders []Placeholder
	for _, token := range tmpl.References() {
		values, ok := lists.Get(token)
		if !ok {
			slog.Debug("no value list for placeholder, leaving it as text", "token", token)
			continue
		}
		kind, _ := g.KindOf(token)
		placeholders = append(placeholders, Placeholder{Token: token, Kind: kind, Values: values})
	}
	return placeholders
}

// Expander runs extraction, combination and substitution for one template.
type Expander struct {
	Grammar grammar.Grammar
	Mode    Mode
	Rand    *rand.Rand

	// MaxCombinations caps the number of flat combinations a single template
	// may produce. Zero means no cap.
	MaxCombinations int
}

func (e *Expander) Expand(template string, lists *types.Lists) ([]string, error) {
	tmpl, err := e.Grammar.Parse(template)
	if err != nil {
		return nil, err
	}

	placeholders := Extract(e.Grammar, tmpl, lists)
	if err := checkValues(e.Grammar, placeholders, lists); err != nil {
		return nil, err
	}

	sub := Substitutor{Grammar: e.Grammar, Mode: e.Mode}

	if e.Mode == Story {
		combo, err := Draw(e.Rand, placeholders)
		if err != nil {
			return nil, fmt.Errorf("error filling template '%s': %w", template, err)
		}
		return []string{sub.Render(tmpl, placeholders, combo)}, nil
	}

	size, err := ProductSize(placeholders)
	if err != nil {
		return nil, fmt.Errorf("error expanding template '%s': %w", template, err)
	}
	if e.MaxCombinations > 0 && size > e.MaxCombinations {
		return nil, fmt.Errorf("error expanding template '%s': %w: %d exceeds limit of %d", template, ErrTooManyCombinations, size, e.MaxCombinations)
	}

	output := make([]string, 0, size)
	for combo := range Product(placeholders) {
		output = append(output, sub.Render(tmpl, placeholders, combo))
	}
	return output, nil
}

// checkValues rejects values that reference one of the known placeholders.
func checkValues(g grammar.Grammar, placeholders []Placeholder, lists *types.Lists) error {
	for _, p := range placeholders {
		for _, value := range p.Values {
			parsed, err := g.Parse(value)
			if err != nil {
				return err
			}
			if refs := parsed.Placeholders(lists.Has); len(refs) > 0 {
				return fmt.Errorf("%w: value '%s' of '%s' references '%s'", ErrPlaceholderInValue, value, p.Token, refs[0])
			}
		}
	}
	return nil
}
