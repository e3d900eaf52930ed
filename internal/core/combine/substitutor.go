package combine

import (
	"strings"

	"xwords/internal/core/grammar"
)

// Substitutor renders placeholder replacements in the syntax of one output mode.
type Substitutor struct {
	Grammar grammar.Grammar
	Mode    Mode
}

// Replacement is the text that replaces token when it takes value:
//
//	story mode:           "name": "value"
//	flat mode, entity:    [value](name)
//	flat mode, otherwise: value
func (s Substitutor) Replacement(token, value string) string {
	name := s.Grammar.Strip(token)

	if s.Mode == Story {
		return `"` + name + `": "` + s.Grammar.Strip(value) + `"`
	}

	kind, _ := s.Grammar.KindOf(token)
	if s.Grammar.FlatFormat(kind) == grammar.TaggedSpan {
		return "[" + value + "](" + name + ")"
	}
	return value
}

// Render writes tmpl with every occurrence of placeholders[i] replaced by
// combo[i]. Inserted text is never scanned again.
func (s Substitutor) Render(tmpl grammar.Template, placeholders []Placeholder, combo []string) string {
	replacements := make(map[string]string, len(placeholders))
	for i, p := range placeholders {
		replacements[p.Token] = s.Replacement(p.Token, combo[i])
	}

	var b strings.Builder
	b.Grow(len(tmpl.Source))
	for _, seg := range tmpl.Segments {
		if !seg.IsPlaceholder() {
			b.WriteString(seg.Text)
			continue
		}
		if r, ok := replacements[seg.Placeholder]; ok {
			b.WriteString(r)
		} else {
			b.WriteString(seg.Placeholder)
		}
	}
	return b.String()
}

// Substitute replaces every occurrence of token in template with value.
func (s Substitutor) Substitute(template, token, value string) (string, error) {
	tmpl, err := s.Grammar.Parse(template)
	if err != nil {
		return "", err
	}
	kind, _ := s.Grammar.KindOf(token)
	return s.Render(tmpl, []Placeholder{{Token: token, Kind: kind}}, []string{value}), nil
}
