package grammar

import (
	"fmt"
	"strings"

	"xwords/internal/core/utils"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

/*
Templates are tokenized with the following grammar, where M is the set of
marker symbols of the active Grammar:

Template    := Segment*
Segment     := Placeholder | Text
Placeholder := M "[" <word characters>+ "]"
Text        := <run of non-marker characters> | M

Every input is accepted: a marker that does not start a placeholder is text.
*/

type templateAST struct {
	Segments []*segmentAST `parser:"@@*"`
}

type segmentAST struct {
	Placeholder string `parser:"  @Placeholder"`
	Text        string `parser:"| @Text"`
}

func buildParser(markers []rune) (*participle.Parser[templateAST], error) {
	class := markerClass(markers)

	def, err := lexer.NewSimple([]lexer.SimpleRule{
		{Name: "Placeholder", Pattern: `[` + class + `]\[[\p{L}\p{N}_]+\]`},
		{Name: "Text", Pattern: `[^` + class + `]+|[` + class + `]`},
	})
	if err != nil {
		return nil, fmt.Errorf("error building template lexer: %w", err)
	}

	return participle.Build[templateAST](participle.Lexer(def))
}

// markerClass renders markers for use inside a regexp character class.
func markerClass(markers []rune) string {
	var b strings.Builder
	for _, r := range markers {
		if r < 0x80 {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Segment is either literal text or a placeholder token such as "@[color]".
type Segment struct {
	Text        string
	Placeholder string
}

func (s Segment) IsPlaceholder() bool {
	return s.Placeholder != ""
}

// Template is a tokenized template string.
type Template struct {
	Source   string
	Segments []Segment
}

func (g Grammar) Parse(source string) (Template, error) {
	if g.parser == nil {
		return Template{}, fmt.Errorf("%w: grammar is not initialized", ErrInvalidGrammar)
	}

	ast, err := g.parser.ParseString("", source)
	if err != nil {
		return Template{}, fmt.Errorf("error parsing template '%s': %w", source, err)
	}

	tmpl := Template{Source: source, Segments: make([]Segment, 0, len(ast.Segments))}
	for _, seg := range ast.Segments {
		tmpl.Segments = append(tmpl.Segments, Segment{Text: seg.Text, Placeholder: seg.Placeholder})
	}
	return tmpl, nil
}

// Placeholders returns the placeholder tokens accepted by known, in order of
// first appearance and without duplicates.
func (t Template) Placeholders(known func(token string) bool) []string {
	var tokens []string
	for _, seg := range t.Segments {
		if seg.IsPlaceholder() && known(seg.Placeholder) {
			tokens = append(tokens, seg.Placeholder)
		}
	}
	return utils.Unique(tokens)
}

// References returns every placeholder token in the template, known or not.
func (t Template) References() []string {
	return t.Placeholders(func(string) bool { return true })
}
