package grammar

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"
)

// Kind is the role of a placeholder, given by its marker symbol.
type Kind int

const (
	Generic Kind = iota
	Entity
	Alias
	Intent
	kindCount
)

func (k Kind) String() string {
	switch k {
	case Generic:
		return "generic"
	case Entity:
		return "entity"
	case Alias:
		return "alias"
	case Intent:
		return "intent"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// FlatFormat is how a placeholder renders in flat (sentence) output.
type FlatFormat int

const (
	// BareValue inserts the chosen value as is.
	BareValue FlatFormat = iota
	// TaggedSpan inserts "[value](name)".
	TaggedSpan
)

var ErrInvalidGrammar = errors.New("invalid grammar")

// Grammar maps each placeholder kind to its marker symbol. Use Default, New or
// FromSymbols to build one; the zero value is not usable.
type Grammar struct {
	markers [kindCount]rune
	parser  *participle.Parser[templateAST]
}

var defaultGrammar = mustNew('%', '@', '~', '&')

// Default returns the "% @ ~ &" alphabet.
func Default() Grammar {
	return defaultGrammar
}

func New(generic, entity, alias, intent rune) (Grammar, error) {
	markers := [kindCount]rune{generic, entity, alias, intent}

	seen := make(map[rune]Kind, kindCount)
	for kind, marker := range markers {
		if err := validateMarker(marker); err != nil {
			return Grammar{}, fmt.Errorf("%w: %s marker: %w", ErrInvalidGrammar, Kind(kind), err)
		}
		if other, dup := seen[marker]; dup {
			return Grammar{}, fmt.Errorf("%w: %s and %s markers are both '%c'", ErrInvalidGrammar, other, Kind(kind), marker)
		}
		seen[marker] = Kind(kind)
	}

	parser, err := buildParser(markers[:])
	if err != nil {
		return Grammar{}, fmt.Errorf("%w: %w", ErrInvalidGrammar, err)
	}

	return Grammar{markers: markers, parser: parser}, nil
}

func mustNew(generic, entity, alias, intent rune) Grammar {
	g, err := New(generic, entity, alias, intent)
	if err != nil {
		panic(err)
	}
	return g
}

// FromSymbols builds a grammar from the positional form
// [generic, entity, alias, intent], each a single character.
func FromSymbols(symbols []string) (Grammar, error) {
	if len(symbols) != int(kindCount) {
		return Grammar{}, fmt.Errorf("%w: expected %d symbols, got %d", ErrInvalidGrammar, kindCount, len(symbols))
	}

	var markers [kindCount]rune
	for i, symbol := range symbols {
		r, size := utf8.DecodeRuneInString(symbol)
		if size == 0 || size != len(symbol) || r == utf8.RuneError {
			return Grammar{}, fmt.Errorf("%w: symbol '%s' must be exactly one character", ErrInvalidGrammar, symbol)
		}
		markers[i] = r
	}

	return New(markers[0], markers[1], markers[2], markers[3])
}

func validateMarker(r rune) error {
	switch {
	case r == '[' || r == ']':
		return fmt.Errorf("brackets are reserved for placeholder names")
	case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
		return fmt.Errorf("'%c' can appear in placeholder names", r)
	case unicode.IsSpace(r) || unicode.IsControl(r):
		return fmt.Errorf("whitespace and control characters are not allowed")
	}
	return nil
}

// IsZero reports whether g is the unusable zero value.
func (g Grammar) IsZero() bool {
	return g.parser == nil
}

func (g Grammar) Marker(k Kind) rune {
	return g.markers[k]
}

func (g Grammar) Symbols() []string {
	symbols := make([]string, 0, kindCount)
	for _, m := range g.markers {
		symbols = append(symbols, string(m))
	}
	return symbols
}

// KindOf reports the kind of a placeholder token from its leading marker.
func (g Grammar) KindOf(token string) (Kind, bool) {
	r, _ := utf8.DecodeRuneInString(token)
	for kind, marker := range g.markers {
		if marker == r {
			return Kind(kind), true
		}
	}
	return Generic, false
}

func (g Grammar) FlatFormat(k Kind) FlatFormat {
	if k == Entity {
		return TaggedSpan
	}
	return BareValue
}

// Strip removes marker symbols and brackets from both ends of s, turning
// "@[color]" into "color".
func (g Grammar) Strip(s string) string {
	return strings.Trim(s, "[]"+string(g.markers[:]))
}

func (g Grammar) String() string {
	return strings.Join(g.Symbols(), " ")
}
