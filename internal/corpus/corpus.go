package corpus

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"xwords/internal/core/grammar"
	"xwords/internal/core/types"
	"xwords/internal/storage"
)

// Corpus is the content of a config file: intent templates plus the entity and
// alias value lists they reference.
type Corpus struct {
	Intents  []string
	Entities *types.Lists
	Aliases  *types.Lists
}

type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// FormatOf picks the config format from a file name.
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

var paragraphSep = regexp.MustCompile(`\n{2,}`)

// ParseParagraphs splits a text config into paragraphs separated by blank
// lines. Leading spaces and tabs are removed from every line, and empty lines
// and paragraphs are dropped.
func ParseParagraphs(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimRightFunc(text, unicode.IsSpace)

	var paragraphs [][]string
	for _, p := range paragraphSep.Split(text, -1) {
		var lines []string
		for _, line := range strings.Split(p, "\n") {
			line = strings.TrimLeft(line, " \t")
			if strings.TrimSpace(line) == "" {
				continue
			}
			lines = append(lines, line)
		}
		if len(lines) > 0 {
			paragraphs = append(paragraphs, lines)
		}
	}
	return paragraphs, nil
}

// Classify sorts paragraphs by the first character of their first line: the
// entity marker starts an entity list, the alias marker an alias list, and any
// other paragraph is a block of intent templates.
func Classify(paragraphs [][]string, g grammar.Grammar) Corpus {
	c := Corpus{Entities: types.NewLists(), Aliases: types.NewLists()}

	for _, p := range paragraphs {
		if len(p) == 0 {
			continue
		}
		head := p[0]
		kind, ok := g.KindOf(head)
		switch {
		case ok && kind == grammar.Entity:
			setList(c.Entities, "entity", head, p[1:])
		case ok && kind == grammar.Alias:
			setList(c.Aliases, "alias", head, p[1:])
		default:
			c.Intents = append(c.Intents, p...)
		}
	}

	return c
}

func setList(lists *types.Lists, kind, key string, values []string) {
	if lists.Has(key) {
		slog.Warn("value list defined more than once, keeping the last definition", "kind", kind, "key", key)
	}
	lists.Set(key, values)
}

// Read parses a config in the given format.
func Read(r io.Reader, format Format, g grammar.Grammar) (Corpus, error) {
	if format == FormatYAML {
		return readYAML(r)
	}

	paragraphs, err := ParseParagraphs(r)
	if err != nil {
		return Corpus{}, err
	}
	return Classify(paragraphs, g), nil
}

func LoadFile(path string, g grammar.Grammar) (Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return Corpus{}, fmt.Errorf("error opening config file: %w", err)
	}
	defer f.Close()

	c, err := Read(f, FormatOf(path), g)
	if err != nil {
		return Corpus{}, fmt.Errorf("error loading config '%s': %w", path, err)
	}

	slog.Info("loaded config", "path", path, "intents", len(c.Intents), "entities", c.Entities.Len(), "aliases", c.Aliases.Len())
	return c, nil
}

// Load reads a config object from an object store.
func Load(ctx context.Context, store storage.ObjectStore, key string, g grammar.Grammar) (Corpus, error) {
	data, err := store.GetObject(ctx, key)
	if err != nil {
		return Corpus{}, fmt.Errorf("error downloading config: %w", err)
	}

	c, err := Read(bytes.NewReader(data), FormatOf(key), g)
	if err != nil {
		return Corpus{}, fmt.Errorf("error loading config '%s': %w", key, err)
	}
	return c, nil
}
