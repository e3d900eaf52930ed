package corpus

import (
	"errors"
	"fmt"
	"io"

	"xwords/internal/core/types"

	"gopkg.in/yaml.v2"
)

// yamlConfig is the YAML form of a config. Mappings are read as MapSlice so
// that value lists keep the order they are written in. Keys starting with a
// YAML indicator such as '@' or '&' must be quoted.
type yamlConfig struct {
	Intents  []string      `yaml:"intents"`
	Entities yaml.MapSlice `yaml:"entities"`
	Aliases  yaml.MapSlice `yaml:"aliases"`
}

func readYAML(r io.Reader) (Corpus, error) {
	var cfg yamlConfig

	decoder := yaml.NewDecoder(r)
	decoder.SetStrict(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Corpus{}, fmt.Errorf("error decoding yaml config: %w", err)
	}

	entities, err := yamlLists("entity", cfg.Entities)
	if err != nil {
		return Corpus{}, err
	}
	aliases, err := yamlLists("alias", cfg.Aliases)
	if err != nil {
		return Corpus{}, err
	}

	return Corpus{Intents: cfg.Intents, Entities: entities, Aliases: aliases}, nil
}

func yamlLists(kind string, items yaml.MapSlice) (*types.Lists, error) {
	lists := types.NewLists()

	for _, item := range items {
		key, ok := item.Key.(string)
		if !ok {
			return nil, fmt.Errorf("%s key '%v' must be a string", kind, item.Key)
		}

		var values []string
		switch raw := item.Value.(type) {
		case nil:
		case []interface{}:
			values = make([]string, 0, len(raw))
			for _, v := range raw {
				values = append(values, fmt.Sprint(v))
			}
		default:
			return nil, fmt.Errorf("%s '%s' must be a list of values", kind, key)
		}

		setList(lists, kind, key, values)
	}

	return lists, nil
}
