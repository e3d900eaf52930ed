package types

import (
	"fmt"
	"log/slog"
)

// ValueList is one named list of substitution values, keyed by the full
// placeholder token, e.g. "@[color]".
type ValueList struct {
	Key    string
	Values []string
}

// Lists is an ordered collection of value lists. Keys keep the position of
// their first definition.
type Lists struct {
	keys   []string
	values map[string][]string
}

func NewLists(lists ...ValueList) *Lists {
	l := &Lists{values: make(map[string][]string, len(lists))}
	for _, list := range lists {
		l.Set(list.Key, list.Values)
	}
	return l
}

// Set defines the values for key. Redefining a key replaces its values but
// keeps its original position.
func (l *Lists) Set(key string, values []string) {
	if l.values == nil {
		l.values = make(map[string][]string)
	}
	if _, exists := l.values[key]; !exists {
		l.keys = append(l.keys, key)
	}
	l.values[key] = values
}

func (l *Lists) Get(key string) ([]string, bool) {
	if l == nil {
		return nil, false
	}
	values, ok := l.values[key]
	return values, ok
}

func (l *Lists) Has(key string) bool {
	_, ok := l.Get(key)
	return ok
}

func (l *Lists) Keys() []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), l.keys...)
}

func (l *Lists) Len() int {
	if l == nil {
		return 0
	}
	return len(l.keys)
}

func (l *Lists) All() []ValueList {
	if l == nil {
		return nil
	}
	out := make([]ValueList, 0, len(l.keys))
	for _, key := range l.keys {
		out = append(out, ValueList{Key: key, Values: l.values[key]})
	}
	return out
}

// Merge returns a new collection holding l followed by other. When a key is
// defined in both, the call fails with a KeyCollisionError unless override is
// set, in which case the definition from other wins.
func (l *Lists) Merge(other *Lists, override bool) (*Lists, error) {
	merged := NewLists(l.All()...)
	for _, list := range other.All() {
		if merged.Has(list.Key) {
			if !override {
				return nil, &KeyCollisionError{Key: list.Key}
			}
			slog.Warn("value list redefined, later definition wins", "key", list.Key)
		}
		merged.Set(list.Key, list.Values)
	}
	return merged, nil
}

type KeyCollisionError struct {
	Key string
}

func (e *KeyCollisionError) Error() string {
	return fmt.Sprintf("value list '%s' is defined both as an entity and as an alias", e.Key)
}
