package types_test

import (
	"testing"

	"xwords/internal/core/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListsKeepDefinitionOrder(t *testing.T) {
	lists := types.NewLists(
		types.ValueList{Key: "@[b]", Values: []string{"1"}},
		types.ValueList{Key: "@[a]", Values: []string{"2"}},
	)
	lists.Set("@[b]", []string{"3", "4"})

	assert.Equal(t, []string{"@[b]", "@[a]"}, lists.Keys())

	values, ok := lists.Get("@[b]")
	require.True(t, ok)
	assert.Equal(t, []string{"3", "4"}, values)

	_, ok = lists.Get("@[missing]")
	assert.False(t, ok)
}

func TestListsMergeCollision(t *testing.T) {
	entities := types.NewLists(types.ValueList{Key: "@[x]", Values: []string{"e"}})
	aliases := types.NewLists(
		types.ValueList{Key: "~[y]", Values: []string{"a"}},
		types.ValueList{Key: "@[x]", Values: []string{"alias"}},
	)

	_, err := entities.Merge(aliases, false)
	var collision *types.KeyCollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "@[x]", collision.Key)

	merged, err := entities.Merge(aliases, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"@[x]", "~[y]"}, merged.Keys())
	values, _ := merged.Get("@[x]")
	assert.Equal(t, []string{"alias"}, values)

	// the inputs are left untouched
	values, _ = entities.Get("@[x]")
	assert.Equal(t, []string{"e"}, values)
}

func TestNilLists(t *testing.T) {
	var lists *types.Lists
	assert.Equal(t, 0, lists.Len())
	assert.False(t, lists.Has("@[x]"))
	assert.Empty(t, lists.All())
}
