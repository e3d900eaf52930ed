package cmd

import (
	"testing"

	"xwords/internal/core/grammar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGrammar(t *testing.T) {
	g, err := ParseGrammar("")
	require.NoError(t, err)
	assert.Equal(t, grammar.Default().Symbols(), g.Symbols())

	g, err = ParseGrammar("$#!?")
	require.NoError(t, err)
	assert.Equal(t, []string{"$", "#", "!", "?"}, g.Symbols())

	_, err = ParseGrammar("%@~")
	assert.ErrorIs(t, err, grammar.ErrInvalidGrammar)

	_, err = ParseGrammar("%@@&")
	assert.ErrorIs(t, err, grammar.ErrInvalidGrammar)
}
