package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordlookup/internal/domain"
)

func TestNewDefinitions(t *testing.T) {
	t.Parallel()

	defs := NewDefinitions([]domain.WordEntry{
		{Word: "run", WordType: "verb", Definition: "to move fast"},
		{Word: "run", WordType: "noun", Definition: "an act of running"},
	})
	require.Len(t, defs, 2)
	assert.Equal(t, "verb", defs[0].Wordtype)
	assert.Equal(t, "an act of running", defs[1].Definition)

	empty := NewDefinitions(nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
