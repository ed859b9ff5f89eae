package analyzer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testforge-hq/testforge/pkg/model"
)

func TestAnalyzePage(t *testing.T) {
	elements, err := AnalyzePage("https://example.com/login")
	require.NoError(t, err)
	require.NotEmpty(t, elements)

	types := make(map[model.ElementType]int)
	for _, el := range elements {
		assert.NotEmpty(t, el.Identifier)
		types[el.Type]++
	}
	assert.Equal(t, 1, types[model.ElementForm])
	assert.Equal(t, 1, types[model.ElementButton])
	assert.Equal(t, 2, types[model.ElementInput])
	assert.Equal(t, 2, types[model.ElementLink])
}

func TestAnalyzePage_Deterministic(t *testing.T) {
	first, err := AnalyzePage("https://example.com")
	require.NoError(t, err)
	second, err := AnalyzePage("https://example.com")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyzePage_EmptyIdentifier(t *testing.T) {
	for _, input := range []string{"", "  "} {
		_, err := AnalyzePage(input)
		require.Error(t, err)

		var invalid *InvalidInputError
		assert.True(t, errors.As(err, &invalid))
	}
}
