package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aphorium/aphorium/core"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func indexQuote(t *testing.T, idx *Index, id core.ID, text string, lang core.Language) {
	t.Helper()
	require.NoError(t, idx.IndexQuote(&core.Quote{Id: id, Text: text, Language: lang}))
}

func TestSearchByLanguage(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	indexQuote(t, idx, 1, "The only way to do great work is to love what you do.", core.LanguageEN)
	indexQuote(t, idx, 2, "Be yourself; everyone else is already taken.", core.LanguageEN)
	indexQuote(t, idx, 3, "Единственный способ делать великие дела - любить то, что вы делаете.", core.LanguageRU)

	t.Run("english query finds english quote", func(t *testing.T) {
		hits, err := idx.Search(ctx, "great work", core.LanguageEN, 10)
		require.NoError(t, err)
		require.NotEmpty(t, hits)
		assert.Equal(t, core.ID(1), hits[0].Id)
		assert.Greater(t, hits[0].Score, 0.0)
	})

	t.Run("language filter excludes other language", func(t *testing.T) {
		hits, err := idx.Search(ctx, "great work", core.LanguageRU, 10)
		require.NoError(t, err)
		for _, h := range hits {
			assert.NotEqual(t, core.ID(1), h.Id)
		}
	})

	t.Run("russian query finds russian quote", func(t *testing.T) {
		hits, err := idx.Search(ctx, "великие дела", core.LanguageRU, 10)
		require.NoError(t, err)
		require.NotEmpty(t, hits)
		assert.Equal(t, core.ID(3), hits[0].Id)
	})
}

func TestSearchStemming(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	indexQuote(t, idx, 7, "Loving deeply gives you courage beyond measure.", core.LanguageEN)

	hits, err := idx.Search(ctx, "loved", core.LanguageEN, 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, core.ID(7), hits[0].Id)
}

func TestDeleteQuote(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	indexQuote(t, idx, 5, "Experience is simply the name we give our mistakes.", core.LanguageEN)

	require.NoError(t, idx.DeleteQuote(5))

	hits, err := idx.Search(ctx, "experience mistakes", core.LanguageEN, 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	// Deleting an unknown quote is not an error
	assert.NoError(t, idx.DeleteQuote(999))
}

func TestSearchLimit(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	indexQuote(t, idx, 1, "Wisdom begins in wonder, said the philosopher.", core.LanguageEN)
	indexQuote(t, idx, 2, "Wonder is the beginning of wisdom for everyone.", core.LanguageEN)
	indexQuote(t, idx, 3, "All wisdom and all wonder come from questions.", core.LanguageEN)

	hits, err := idx.Search(ctx, "wisdom wonder", core.LanguageEN, 2)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(hits), 2)
}
