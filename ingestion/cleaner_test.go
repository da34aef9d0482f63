package ingestion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aphorium/aphorium/core"
	"github.com/aphorium/aphorium/storage"
)

func newTestCleaner(t *testing.T) (*Cleaner, storage.Repositories) {
	t.Helper()

	repos, idx := newTestStores(t)
	c, err := NewCleaner(repos, idx)
	require.NoError(t, err)

	return c, repos
}

func storeQuote(t *testing.T, repos storage.Repositories, text string, lang core.Language) *core.Quote {
	t.Helper()

	quote, _, err := repos.CreateQuote(context.Background(), &core.Quote{
		Text:     text,
		Language: lang,
		AuthorId: 1,
	})
	require.NoError(t, err)
	return quote
}

func TestCleanerRewritesCitationSuffix(t *testing.T) {
	c, repos := newTestCleaner(t)
	ctx := context.Background()

	quote := storeQuote(t, repos,
		"He who can, does. He who cannot, teaches, Man and Superman (1903), p. 230.",
		core.LanguageEN)

	stats, err := c.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Examined)
	assert.Equal(t, 1, stats.Rewritten)
	assert.Equal(t, 0, stats.Deleted)

	got, err := repos.GetQuote(ctx, quote.Id)
	require.NoError(t, err)
	assert.Equal(t, "He who can, does. He who cannot, teaches", got.Text)
}

func TestCleanerDeletesNoise(t *testing.T) {
	c, repos := newTestCleaner(t)
	ctx := context.Background()

	kept := storeQuote(t, repos,
		"The only way to do great work is to love what you do.",
		core.LanguageEN)
	noise := storeQuote(t, repos,
		"↑ Quoted in The Times, interview given in London by the author.",
		core.LanguageEN)
	counterpart := storeQuote(t, repos,
		"Какая-то русская цитата, связанная ссылкой с удаляемой записью.",
		core.LanguageRU)

	_, err := repos.AddLink(ctx, &core.TranslationLink{
		QuoteId:           noise.Id,
		TranslatedQuoteId: counterpart.Id,
		Confidence:        60,
		Strategy:          core.StrategySimilarity,
	})
	require.NoError(t, err)

	stats, err := c.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Examined)
	assert.Equal(t, 1, stats.Deleted)

	_, err = repos.GetQuote(ctx, noise.Id)
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	_, err = repos.GetQuote(ctx, kept.Id)
	assert.NoError(t, err)

	links, err := repos.LinksForQuote(ctx, counterpart.Id)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestCleanerKeepsGroupedQuotes(t *testing.T) {
	c, repos := newTestCleaner(t)
	ctx := context.Background()

	noise := storeQuote(t, repos,
		"↑ Quoted in The Times, interview given in London by the author.",
		core.LanguageEN)

	groupId, err := repos.NextGroupID(ctx)
	require.NoError(t, err)
	require.NoError(t, repos.SetBilingualGroup(ctx, groupId, noise.Id))

	stats, err := c.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Deleted)
	assert.Equal(t, 1, stats.Kept)

	_, err = repos.GetQuote(ctx, noise.Id)
	assert.NoError(t, err)
}

func TestCleanerLeavesCleanCorpusAlone(t *testing.T) {
	c, repos := newTestCleaner(t)
	ctx := context.Background()

	storeQuote(t, repos,
		"The only way to do great work is to love what you do.",
		core.LanguageEN)

	stats, err := c.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Examined)
	assert.Equal(t, 0, stats.Rewritten)
	assert.Equal(t, 0, stats.Deleted)
	assert.Equal(t, 0, stats.Kept)
}
