package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aphorium/aphorium/core"
	"github.com/aphorium/aphorium/index"
	"github.com/aphorium/aphorium/storage"
	"github.com/aphorium/aphorium/storage/badger"
	"github.com/aphorium/aphorium/translate"
)

// mapProvider translates by exact lookup; unknown text fails.
type mapProvider struct {
	translations map[string]string
}

func (m *mapProvider) Name() string { return "map" }

func (m *mapProvider) Translate(ctx context.Context, text string, from, to core.Language) (string, error) {
	if out, ok := m.translations[text]; ok {
		return out, nil
	}
	return "", translate.ErrProviderUnavailable
}

type fixture struct {
	searcher *Searcher
	repos    storage.Repositories
	index    *index.Index
}

func newFixture(t *testing.T, translations map[string]string) *fixture {
	t.Helper()

	repos, _, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, repos.Close())
	})

	idx, err := index.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, idx.Close())
	})

	svc := translate.NewService([]translate.Provider{&mapProvider{translations: translations}})

	searcher, err := NewSearcher(repos, idx, svc)
	require.NoError(t, err)

	return &fixture{searcher: searcher, repos: repos, index: idx}
}

func (f *fixture) addQuote(t *testing.T, text string, lang core.Language) *core.Quote {
	t.Helper()

	quote, _, err := f.repos.CreateQuote(context.Background(), &core.Quote{
		Text:     text,
		Language: lang,
		AuthorId: 1,
	})
	require.NoError(t, err)
	require.NoError(t, f.index.IndexQuote(quote))
	return quote
}

func (f *fixture) group(t *testing.T, quotes ...*core.Quote) {
	t.Helper()
	ctx := context.Background()

	groupId, err := f.repos.NextGroupID(ctx)
	require.NoError(t, err)

	ids := make([]core.ID, len(quotes))
	for i, q := range quotes {
		ids[i] = q.Id
	}
	require.NoError(t, f.repos.SetBilingualGroup(ctx, groupId, ids...))
}

func TestSearchBothLanguagesDirectHits(t *testing.T) {
	f := newFixture(t, map[string]string{"wisdom": "мудрость"})

	en := f.addQuote(t, "Wisdom begins in wonder, as the old philosophers said.", core.LanguageEN)
	ru := f.addQuote(t, "Мудрость начинается с удивления, говорили философы.", core.LanguageRU)
	f.group(t, en, ru)

	pairs, err := f.searcher.Search(context.Background(), Query{Text: "wisdom"})
	require.NoError(t, err)
	require.Len(t, pairs, 1)

	assert.Equal(t, en.Id, pairs[0].English.Id)
	assert.Equal(t, ru.Id, pairs[0].Russian.Id)
	assert.False(t, pairs[0].IsTranslated, "both sides matched directly")
	assert.Greater(t, pairs[0].Score, 0.0)
}

func TestSearchCounterpartViaGroupOnly(t *testing.T) {
	f := newFixture(t, map[string]string{"wonder": "удивление"})

	en := f.addQuote(t, "Wisdom begins in wonder, as the old philosophers said.", core.LanguageEN)
	// Counterpart shares the group but not the query terms
	ru := f.addQuote(t, "Познание стартует с изумления, повторяли мыслители.", core.LanguageRU)
	f.group(t, en, ru)

	pairs, err := f.searcher.Search(context.Background(), Query{Text: "wonder"})
	require.NoError(t, err)
	require.Len(t, pairs, 1)

	assert.Equal(t, en.Id, pairs[0].English.Id)
	require.NotNil(t, pairs[0].Russian)
	assert.Equal(t, ru.Id, pairs[0].Russian.Id)
	assert.True(t, pairs[0].IsTranslated, "counterpart present only through the group link")
}

func TestSearchTranslationDown(t *testing.T) {
	f := newFixture(t, nil)

	f.addQuote(t, "Wisdom begins in wonder, as the old philosophers said.", core.LanguageEN)
	ru := f.addQuote(t, "Мудрость начинается с удивления, говорили философы.", core.LanguageRU)

	pairs, err := f.searcher.Search(context.Background(), Query{Text: "мудрость"})
	require.NoError(t, err)
	require.Len(t, pairs, 1)

	assert.Nil(t, pairs[0].English)
	assert.Equal(t, ru.Id, pairs[0].Russian.Id)
}

func TestSearchSingleLanguage(t *testing.T) {
	f := newFixture(t, map[string]string{"wisdom": "мудрость"})

	en := f.addQuote(t, "Wisdom begins in wonder, as the old philosophers said.", core.LanguageEN)
	f.addQuote(t, "Мудрость начинается с удивления, говорили философы.", core.LanguageRU)

	pairs, err := f.searcher.Search(context.Background(), Query{Text: "wisdom", Language: "en"})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, en.Id, pairs[0].English.Id)
	assert.Nil(t, pairs[0].Russian)
}

func TestSearchPreferBilingual(t *testing.T) {
	f := newFixture(t, nil)

	single := f.addQuote(t, "Wisdom is knowing what to do next, wisdom put to use.", core.LanguageEN)
	en := f.addQuote(t, "Wisdom begins in wonder, as the old philosophers said.", core.LanguageEN)
	ru := f.addQuote(t, "Мудрость начинается с удивления, говорили философы.", core.LanguageRU)
	f.group(t, en, ru)

	pairs, err := f.searcher.Search(context.Background(), Query{
		Text:            "wisdom",
		Language:        "en",
		PreferBilingual: true,
	})
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	assert.Equal(t, en.Id, pairs[0].English.Id)
	require.NotNil(t, pairs[0].Russian)
	assert.Equal(t, single.Id, pairs[1].English.Id)
	assert.Nil(t, pairs[1].Russian)
}

func TestSearchLimit(t *testing.T) {
	f := newFixture(t, nil)

	texts := []string{
		"Wisdom begins in wonder, as the old philosophers said.",
		"Wisdom is knowing what to do next, wisdom put to use.",
		"The price of wisdom is above rubies and beyond gold.",
	}
	for _, text := range texts {
		f.addQuote(t, text, core.LanguageEN)
	}

	pairs, err := f.searcher.Search(context.Background(), Query{
		Text:     "wisdom",
		Language: "en",
		Limit:    2,
	})
	require.NoError(t, err)
	assert.Len(t, pairs, 2)
}

func TestSearchTiedScoresOrderById(t *testing.T) {
	f := newFixture(t, nil)

	// Identical text under two authors: distinct rows, identical relevance.
	const text = "Wisdom begins in wonder, as the old philosophers said."
	quote1, _, err := f.repos.CreateQuote(context.Background(), &core.Quote{
		Text:     text,
		Language: core.LanguageEN,
		AuthorId: 1,
	})
	require.NoError(t, err)
	require.NoError(t, f.index.IndexQuote(quote1))

	quote2, _, err := f.repos.CreateQuote(context.Background(), &core.Quote{
		Text:     text,
		Language: core.LanguageEN,
		AuthorId: 2,
	})
	require.NoError(t, err)
	require.NoError(t, f.index.IndexQuote(quote2))

	lower, higher := quote1.Id, quote2.Id
	if higher < lower {
		lower, higher = higher, lower
	}

	for run := 0; run < 5; run++ {
		pairs, err := f.searcher.Search(context.Background(), Query{Text: "wisdom", Language: "en"})
		require.NoError(t, err)
		require.Len(t, pairs, 2)

		assert.Equal(t, pairs[0].Score, pairs[1].Score)
		assert.Equal(t, lower, pairs[0].PrimaryId())
		assert.Equal(t, higher, pairs[1].PrimaryId())
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	f := newFixture(t, nil)

	pairs, err := f.searcher.Search(context.Background(), Query{Text: "   "})
	require.NoError(t, err)
	assert.Empty(t, pairs)
}
