package linker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aphorium/aphorium/core"
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

func newTestLinker(t *testing.T, translations map[string]string) (*Linker, storage.Repositories) {
	t.Helper()

	repos, _, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, repos.Close())
	})

	svc := translate.NewService([]translate.Provider{&mapProvider{translations: translations}})

	l, err := New(repos, svc, WithPoolSize(2))
	require.NoError(t, err)
	t.Cleanup(l.Release)

	return l, repos
}

func createAuthor(t *testing.T, repos storage.Repositories, name string, lang core.Language) core.ID {
	t.Helper()

	author, err := repos.GetOrCreateAuthor(context.Background(), &core.Author{Name: name, Language: lang})
	require.NoError(t, err)
	return author.Id
}

func createQuote(t *testing.T, repos storage.Repositories, text string, lang core.Language, authorId core.ID) *core.Quote {
	t.Helper()

	quote, _, err := repos.CreateQuote(context.Background(), &core.Quote{
		Text:     text,
		Language: lang,
		AuthorId: authorId,
	})
	require.NoError(t, err)
	return quote
}

func createSource(t *testing.T, repos storage.Repositories, title string, lang core.Language) core.ID {
	t.Helper()

	source, err := repos.GetOrCreateSource(context.Background(), &core.Source{Title: title, Language: lang})
	require.NoError(t, err)
	return source.Id
}

func createSourcedQuote(t *testing.T, repos storage.Repositories, text string, lang core.Language, authorId, sourceId core.ID) *core.Quote {
	t.Helper()

	quote, _, err := repos.CreateQuote(context.Background(), &core.Quote{
		Text:     text,
		Language: lang,
		AuthorId: authorId,
		SourceId: sourceId,
	})
	require.NoError(t, err)
	return quote
}

const (
	englishQuote = "In the middle of difficulty lies opportunity."
	russianQuote = "Посреди трудностей лежит возможность."
)

func TestLinkAuthorCreatesGroupAndLink(t *testing.T) {
	l, repos := newTestLinker(t, map[string]string{
		russianQuote: englishQuote,
	})
	ctx := context.Background()

	authorId := createAuthor(t, repos, "Пушкин", core.LanguageRU)
	en := createQuote(t, repos, englishQuote, core.LanguageEN, authorId)
	ru := createQuote(t, repos, russianQuote, core.LanguageRU, authorId)

	stats, err := l.LinkAuthor(ctx, authorId)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.AuthorsProcessed)
	assert.Equal(t, 1, stats.LinksCreated)
	assert.Equal(t, 1, stats.GroupsCreated)
	assert.Equal(t, 0, stats.GroupsReused)

	gotEN, err := repos.GetQuote(ctx, en.Id)
	require.NoError(t, err)
	gotRU, err := repos.GetQuote(ctx, ru.Id)
	require.NoError(t, err)
	assert.NotZero(t, gotEN.BilingualGroupId)
	assert.Equal(t, gotEN.BilingualGroupId, gotRU.BilingualGroupId)

	links, err := repos.LinksForQuote(ctx, en.Id)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, en.Id, links[0].QuoteId)
	assert.Equal(t, ru.Id, links[0].TranslatedQuoteId)
	assert.Equal(t, core.StrategySimilarity, links[0].Strategy)
	assert.GreaterOrEqual(t, links[0].Confidence, 50)
}

func TestLinkAuthorIdempotent(t *testing.T) {
	l, repos := newTestLinker(t, map[string]string{
		russianQuote: englishQuote,
	})
	ctx := context.Background()

	authorId := createAuthor(t, repos, "Пушкин", core.LanguageRU)
	en := createQuote(t, repos, englishQuote, core.LanguageEN, authorId)
	createQuote(t, repos, russianQuote, core.LanguageRU, authorId)

	_, err := l.LinkAuthor(ctx, authorId)
	require.NoError(t, err)

	first, err := repos.GetQuote(ctx, en.Id)
	require.NoError(t, err)

	stats, err := l.LinkAuthor(ctx, authorId)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.LinksCreated)
	assert.Equal(t, 0, stats.GroupsCreated)
	assert.Equal(t, 0, stats.GroupsReused)

	second, err := repos.GetQuote(ctx, en.Id)
	require.NoError(t, err)
	assert.Equal(t, first.BilingualGroupId, second.BilingualGroupId)

	links, err := repos.LinksForQuote(ctx, en.Id)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}

func TestLinkAuthorBelowThreshold(t *testing.T) {
	l, repos := newTestLinker(t, map[string]string{
		"Краткость — сестра таланта.": "Brevity is the sister of talent.",
	})
	ctx := context.Background()

	authorId := createAuthor(t, repos, "Чехов", core.LanguageRU)
	en := createQuote(t, repos, englishQuote, core.LanguageEN, authorId)
	createQuote(t, repos, "Краткость — сестра таланта.", core.LanguageRU, authorId)

	stats, err := l.LinkAuthor(ctx, authorId)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.LinksCreated)
	assert.Equal(t, 0, stats.GroupsCreated)

	got, err := repos.GetQuote(ctx, en.Id)
	require.NoError(t, err)
	assert.Zero(t, got.BilingualGroupId)
}

func TestLinkAuthorSourceMatch(t *testing.T) {
	// Enough shared stems for the overlap cutoff but spread over long texts,
	// so the similarity confidence is too low; the shared source decides.
	const (
		englishLong = "Great difficulty hides great opportunity beneath winter snow when patient climbers cross silent mountains."
		russianLong = "Великая трудность скрывает великую возможность под зимним снегом."
		translated  = "Great difficulty hides great opportunity under the frozen river where tired sailors wait through quiet evenings."
	)
	l, repos := newTestLinker(t, map[string]string{
		russianLong: translated,
	})
	ctx := context.Background()

	authorId := createAuthor(t, repos, "Толстой", core.LanguageRU)
	sourceId := createSource(t, repos, "Война и мир", core.LanguageRU)
	en := createSourcedQuote(t, repos, englishLong, core.LanguageEN, authorId, sourceId)
	ru := createSourcedQuote(t, repos, russianLong, core.LanguageRU, authorId, sourceId)

	stats, err := l.LinkAuthor(ctx, authorId)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.LinksCreated)
	assert.Equal(t, 1, stats.GroupsCreated)

	gotEN, err := repos.GetQuote(ctx, en.Id)
	require.NoError(t, err)
	gotRU, err := repos.GetQuote(ctx, ru.Id)
	require.NoError(t, err)
	assert.NotZero(t, gotEN.BilingualGroupId)
	assert.Equal(t, gotEN.BilingualGroupId, gotRU.BilingualGroupId)

	links, err := repos.LinksForQuote(ctx, en.Id)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, core.StrategySourceMatch, links[0].Strategy)
	assert.Equal(t, 70, links[0].Confidence)
}

func TestLinkAuthorSourceMatchNeedsSharedSource(t *testing.T) {
	const (
		englishLong = "Great difficulty hides great opportunity beneath winter snow when patient climbers cross silent mountains."
		russianLong = "Великая трудность скрывает великую возможность под зимним снегом."
		translated  = "Great difficulty hides great opportunity under the frozen river where tired sailors wait through quiet evenings."
	)
	l, repos := newTestLinker(t, map[string]string{
		russianLong: translated,
	})
	ctx := context.Background()

	authorId := createAuthor(t, repos, "Толстой", core.LanguageRU)
	enSource := createSource(t, repos, "War and Peace", core.LanguageEN)
	ruSource := createSource(t, repos, "Анна Каренина", core.LanguageRU)
	en := createSourcedQuote(t, repos, englishLong, core.LanguageEN, authorId, enSource)
	createSourcedQuote(t, repos, russianLong, core.LanguageRU, authorId, ruSource)

	stats, err := l.LinkAuthor(ctx, authorId)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.LinksCreated)

	got, err := repos.GetQuote(ctx, en.Id)
	require.NoError(t, err)
	assert.Zero(t, got.BilingualGroupId)
}

func TestLinkAuthorSingleLanguage(t *testing.T) {
	l, repos := newTestLinker(t, nil)
	ctx := context.Background()

	authorId := createAuthor(t, repos, "Оруэлл", core.LanguageRU)
	createQuote(t, repos, englishQuote, core.LanguageEN, authorId)

	stats, err := l.LinkAuthor(ctx, authorId)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.AuthorsProcessed)
	assert.Equal(t, 0, stats.LinksCreated)
	assert.Equal(t, 0, stats.GroupsCreated)
}

func TestLinkAll(t *testing.T) {
	const (
		englishSecond = "The unexamined life is not worth living for anyone."
		russianSecond = "Неисследованная жизнь не стоит того, чтобы жить."
	)
	l, repos := newTestLinker(t, map[string]string{
		russianQuote:  englishQuote,
		russianSecond: englishSecond,
	})
	ctx := context.Background()

	first := createAuthor(t, repos, "Пушкин", core.LanguageRU)
	createQuote(t, repos, englishQuote, core.LanguageEN, first)
	createQuote(t, repos, russianQuote, core.LanguageRU, first)

	second := createAuthor(t, repos, "Сократ", core.LanguageRU)
	createQuote(t, repos, englishSecond, core.LanguageEN, second)
	createQuote(t, repos, russianSecond, core.LanguageRU, second)

	stats, err := l.LinkAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.AuthorsProcessed)
	assert.Equal(t, 0, stats.AuthorsSkipped)
	assert.Equal(t, 2, stats.LinksCreated)
	assert.Equal(t, 2, stats.GroupsCreated)
}

func TestLinkAllNoBilingualAuthors(t *testing.T) {
	l, repos := newTestLinker(t, nil)

	authorId := createAuthor(t, repos, "Твен", core.LanguageEN)
	createQuote(t, repos, englishQuote, core.LanguageEN, authorId)

	stats, err := l.LinkAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.AuthorsProcessed)
}

func TestOverlapScore(t *testing.T) {
	tests := []struct {
		name       string
		a, b       []string
		overlap    int
		confidence int
	}{
		{"identical", []string{"middl", "difficulti", "lie", "opportun"}, []string{"middl", "difficulti", "lie", "opportun"}, 4, 100},
		{"half", []string{"middl", "difficulti", "lie", "opportun"}, []string{"middl", "difficulti", "life", "chanc"}, 2, 50},
		{"disjoint", []string{"brevi", "sister"}, []string{"middl", "lie"}, 0, 0},
		{"empty", nil, []string{"middl"}, 0, 0},
		{"subset", []string{"middl", "lie"}, []string{"middl", "lie", "opportun", "difficulti"}, 2, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overlap, confidence := overlapScore(tt.a, tt.b)
			assert.Equal(t, tt.overlap, overlap)
			assert.Equal(t, tt.confidence, confidence)
		})
	}
}

func TestUnionFindClusters(t *testing.T) {
	uf := newUnionFind()
	for id := core.ID(1); id <= 6; id++ {
		uf.add(id)
	}
	uf.union(3, 1)
	uf.union(1, 5)
	uf.union(2, 4)

	clusters := uf.clusters()
	require.Len(t, clusters, 2)
	assert.Equal(t, []core.ID{1, 3, 5}, clusters[0])
	assert.Equal(t, []core.ID{2, 4}, clusters[1])
}
