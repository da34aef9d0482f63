package ingestion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aphorium/aphorium/core"
	"github.com/aphorium/aphorium/index"
	"github.com/aphorium/aphorium/storage"
	"github.com/aphorium/aphorium/storage/badger"
	"github.com/aphorium/aphorium/validator"
)

func newTestStores(t *testing.T) (storage.Repositories, *index.Index) {
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

	return repos, idx
}

func newTestPipeline(t *testing.T) (*Pipeline, storage.Repositories, *index.Index) {
	t.Helper()

	repos, idx := newTestStores(t)
	p, err := NewPipeline(repos, idx, WithPoolSize(1))
	require.NoError(t, err)
	t.Cleanup(p.Release)

	return p, repos, idx
}

func TestIngestAcceptedFragment(t *testing.T) {
	p, repos, idx := newTestPipeline(t)
	ctx := context.Background()

	stats, err := p.Ingest(ctx, []Fragment{{
		Text:        "The only way to do great work is to love what you do.",
		Language:    core.LanguageEN,
		Author:      "Steve Jobs",
		SourceTitle: "Stanford Commencement Address",
		SourceType:  "speech",
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Accepted)
	assert.Equal(t, 0, stats.Rejected)

	author, err := repos.FindAuthorByName(ctx, "Steve Jobs", core.LanguageEN)
	require.NoError(t, err)

	source, err := repos.FindSourceByTitle(ctx, "Stanford Commencement Address", core.LanguageEN)
	require.NoError(t, err)
	assert.Equal(t, author.Id, source.AuthorId)

	quotes, err := repos.GetByAuthorAndLanguage(ctx, author.Id, core.LanguageEN)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, source.Id, quotes[0].SourceId)

	// Indexing is asynchronous
	assert.Eventually(t, func() bool {
		hits, err := idx.Search(ctx, "great work", core.LanguageEN, 10)
		return err == nil && len(hits) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestIngestDetectsLanguage(t *testing.T) {
	p, repos, _ := newTestPipeline(t)
	ctx := context.Background()

	stats, err := p.Ingest(ctx, []Fragment{{
		Text:   "Краткость, точность и ясность мысли составляют сестру настоящего таланта.",
		Author: "Чехов",
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Accepted)

	author, err := repos.FindAuthorByName(ctx, "Чехов", core.LanguageRU)
	require.NoError(t, err)

	quotes, err := repos.GetByAuthorAndLanguage(ctx, author.Id, core.LanguageRU)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, core.LanguageRU, quotes[0].Language)
}

func TestIngestRejectsNoise(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	stats, err := p.Ingest(context.Background(), []Fragment{
		{Text: "Too short.", Language: core.LanguageEN},
		{Text: "↑ Quoted in The Times, interview given in London by the author.", Language: core.LanguageEN},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Accepted)
	assert.Equal(t, 2, stats.Rejected)
	assert.Equal(t, 1, stats.RejectedByReason[validator.ReasonTooShort])
}

func TestIngestDuplicate(t *testing.T) {
	p, _, _ := newTestPipeline(t)
	ctx := context.Background()

	fragment := Fragment{
		Text:     "The only way to do great work is to love what you do.",
		Language: core.LanguageEN,
		Author:   "Steve Jobs",
	}

	stats, err := p.Ingest(ctx, []Fragment{fragment})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Accepted)

	stats, err = p.Ingest(ctx, []Fragment{fragment})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Accepted)
	assert.Equal(t, 1, stats.Duplicates)
}

func TestIngestStripsCitationSuffix(t *testing.T) {
	p, repos, _ := newTestPipeline(t)
	ctx := context.Background()

	stats, err := p.Ingest(ctx, []Fragment{{
		Text:     "He who can, does. He who cannot, teaches, Man and Superman (1903), p. 230.",
		Language: core.LanguageEN,
		Author:   "Bernard Shaw",
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Accepted)

	author, err := repos.FindAuthorByName(ctx, "Bernard Shaw", core.LanguageEN)
	require.NoError(t, err)

	quotes, err := repos.GetByAuthorAndLanguage(ctx, author.Id, core.LanguageEN)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "He who can, does. He who cannot, teaches", quotes[0].Text)
}
