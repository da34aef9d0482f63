// Copyright 2025 Aphorium Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package linker discovers cross-language equivalence between quotes of the
// same author and records it as bilingual groups plus translation links.
//
// Russian quotes are translated into English first, then both sides are
// reduced to stemmed content words; enough shared stems make a pair. Quotes
// recorded against the same source are matched first at a boosted
// confidence, the remainder by stem overlap alone. The linker is the sole
// writer of bilingual group IDs and is idempotent: a second run over a
// fully linked corpus writes nothing.
package linker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/aphorium/aphorium/core"
	"github.com/aphorium/aphorium/storage"
	"github.com/aphorium/aphorium/textnorm"
	"github.com/aphorium/aphorium/translate"
)

// Config holds the similarity cutoffs.
type Config struct {
	// MinOverlap is the minimum number of shared content-word stems.
	MinOverlap int

	// MinConfidence is the minimum 0-100 confidence for a pair.
	MinConfidence int
}

// DefaultConfig returns the cutoffs used in production.
func DefaultConfig() Config {
	return Config{
		MinOverlap:    4,
		MinConfidence: 50,
	}
}

// Stats summarizes one linking run.
type Stats struct {
	AuthorsProcessed int
	AuthorsSkipped   int
	LinksCreated     int
	GroupsCreated    int
	GroupsReused     int
}

func (s *Stats) add(other Stats) {
	s.AuthorsProcessed += other.AuthorsProcessed
	s.AuthorsSkipped += other.AuthorsSkipped
	s.LinksCreated += other.LinksCreated
	s.GroupsCreated += other.GroupsCreated
	s.GroupsReused += other.GroupsReused
}

// Linker runs the bilingual matching batch.
type Linker struct {
	repos      storage.Repositories
	translator *translate.Service
	cfg        Config
	pool       *ants.Pool
	progress   io.Writer
	logger     *slog.Logger
}

// Option configures a Linker.
type Option func(*Linker) error

// WithConfig overrides the similarity cutoffs.
func WithConfig(cfg Config) Option {
	return func(l *Linker) error {
		if cfg.MinOverlap > 0 {
			l.cfg.MinOverlap = cfg.MinOverlap
		}
		if cfg.MinConfidence > 0 {
			l.cfg.MinConfidence = cfg.MinConfidence
		}
		return nil
	}
}

// WithPoolSize sets the worker pool size for per-author parallelism.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(l *Linker) error {
		if size < 1 {
			size = 1
		}
		if l.pool != nil {
			l.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		l.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Linker) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// WithProgress sets a writer for progress output (typically os.Stderr).
func WithProgress(w io.Writer) Option {
	return func(l *Linker) error {
		l.progress = w
		return nil
	}
}

// New creates a linker over the given repositories and translator.
func New(repos storage.Repositories, translator *translate.Service, opts ...Option) (*Linker, error) {
	if repos == nil {
		return nil, ErrRepositoriesRequired
	}
	if translator == nil {
		return nil, ErrTranslatorRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	l := &Linker{
		repos:      repos,
		translator: translator,
		cfg:        DefaultConfig(),
		pool:       pool,
		progress:   io.Discard,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(l); optErr != nil {
			l.Release()
			return nil, optErr
		}
	}
	return l, nil
}

// Release releases the worker pool. The linker should not be used after
// calling Release.
func (l *Linker) Release() {
	if l.pool != nil {
		l.pool.Release()
	}
}

// LinkAll links every author that has quotes in both languages. Failures for
// one author are logged and that author is skipped; the batch continues.
func (l *Linker) LinkAll(ctx context.Context) (*Stats, error) {
	authors, err := l.repos.AuthorsWithBothLanguages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bilingual authors: %w", err)
	}

	total := &Stats{}
	if len(authors) == 0 {
		return total, nil
	}

	tracker := NewProgressTracker(l.progress, len(authors))
	tracker.Start()

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, authorId := range authors {
		id := authorId
		wg.Add(1)
		err := l.pool.Submit(func() {
			defer wg.Done()
			defer tracker.Increment(1)

			stats, err := l.LinkAuthor(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				l.logger.Warn("skipping author", "author_id", id, "err", err)
				total.AuthorsSkipped++
				return
			}
			total.add(*stats)
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			total.AuthorsSkipped++
			mu.Unlock()
			l.logger.Warn("failed to submit author", "author_id", id, "err", err)
		}
	}
	wg.Wait()
	tracker.Finish()

	return total, nil
}

// matchedPair is one accepted match.
type matchedPair struct {
	english    core.ID
	russian    core.ID
	confidence int
	strategy   string
}

// LinkAuthor links the quotes of one author. All writes happen in a single
// transaction, so two racing runs cannot split one pair across two groups.
func (l *Linker) LinkAuthor(ctx context.Context, authorId core.ID) (*Stats, error) {
	english, err := l.repos.GetByAuthorAndLanguage(ctx, authorId, core.LanguageEN)
	if err != nil {
		return nil, fmt.Errorf("failed to load english quotes: %w", err)
	}
	russian, err := l.repos.GetByAuthorAndLanguage(ctx, authorId, core.LanguageRU)
	if err != nil {
		return nil, fmt.Errorf("failed to load russian quotes: %w", err)
	}

	stats := &Stats{AuthorsProcessed: 1}
	if len(english) == 0 || len(russian) == 0 {
		return stats, nil
	}

	quotes := make(map[core.ID]*core.Quote, len(english)+len(russian))
	uf := newUnionFind()
	for _, q := range append(append([]*core.Quote{}, english...), russian...) {
		quotes[q.Id] = q
		uf.add(q.Id)
	}

	if err := l.seed(ctx, quotes, uf); err != nil {
		return nil, err
	}

	pairs := l.match(ctx, english, russian, uf)

	batch, err := l.buildBatch(ctx, quotes, uf, pairs, stats)
	if err != nil {
		return nil, err
	}
	if err := l.repos.ApplyBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to apply link batch: %w", err)
	}

	stats.LinksCreated = len(pairs)
	return stats, nil
}

// seed unions quotes already related through a shared group or an existing
// translation link, so known equivalence survives re-runs.
func (l *Linker) seed(ctx context.Context, quotes map[core.ID]*core.Quote, uf *unionFind) error {
	byGroup := make(map[core.ID]core.ID)
	for id, q := range quotes {
		if q.BilingualGroupId == 0 {
			continue
		}
		if first, ok := byGroup[q.BilingualGroupId]; ok {
			uf.union(first, id)
		} else {
			byGroup[q.BilingualGroupId] = id
		}
	}

	for id := range quotes {
		links, err := l.repos.LinksForQuote(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load links for quote %d: %w", id, err)
		}
		for _, link := range links {
			if _, ok := quotes[link.QuoteId]; !ok {
				continue
			}
			if _, ok := quotes[link.TranslatedQuoteId]; !ok {
				continue
			}
			uf.union(link.QuoteId, link.TranslatedQuoteId)
		}
	}
	return nil
}

// match compares every ungrouped english quote against every ungrouped
// russian quote in two passes: same-source pairs first, then plain stem
// similarity. Each russian quote is consumed by at most one pair.
func (l *Linker) match(ctx context.Context, english, russian []*core.Quote, uf *unionFind) []matchedPair {
	englishStems := make(map[core.ID][]string, len(english))
	for _, q := range english {
		if q.BilingualGroupId != 0 {
			continue
		}
		englishStems[q.Id] = textnorm.ContentStems(q.Text, core.LanguageEN)
	}

	// Russian quotes are compared in English: translate, then stem. When
	// translation degrades to identity the stems stay Cyrillic and simply
	// never overlap.
	russianStems := make(map[core.ID][]string, len(russian))
	for _, q := range russian {
		if q.BilingualGroupId != 0 {
			continue
		}
		translated := l.translator.Translate(ctx, q.Text, core.LanguageRU, core.LanguageEN)
		russianStems[q.Id] = textnorm.ContentStems(translated, core.LanguageEN)
	}

	matched := make(map[core.ID]bool, len(russian))
	pairs := l.matchBySource(english, russian, englishStems, russianStems, matched, uf)

	for _, en := range english {
		stems, ok := englishStems[en.Id]
		if !ok {
			continue
		}

		best := matchedPair{}
		for _, ru := range russian {
			if matched[ru.Id] {
				continue
			}
			ruStems, ok := russianStems[ru.Id]
			if !ok {
				continue
			}
			overlap, confidence := overlapScore(stems, ruStems)
			if overlap < l.cfg.MinOverlap || confidence < l.cfg.MinConfidence {
				continue
			}
			if confidence > best.confidence ||
				(confidence == best.confidence && best.russian != 0 && ru.Id < best.russian) {
				best = matchedPair{english: en.Id, russian: ru.Id, confidence: confidence, strategy: core.StrategySimilarity}
			}
		}
		if best.russian != 0 {
			pairs = append(pairs, best)
			matched[best.russian] = true
			uf.union(best.english, best.russian)
		}
	}
	return pairs
}

// matchBySource pairs quotes recorded against the same source. Two quotes
// from one source are almost certainly the same aphorism, so only the
// overlap cutoff applies and the pair is stored at a boosted confidence,
// capped at 90. Consumed quotes are removed from the similarity pass.
func (l *Linker) matchBySource(english, russian []*core.Quote, englishStems, russianStems map[core.ID][]string, matched map[core.ID]bool, uf *unionFind) []matchedPair {
	confidence := l.cfg.MinConfidence + 20
	if confidence > 90 {
		confidence = 90
	}

	var pairs []matchedPair
	for _, en := range english {
		stems, ok := englishStems[en.Id]
		if !ok || en.SourceId == 0 {
			continue
		}

		best := matchedPair{}
		bestOverlap := 0
		for _, ru := range russian {
			if ru.SourceId != en.SourceId || matched[ru.Id] {
				continue
			}
			ruStems, ok := russianStems[ru.Id]
			if !ok {
				continue
			}
			overlap, _ := overlapScore(stems, ruStems)
			if overlap < l.cfg.MinOverlap {
				continue
			}
			if overlap > bestOverlap ||
				(overlap == bestOverlap && best.russian != 0 && ru.Id < best.russian) {
				best = matchedPair{english: en.Id, russian: ru.Id, confidence: confidence, strategy: core.StrategySourceMatch}
				bestOverlap = overlap
			}
		}
		if best.russian != 0 {
			pairs = append(pairs, best)
			matched[best.russian] = true
			delete(englishStems, en.Id)
			uf.union(best.english, best.russian)
		}
	}
	return pairs
}

// buildBatch turns the equivalence classes into group assignments and link
// rows. Existing group IDs are reused (first one found by ascending quote
// id); classes without one get a fresh id from the sequence.
func (l *Linker) buildBatch(ctx context.Context, quotes map[core.ID]*core.Quote, uf *unionFind, pairs []matchedPair, stats *Stats) (*storage.LinkBatch, error) {
	batch := &storage.LinkBatch{}

	for _, cluster := range uf.clusters() {
		var groupId core.ID
		var ungrouped []core.ID
		for _, id := range cluster {
			q := quotes[id]
			if q.BilingualGroupId != 0 {
				if groupId == 0 {
					groupId = q.BilingualGroupId
				}
				continue
			}
			ungrouped = append(ungrouped, id)
		}
		if len(ungrouped) == 0 {
			continue
		}

		if groupId == 0 {
			fresh, err := l.repos.NextGroupID(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to reserve group id: %w", err)
			}
			groupId = fresh
			stats.GroupsCreated++
		} else {
			stats.GroupsReused++
		}

		batch.Groups = append(batch.Groups, storage.GroupAssignment{
			GroupId:  groupId,
			QuoteIds: ungrouped,
		})
	}

	for _, pair := range pairs {
		batch.Links = append(batch.Links, storage.LinkSpec{
			QuoteId:           pair.english,
			TranslatedQuoteId: pair.russian,
			Confidence:        pair.confidence,
			Strategy:          pair.strategy,
		})
	}

	return batch, nil
}
