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

// Package search ranks stored quotes against a free-text query and pairs
// each hit with its counterpart from the other language when one exists.
//
// A query in one language is expanded with its translation so both halves
// of the corpus are searched; the per-language searches run concurrently,
// each under its own timeout, and the ranker merges whatever completed. A
// failed language contributes no hits but never fails the search.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aphorium/aphorium/core"
	"github.com/aphorium/aphorium/index"
	"github.com/aphorium/aphorium/storage"
	"github.com/aphorium/aphorium/textnorm"
	"github.com/aphorium/aphorium/translate"
)

const (
	// DefaultLimit is used when a query does not name a limit.
	DefaultLimit = 20

	// MaxLimit caps the number of returned pairs.
	MaxLimit = 200

	// LanguageBoth requests hits from both languages.
	LanguageBoth = "both"

	defaultSearchTimeout = 5 * time.Second
)

// Query is one search request. Language is "en", "ru", or "both"; empty
// means both. Limit is capped at MaxLimit.
type Query struct {
	Text            string
	Language        string
	PreferBilingual bool
	Limit           int
}

// Searcher runs bilingual full-text searches.
type Searcher struct {
	repos         storage.Repositories
	index         *index.Index
	translator    *translate.Service
	searchTimeout time.Duration
	logger        *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithSearchTimeout sets the per-language query timeout.
// Default is 5 seconds.
func WithSearchTimeout(timeout time.Duration) Option {
	return func(s *Searcher) error {
		if timeout > 0 {
			s.searchTimeout = timeout
		}
		return nil
	}
}

// NewSearcher creates a searcher over the given repositories, index and
// translation service.
func NewSearcher(repos storage.Repositories, idx *index.Index, translator *translate.Service, opts ...Option) (*Searcher, error) {
	if repos == nil {
		return nil, ErrRepositoriesRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if translator == nil {
		return nil, ErrTranslatorRequired
	}

	s := &Searcher{
		repos:         repos,
		index:         idx,
		translator:    translator,
		searchTimeout: defaultSearchTimeout,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// langQuery is one per-language query variant.
type langQuery struct {
	lang core.Language
	text string
}

// langResult is the outcome of one per-language search.
type langResult struct {
	lang core.Language
	hits []index.Hit
	err  error
}

// Search runs the query and returns ranked bilingual pairs. A failure in one
// language is logged and its hits are absent; an error is returned only when
// every queried language failed.
func (s *Searcher) Search(ctx context.Context, query Query) ([]core.BilingualPair, error) {
	text := textnorm.Normalize(query.Text)
	if text == "" {
		return nil, nil
	}

	limit := query.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	queries := s.expand(ctx, text, query.Language)
	results := s.runQueries(ctx, queries, limit)

	var (
		failures  int
		firstErr  error
		direct    = make(map[core.ID]float64)
		perLang   = make(map[core.Language]map[core.ID]bool)
		resultIDs []core.ID
	)
	for _, res := range results {
		if res.err != nil {
			failures++
			if firstErr == nil {
				firstErr = res.err
			}
			s.logger.Warn("search failed for language", "lang", res.lang, "err", res.err)
			continue
		}
		if perLang[res.lang] == nil {
			perLang[res.lang] = make(map[core.ID]bool)
		}
		for _, hit := range res.hits {
			perLang[res.lang][hit.Id] = true
			if score, ok := direct[hit.Id]; !ok || hit.Score > score {
				direct[hit.Id] = hit.Score
			}
			resultIDs = append(resultIDs, hit.Id)
		}
	}
	if failures == len(results) && firstErr != nil {
		return nil, fmt.Errorf("all language searches failed: %w", firstErr)
	}
	if len(direct) == 0 {
		return nil, nil
	}

	quotes, err := s.quotesByID(ctx, resultIDs)
	if err != nil {
		return nil, err
	}

	pairs, err := s.merge(ctx, direct, perLang, quotes)
	if err != nil {
		return nil, err
	}

	rank(pairs, query.PreferBilingual)
	if len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs, nil
}

// expand builds the per-language query variants. For a bilingual search the
// text is translated into the other language; identity degradation drops
// that variant rather than searching with the untranslated text.
func (s *Searcher) expand(ctx context.Context, text, language string) []langQuery {
	switch language {
	case string(core.LanguageEN):
		return []langQuery{{core.LanguageEN, text}}
	case string(core.LanguageRU):
		return []langQuery{{core.LanguageRU, text}}
	}

	queryLang := textnorm.DetectLanguage(text)
	otherLang := core.LanguageEN
	if queryLang == core.LanguageEN {
		otherLang = core.LanguageRU
	}

	queries := []langQuery{{queryLang, text}}
	translated := s.translator.Translate(ctx, text, queryLang, otherLang)
	if translated != text && translated != "" {
		queries = append(queries, langQuery{otherLang, translated})
	} else {
		s.logger.Warn("translation unavailable, searching single language", "lang", queryLang)
	}
	return queries
}

// runQueries fans the per-language queries out concurrently, each under its
// own timeout, and collects every outcome.
func (s *Searcher) runQueries(ctx context.Context, queries []langQuery, limit int) []langResult {
	out := make(chan langResult, len(queries))
	var wg sync.WaitGroup
	for _, q := range queries {
		wg.Add(1)
		go func(q langQuery) {
			defer wg.Done()
			queryCtx, cancel := context.WithTimeout(ctx, s.searchTimeout)
			defer cancel()

			hits, err := s.index.Search(queryCtx, q.text, q.lang, limit)
			out <- langResult{lang: q.lang, hits: hits, err: err}
		}(q)
	}
	wg.Wait()
	close(out)

	results := make([]langResult, 0, len(queries))
	for res := range out {
		results = append(results, res)
	}
	return results
}

// quotesByID loads the hit quotes, keyed by ID. Hits whose quote vanished
// between indexing and lookup are dropped silently.
func (s *Searcher) quotesByID(ctx context.Context, ids []core.ID) (map[core.ID]*core.Quote, error) {
	quotes, err := s.repos.GetQuotes(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("failed to load hit quotes: %w", err)
	}
	byID := make(map[core.ID]*core.Quote, len(quotes))
	for _, q := range quotes {
		byID[q.Id] = q
	}
	return byID, nil
}

// merge folds direct hits into bilingual pairs. Each hit claims its group's
// best counterpart from the other language; a counterpart that was itself a
// direct hit joins its pair instead of forming its own.
func (s *Searcher) merge(ctx context.Context, direct map[core.ID]float64, perLang map[core.Language]map[core.ID]bool, quotes map[core.ID]*core.Quote) ([]core.BilingualPair, error) {
	ordered := make([]core.ID, 0, len(direct))
	for id := range direct {
		if _, ok := quotes[id]; ok {
			ordered = append(ordered, id)
		}
	}
	slices.SortFunc(ordered, func(a, b core.ID) int {
		switch {
		case direct[a] > direct[b]:
			return -1
		case direct[a] < direct[b]:
			return 1
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	})

	var pairs []core.BilingualPair
	consumed := make(map[core.ID]bool)
	for _, id := range ordered {
		if consumed[id] {
			continue
		}
		quote := quotes[id]
		consumed[id] = true

		pair := core.BilingualPair{Score: direct[id]}
		pair.SetMember(quote.Language, quote)

		if quote.BilingualGroupId != 0 {
			counterpart, err := s.bestCounterpart(ctx, quote, direct)
			if err != nil {
				return nil, err
			}
			if counterpart != nil {
				pair.SetMember(counterpart.Language, counterpart)
				if score, isDirect := direct[counterpart.Id]; isDirect && perLang[counterpart.Language][counterpart.Id] {
					consumed[counterpart.Id] = true
					if score > pair.Score {
						pair.Score = score
					}
				} else {
					pair.IsTranslated = true
				}
			}
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// bestCounterpart picks the quote's group member from the other language,
// preferring direct hits by score, then the lowest ID.
func (s *Searcher) bestCounterpart(ctx context.Context, quote *core.Quote, direct map[core.ID]float64) (*core.Quote, error) {
	members, err := s.repos.GetByBilingualGroup(ctx, quote.BilingualGroupId)
	if err != nil {
		return nil, fmt.Errorf("failed to load group %d: %w", quote.BilingualGroupId, err)
	}

	var best *core.Quote
	var bestScore float64 = -1
	for _, member := range members {
		if member.Language == quote.Language {
			continue
		}
		score, isDirect := direct[member.Id]
		if !isDirect {
			score = -1
		}
		if best == nil || score > bestScore || (score == bestScore && member.Id < best.Id) {
			best = member
			bestScore = score
		}
	}
	return best, nil
}

// rank orders pairs: the bilingual tier first when requested, then combined
// score descending, ties by lowest member ID.
func rank(pairs []core.BilingualPair, preferBilingual bool) {
	slices.SortFunc(pairs, func(a, b core.BilingualPair) int {
		if preferBilingual {
			aBoth := a.English != nil && a.Russian != nil
			bBoth := b.English != nil && b.Russian != nil
			if aBoth != bBoth {
				if aBoth {
					return -1
				}
				return 1
			}
		}
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		switch {
		case a.PrimaryId() < b.PrimaryId():
			return -1
		case a.PrimaryId() > b.PrimaryId():
			return 1
		}
		return 0
	})
}
