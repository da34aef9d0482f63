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

package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"

	"github.com/aphorium/aphorium/core"
	"github.com/aphorium/aphorium/index"
	"github.com/aphorium/aphorium/storage"
	"github.com/aphorium/aphorium/textnorm"
	"github.com/aphorium/aphorium/validator"
)

// Fragment is one scraped candidate quote with its attribution.
// Language may be left empty to autodetect by script.
type Fragment struct {
	Text         string
	Language     core.Language
	Author       string
	Bio          string
	WikiquoteURL string
	SourceTitle  string
	SourceType   string
}

// Stats summarizes one ingestion batch.
type Stats struct {
	Accepted   int
	Rejected   int
	Duplicates int

	// RejectedByReason counts rejections per classifier reason.
	RejectedByReason map[string]int
}

// Pipeline orchestrates the ingestion of quote fragments.
type Pipeline struct {
	repos     storage.Repositories
	index     *index.Index
	validator *validator.Validator
	indexPool *ants.Pool
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for async indexing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.indexPool != nil {
			p.indexPool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.indexPool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithValidatorConfig overrides the classifier thresholds.
func WithValidatorConfig(cfg validator.Config) Option {
	return func(p *Pipeline) error {
		p.validator = validator.New(cfg)
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(repos storage.Repositories, idx *index.Index, opts ...Option) (*Pipeline, error) {
	if repos == nil {
		return nil, ErrRepositoriesRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repos:     repos,
		index:     idx,
		validator: validator.New(validator.DefaultConfig()),
		indexPool: pool,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// Ingest classifies and stores a batch of fragments. Rejections and
// duplicates are counted, not errors; only storage failures abort the batch.
// Accepted quotes are indexed asynchronously.
func (p *Pipeline) Ingest(ctx context.Context, fragments []Fragment) (*Stats, error) {
	stats := &Stats{RejectedByReason: make(map[string]int)}

	for _, fragment := range fragments {
		lang := fragment.Language
		if !lang.Valid() {
			lang = textnorm.DetectLanguage(fragment.Text)
		}

		result := p.validator.Classify(fragment.Text, lang)
		if !result.Accepted {
			stats.Rejected++
			stats.RejectedByReason[result.Reason]++
			p.logger.Debug("fragment rejected", "reason", result.Reason, "lang", lang)
			continue
		}

		quote := &core.Quote{
			Text:     result.Cleaned,
			Language: lang,
		}

		if fragment.Author != "" {
			author, err := p.repos.GetOrCreateAuthor(ctx, &core.Author{
				Name:         fragment.Author,
				Language:     lang,
				Bio:          fragment.Bio,
				WikiquoteURL: fragment.WikiquoteURL,
			})
			if err != nil {
				return stats, fmt.Errorf("failed to resolve author %q: %w", fragment.Author, err)
			}
			quote.AuthorId = author.Id
		}

		if fragment.SourceTitle != "" {
			source, err := p.repos.GetOrCreateSource(ctx, &core.Source{
				Title:    fragment.SourceTitle,
				Language: lang,
				AuthorId: quote.AuthorId,
				Type:     fragment.SourceType,
			})
			if err != nil {
				return stats, fmt.Errorf("failed to resolve source %q: %w", fragment.SourceTitle, err)
			}
			quote.SourceId = source.Id
		}

		stored, created, err := p.repos.CreateQuote(ctx, quote)
		if err != nil {
			return stats, fmt.Errorf("failed to store quote: %w", err)
		}
		if !created {
			stats.Duplicates++
			continue
		}
		stats.Accepted++

		if err := p.indexPool.Submit(func() {
			if err := p.index.IndexQuote(stored); err != nil {
				p.logger.Error("error indexing quote", "quote_id", stored.Id, "err", err)
			}
		}); err != nil {
			p.logger.Error("error submitting quote for indexing", "quote_id", stored.Id, "err", err)
		}
	}

	return stats, nil
}

// Release releases the indexing pool. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.indexPool != nil {
		p.indexPool.Release()
	}
}
