package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aphorium/aphorium/core"
	"github.com/aphorium/aphorium/index"
	"github.com/aphorium/aphorium/storage"
	"github.com/aphorium/aphorium/validator"
)

// Cleaner re-runs classification over the stored corpus. Quotes whose cleaned
// text differs are rewritten in place and re-indexed; quotes that no longer
// classify are deleted together with their links and index entries. Quotes
// holding a bilingual group are never deleted, only logged, so the linker's
// groups stay intact.
type Cleaner struct {
	repos     storage.Repositories
	index     *index.Index
	validator *validator.Validator
	logger    *slog.Logger
}

// CleanStats summarizes one cleanup pass.
type CleanStats struct {
	Examined  int
	Rewritten int
	Deleted   int
	Kept      int
}

// NewCleaner creates a cleanup pass over the given repositories and index.
func NewCleaner(repos storage.Repositories, idx *index.Index, opts ...CleanerOption) (*Cleaner, error) {
	if repos == nil {
		return nil, ErrRepositoriesRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}

	c := &Cleaner{
		repos:     repos,
		index:     idx,
		validator: validator.New(validator.DefaultConfig()),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// CleanerOption configures a Cleaner.
type CleanerOption func(*Cleaner) error

// WithCleanerLogger sets a custom logger.
// Default is slog.Default().
func WithCleanerLogger(logger *slog.Logger) CleanerOption {
	return func(c *Cleaner) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithCleanerValidatorConfig overrides the classifier thresholds.
func WithCleanerValidatorConfig(cfg validator.Config) CleanerOption {
	return func(c *Cleaner) error {
		c.validator = validator.New(cfg)
		return nil
	}
}

// Run performs one cleanup pass. Failures for one quote are logged and that
// quote is skipped; the pass continues.
func (c *Cleaner) Run(ctx context.Context) (*CleanStats, error) {
	// Snapshot first; mutating while iterating the key range is unsafe.
	var quotes []*core.Quote
	err := c.repos.ForEachQuote(ctx, func(quote *core.Quote) error {
		quotes = append(quotes, quote)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan quotes: %w", err)
	}

	stats := &CleanStats{Examined: len(quotes)}
	for _, quote := range quotes {
		result := c.validator.Classify(quote.Text, quote.Language)

		switch {
		case result.Accepted && result.Cleaned != quote.Text:
			if err := c.rewrite(ctx, quote, result.Cleaned); err != nil {
				c.logger.Warn("skipping rewrite", "quote_id", quote.Id, "err", err)
				continue
			}
			stats.Rewritten++

		case !result.Accepted && quote.BilingualGroupId != 0:
			c.logger.Warn("keeping grouped quote that no longer classifies",
				"quote_id", quote.Id, "group_id", quote.BilingualGroupId, "reason", result.Reason)
			stats.Kept++

		case !result.Accepted:
			if err := c.remove(ctx, quote); err != nil {
				c.logger.Warn("skipping delete", "quote_id", quote.Id, "err", err)
				continue
			}
			stats.Deleted++
		}
	}

	return stats, nil
}

func (c *Cleaner) rewrite(ctx context.Context, quote *core.Quote, text string) error {
	updated, err := c.repos.UpdateQuoteText(ctx, quote.Id, text)
	if err != nil {
		return err
	}
	return c.index.IndexQuote(updated)
}

func (c *Cleaner) remove(ctx context.Context, quote *core.Quote) error {
	if err := c.repos.DeleteLinksFor(ctx, quote.Id); err != nil {
		return err
	}
	if err := c.repos.DeleteQuotes(ctx, quote.Id); err != nil {
		return err
	}
	return c.index.DeleteQuote(quote.Id)
}
