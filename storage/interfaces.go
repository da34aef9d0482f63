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

package storage

import (
	"context"

	"github.com/aphorium/aphorium/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// AuthorRepository provides operations for managing authors.
// An author row is identified by its (language, name) tuple; the same person
// under an English and a Russian name is two rows.
type AuthorRepository interface {
	Repository
	// GetOrCreateAuthor finds or creates an author by its (language, name)
	// tuple. If the author exists, returns it; the candidate's Bio and
	// WikiquoteURL are ignored in that case.
	// Thread-safe: handles concurrent creation attempts.
	GetOrCreateAuthor(ctx context.Context, author *core.Author) (*core.Author, error)

	// GetAuthor retrieves a single author by ID.
	// Returns ErrNotFound if the author doesn't exist.
	GetAuthor(ctx context.Context, id core.ID) (*core.Author, error)

	// GetAuthors retrieves multiple authors by their IDs.
	// Returns only the authors that exist (no error for missing authors).
	GetAuthors(ctx context.Context, ids ...core.ID) ([]*core.Author, error)

	// FindAuthorByName finds an author by name in the given language.
	// Returns ErrNotFound if no matching author exists.
	FindAuthorByName(ctx context.Context, name string, lang core.Language) (*core.Author, error)
}

// SourceRepository provides operations for managing sources.
type SourceRepository interface {
	Repository
	// GetOrCreateSource finds or creates a source by its (language, title)
	// tuple.
	// Thread-safe: handles concurrent creation attempts.
	GetOrCreateSource(ctx context.Context, source *core.Source) (*core.Source, error)

	// GetSource retrieves a single source by ID.
	// Returns ErrNotFound if the source doesn't exist.
	GetSource(ctx context.Context, id core.ID) (*core.Source, error)

	// FindSourceByTitle finds a source by title in the given language.
	// Returns ErrNotFound if no matching source exists.
	FindSourceByTitle(ctx context.Context, title string, lang core.Language) (*core.Source, error)
}

// QuoteRepository provides operations for managing quotes and their
// bilingual-group assignments.
type QuoteRepository interface {
	Repository
	// CreateQuote stores a quote under its content-derived ID.
	// Returns the stored quote and true when a new record was created, or the
	// existing record and false when the same (text, language, author) was
	// already stored. Re-ingesting is therefore idempotent.
	CreateQuote(ctx context.Context, quote *core.Quote) (*core.Quote, bool, error)

	// GetQuote retrieves a single quote by ID.
	// Returns ErrNotFound if the quote doesn't exist.
	GetQuote(ctx context.Context, id core.ID) (*core.Quote, error)

	// GetQuotes retrieves multiple quotes by their IDs.
	// Returns only the quotes that exist (no error for missing quotes).
	GetQuotes(ctx context.Context, ids ...core.ID) ([]*core.Quote, error)

	// UpdateQuoteText replaces the text of an existing quote, keeping its
	// record ID, and updates the UpdatedAt timestamp.
	// Returns ErrNotFound if the quote doesn't exist.
	UpdateQuoteText(ctx context.Context, id core.ID, text string) (*core.Quote, error)

	// DeleteQuotes removes quotes by their IDs, along with their indices.
	// Returns ErrNotFound if any quote doesn't exist.
	DeleteQuotes(ctx context.Context, ids ...core.ID) error

	// GetByAuthorAndLanguage retrieves all quotes of one author in one
	// language, ordered by quote ID ascending.
	GetByAuthorAndLanguage(ctx context.Context, authorId core.ID, lang core.Language) ([]*core.Quote, error)

	// GetByBilingualGroup retrieves all quotes assigned to a bilingual group,
	// ordered by quote ID ascending.
	GetByBilingualGroup(ctx context.Context, groupId core.ID) ([]*core.Quote, error)

	// SetBilingualGroup assigns quotes to a bilingual group.
	// Quotes already in the given group are left untouched. Returns
	// ErrGroupConflict if any quote belongs to a different group; group
	// membership is never reassigned.
	SetBilingualGroup(ctx context.Context, groupId core.ID, quoteIds ...core.ID) error

	// AuthorsWithBothLanguages returns the IDs of authors that have at least
	// one quote in each supported language, ordered ascending.
	AuthorsWithBothLanguages(ctx context.Context) ([]core.ID, error)

	// NextGroupID reserves and returns a fresh bilingual group ID.
	NextGroupID(ctx context.Context) (core.ID, error)

	// ForEachQuote iterates over all quotes in key order, calling fn for each.
	// Iteration stops on the first error, which is returned.
	ForEachQuote(ctx context.Context, fn func(quote *core.Quote) error) error
}

// TranslationRepository provides operations for managing translation links.
type TranslationRepository interface {
	Repository
	// AddLink stores a translation link between two quotes.
	// The unordered pair is unique: when a link between the two quotes
	// already exists in either direction, the stored link is returned and
	// nothing is written. Returns ErrLanguageMismatch when both quotes share
	// a language.
	AddLink(ctx context.Context, link *core.TranslationLink) (*core.TranslationLink, error)

	// LinksForQuote retrieves all links that mention the quote, on either
	// side, ordered by link ID ascending.
	LinksForQuote(ctx context.Context, quoteId core.ID) ([]*core.TranslationLink, error)

	// AllLinks retrieves every stored link, ordered by link ID ascending.
	AllLinks(ctx context.Context) ([]*core.TranslationLink, error)

	// DeleteLinksFor removes every link mentioning any of the given quotes.
	// Missing quotes are not an error.
	DeleteLinksFor(ctx context.Context, quoteIds ...core.ID) error

	// ApplyBatch applies a linker result atomically: all group assignments
	// and links are committed in one transaction, or none are. Duplicate
	// links within the batch are skipped rather than failing the batch.
	ApplyBatch(ctx context.Context, batch *LinkBatch) error
}

// Repositories combines all repository interfaces over one backend.
type Repositories interface {
	AuthorRepository
	SourceRepository
	QuoteRepository
	TranslationRepository
}

// GroupAssignment assigns quotes to one bilingual group.
type GroupAssignment struct {
	GroupId  core.ID
	QuoteIds []core.ID
}

// LinkSpec describes one translation link to create.
type LinkSpec struct {
	QuoteId           core.ID
	TranslatedQuoteId core.ID
	Confidence        int
	Strategy          string
}

// LinkBatch is the output of one linker run over one author: the group
// assignments and links to persist together.
type LinkBatch struct {
	Groups []GroupAssignment
	Links  []LinkSpec
}

// Empty reports whether the batch contains no work.
func (b *LinkBatch) Empty() bool {
	return b == nil || (len(b.Groups) == 0 && len(b.Links) == 0)
}
