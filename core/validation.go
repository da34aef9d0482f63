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


package core

import "fmt"

// ValidateQuote validates a Quote according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Language must be a supported value
//
// NOT validated:
//   - Minimum quote length (the validator package decides what counts as a
//     quote at ingestion time; stored quotes may later be shortened by the
//     cleanup pass)
//   - BilingualGroupId (0 is valid until the linker runs)
func ValidateQuote(quote *Quote) error {
	if quote == nil {
		return fmt.Errorf("%w: quote is nil", ErrInvalidQuote)
	}

	if quote.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQuote, ErrEmptyText)
	}

	if !quote.Language.Valid() {
		return fmt.Errorf("%w: %w %q", ErrInvalidQuote, ErrInvalidLanguage, quote.Language)
	}

	return nil
}

// ValidateAuthor validates an Author according to domain rules.
func ValidateAuthor(author *Author) error {
	if author == nil {
		return fmt.Errorf("%w: author is nil", ErrInvalidAuthor)
	}

	if author.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAuthor, ErrEmptyAuthorName)
	}

	if !author.Language.Valid() {
		return fmt.Errorf("%w: %w %q", ErrInvalidAuthor, ErrInvalidLanguage, author.Language)
	}

	return nil
}

// ValidateSource validates a Source according to domain rules.
func ValidateSource(source *Source) error {
	if source == nil {
		return fmt.Errorf("%w: source is nil", ErrInvalidSource)
	}

	if source.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSource, ErrEmptySourceTitle)
	}

	if !source.Language.Valid() {
		return fmt.Errorf("%w: %w %q", ErrInvalidSource, ErrInvalidLanguage, source.Language)
	}

	return nil
}

// ValidateTranslationLink validates a TranslationLink according to domain rules.
//
// The different-language invariant on the two quote ids cannot be checked
// here because the link does not carry the quotes; repositories enforce it
// when the link is persisted.
func ValidateTranslationLink(link *TranslationLink) error {
	if link == nil {
		return fmt.Errorf("%w: link is nil", ErrInvalidLink)
	}

	if link.QuoteId == 0 || link.TranslatedQuoteId == 0 {
		return fmt.Errorf("%w: quote ids must be set", ErrInvalidLink)
	}

	if link.QuoteId == link.TranslatedQuoteId {
		return fmt.Errorf("%w: %w", ErrInvalidLink, ErrSelfLink)
	}

	if link.Confidence < 0 || link.Confidence > 100 {
		return fmt.Errorf("%w: %w (got %d)", ErrInvalidLink, ErrInvalidConfidence, link.Confidence)
	}

	return nil
}
