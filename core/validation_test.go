package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateQuote(t *testing.T) {
	t.Run("valid quote", func(t *testing.T) {
		quote := &Quote{Text: "The only way to do great work is to love what you do.", Language: LanguageEN}
		assert.NoError(t, ValidateQuote(quote))
	})

	t.Run("nil quote", func(t *testing.T) {
		err := ValidateQuote(nil)
		assert.ErrorIs(t, err, ErrInvalidQuote)
	})

	t.Run("empty text", func(t *testing.T) {
		err := ValidateQuote(&Quote{Language: LanguageEN})
		assert.ErrorIs(t, err, ErrInvalidQuote)
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("invalid language", func(t *testing.T) {
		err := ValidateQuote(&Quote{Text: "something", Language: "de"})
		assert.ErrorIs(t, err, ErrInvalidLanguage)
	})
}

func TestValidateAuthor(t *testing.T) {
	t.Run("valid author", func(t *testing.T) {
		assert.NoError(t, ValidateAuthor(&Author{Name: "Оскар Уайльд", Language: LanguageRU}))
	})

	t.Run("nil author", func(t *testing.T) {
		assert.ErrorIs(t, ValidateAuthor(nil), ErrInvalidAuthor)
	})

	t.Run("empty name", func(t *testing.T) {
		err := ValidateAuthor(&Author{Language: LanguageEN})
		assert.ErrorIs(t, err, ErrEmptyAuthorName)
	})

	t.Run("invalid language", func(t *testing.T) {
		err := ValidateAuthor(&Author{Name: "Oscar Wilde", Language: ""})
		assert.ErrorIs(t, err, ErrInvalidLanguage)
	})
}

func TestValidateSource(t *testing.T) {
	t.Run("valid source", func(t *testing.T) {
		assert.NoError(t, ValidateSource(&Source{Title: "Hamlet", Language: LanguageEN, Type: "play"}))
	})

	t.Run("empty title", func(t *testing.T) {
		assert.ErrorIs(t, ValidateSource(&Source{Language: LanguageEN}), ErrEmptySourceTitle)
	})
}

func TestValidateTranslationLink(t *testing.T) {
	t.Run("valid link", func(t *testing.T) {
		link := &TranslationLink{QuoteId: 1, TranslatedQuoteId: 2, Confidence: 80, Strategy: StrategySimilarity}
		assert.NoError(t, ValidateTranslationLink(link))
	})

	t.Run("nil link", func(t *testing.T) {
		assert.ErrorIs(t, ValidateTranslationLink(nil), ErrInvalidLink)
	})

	t.Run("zero quote id", func(t *testing.T) {
		err := ValidateTranslationLink(&TranslationLink{TranslatedQuoteId: 2, Confidence: 50})
		assert.ErrorIs(t, err, ErrInvalidLink)
	})

	t.Run("self link", func(t *testing.T) {
		err := ValidateTranslationLink(&TranslationLink{QuoteId: 5, TranslatedQuoteId: 5, Confidence: 50})
		assert.ErrorIs(t, err, ErrSelfLink)
	})

	t.Run("confidence out of range", func(t *testing.T) {
		err := ValidateTranslationLink(&TranslationLink{QuoteId: 1, TranslatedQuoteId: 2, Confidence: 101})
		assert.ErrorIs(t, err, ErrInvalidConfidence)
	})
}
