package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent("to be or not to be")
		id2 := IDFromContent("to be or not to be")
		assert.Equal(t, id1, id2)
	})

	t.Run("different content different id", func(t *testing.T) {
		id1 := IDFromContent("to be or not to be")
		id2 := IDFromContent("to be, or not to be")
		assert.NotEqual(t, id1, id2)
	})
}

func TestQuoteID(t *testing.T) {
	t.Run("language distinguishes", func(t *testing.T) {
		en := QuoteID("some text", LanguageEN, 1)
		ru := QuoteID("some text", LanguageRU, 1)
		assert.NotEqual(t, en, ru)
	})

	t.Run("author distinguishes", func(t *testing.T) {
		a := QuoteID("some text", LanguageEN, 1)
		b := QuoteID("some text", LanguageEN, 2)
		assert.NotEqual(t, a, b)
	})

	t.Run("stable across calls", func(t *testing.T) {
		assert.Equal(t,
			QuoteID("some text", LanguageEN, 1),
			QuoteID("some text", LanguageEN, 1))
	})
}

func TestLanguage(t *testing.T) {
	assert.True(t, LanguageEN.Valid())
	assert.True(t, LanguageRU.Valid())
	assert.False(t, Language("fr").Valid())
	assert.False(t, Language("").Valid())

	assert.Equal(t, LanguageRU, LanguageEN.Other())
	assert.Equal(t, LanguageEN, LanguageRU.Other())
}

func TestBilingualPairPrimaryId(t *testing.T) {
	en := &Quote{Id: 7, Language: LanguageEN}
	ru := &Quote{Id: 3, Language: LanguageRU}

	pair := &BilingualPair{English: en, Russian: ru}
	assert.Equal(t, ID(3), pair.PrimaryId())

	assert.Equal(t, ID(7), (&BilingualPair{English: en}).PrimaryId())
	assert.Equal(t, ID(3), (&BilingualPair{Russian: ru}).PrimaryId())
	assert.Equal(t, ID(0), (&BilingualPair{}).PrimaryId())
}

func TestAuthorTuple(t *testing.T) {
	a := &Author{Name: "Mark Twain", Language: LanguageEN}
	assert.Equal(t, "(en,Mark Twain)", a.Tuple())
}
