package translate

import (
	"context"
	"strings"

	"github.com/aphorium/aphorium/core"
	"github.com/aphorium/aphorium/textnorm"
)

// Common query words, English to Russian. Enough to make a degraded search
// return something useful when no real provider is reachable.
var dictionaryENRU = map[string]string{
	"life":       "жизнь",
	"love":       "любовь",
	"time":       "время",
	"death":      "смерть",
	"truth":      "правда",
	"wisdom":     "мудрость",
	"happiness":  "счастье",
	"freedom":    "свобода",
	"friend":     "друг",
	"friendship": "дружба",
	"work":       "работа",
	"world":      "мир",
	"war":        "война",
	"peace":      "мир",
	"man":        "человек",
	"people":     "люди",
	"heart":      "сердце",
	"soul":       "душа",
	"mind":       "разум",
	"god":        "бог",
	"nature":     "природа",
	"art":        "искусство",
	"beauty":     "красота",
	"money":      "деньги",
	"power":      "власть",
	"knowledge":  "знание",
	"book":       "книга",
	"word":       "слово",
	"words":      "слова",
	"hope":       "надежда",
	"fear":       "страх",
	"dream":      "мечта",
	"future":     "будущее",
	"past":       "прошлое",
	"history":    "история",
	"good":       "добро",
	"evil":       "зло",
	"great":      "великий",
	"live":       "жить",
	"think":      "думать",
}

var dictionaryRUEN = func() map[string]string {
	m := make(map[string]string, len(dictionaryENRU))
	for en, ru := range dictionaryENRU {
		if _, taken := m[ru]; !taken {
			m[ru] = en
		}
	}
	return m
}()

// DictionaryProvider translates word by word from a small built-in
// dictionary. It is the terminal fallback in the provider chain: offline,
// instant, and lossy. Unknown words pass through unchanged.
type DictionaryProvider struct{}

var _ Provider = (*DictionaryProvider)(nil)

// NewDictionaryProvider creates the built-in dictionary provider.
func NewDictionaryProvider() *DictionaryProvider {
	return &DictionaryProvider{}
}

// Name identifies the provider in logs.
func (p *DictionaryProvider) Name() string {
	return "dictionary"
}

// Translate replaces every known word and keeps the rest.
func (p *DictionaryProvider) Translate(ctx context.Context, text string, from, to core.Language) (string, error) {
	dict := dictionaryENRU
	if from == core.LanguageRU {
		dict = dictionaryRUEN
	}

	tokens := textnorm.Tokenize(text)
	out := make([]string, len(tokens))
	for i, token := range tokens {
		if translated, ok := dict[token]; ok {
			out[i] = translated
		} else {
			out[i] = token
		}
	}
	return strings.Join(out, " "), nil
}
