package textnorm

import (
	"strings"

	"github.com/blevesearch/snowballstem"
	"github.com/blevesearch/snowballstem/english"
	"github.com/blevesearch/snowballstem/russian"

	"github.com/aphorium/aphorium/core"
)

// Stop words filtered out before similarity scoring. Function words only;
// anything that carries meaning stays in.
var stopWordsEN = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "were": true, "to": true, "of": true, "and": true, "in": true,
	"that": true, "have": true, "has": true, "it": true, "for": true,
	"not": true, "on": true, "with": true, "as": true, "you": true, "do": true,
	"at": true, "this": true, "but": true, "by": true, "from": true,
	"or": true, "his": true, "her": true, "my": true, "your": true,
	"what": true, "which": true, "who": true, "will": true, "would": true,
	"there": true, "their": true, "all": true, "we": true, "they": true,
}

var stopWordsRU = map[string]bool{
	"и": true, "в": true, "не": true, "на": true, "я": true, "что": true,
	"он": true, "с": true, "а": true, "то": true, "как": true, "его": true,
	"но": true, "это": true, "она": true, "по": true, "к": true, "у": true,
	"из": true, "за": true, "от": true, "же": true, "бы": true, "о": true,
	"так": true, "для": true, "мы": true, "они": true, "вы": true, "ты": true,
	"все": true, "всё": true, "был": true, "была": true, "было": true,
	"есть": true, "или": true, "ли": true, "до": true, "когда": true,
}

const trimCutset = ".,!?;:'\"«»“”‘’-–—()[]{}…"

// Tokenize splits text into lowercase words with surrounding punctuation
// removed. Empty tokens are dropped.
func Tokenize(text string) []string {
	words := strings.Fields(text)
	tokens := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.Trim(strings.ToLower(word), trimCutset)
		if cleaned != "" {
			tokens = append(tokens, cleaned)
		}
	}

	return tokens
}

// Stem reduces a single lowercase word to its Snowball stem for the given
// language. Unknown languages pass the word through unchanged.
func Stem(word string, lang core.Language) string {
	env := snowballstem.NewEnv(word)
	switch lang {
	case core.LanguageEN:
		english.Stem(env)
	case core.LanguageRU:
		russian.Stem(env)
	default:
		return word
	}
	return env.Current()
}

// ContentStems tokenizes text, drops stop words, and stems what remains.
// The result is the set of content-word stems used for similarity scoring;
// duplicates are removed, order follows first occurrence.
func ContentStems(text string, lang core.Language) []string {
	stops := stopWordsEN
	if lang == core.LanguageRU {
		stops = stopWordsRU
	}

	seen := make(map[string]bool)
	var stems []string
	for _, token := range Tokenize(text) {
		if stops[token] {
			continue
		}
		stem := Stem(token, lang)
		if stem == "" || seen[stem] {
			continue
		}
		seen[stem] = true
		stems = append(stems, stem)
	}

	return stems
}
