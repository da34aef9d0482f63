// Package textnorm provides text normalization, language detection and
// content-word extraction shared by ingestion, linking and search.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/aphorium/aphorium/core"
)

// surrounding quote pairs stripped when they wrap the whole text
var quotePairs = [][2]string{
	{`"`, `"`},
	{`'`, `'`},
	{"“", "”"}, // “ ”
	{"«", "»"}, // « »
}

// Normalize prepares quote text for storage and search: NFC normalization,
// whitespace collapse, and removal of quotation marks wrapping the entire
// text.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = norm.NFC.String(text)
	text = strings.Join(strings.Fields(text), " ")

	for changed := true; changed; {
		changed = false
		for _, pair := range quotePairs {
			if len(text) > len(pair[0])+len(pair[1]) &&
				strings.HasPrefix(text, pair[0]) && strings.HasSuffix(text, pair[1]) {
				text = strings.TrimSpace(text[len(pair[0]) : len(text)-len(pair[1])])
				changed = true
			}
		}
	}

	return text
}

// DetectLanguage classifies text as Russian when it contains Cyrillic
// characters and English otherwise.
func DetectLanguage(text string) core.Language {
	for _, r := range text {
		if unicode.Is(unicode.Cyrillic, r) {
			return core.LanguageRU
		}
	}
	return core.LanguageEN
}
