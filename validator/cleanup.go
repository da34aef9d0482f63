package validator

import (
	"regexp"
	"strings"
)

// Suffix shapes removed from accepted quotes. Each pattern anchors at the end
// of the text and only fires after a completed sentence, so the quote itself
// is never touched.
var (
	reSuffixQuotedIn = regexp.MustCompile(`(?i)\s*[;,—–-]*\s*as\s+(?:quoted|cited)\s+in\b[^.!?…]*[.!?…]?\s*$`)
	reSuffixCitation = regexp.MustCompile(`\s*,\s*[\p{Lu}][^,()]*\([^)]*\d{4}[^)]*\)(?:\s*,\s*pp?\.\s*[\d\sIVXivx,–—-]+)?\s*\.?\s*$`)
	reSuffixDate     = regexp.MustCompile(`\s*\((?:\d{1,2}\s+)?[\p{L}]*\s*\d{4}\)\s*\.?\s*$`)
	reSuffixRefNum   = regexp.MustCompile(`\s*\[\d+\]\s*$`)
	reSuffixFootnote = regexp.MustCompile(`\s*↑.*$`)
)

// trimTrailingRefs drops trailing [n] reference markers. They are never part
// of the quote text, so this runs before classification rather than as part
// of the guarded suffix strip.
func trimTrailingRefs(text string) string {
	for {
		stripped := strings.TrimSpace(reSuffixRefNum.ReplaceAllString(text, ""))
		if stripped == text {
			return text
		}
		text = stripped
	}
}

// stripCitationSuffix removes trailing citation clauses from an accepted
// quote: footnote tails, "as quoted in ..." attributions, and
// `, Publication (Date), p. N` suffixes. Stripping is conservative; a
// suffix is only removed when a sentence mark survives before it.
func stripCitationSuffix(text string) string {
	for {
		stripped := stripOnce(text)
		if stripped == text {
			return text
		}
		text = stripped
	}
}

func stripOnce(text string) string {
	if loc := reSuffixFootnote.FindStringIndex(text); loc != nil && loc[0] > 0 {
		return strings.TrimSpace(text[:loc[0]])
	}

	for _, re := range []*regexp.Regexp{reSuffixQuotedIn, reSuffixCitation, reSuffixDate} {
		loc := re.FindStringIndex(text)
		if loc == nil || loc[0] == 0 {
			continue
		}
		head := text[:loc[0]]
		if !strings.ContainsAny(head, sentenceMarks) {
			continue
		}
		return strings.TrimSpace(head)
	}

	return text
}
