// Package validator classifies raw scraped text fragments as genuine quotes
// or citation/metadata noise. Classification is pure and never fails: the
// result is always a decision, with rejected data-quality issues reported as
// a reason string rather than an error.
package validator

import (
	"strings"
	"unicode"

	"github.com/aphorium/aphorium/core"
	"github.com/aphorium/aphorium/textnorm"
)

// Rejection reasons produced by the classification pipeline. Rule-table
// rejections use the individual rule name instead.
const (
	ReasonTooShort     = "too_short"
	ReasonUnterminated = "unterminated"
	ReasonTitleCase    = "title_case"
	ReasonNoIndicator  = "no_indicator"
)

// Config holds classification thresholds.
type Config struct {
	// MinLength is the minimum rune length of a fragment that can be a quote.
	MinLength int

	// UnterminatedMax is the rune length below which a fragment without a
	// terminal sentence mark is rejected. Longer unterminated fragments are
	// tolerated; prose scraped mid-paragraph often loses its final period.
	UnterminatedMax int
}

// DefaultConfig returns the thresholds used in production.
func DefaultConfig() Config {
	return Config{
		MinLength:       30,
		UnterminatedMax: 150,
	}
}

// Result is a classification decision. Cleaned carries the accepted text
// after a best-effort trailing-citation trim; it equals the normalized input
// when nothing was stripped.
type Result struct {
	Accepted bool
	Reason   string
	Cleaned  string
}

// Validator decides whether a text fragment is a quote. Rules are keyed by
// language: supporting a new language means registering a new rule table,
// not changing the pipeline.
type Validator struct {
	cfg   Config
	rules map[core.Language][]rule
}

// New creates a validator with rule tables for English and Russian.
func New(cfg Config) *Validator {
	if cfg.MinLength <= 0 {
		cfg.MinLength = DefaultConfig().MinLength
	}
	if cfg.UnterminatedMax <= 0 {
		cfg.UnterminatedMax = DefaultConfig().UnterminatedMax
	}

	return &Validator{
		cfg: cfg,
		rules: map[core.Language][]rule{
			core.LanguageEN: englishRules(),
			core.LanguageRU: russianRules(),
		},
	}
}

// Classify runs the ordered rejection pipeline; the first matching rejection
// wins. Accepted fragments get a best-effort citation-suffix trim.
func (v *Validator) Classify(text string, lang core.Language) Result {
	normalized := trimTrailingRefs(textnorm.Normalize(text))
	length := len([]rune(normalized))

	if length < v.cfg.MinLength {
		return Result{Reason: ReasonTooShort}
	}

	terminated := endsWithSentenceMark(normalized)

	if !terminated && length < v.cfg.UnterminatedMax {
		return Result{Reason: ReasonUnterminated}
	}

	if !terminated && isTitleCase(normalized) {
		return Result{Reason: ReasonTitleCase}
	}

	for _, r := range v.rules[lang] {
		if r.match(normalized) {
			return Result{Reason: r.name}
		}
	}

	// A long fragment with no sentence punctuation at all survived the
	// threshold checks above; on its own that is not enough evidence of a
	// quote, so demand a positive indicator.
	if !containsSentenceMark(normalized) && !hasPositiveIndicator(normalized) {
		return Result{Reason: ReasonNoIndicator}
	}

	cleaned := stripCitationSuffix(normalized)
	if len([]rune(cleaned)) < v.cfg.MinLength {
		cleaned = normalized
	}

	return Result{Accepted: true, Cleaned: cleaned}
}

// sentence marks recognized as terminators
const sentenceMarks = ".!?…"

// characters allowed after the final sentence mark (closing quotes, brackets)
const closingMarks = `"'»”’)]`

func endsWithSentenceMark(text string) bool {
	runes := []rune(text)
	for i := len(runes) - 1; i >= 0; i-- {
		r := runes[i]
		if strings.ContainsRune(closingMarks, r) || unicode.IsSpace(r) {
			continue
		}
		return strings.ContainsRune(sentenceMarks, r)
	}
	return false
}

func containsSentenceMark(text string) bool {
	return strings.ContainsAny(text, sentenceMarks)
}

// isTitleCase reports whether every word starting with a letter is
// capitalized, the shape of a book or article title.
func isTitleCase(text string) bool {
	words := strings.Fields(text)
	if len(words) < 2 {
		return false
	}

	letterWords := 0
	for _, word := range words {
		r := []rune(word)[0]
		if !unicode.IsLetter(r) {
			continue
		}
		letterWords++
		if !unicode.IsUpper(r) {
			return false
		}
	}

	return letterWords >= 2
}
