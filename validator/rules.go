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

package validator

import (
	"regexp"
	"strings"
)

// rule is a named rejection check. The name doubles as the Result.Reason so
// ingestion stats can report which rule fired.
type rule struct {
	name  string
	match func(text string) bool
}

func regexpRule(name string, re *regexp.Regexp) rule {
	return rule{name: name, match: re.MatchString}
}

// conditionalRule fires only when the match is not preceded by a completed
// sentence. Patterns like "(1943)" or ", as quoted in" are citation noise
// when they make up the whole fragment, but a legitimate trailing citation
// after a real sentence is handled by the suffix cleanup instead.
func conditionalRule(name string, re *regexp.Regexp) rule {
	return rule{name: name, match: func(text string) bool {
		loc := re.FindStringIndex(text)
		if loc == nil {
			return false
		}
		return !strings.ContainsAny(text[:loc[0]], sentenceMarks)
	}}
}

var (
	reFootnote = regexp.MustCompile(`^↑`)
	reURL      = regexp.MustCompile(`^(?:https?://|www\.)`)

	// Wiki navigation and index markers.
	reCategoryEN   = regexp.MustCompile(`^Category:`)
	reCategoryRU   = regexp.MustCompile(`^[Кк]атегория:`)
	reQuotationsEN = regexp.MustCompile(`\bFamous Quotations\b|^Quotations\b`)
	reSeeEN        = regexp.MustCompile(`^See\s`)
	reSeeRU        = regexp.MustCompile(`(?:^|\s)[Сс]м\.`)

	// Structural markers of a work: acts, chapters, parts, sections, volumes.
	reActSceneEN = regexp.MustCompile(`\bAct\s+(?:[IVX]+|\d+)(?:,?\s*[Ss]cene\s+(?:[ivxIVX]+|\d+))?\s*$`)
	reChapterEN  = regexp.MustCompile(`^Chapter\s+(?:[IVXLC]+|\d+)\b|,\s*Ch(?:apter)?\.?\s*\d+\s*$|\bCh\.\s*\d+\b`)
	reChapterRU  = regexp.MustCompile(`^Глава\s+(?:[IVXLC]+|\d+)\b|,\s*[Гг]л(?:ава)?\.?\s*\d+\s*$`)
	rePartEN     = regexp.MustCompile(`^Part\s+(?:[IVXLC]+|\d+|One|Two|Three|Four|Five)\s*(?:[:\-—]|$)|,\s*Part\s+(?:[IVXLC]+|\d+)\s*$`)
	rePartRU     = regexp.MustCompile(`^Часть\s+(?:[IVXLC]+|\d+|перва[яй]|втора[яй]|треть[яй])\s*(?:[:\-—]|$)|,\s*[Чч]асть\s+\d+\s*$`)
	reSectionEN  = regexp.MustCompile(`^(?:Section|Article)\s+(?:[IVXLC]+|\d+)\s*(?:[:\-—]|$)`)
	reSectionRU  = regexp.MustCompile(`^(?:Раздел|Секция|Статья)\s+\d+\s*(?:[:\-—]|$)`)
	reVolumeEN   = regexp.MustCompile(`\bVol(?:ume)?\.?\s*(?:[IVXLC]+|\d+)\b`)
	reVolumeRU   = regexp.MustCompile(`(?:^|[\s(,])\s*[Тт]ом\.?\s*\d+`)

	// Publishing metadata.
	rePublishedEN = regexp.MustCompile(`\b[Pp]ublished\s+(?:as|by|in)\b`)
	rePublisherEN = regexp.MustCompile(`\b(?:Penguin(?:\s+Books)?|Random House|HarperCollins|Simon & Schuster|Macmillan|Hachette|Scholastic|(?:Oxford|Cambridge|Harvard|Princeton|Yale)\s+University Press|MIT Press|University Press)\b`)
	rePublisherRU = regexp.MustCompile(`(?:^|\s)Издательств[оае]|(?:^|\s)Издатель(?:$|[\s.,])`)

	// `"Title", Publication (Date)` — an article citation, the most common
	// noise shape on quote compilation pages.
	rePublicationEN = regexp.MustCompile(`^["“][^"”]+["”],\s+[A-Z][^,]+\)?$`)
	rePublicationRU = regexp.MustCompile(`^[«"][^»"]+[»"],\s+[А-ЯЁ][^,]+\)?$`)

	// Letter/comment citations: `Letter to X (Date)`.
	reLetterEN = regexp.MustCompile(`^(?:Letter|Comment|Speech|Interview)\s+(?:to|with|while|on|in|at)\b.*\([^)]*\d{4}[^)]*\)`)
	reLetterRU = regexp.MustCompile(`^(?:Письмо|Речь|Интервью)\s+.*\([^)]*\d{4}[^)]*\)`)

	// Attribution metadata.
	reQuotedInEN     = regexp.MustCompile(`[,;]\s+(?:as\s+)?(?:quoted|cited)\s+in\b`)
	reQuotedInLeadEN = regexp.MustCompile(`(?i)^(?:as\s+)?(?:quoted|cited)\s+in\b`)
	reByAuthorEN = regexp.MustCompile(`\b(?:by|attributed to)\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\s*$`)
	reByAuthorRU = regexp.MustCompile(`(?:^|\s)[Аа]втор[а-яё]*:\s*[А-ЯЁ]`)

	// Bare dates in parentheses.
	reDateParenEN = regexp.MustCompile(`\(\d{1,2}\s+[A-Z][a-z]+\s+\d{4}\)|\([A-Z][a-z]+\s+\d{1,2},?\s+\d{4}\)|\(\d{4}\)`)
	reDateParenRU = regexp.MustCompile(`\(\d{1,2}\s+[а-яё]+\s+\d{4}\)|\(\d{4}\)`)

	// `Title (Year)` and `Title: Subtitle` shapes without sentence punctuation.
	reTitleYearEN = regexp.MustCompile(`^[A-Z][^.!?…]{5,150}\([^)]*\d{4}[^)]*\)\s*$`)
	reTitleYearRU = regexp.MustCompile(`^[А-ЯЁ][^.!?…]{5,150}\([^)]*\d{4}[^)]*\)\s*$`)

	reRefNumber = regexp.MustCompile(`^\s*\[\d+\]`)
)

func englishRules() []rule {
	return []rule{
		regexpRule("footnote_reference", reFootnote),
		regexpRule("url", reURL),
		regexpRule("reference_number", reRefNumber),
		regexpRule("category_marker", reCategoryEN),
		regexpRule("quotations_index", reQuotationsEN),
		regexpRule("see_reference", reSeeEN),
		regexpRule("act_scene", reActSceneEN),
		regexpRule("chapter_marker", reChapterEN),
		regexpRule("part_marker", rePartEN),
		regexpRule("section_marker", reSectionEN),
		regexpRule("volume_marker", reVolumeEN),
		regexpRule("published_marker", rePublishedEN),
		regexpRule("publisher_name", rePublisherEN),
		regexpRule("publication_citation", rePublicationEN),
		regexpRule("letter_citation", reLetterEN),
		regexpRule("title_year", reTitleYearEN),
		regexpRule("quoted_in", reQuotedInLeadEN),
		conditionalRule("quoted_in", reQuotedInEN),
		conditionalRule("author_suffix", reByAuthorEN),
		conditionalRule("date_parenthetical", reDateParenEN),
	}
}

func russianRules() []rule {
	return []rule{
		regexpRule("footnote_reference", reFootnote),
		regexpRule("url", reURL),
		regexpRule("reference_number", reRefNumber),
		regexpRule("category_marker", reCategoryRU),
		regexpRule("see_reference", reSeeRU),
		regexpRule("chapter_marker", reChapterRU),
		regexpRule("part_marker", rePartRU),
		regexpRule("section_marker", reSectionRU),
		regexpRule("volume_marker", reVolumeRU),
		regexpRule("publisher_name", rePublisherRU),
		regexpRule("publication_citation", rePublicationRU),
		regexpRule("letter_citation", reLetterRU),
		regexpRule("title_year", reTitleYearRU),
		regexpRule("author_marker", reByAuthorRU),
		conditionalRule("date_parenthetical", reDateParenRU),
	}
}

// Positive evidence that a fragment really is a quote: an internal quotation,
// an attribution dash, or a reporting verb.
var (
	reInternalQuote   = regexp.MustCompile(`["“«][^"”»]{5,}["”»]`)
	reAttributionDash = regexp.MustCompile(`[—–-]\s*\p{Lu}`)
	reQuoteVerbEN     = regexp.MustCompile(`\b(?:said|says|wrote|writes|remarked|declared|stated|asked|replied)\b`)
	reQuoteVerbRU     = regexp.MustCompile(`(?:^|\s)(?:сказал|говорил|писал|заметил|заявил|спросил|ответил)`)
)

func hasPositiveIndicator(text string) bool {
	return reInternalQuote.MatchString(text) ||
		reAttributionDash.MatchString(text) ||
		reQuoteVerbEN.MatchString(text) ||
		reQuoteVerbRU.MatchString(strings.ToLower(text))
}
