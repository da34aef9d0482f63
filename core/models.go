package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Quote IDs are content-derived; author, source, group and link IDs come
// from database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Language identifies the language of a quote, author name or source title.
type Language string

const (
	// LanguageEN is English.
	LanguageEN Language = "en"
	// LanguageRU is Russian.
	LanguageRU Language = "ru"
)

// Valid reports whether the language is one of the supported values.
func (l Language) Valid() bool {
	return l == LanguageEN || l == LanguageRU
}

// Other returns the opposite supported language.
func (l Language) Other() Language {
	if l == LanguageEN {
		return LanguageRU
	}
	return LanguageEN
}

// Author represents a quote author in one language.
// The same person appearing under an English and a Russian name is two
// Author rows; quotes in either language may still reference either row.
type Author struct {
	Id           ID
	Name         string
	Language     Language
	Bio          string
	WikiquoteURL string
	InsertedAt   time.Time
}

// Tuple returns a string representation of the author as "(language,name)".
// This is the author's identity key.
func (a *Author) Tuple() string {
	return "(" + string(a.Language) + "," + a.Name + ")"
}

// Source represents a literary work a quote may belong to.
type Source struct {
	Id         ID
	Title      string
	Language   Language
	AuthorId   ID // 0 when the work has no known author row
	Type       string
	InsertedAt time.Time
}

// Quote represents a single aphorism in one language.
// Text is stored normalized. Language is fixed at creation. BilingualGroupId
// is 0 until the linker assigns the quote to a cross-language group; once
// assigned it is never changed to a different group.
type Quote struct {
	Id               ID
	Text             string
	Language         Language
	AuthorId         ID // 0 when unattributed
	SourceId         ID // 0 when the source is unknown
	BilingualGroupId ID // 0 when not yet linked
	InsertedAt       time.Time
	UpdatedAt        time.Time
}

// QuoteID derives the content-based ID for a quote from its normalized text,
// language and author. Re-ingesting the same fragment therefore produces the
// same ID, which is what makes quote creation idempotent.
func QuoteID(normalizedText string, lang Language, authorId ID) ID {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(authorId))
	return IDFromContent(normalizedText + "\x00" + string(lang) + "\x00" + string(buf[:]))
}

// TranslationLink records that two quotes in different languages express the
// same aphorism. The unordered pair (QuoteId, TranslatedQuoteId) is unique.
type TranslationLink struct {
	Id                ID
	QuoteId           ID
	TranslatedQuoteId ID
	Confidence        int // 0-100, matching-algorithm certainty
	Strategy          string
	InsertedAt        time.Time
}

// Linking strategies recorded on translation links.
const (
	StrategyManual      = "manual"
	StrategySourceMatch = "source_match"
	StrategySimilarity  = "similarity"
)

// QuoteHit is a full-text search hit with its backend relevance score.
type QuoteHit struct {
	Quote *Quote
	Score float64
}

// BilingualPair is one search result: up to one quote per language judged to
// express the same aphorism. IsTranslated is true when the counterpart is
// present only because of a group link, not because it matched the query in
// its own language.
type BilingualPair struct {
	English      *Quote
	Russian      *Quote
	IsTranslated bool
	Score        float64
}

// PrimaryId returns the lowest member quote id, used for deterministic
// ordering of pairs with equal scores.
func (p *BilingualPair) PrimaryId() ID {
	switch {
	case p.English != nil && p.Russian != nil:
		if p.English.Id < p.Russian.Id {
			return p.English.Id
		}
		return p.Russian.Id
	case p.English != nil:
		return p.English.Id
	case p.Russian != nil:
		return p.Russian.Id
	}
	return 0
}

// Member returns the pair's quote in the given language, or nil.
func (p *BilingualPair) Member(lang Language) *Quote {
	if lang == LanguageEN {
		return p.English
	}
	return p.Russian
}

// SetMember assigns the pair's quote for the given language.
func (p *BilingualPair) SetMember(lang Language, q *Quote) {
	if lang == LanguageEN {
		p.English = q
	} else {
		p.Russian = q
	}
}
