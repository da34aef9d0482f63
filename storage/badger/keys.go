package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/aphorium/aphorium/core"
)

// Key prefixes for different data types
const (
	quoteRecordPrefix     = "quorec"
	quoteAuthorLangPrefix = "quoal"
	quoteGroupPrefix      = "quogrp"
	groupIDSeq            = "quogrpseq"
	authorRecordPrefix    = "autrec"
	authorNamePrefix      = "autname"
	authorIDSeq           = "autrecseq"
	sourceRecordPrefix    = "srcrec"
	sourceTitlePrefix     = "srctitle"
	sourceIDSeq           = "srcrecseq"
	linkRecordPrefix      = "lnkrec"
	linkPairPrefix        = "lnkpair"
	linkQuotePrefix       = "lnkq"
	linkIDSeq             = "lnkrecseq"
)

// makeQuoteKey generates a key for a quote by ID.
func makeQuoteKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", quoteRecordPrefix, id))
}

// makeQuoteAuthorLangKey generates a composite key for the (author, language)
// index. Format: prefix:authorID:lang:quoteID, with IDs in BigEndian so
// lexicographic iteration yields ascending quote IDs.
func makeQuoteAuthorLangKey(authorID core.ID, lang core.Language, quoteID core.ID) []byte {
	buf := makePartialQuoteAuthorLangKey(authorID, lang)
	idBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(idBuf, uint64(quoteID))
	return append(buf, idBuf...)
}

// makePartialQuoteAuthorLangKey generates a partial key for scanning one
// author's quotes in one language.
func makePartialQuoteAuthorLangKey(authorID core.ID, lang core.Language) []byte {
	prefix := []byte(quoteAuthorLangPrefix + ":")
	buf := make([]byte, len(prefix)+8+len(lang))
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(authorID))
	offset += 8
	copy(buf[offset:], []byte(lang))
	return buf
}

// parseQuoteAuthorLangKey extracts the author ID, language and quote ID from
// an (author, language) index key.
func parseQuoteAuthorLangKey(key []byte) (core.ID, core.Language, core.ID, bool) {
	prefixLen := len(quoteAuthorLangPrefix) + 1
	if len(key) != prefixLen+8+2+8 {
		return 0, "", 0, false
	}
	authorID := core.ID(binary.BigEndian.Uint64(key[prefixLen:]))
	lang := core.Language(key[prefixLen+8 : prefixLen+10])
	quoteID := core.ID(binary.BigEndian.Uint64(key[prefixLen+10:]))
	return authorID, lang, quoteID, true
}

// makeQuoteGroupKey generates a composite key for the bilingual-group index.
// Format: prefix:groupID:quoteID in BigEndian.
func makeQuoteGroupKey(groupID, quoteID core.ID) []byte {
	buf := makePartialQuoteGroupKey(groupID)
	idBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(idBuf, uint64(quoteID))
	return append(buf, idBuf...)
}

// makePartialQuoteGroupKey generates a partial key for scanning one group.
func makePartialQuoteGroupKey(groupID core.ID) []byte {
	prefix := []byte(quoteGroupPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(groupID))
	return buf
}

// makeAuthorKey generates a key for an author by ID.
func makeAuthorKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", authorRecordPrefix, id))
}

// makeAuthorNameKey generates a composite key for author lookup by
// (language, name). Format: prefix:lang:name.
func makeAuthorNameKey(name string, lang core.Language) []byte {
	return []byte(authorNamePrefix + ":" + string(lang) + ":" + name)
}

// makeSourceKey generates a key for a source by ID.
func makeSourceKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", sourceRecordPrefix, id))
}

// makeSourceTitleKey generates a composite key for source lookup by
// (language, title). Format: prefix:lang:title.
func makeSourceTitleKey(title string, lang core.Language) []byte {
	return []byte(sourceTitlePrefix + ":" + string(lang) + ":" + title)
}

// makeLinkKey generates a key for a translation link by ID.
func makeLinkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", linkRecordPrefix, id))
}

// makeLinkPairKey generates the uniqueness key for the unordered quote pair.
// The lower ID always comes first, so (a,b) and (b,a) map to the same key.
func makeLinkPairKey(a, b core.ID) []byte {
	if b < a {
		a, b = b, a
	}
	prefix := []byte(linkPairPrefix + ":")
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(a))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(b))
	return buf
}

// makeLinkQuoteKey generates a composite key for the per-quote link index.
// Format: prefix:quoteID:linkID in BigEndian.
func makeLinkQuoteKey(quoteID, linkID core.ID) []byte {
	buf := makePartialLinkQuoteKey(quoteID)
	idBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(idBuf, uint64(linkID))
	return append(buf, idBuf...)
}

// makePartialLinkQuoteKey generates a partial key for scanning one quote's links.
func makePartialLinkQuoteKey(quoteID core.ID) []byte {
	prefix := []byte(linkQuotePrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(quoteID))
	return buf
}

// parseLinkQuoteKey extracts the link ID from a per-quote link index key.
func parseLinkQuoteKey(key []byte) (core.ID, bool) {
	prefixLen := len(linkQuotePrefix) + 1
	if len(key) != prefixLen+16 {
		return 0, false
	}
	return core.ID(binary.BigEndian.Uint64(key[prefixLen+8:])), true
}
