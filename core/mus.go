package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the stored entities. The storage package wraps these
// in byte-slice helpers; nothing outside storage should need them directly.
var (
	IDMUS              = idMUS{}
	LanguageMUS        = languageMUS{}
	AuthorMUS          = authorMUS{}
	SourceMUS          = sourceMUS{}
	QuoteMUS           = quoteMUS{}
	TranslationLinkMUS = translationLinkMUS{}
)

// timeMUS stores timestamps as Unix microseconds.
type timeMUS struct{}

func (timeMUS) Marshal(t time.Time, bs []byte) int {
	return varint.Uint64.Marshal(uint64(t.UnixMicro()), bs)
}

func (timeMUS) Unmarshal(bs []byte) (time.Time, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(int64(v)).UTC(), n, nil
}

func (timeMUS) Size(t time.Time) int {
	return varint.Uint64.Size(uint64(t.UnixMicro()))
}

var timeSer = timeMUS{}

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

type languageMUS struct{}

func (languageMUS) Marshal(l Language, bs []byte) int {
	return ord.String.Marshal(string(l), bs)
}

func (languageMUS) Unmarshal(bs []byte) (Language, int, error) {
	s, n, err := ord.String.Unmarshal(bs)
	return Language(s), n, err
}

func (languageMUS) Size(l Language) int {
	return ord.String.Size(string(l))
}

type authorMUS struct{}

func (authorMUS) Marshal(a Author, bs []byte) (n int) {
	n = IDMUS.Marshal(a.Id, bs)
	n += ord.String.Marshal(a.Name, bs[n:])
	n += LanguageMUS.Marshal(a.Language, bs[n:])
	n += ord.String.Marshal(a.Bio, bs[n:])
	n += ord.String.Marshal(a.WikiquoteURL, bs[n:])
	n += timeSer.Marshal(a.InsertedAt, bs[n:])
	return n
}

func (authorMUS) Unmarshal(bs []byte) (a Author, n int, err error) {
	var m int
	if a.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if a.Name, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	if a.Language, m, err = LanguageMUS.Unmarshal(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	if a.Bio, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	if a.WikiquoteURL, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	if a.InsertedAt, m, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	return a, n, nil
}

func (authorMUS) Size(a Author) int {
	return IDMUS.Size(a.Id) +
		ord.String.Size(a.Name) +
		LanguageMUS.Size(a.Language) +
		ord.String.Size(a.Bio) +
		ord.String.Size(a.WikiquoteURL) +
		timeSer.Size(a.InsertedAt)
}

type sourceMUS struct{}

func (sourceMUS) Marshal(s Source, bs []byte) (n int) {
	n = IDMUS.Marshal(s.Id, bs)
	n += ord.String.Marshal(s.Title, bs[n:])
	n += LanguageMUS.Marshal(s.Language, bs[n:])
	n += IDMUS.Marshal(s.AuthorId, bs[n:])
	n += ord.String.Marshal(s.Type, bs[n:])
	n += timeSer.Marshal(s.InsertedAt, bs[n:])
	return n
}

func (sourceMUS) Unmarshal(bs []byte) (s Source, n int, err error) {
	var m int
	if s.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if s.Title, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return s, n + m, err
	}
	n += m
	if s.Language, m, err = LanguageMUS.Unmarshal(bs[n:]); err != nil {
		return s, n + m, err
	}
	n += m
	if s.AuthorId, m, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return s, n + m, err
	}
	n += m
	if s.Type, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return s, n + m, err
	}
	n += m
	if s.InsertedAt, m, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return s, n + m, err
	}
	n += m
	return s, n, nil
}

func (sourceMUS) Size(s Source) int {
	return IDMUS.Size(s.Id) +
		ord.String.Size(s.Title) +
		LanguageMUS.Size(s.Language) +
		IDMUS.Size(s.AuthorId) +
		ord.String.Size(s.Type) +
		timeSer.Size(s.InsertedAt)
}

type quoteMUS struct{}

func (quoteMUS) Marshal(q Quote, bs []byte) (n int) {
	n = IDMUS.Marshal(q.Id, bs)
	n += ord.String.Marshal(q.Text, bs[n:])
	n += LanguageMUS.Marshal(q.Language, bs[n:])
	n += IDMUS.Marshal(q.AuthorId, bs[n:])
	n += IDMUS.Marshal(q.SourceId, bs[n:])
	n += IDMUS.Marshal(q.BilingualGroupId, bs[n:])
	n += timeSer.Marshal(q.InsertedAt, bs[n:])
	n += timeSer.Marshal(q.UpdatedAt, bs[n:])
	return n
}

func (quoteMUS) Unmarshal(bs []byte) (q Quote, n int, err error) {
	var m int
	if q.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if q.Text, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return q, n + m, err
	}
	n += m
	if q.Language, m, err = LanguageMUS.Unmarshal(bs[n:]); err != nil {
		return q, n + m, err
	}
	n += m
	if q.AuthorId, m, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return q, n + m, err
	}
	n += m
	if q.SourceId, m, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return q, n + m, err
	}
	n += m
	if q.BilingualGroupId, m, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return q, n + m, err
	}
	n += m
	if q.InsertedAt, m, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return q, n + m, err
	}
	n += m
	if q.UpdatedAt, m, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return q, n + m, err
	}
	n += m
	return q, n, nil
}

func (quoteMUS) Size(q Quote) int {
	return IDMUS.Size(q.Id) +
		ord.String.Size(q.Text) +
		LanguageMUS.Size(q.Language) +
		IDMUS.Size(q.AuthorId) +
		IDMUS.Size(q.SourceId) +
		IDMUS.Size(q.BilingualGroupId) +
		timeSer.Size(q.InsertedAt) +
		timeSer.Size(q.UpdatedAt)
}

type translationLinkMUS struct{}

func (translationLinkMUS) Marshal(l TranslationLink, bs []byte) (n int) {
	n = IDMUS.Marshal(l.Id, bs)
	n += IDMUS.Marshal(l.QuoteId, bs[n:])
	n += IDMUS.Marshal(l.TranslatedQuoteId, bs[n:])
	n += varint.Int.Marshal(l.Confidence, bs[n:])
	n += ord.String.Marshal(l.Strategy, bs[n:])
	n += timeSer.Marshal(l.InsertedAt, bs[n:])
	return n
}

func (translationLinkMUS) Unmarshal(bs []byte) (l TranslationLink, n int, err error) {
	var m int
	if l.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if l.QuoteId, m, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return l, n + m, err
	}
	n += m
	if l.TranslatedQuoteId, m, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return l, n + m, err
	}
	n += m
	if l.Confidence, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return l, n + m, err
	}
	n += m
	if l.Strategy, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return l, n + m, err
	}
	n += m
	if l.InsertedAt, m, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return l, n + m, err
	}
	n += m
	return l, n, nil
}

func (translationLinkMUS) Size(l TranslationLink) int {
	return IDMUS.Size(l.Id) +
		IDMUS.Size(l.QuoteId) +
		IDMUS.Size(l.TranslatedQuoteId) +
		varint.Int.Size(l.Confidence) +
		ord.String.Size(l.Strategy) +
		timeSer.Size(l.InsertedAt)
}
