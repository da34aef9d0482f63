package badger

import (
	"context"
	"encoding/binary"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/aphorium/aphorium/core"
	"github.com/aphorium/aphorium/storage"
)

// CreateQuote stores a quote under its content-derived ID. Returns the stored
// quote and true when a new record was created, or the existing record and
// false when the same (text, language, author) was already stored.
func (r *Repositories) CreateQuote(ctx context.Context, quote *core.Quote) (*core.Quote, bool, error) {
	if err := core.ValidateQuote(quote); err != nil {
		return nil, false, err
	}

	stored := *quote
	if stored.Id == 0 {
		stored.Id = core.QuoteID(stored.Text, stored.Language, stored.AuthorId)
	}

	var existing *core.Quote
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeQuoteKey(stored.Id)

		found, err := readQuote(tx, key)
		if err != nil {
			return err
		}
		if found != nil {
			existing = found
			return nil
		}

		now := time.Now().UTC()
		stored.InsertedAt = now
		stored.UpdatedAt = now

		if err := tx.Set(key, storage.MarshalQuote(&stored)); err != nil {
			return err
		}
		indexKey := makeQuoteAuthorLangKey(stored.AuthorId, stored.Language, stored.Id)
		if err := tx.Set(indexKey, nil); err != nil {
			return err
		}
		if stored.BilingualGroupId != 0 {
			if err := tx.Set(makeQuoteGroupKey(stored.BilingualGroupId, stored.Id), nil); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	return &stored, true, nil
}

// GetQuote retrieves a single quote by ID.
func (r *Repositories) GetQuote(ctx context.Context, id core.ID) (*core.Quote, error) {
	var result *core.Quote
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readQuote(tx, makeQuoteKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetQuotes retrieves multiple quotes by their IDs.
func (r *Repositories) GetQuotes(ctx context.Context, ids ...core.ID) ([]*core.Quote, error) {
	var result []*core.Quote
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			quote, err := readQuote(tx, makeQuoteKey(id))
			if err != nil {
				return err
			}
			if quote != nil {
				result = append(result, quote)
			}
		}
		return nil
	}, false)
	return result, err
}

// UpdateQuoteText replaces the text of an existing quote, keeping its record ID.
func (r *Repositories) UpdateQuoteText(ctx context.Context, id core.ID, text string) (*core.Quote, error) {
	if text == "" {
		return nil, core.ErrEmptyText
	}

	var result *core.Quote
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeQuoteKey(id)
		quote, err := readQuote(tx, key)
		if err != nil {
			return err
		}
		if quote == nil {
			return storage.ErrNotFound
		}

		quote.Text = text
		quote.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalQuote(quote)); err != nil {
			return err
		}
		result = quote
		return tx.Commit()
	}, true)
	return result, err
}

// DeleteQuotes removes quotes by their IDs, along with their indices.
func (r *Repositories) DeleteQuotes(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeQuoteKey(id)
			quote, err := readQuote(tx, key)
			if err != nil {
				return err
			}
			if quote == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeQuoteAuthorLangKey(quote.AuthorId, quote.Language, id)); err != nil {
				return err
			}
			if quote.BilingualGroupId != 0 {
				if err := tx.Delete(makeQuoteGroupKey(quote.BilingualGroupId, id)); err != nil {
					return err
				}
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetByAuthorAndLanguage retrieves all quotes of one author in one language,
// ordered by quote ID ascending.
func (r *Repositories) GetByAuthorAndLanguage(ctx context.Context, authorId core.ID, lang core.Language) ([]*core.Quote, error) {
	var result []*core.Quote
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialQuoteAuthorLangKey(authorId, lang)

		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		var ids []core.ID
		for iter.Rewind(); iter.Valid(); iter.Next() {
			_, _, quoteID, ok := parseQuoteAuthorLangKey(iter.Item().Key())
			if !ok {
				continue
			}
			ids = append(ids, quoteID)
		}

		for _, id := range ids {
			quote, err := readQuote(tx, makeQuoteKey(id))
			if err != nil {
				return err
			}
			if quote != nil {
				result = append(result, quote)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetByBilingualGroup retrieves all quotes assigned to a bilingual group,
// ordered by quote ID ascending.
func (r *Repositories) GetByBilingualGroup(ctx context.Context, groupId core.ID) ([]*core.Quote, error) {
	var result []*core.Quote
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialQuoteGroupKey(groupId)
		prefixLen := len(prefix)

		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		var ids []core.ID
		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) != prefixLen+8 {
				continue
			}
			ids = append(ids, core.ID(binary.BigEndian.Uint64(key[prefixLen:])))
		}

		for _, id := range ids {
			quote, err := readQuote(tx, makeQuoteKey(id))
			if err != nil {
				return err
			}
			if quote != nil {
				result = append(result, quote)
			}
		}
		return nil
	}, false)
	return result, err
}

// SetBilingualGroup assigns quotes to a bilingual group. Group membership is
// never reassigned: quotes already in the group are skipped, quotes in a
// different group fail the whole call with ErrGroupConflict.
func (r *Repositories) SetBilingualGroup(ctx context.Context, groupId core.ID, quoteIds ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := assignGroupTx(tx, groupId, quoteIds); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// assignGroupTx applies one group assignment inside an open transaction.
func assignGroupTx(tx *badger.Txn, groupId core.ID, quoteIds []core.ID) error {
	for _, id := range quoteIds {
		key := makeQuoteKey(id)
		quote, err := readQuote(tx, key)
		if err != nil {
			return err
		}
		if quote == nil {
			return storage.ErrNotFound
		}
		if quote.BilingualGroupId == groupId {
			continue
		}
		if quote.BilingualGroupId != 0 {
			return storage.ErrGroupConflict
		}

		quote.BilingualGroupId = groupId
		quote.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalQuote(quote)); err != nil {
			return err
		}
		if err := tx.Set(makeQuoteGroupKey(groupId, id), nil); err != nil {
			return err
		}
	}
	return nil
}

// AuthorsWithBothLanguages returns the IDs of authors that have at least one
// quote in each supported language, ordered ascending.
func (r *Repositories) AuthorsWithBothLanguages(ctx context.Context) ([]core.ID, error) {
	const (
		maskEN = 1 << 0
		maskRU = 1 << 1
	)

	langs := make(map[core.ID]uint8)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(quoteAuthorLangPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			authorID, lang, _, ok := parseQuoteAuthorLangKey(iter.Item().Key())
			if !ok || authorID == 0 {
				continue
			}
			switch lang {
			case core.LanguageEN:
				langs[authorID] |= maskEN
			case core.LanguageRU:
				langs[authorID] |= maskRU
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	var result []core.ID
	for id, mask := range langs {
		if mask == maskEN|maskRU {
			result = append(result, id)
		}
	}
	slices.Sort(result)
	return result, nil
}

// NextGroupID reserves and returns a fresh bilingual group ID.
func (r *Repositories) NextGroupID(ctx context.Context) (core.ID, error) {
	id, err := nextID(r.groupSeq)
	return core.ID(id), err
}

// ForEachQuote iterates over all quotes in key order, calling fn for each.
func (r *Repositories) ForEachQuote(ctx context.Context, fn func(quote *core.Quote) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(quoteRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var quote *core.Quote
			err := iter.Item().Value(func(val []byte) error {
				var err error
				quote, err = storage.UnmarshalQuote(val)
				return err
			})
			if err != nil {
				return err
			}
			if quote == nil {
				continue
			}
			if err := fn(quote); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// readQuote reads a quote from the transaction.
// Returns (nil, nil) when the key is absent.
func readQuote(tx *badger.Txn, key []byte) (*core.Quote, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var quote *core.Quote
	err = item.Value(func(val []byte) error {
		var err error
		quote, err = storage.UnmarshalQuote(val)
		return err
	})
	return quote, err
}
