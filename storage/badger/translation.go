package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/aphorium/aphorium/core"
	"github.com/aphorium/aphorium/storage"
)

// AddLink stores a translation link between two quotes. The unordered pair is
// unique; an existing pair is returned as-is instead of inserting. Linking
// quotes of the same language is rejected.
func (r *Repositories) AddLink(ctx context.Context, link *core.TranslationLink) (*core.TranslationLink, error) {
	if err := core.ValidateTranslationLink(link); err != nil {
		return nil, err
	}

	var stored *core.TranslationLink
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		stored, _, err = r.addLinkTx(tx, storage.LinkSpec{
			QuoteId:           link.QuoteId,
			TranslatedQuoteId: link.TranslatedQuoteId,
			Confidence:        link.Confidence,
			Strategy:          link.Strategy,
		})
		if err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// addLinkTx creates one link inside an open transaction. An existing pair is
// left untouched and returned with created == false.
func (r *Repositories) addLinkTx(tx *badger.Txn, spec storage.LinkSpec) (*core.TranslationLink, bool, error) {
	a, err := readQuote(tx, makeQuoteKey(spec.QuoteId))
	if err != nil {
		return nil, false, err
	}
	b, err := readQuote(tx, makeQuoteKey(spec.TranslatedQuoteId))
	if err != nil {
		return nil, false, err
	}
	if a == nil || b == nil {
		return nil, false, storage.ErrNotFound
	}
	if a.Language == b.Language {
		return nil, false, storage.ErrLanguageMismatch
	}

	pairKey := makeLinkPairKey(spec.QuoteId, spec.TranslatedQuoteId)
	if item, err := tx.Get(pairKey); err == nil {
		var existing *core.TranslationLink
		valErr := item.Value(func(val []byte) error {
			id, err := storage.UnmarshalID(val)
			if err != nil {
				return err
			}
			existing, err = readLink(tx, makeLinkKey(id))
			return err
		})
		if valErr != nil {
			return nil, false, valErr
		}
		return existing, false, nil
	} else if err != badger.ErrKeyNotFound {
		return nil, false, err
	}

	id, err := nextID(r.linkSeq)
	if err != nil {
		return nil, false, err
	}

	link := &core.TranslationLink{
		Id:                core.ID(id),
		QuoteId:           spec.QuoteId,
		TranslatedQuoteId: spec.TranslatedQuoteId,
		Confidence:        spec.Confidence,
		Strategy:          spec.Strategy,
		InsertedAt:        time.Now().UTC(),
	}

	if err := tx.Set(makeLinkKey(link.Id), storage.MarshalTranslationLink(link)); err != nil {
		return nil, false, err
	}
	if err := tx.Set(pairKey, storage.MarshalID(link.Id)); err != nil {
		return nil, false, err
	}
	if err := tx.Set(makeLinkQuoteKey(link.QuoteId, link.Id), nil); err != nil {
		return nil, false, err
	}
	if err := tx.Set(makeLinkQuoteKey(link.TranslatedQuoteId, link.Id), nil); err != nil {
		return nil, false, err
	}
	return link, true, nil
}

// LinksForQuote retrieves all links that mention the quote, on either side,
// ordered by link ID ascending.
func (r *Repositories) LinksForQuote(ctx context.Context, quoteId core.ID) ([]*core.TranslationLink, error) {
	var result []*core.TranslationLink
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		ids, err := linkIDsForQuote(tx, quoteId)
		if err != nil {
			return err
		}
		for _, id := range ids {
			link, err := readLink(tx, makeLinkKey(id))
			if err != nil {
				return err
			}
			if link != nil {
				result = append(result, link)
			}
		}
		return nil
	}, false)
	return result, err
}

// AllLinks retrieves every stored translation link, ordered by ID ascending.
func (r *Repositories) AllLinks(ctx context.Context) ([]*core.TranslationLink, error) {
	var result []*core.TranslationLink
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(linkRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				link, err := storage.UnmarshalTranslationLink(val)
				if err != nil {
					return err
				}
				result = append(result, link)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Record keys are decimal, so iteration order is lexicographic.
	slices.SortFunc(result, func(a, b *core.TranslationLink) int {
		switch {
		case a.Id < b.Id:
			return -1
		case a.Id > b.Id:
			return 1
		}
		return 0
	})
	return result, nil
}

// DeleteLinksFor removes every link mentioning any of the given quotes.
func (r *Repositories) DeleteLinksFor(ctx context.Context, quoteIds ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, quoteId := range quoteIds {
			ids, err := linkIDsForQuote(tx, quoteId)
			if err != nil {
				return err
			}
			for _, id := range ids {
				link, err := readLink(tx, makeLinkKey(id))
				if err != nil {
					return err
				}
				if link == nil {
					continue
				}
				if err := tx.Delete(makeLinkPairKey(link.QuoteId, link.TranslatedQuoteId)); err != nil {
					return err
				}
				if err := tx.Delete(makeLinkQuoteKey(link.QuoteId, link.Id)); err != nil {
					return err
				}
				if err := tx.Delete(makeLinkQuoteKey(link.TranslatedQuoteId, link.Id)); err != nil {
					return err
				}
				if err := tx.Delete(makeLinkKey(link.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)
}

// ApplyBatch applies a linker result atomically: all group assignments and
// links are committed in one transaction, or none are.
func (r *Repositories) ApplyBatch(ctx context.Context, batch *storage.LinkBatch) error {
	if batch.Empty() {
		return nil
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, group := range batch.Groups {
			if err := assignGroupTx(tx, group.GroupId, group.QuoteIds); err != nil {
				return err
			}
		}
		for _, spec := range batch.Links {
			if _, _, err := r.addLinkTx(tx, spec); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// linkIDsForQuote collects the IDs of every link mentioning the quote.
func linkIDsForQuote(tx *badger.Txn, quoteId core.ID) ([]core.ID, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makePartialLinkQuoteKey(quoteId)
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var ids []core.ID
	for iter.Rewind(); iter.Valid(); iter.Next() {
		id, ok := parseLinkQuoteKey(iter.Item().Key())
		if !ok {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// readLink reads a translation link from the transaction.
// Returns (nil, nil) when the key is absent.
func readLink(tx *badger.Txn, key []byte) (*core.TranslationLink, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var link *core.TranslationLink
	err = item.Value(func(val []byte) error {
		var err error
		link, err = storage.UnmarshalTranslationLink(val)
		return err
	})
	return link, err
}
