package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/aphorium/aphorium/core"
	"github.com/aphorium/aphorium/storage"
)

// GetOrCreateSource finds or creates a source by its (language, title) tuple.
func (r *Repositories) GetOrCreateSource(ctx context.Context, source *core.Source) (*core.Source, error) {
	if err := core.ValidateSource(source); err != nil {
		return nil, err
	}

	existing, err := r.FindSourceByTitle(ctx, source.Title, source.Language)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	created, err := r.addSource(source)
	if err != nil {
		if existing, findErr := r.FindSourceByTitle(ctx, source.Title, source.Language); findErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return created, nil
}

func (r *Repositories) addSource(source *core.Source) (*core.Source, error) {
	id, err := nextID(r.sourceSeq)
	if err != nil {
		return nil, err
	}

	stored := *source
	stored.Id = core.ID(id)
	stored.InsertedAt = time.Now().UTC()

	err = r.backend.WithTx(func(tx *badger.Txn) error {
		titleKey := makeSourceTitleKey(stored.Title, stored.Language)
		if _, err := tx.Get(titleKey); err == nil {
			return storage.ErrDuplicateKey
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		if err := tx.Set(makeSourceKey(stored.Id), storage.MarshalSource(&stored)); err != nil {
			return err
		}
		if err := tx.Set(titleKey, storage.MarshalID(stored.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// GetSource retrieves a single source by ID.
func (r *Repositories) GetSource(ctx context.Context, id core.ID) (*core.Source, error) {
	var result *core.Source
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readSource(tx, makeSourceKey(id))
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

// FindSourceByTitle finds a source by title in the given language.
func (r *Repositories) FindSourceByTitle(ctx context.Context, title string, lang core.Language) (*core.Source, error) {
	var result *core.Source
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		id, err := readID(tx, makeSourceTitleKey(title, lang))
		if err != nil {
			return err
		}
		result, err = readSource(tx, makeSourceKey(id))
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

// readSource reads a source from the transaction.
// Returns (nil, nil) when the key is absent.
func readSource(tx *badger.Txn, key []byte) (*core.Source, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var source *core.Source
	err = item.Value(func(val []byte) error {
		var err error
		source, err = storage.UnmarshalSource(val)
		return err
	})
	return source, err
}
