package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/aphorium/aphorium/core"
	"github.com/aphorium/aphorium/storage"
)

// GetOrCreateAuthor finds or creates an author by its (language, name) tuple.
func (r *Repositories) GetOrCreateAuthor(ctx context.Context, author *core.Author) (*core.Author, error) {
	if err := core.ValidateAuthor(author); err != nil {
		return nil, err
	}

	existing, err := r.FindAuthorByName(ctx, author.Name, author.Language)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	created, err := r.addAuthor(author)
	if err != nil {
		// A concurrent caller may have created the same tuple; prefer the
		// winner's record over failing.
		if existing, findErr := r.FindAuthorByName(ctx, author.Name, author.Language); findErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return created, nil
}

func (r *Repositories) addAuthor(author *core.Author) (*core.Author, error) {
	id, err := nextID(r.authorSeq)
	if err != nil {
		return nil, err
	}

	stored := *author
	stored.Id = core.ID(id)
	stored.InsertedAt = time.Now().UTC()

	err = r.backend.WithTx(func(tx *badger.Txn) error {
		nameKey := makeAuthorNameKey(stored.Name, stored.Language)
		if _, err := tx.Get(nameKey); err == nil {
			return storage.ErrDuplicateKey
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		if err := tx.Set(makeAuthorKey(stored.Id), storage.MarshalAuthor(&stored)); err != nil {
			return err
		}
		if err := tx.Set(nameKey, storage.MarshalID(stored.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// GetAuthor retrieves a single author by ID.
func (r *Repositories) GetAuthor(ctx context.Context, id core.ID) (*core.Author, error) {
	var result *core.Author
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readAuthor(tx, makeAuthorKey(id))
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

// GetAuthors retrieves multiple authors by their IDs.
func (r *Repositories) GetAuthors(ctx context.Context, ids ...core.ID) ([]*core.Author, error) {
	var result []*core.Author
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			author, err := readAuthor(tx, makeAuthorKey(id))
			if err != nil {
				return err
			}
			if author != nil {
				result = append(result, author)
			}
		}
		return nil
	}, false)
	return result, err
}

// FindAuthorByName finds an author by name in the given language.
func (r *Repositories) FindAuthorByName(ctx context.Context, name string, lang core.Language) (*core.Author, error) {
	var result *core.Author
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		id, err := readID(tx, makeAuthorNameKey(name, lang))
		if err != nil {
			return err
		}
		result, err = readAuthor(tx, makeAuthorKey(id))
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

// readID reads an ID value from an index key.
// Returns storage.ErrNotFound when the key is absent.
func readID(tx *badger.Txn, key []byte) (core.ID, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return 0, storage.ErrNotFound
		}
		return 0, err
	}
	var id core.ID
	err = item.Value(func(val []byte) error {
		id, err = storage.UnmarshalID(val)
		return err
	})
	return id, err
}

// readAuthor reads an author from the transaction.
// Returns (nil, nil) when the key is absent.
func readAuthor(tx *badger.Txn, key []byte) (*core.Author, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var author *core.Author
	err = item.Value(func(val []byte) error {
		var err error
		author, err = storage.UnmarshalAuthor(val)
		return err
	})
	return author, err
}
