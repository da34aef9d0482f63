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

// Package badger implements the storage repositories on BadgerDB.
package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/aphorium/aphorium/storage"
)

// Repositories implements storage.Repositories on a single BadgerDB backend.
// One instance owns the ID sequences; create it once per database.
type Repositories struct {
	backend   *Backend
	ownsBack  bool
	authorSeq *badger.Sequence
	sourceSeq *badger.Sequence
	linkSeq   *badger.Sequence
	groupSeq  *badger.Sequence
}

var _ storage.Repositories = (*Repositories)(nil)

// NewRepositories opens a BadgerDB database at path and returns repositories
// over it. Closing the repositories closes the database.
func NewRepositories(path string) (storage.Repositories, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	repos, err := newRepositories(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	repos.ownsBack = true
	return repos, nil
}

// NewRepositoriesWithBackend returns repositories over an existing backend.
// The caller keeps ownership of the backend.
func NewRepositoriesWithBackend(backend *Backend) (storage.Repositories, error) {
	return newRepositories(backend)
}

func newRepositories(backend *Backend) (*Repositories, error) {
	r := &Repositories{backend: backend}

	var err error
	seqs := []struct {
		name string
		dst  **badger.Sequence
	}{
		{authorIDSeq, &r.authorSeq},
		{sourceIDSeq, &r.sourceSeq},
		{linkIDSeq, &r.linkSeq},
		{groupIDSeq, &r.groupSeq},
	}
	for _, s := range seqs {
		if *s.dst, err = backend.GetSequence(s.name); err != nil {
			r.releaseSequences()
			return nil, err
		}
	}

	return r, nil
}

// WithTransaction delegates to the backend.
func (r *Repositories) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// Close releases the ID sequences and, when the repositories own the backend,
// closes the database.
func (r *Repositories) Close() error {
	err := r.releaseSequences()
	if r.ownsBack {
		if closeErr := r.backend.Close(); err == nil {
			err = closeErr
		}
	}
	return err
}

func (r *Repositories) releaseSequences() error {
	var err error
	for _, seq := range []*badger.Sequence{r.authorSeq, r.sourceSeq, r.linkSeq, r.groupSeq} {
		if seq == nil {
			continue
		}
		if relErr := seq.Release(); err == nil {
			err = relErr
		}
	}
	return err
}

// nextID draws the next non-zero ID from a sequence. Zero is reserved to mean
// "unset" throughout the data model.
func nextID(seq *badger.Sequence) (uint64, error) {
	for {
		v, err := seq.Next()
		if err != nil {
			return 0, err
		}
		if v != 0 {
			return v, nil
		}
	}
}
