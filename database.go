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

// Package aphorium assembles the bilingual quote system: Badger-backed
// repositories, the Bleve full-text index, the translation provider chain,
// and constructors for the ingestion, linking and search components.
package aphorium

import (
	"log/slog"
	"path/filepath"

	"github.com/aphorium/aphorium/index"
	"github.com/aphorium/aphorium/ingestion"
	"github.com/aphorium/aphorium/linker"
	"github.com/aphorium/aphorium/search"
	"github.com/aphorium/aphorium/storage"
	"github.com/aphorium/aphorium/storage/badger"
	"github.com/aphorium/aphorium/translate"
)

// Database bundles the long-lived shared resources: storage, full-text
// index and the translation service.
type Database struct {
	repos      storage.Repositories
	index      *index.Index
	translator *translate.Service
	logger     *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	googleCredentialsFile string
	myMemoryEmail         string
	llmHost               string
	llmToken              string
	llmModel              string
	logger                *slog.Logger
}

// WithGoogleCredentials enables the Google Cloud translation provider.
func WithGoogleCredentials(credentialsFile string) DatabaseOption {
	return func(o *databaseOptions) {
		o.googleCredentialsFile = credentialsFile
	}
}

// WithMyMemoryEmail sets the contact email raising the MyMemory quota.
// The MyMemory provider is always part of the chain; the email is optional.
func WithMyMemoryEmail(email string) DatabaseOption {
	return func(o *databaseOptions) {
		o.myMemoryEmail = email
	}
}

// WithLLMTranslator enables an OpenAI-compatible LLM translation provider.
func WithLLMTranslator(host, token, model string) DatabaseOption {
	return func(o *databaseOptions) {
		o.llmHost = host
		o.llmToken = token
		o.llmModel = model
	}
}

// WithDatabaseLogger sets a custom logger.
// Default is slog.Default().
func WithDatabaseLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

// NewDatabase opens the storage backend and full-text index under dir and
// builds the translation provider chain. The chain always ends with the
// offline dictionary provider, so translation degrades instead of failing
// when no network provider is configured.
func NewDatabase(dir string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	repos, err := badger.NewRepositories(filepath.Join(dir, "store"))
	if err != nil {
		return nil, err
	}

	idx, err := index.Open(filepath.Join(dir, "index"))
	if err != nil {
		repos.Close()
		return nil, err
	}

	providers, err := buildProviders(options)
	if err != nil {
		idx.Close()
		repos.Close()
		return nil, err
	}

	return &Database{
		repos:      repos,
		index:      idx,
		translator: translate.NewService(providers, translate.WithLogger(options.logger)),
		logger:     options.logger,
	}, nil
}

func buildProviders(options *databaseOptions) ([]translate.Provider, error) {
	var providers []translate.Provider
	if options.googleCredentialsFile != "" {
		providers = append(providers, translate.NewGoogleProvider(options.googleCredentialsFile))
	}
	providers = append(providers, translate.NewMyMemoryProvider(options.myMemoryEmail))
	if options.llmHost != "" {
		llm, err := translate.NewLLMProvider(options.llmHost, options.llmToken, options.llmModel)
		if err != nil {
			return nil, err
		}
		providers = append(providers, llm)
	}
	providers = append(providers, translate.NewDictionaryProvider())
	return providers, nil
}

// Repositories exposes the storage layer.
func (db *Database) Repositories() storage.Repositories {
	return db.repos
}

// Index exposes the full-text index.
func (db *Database) Index() *index.Index {
	return db.index
}

// Translator exposes the translation service.
func (db *Database) Translator() *translate.Service {
	return db.translator
}

// NewIngestionPipeline creates an ingestion pipeline over the database.
func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	opts = append([]ingestion.Option{ingestion.WithLogger(db.logger)}, opts...)
	return ingestion.NewPipeline(db.repos, db.index, opts...)
}

// NewCleaner creates a cleanup pass over the database.
func (db *Database) NewCleaner(opts ...ingestion.CleanerOption) (*ingestion.Cleaner, error) {
	opts = append([]ingestion.CleanerOption{ingestion.WithCleanerLogger(db.logger)}, opts...)
	return ingestion.NewCleaner(db.repos, db.index, opts...)
}

// NewLinker creates a bilingual linker over the database.
func (db *Database) NewLinker(opts ...linker.Option) (*linker.Linker, error) {
	opts = append([]linker.Option{linker.WithLogger(db.logger)}, opts...)
	return linker.New(db.repos, db.translator, opts...)
}

// NewSearcher creates a searcher over the database.
func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	opts = append([]search.Option{search.WithLogger(db.logger)}, opts...)
	return search.NewSearcher(db.repos, db.index, db.translator, opts...)
}

// Close closes the index and storage backend.
func (db *Database) Close() error {
	if err := db.index.Close(); err != nil {
		db.logger.Error("error closing index", "err", err)
		return err
	}
	if err := db.repos.Close(); err != nil {
		db.logger.Error("error closing repositories", "err", err)
		return err
	}
	return nil
}
