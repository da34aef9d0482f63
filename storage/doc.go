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

// Package storage provides the storage abstraction layer for aphorium.
//
// The package defines repository interfaces that decouple storage
// implementation from business logic, so different backends (BadgerDB,
// in-memory) can be used interchangeably. Public constructors in backend
// packages return these interfaces, never concrete types:
//
//	repos, err := badger.NewRepositories(path)  // returns storage.Repositories
//
// # Architecture
//
//   - Repository: transaction and lifecycle operations shared by all repositories
//   - AuthorRepository: author rows, one per (language, name) tuple
//   - SourceRepository: literary works quotes are attributed to
//   - QuoteRepository: quote records plus the bilingual-group assignment rules
//   - TranslationRepository: cross-language links between quotes
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and timeout
// support. Pass context.Background() for operations without specific timeout
// requirements.
package storage
