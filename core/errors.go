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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidQuote indicates a Quote failed validation.
	ErrInvalidQuote = errors.New("invalid quote")

	// ErrInvalidAuthor indicates an Author failed validation.
	ErrInvalidAuthor = errors.New("invalid author")

	// ErrInvalidSource indicates a Source failed validation.
	ErrInvalidSource = errors.New("invalid source")

	// ErrInvalidLink indicates a TranslationLink failed validation.
	ErrInvalidLink = errors.New("invalid translation link")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrInvalidLanguage indicates an unsupported language value.
	ErrInvalidLanguage = errors.New("invalid language")

	// ErrEmptyAuthorName indicates the author Name field is empty.
	ErrEmptyAuthorName = errors.New("author name cannot be empty")

	// ErrEmptySourceTitle indicates the source Title field is empty.
	ErrEmptySourceTitle = errors.New("source title cannot be empty")

	// ErrSelfLink indicates a link between a quote and itself.
	ErrSelfLink = errors.New("quote cannot be linked to itself")

	// ErrInvalidConfidence indicates a confidence value outside 0-100.
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 100")
)
