package search

import "errors"

var (
	// ErrRepositoriesRequired is returned when no repositories are provided.
	ErrRepositoriesRequired = errors.New("repositories required")

	// ErrIndexRequired is returned when no full-text index is provided.
	ErrIndexRequired = errors.New("full-text index required")

	// ErrTranslatorRequired is returned when no translation service is provided.
	ErrTranslatorRequired = errors.New("translation service required")
)
