package linker

import "errors"

var (
	// ErrRepositoriesRequired is returned when no repositories are provided.
	ErrRepositoriesRequired = errors.New("repositories are required")

	// ErrTranslatorRequired is returned when no translation service is provided.
	ErrTranslatorRequired = errors.New("translation service is required")
)
