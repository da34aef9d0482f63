package ingestion

import "errors"

var (
	// ErrRepositoriesRequired is returned when no repositories are provided.
	ErrRepositoriesRequired = errors.New("repositories required")

	// ErrIndexRequired is returned when no full-text index is provided.
	ErrIndexRequired = errors.New("full-text index required")
)
