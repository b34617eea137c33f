package maintain

import "errors"

var (
	// ErrRepositoryRequired is returned when a corpus repository is not provided.
	ErrRepositoryRequired = errors.New("corpus repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmptySelector is returned when a purge selector matches everything.
	ErrEmptySelector = errors.New("selector must set a source or id prefix")
)
