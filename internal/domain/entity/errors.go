package entity

import "errors"

// Domain errors shared across repositories and use cases.
var (
	// ErrInvalidSource indicates a malformed feed-source catalog entry.
	ErrInvalidSource = errors.New("invalid feed source")

	// ErrDuplicateURL indicates an insert lost a race against another writer
	// for the same URL. The store's uniqueness constraint turns the race into
	// a loud, recoverable error instead of a silent double write.
	ErrDuplicateURL = errors.New("article with this url already exists")
)
