package keys

import "errors"

var (
	// ErrNotFound covers both a missing key and a key owned by someone
	// else; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("api key not found")

	ErrNameRequired = errors.New("api key name is required")
	ErrInvalidType  = errors.New("invalid api key type")
	ErrConflict     = errors.New("api key already exists")
)
