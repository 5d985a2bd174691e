package catalog

import "errors"

var (
	// ErrNotFound indicates the requested show does not exist.
	ErrNotFound = errors.New("show not found")
	// ErrDuplicateShow indicates an insert collided with the natural key
	// (show name, theater name, date attended).
	ErrDuplicateShow = errors.New("show already cataloged")
)
