package catalog

import "errors"

var (
	// ErrNotFound is returned when the catalog has no product with the
	// requested identifier.
	ErrNotFound = errors.New("product not found")

	// ErrUnknownSource is returned when no configured catalog matches the
	// requested source tag.
	ErrUnknownSource = errors.New("unknown catalog source")

	// ErrNetworkError is returned when a catalog cannot be reached.
	ErrNetworkError = errors.New("network error")
)
