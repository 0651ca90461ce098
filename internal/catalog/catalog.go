// Package catalog implements the book catalog operations on top of a
// session-scoped store.
package catalog

import (
	"errors"
	"fmt"

	"bookcatalog/internal/store"
	"bookcatalog/internal/validation"
)

var (
	// ErrValidationFailed is matched by every validation failure. Use
	// errors.As with *validation.Errors to read the rejected fields.
	ErrValidationFailed = validation.ErrValidationFailed
	ErrNotFound         = errors.New("book not found")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// mapStoreErr translates a store error into the catalog taxonomy, keeping the
// underlying error reachable through errors.Is and errors.As.
func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
}
