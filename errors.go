package ttree

import "github.com/pkg/errors"

// Sentinel errors returned by Tree operations. Compare with errors.Is,
// not direct equality — Insert and Replace return these bare, but
// NewOrder wraps ErrInvalidOrder with fmt.Errorf's %w, so a caller that
// always uses errors.Is is safe either way. Adding a message with the
// offending key's context is left to callers, since K is opaque to this
// package.
var (
	// ErrDuplicate is returned by Insert when the key already exists.
	ErrDuplicate = errors.New("ttree: duplicate key")
	// ErrNotFound is returned by Replace when the key is absent. Delete
	// reports absence through its bool return instead.
	ErrNotFound = errors.New("ttree: key not found")
	// ErrInvalidOrder is returned by NewOrder when order is out of range.
	ErrInvalidOrder = errors.New("ttree: invalid order")
)
