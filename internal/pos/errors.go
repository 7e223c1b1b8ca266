package pos

import "errors"

// Error kinds callers branch on with errors.Is. Handlers map them to HTTP
// status codes; everything below the handler layer only ever wraps these.
var (
	// ErrValidation: malformed or missing required input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidState: operation attempted against a cart or sale not in the
	// required state.
	ErrInvalidState = errors.New("invalid state")
	// ErrNotFound: unknown cart, menu item, staff or sale id.
	ErrNotFound = errors.New("not found")
	// ErrEmptyCart: checkout attempted on a cart with no lines.
	ErrEmptyCart = errors.New("cart has no lines")
	// ErrExpired: resume attempted after the business day rolled over.
	ErrExpired = errors.New("hold expired")
	// ErrConflict: lost a state-transition race after the bounded retry; the
	// caller must redo the whole operation from a fresh read.
	ErrConflict = errors.New("concurrent modification")
)
