package todos

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("Todo not found")
	ErrInvalidID  = errors.New("Invalid ID format")
	ErrEmptyTitle = errors.New("Title cannot be empty")
)

// DecodeError means a stored document no longer fits the Todo shape, e.g.
// legacy rows with string dates. It is kept apart from driver errors so an
// operator can tell "reset the data" from "database unreachable".
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("Database format mismatch: %v. Please drop the '%s' collection to reset.", e.Err, CollectionName)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsDecodeError reports whether err carries a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
