package archive

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("object not found")
	ErrInvalidKey   = errors.New("invalid archive key")
	ErrAccessDenied = errors.New("access denied")
)

// ArchiveError wraps a failure with the operation and key involved.
type ArchiveError struct {
	Op  string
	Key string
	Err error
}

func (e *ArchiveError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("archive %s %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("archive %s: %v", e.Op, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means the key does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
