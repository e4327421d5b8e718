package services

import (
	"errors"
	"fmt"
)

// Messaging errors are terminal for the current request; handlers map them
// to HTTP statuses with errors.Is and never retry.
var (
	ErrEmptyMessage      = errors.New("message text is empty")
	ErrSelfMessage       = errors.New("cannot message yourself")
	ErrSelfBlock         = errors.New("cannot block yourself")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrBlocked           = errors.New("recipient has blocked you")

	// ErrStorage hides storage engine failures from callers. No partial
	// side effects: a failed send commits nothing.
	ErrStorage = errors.New("storage failure")
)

func storageError(err error) error {
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
