package tasklist

import "errors"

var (
	// ErrEmptyTask is recorded when add or edit is given empty text.
	ErrEmptyTask = errors.New("task cannot be empty")

	// ErrOutOfRange is returned for an index outside the list. The call is a no-op.
	ErrOutOfRange = errors.New("task number out of range")

	// ErrSlotEmpty is returned by a Slot that holds nothing yet.
	ErrSlotEmpty = errors.New("slot is empty")

	// ErrCorrupt is returned when stored data cannot be decoded.
	ErrCorrupt = errors.New("corrupt task data")

	// ErrInvalidFilter is returned by ParseFilter.
	ErrInvalidFilter = errors.New("invalid filter")
)
