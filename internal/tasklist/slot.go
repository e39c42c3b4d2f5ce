package tasklist

import "context"

// Slot is the persistence boundary: one named location holding the whole list.
// Implementations live under internal/filestore and internal/backend.
type Slot interface {
	// Load returns the stored list in order.
	// Returns ErrSlotEmpty if nothing has been stored, ErrCorrupt if the
	// stored data cannot be decoded.
	Load(ctx context.Context) ([]Task, error)

	// Save replaces the stored list.
	Save(ctx context.Context, tasks []Task) error
}
