package tasklist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Store owns the ordered task list and mirrors it to a Slot after every
// mutation. A Store is not safe for concurrent use; callers drive it from a
// single event loop.
type Store struct {
	slot    Slot
	log     *slog.Logger
	tasks   []Task
	lastErr error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load and persist events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStore creates an empty store backed by slot. Call Load before use.
func NewStore(slot Slot, opts ...Option) *Store {
	s := &Store{
		slot:  slot,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		tasks: []Task{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the slot into memory.
// Missing or corrupt data yields an empty list and no error. Any other slot
// failure (network, permissions) is returned and the list stays empty.
func (s *Store) Load(ctx context.Context) error {
	tasks, err := s.slot.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrSlotEmpty):
		s.log.Debug("slot empty, starting with no tasks")
		tasks = nil
	case errors.Is(err, ErrCorrupt):
		s.log.Debug("discarding unreadable slot data", "err", err)
		tasks = nil
	default:
		s.tasks = []Task{}
		return fmt.Errorf("load tasks: %w", err)
	}

	s.tasks = make([]Task, 0, len(tasks))
	for _, t := range tasks {
		// Empty text never exists at rest.
		if t.Text == "" {
			continue
		}
		s.tasks = append(s.tasks, t)
	}
	s.log.Debug("loaded tasks", "count", len(s.tasks))
	return nil
}

// Tasks returns a copy of the full list.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int { return len(s.tasks) }

// LastError returns the latest validation error, or nil.
func (s *Store) LastError() error { return s.lastErr }

// InputChanged records that the user's input text changed, which clears
// the last validation error.
func (s *Store) InputChanged() { s.lastErr = nil }

// Add appends a new open task.
func (s *Store) Add(ctx context.Context, text string) error {
	if text == "" {
		s.lastErr = ErrEmptyTask
		return ErrEmptyTask
	}
	next := make([]Task, len(s.tasks), len(s.tasks)+1)
	copy(next, s.tasks)
	next = append(next, Task{Text: text})
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.lastErr = nil
	return nil
}

// Edit replaces the text of the task at index, keeping its completion flag.
func (s *Store) Edit(ctx context.Context, index int, text string) error {
	if text == "" {
		s.lastErr = ErrEmptyTask
		return ErrEmptyTask
	}
	if !s.inRange(index) {
		return outOfRange(index)
	}
	next := s.Tasks()
	next[index].Text = text
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.lastErr = nil
	return nil
}

// Remove deletes the task at index. Later tasks shift down by one.
func (s *Store) Remove(ctx context.Context, index int) error {
	if !s.inRange(index) {
		return outOfRange(index)
	}
	next := make([]Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:index]...)
	next = append(next, s.tasks[index+1:]...)
	return s.commit(ctx, next)
}

// ToggleDone flips the completion flag of the task at index.
func (s *Store) ToggleDone(ctx context.Context, index int) error {
	if !s.inRange(index) {
		return outOfRange(index)
	}
	next := s.Tasks()
	next[index].IsCompleted = !next[index].IsCompleted
	return s.commit(ctx, next)
}

// MoveUp swaps the task at index with its predecessor.
// Moving the first task is a no-op and does not persist.
func (s *Store) MoveUp(ctx context.Context, index int) error {
	if !s.inRange(index) {
		return outOfRange(index)
	}
	if index == 0 {
		return nil
	}
	return s.swap(ctx, index, index-1)
}

// MoveDown swaps the task at index with its successor.
// Moving the last task is a no-op and does not persist.
func (s *Store) MoveDown(ctx context.Context, index int) error {
	if !s.inRange(index) {
		return outOfRange(index)
	}
	if index == len(s.tasks)-1 {
		return nil
	}
	return s.swap(ctx, index, index+1)
}

// FilteredView projects the list through f, preserving order. Each row
// carries the task's index in the unfiltered list.
func (s *Store) FilteredView(f Filter) []Row {
	rows := make([]Row, 0, len(s.tasks))
	for i, t := range s.tasks {
		if f.Match(t) {
			rows = append(rows, Row{Index: i, Task: t})
		}
	}
	return rows
}

// ResolveRow maps a 0-based row of the filtered view back to its index in
// the unfiltered list.
func (s *Store) ResolveRow(f Filter, row int) (int, error) {
	rows := s.FilteredView(f)
	if row < 0 || row >= len(rows) {
		return 0, outOfRange(row)
	}
	return rows[row].Index, nil
}

func (s *Store) swap(ctx context.Context, i, j int) error {
	next := s.Tasks()
	next[i], next[j] = next[j], next[i]
	return s.commit(ctx, next)
}

// commit persists next and, only once the slot accepted it, makes it current.
func (s *Store) commit(ctx context.Context, next []Task) error {
	if err := s.slot.Save(ctx, next); err != nil {
		s.log.Debug("persist failed", "err", err)
		return fmt.Errorf("save tasks: %w", err)
	}
	s.tasks = next
	s.log.Debug("persisted tasks", "count", len(next))
	return nil
}

func (s *Store) inRange(index int) bool {
	return index >= 0 && index < len(s.tasks)
}

func outOfRange(index int) error {
	return fmt.Errorf("%w: %d", ErrOutOfRange, index+1)
}
