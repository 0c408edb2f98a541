package core

import (
	"errors"
	"strings"

	"fopmanager/pkg/domain"
)

// HistoryOption configures a VersionedAddressBook.
type HistoryOption func(*VersionedAddressBook)

// WithHistoryLimit caps the number of undoable transitions kept. Zero keeps
// every snapshot.
func WithHistoryLimit(n int) HistoryOption {
	return func(v *VersionedAddressBook) {
		if n > 0 {
			v.limit = n
		}
	}
}

// VersionedAddressBook owns the canonical address book. It keeps a list of
// immutable snapshots with a cursor marking the current one, a mutable
// working copy, and the parallel CommandLog. 0 <= cursor < len(states) holds
// at all times; snapshots after the cursor form the redo tail.
type VersionedAddressBook struct {
	states      []*domain.AddressBook
	cursor      int
	working     *domain.AddressBook
	log         CommandLog
	limit       int
	subscribers []func(domain.ReadOnlyAddressBook)
}

// NewVersionedAddressBook seeds a history whose only snapshot is a copy of
// initial.
func NewVersionedAddressBook(initial *domain.AddressBook, opts ...HistoryOption) *VersionedAddressBook {
	if initial == nil {
		initial = domain.NewAddressBook()
	}
	v := &VersionedAddressBook{
		states:  []*domain.AddressBook{initial.Clone()},
		working: initial.Clone(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Subscribe registers fn to run synchronously whenever the working copy
// changes through Mutate, Undo or Redo.
func (v *VersionedAddressBook) Subscribe(fn func(domain.ReadOnlyAddressBook)) {
	if fn != nil {
		v.subscribers = append(v.subscribers, fn)
	}
}

func (v *VersionedAddressBook) notify() {
	for _, fn := range v.subscribers {
		fn(v.working)
	}
}

// Current returns a read-only view of the working copy.
func (v *VersionedAddressBook) Current() domain.ReadOnlyAddressBook { return v.working }

// Working returns a deep copy of the working copy.
func (v *VersionedAddressBook) Working() *domain.AddressBook { return v.working.Clone() }

// Mutate applies fn to a draft of the working copy and installs the draft
// only if fn succeeds, so a failed mutation leaves no trace. It does not
// create a snapshot or a log entry.
func (v *VersionedAddressBook) Mutate(fn func(*domain.AddressBook) error) error {
	if fn == nil {
		return errors.New("versioned address book: nil mutation")
	}
	draft := v.working.Clone()
	if err := fn(draft); err != nil {
		return err
	}
	v.working = draft
	v.notify()
	return nil
}

// Commit records the working copy as a new snapshot after the cursor,
// discarding the redo tail and its labels.
func (v *VersionedAddressBook) Commit(label string) error {
	if strings.TrimSpace(label) == "" {
		return domain.ErrEmptyLabel
	}
	v.states = append(v.states[:v.cursor+1:v.cursor+1], v.working.Clone())
	v.log.truncate(v.cursor)
	v.log.push(label)
	v.cursor++
	if v.limit > 0 && len(v.states)-1 > v.limit {
		v.states = append([]*domain.AddressBook(nil), v.states[1:]...)
		v.log.evictOldest()
		v.cursor--
	}
	return nil
}

// Undo moves the cursor back one snapshot and returns the label of the
// transition that was undone.
func (v *VersionedAddressBook) Undo() (string, error) {
	if !v.CanUndo() {
		return "", domain.ErrNoHistory
	}
	label := v.log.labels[v.cursor-1]
	v.cursor--
	v.working = v.states[v.cursor].Clone()
	v.notify()
	return label, nil
}

// Redo moves the cursor forward one snapshot and returns the label of the
// transition that was replayed.
func (v *VersionedAddressBook) Redo() (string, error) {
	if !v.CanRedo() {
		return "", domain.ErrNoHistory
	}
	label := v.log.labels[v.cursor]
	v.cursor++
	v.working = v.states[v.cursor].Clone()
	v.notify()
	return label, nil
}

// CanUndo reports whether an older snapshot exists.
func (v *VersionedAddressBook) CanUndo() bool { return v.cursor > 0 }

// CanRedo reports whether a newer snapshot exists.
func (v *VersionedAddressBook) CanRedo() bool { return v.cursor < len(v.states)-1 }

// Clean reports whether the working copy matches the current snapshot.
func (v *VersionedAddressBook) Clean() bool { return v.working.Equal(v.states[v.cursor]) }

// Cursor returns the index of the current snapshot.
func (v *VersionedAddressBook) Cursor() int { return v.cursor }

// SnapshotCount returns the number of retained snapshots.
func (v *VersionedAddressBook) SnapshotCount() int { return len(v.states) }

// UndoLabels lists undoable transitions, most recent first.
func (v *VersionedAddressBook) UndoLabels() []string { return v.log.UndoLabels(v.cursor) }

// RedoLabels lists redoable transitions, next first.
func (v *VersionedAddressBook) RedoLabels() []string { return v.log.RedoLabels(v.cursor) }
