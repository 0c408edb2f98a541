package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the address book and the versioned state manager.
// All of them are local, synchronous failures; callers test with errors.Is.
var (
	// ErrDuplicateIdentity is returned when an add or replace collides with an
	// identity-equal record already in the store.
	ErrDuplicateIdentity = errors.New("duplicate identity")
	// ErrNotFound is returned when a remove or replace target is absent.
	ErrNotFound = errors.New("not found")
	// ErrNoHistory is returned by undo/redo at a history boundary.
	ErrNoHistory = errors.New("no history")
	// ErrNotInProjection is returned when a selection is set to a record the
	// tracked projection does not currently show.
	ErrNotInProjection = errors.New("not in projection")
	// ErrEmptyLabel is returned when a commit is attempted without a
	// description. It signals a programmer error.
	ErrEmptyLabel = errors.New("empty commit label")
)

// RecordError attaches the record kind and display name to a sentinel error.
type RecordError struct {
	Kind RecordKind
	Name string
	Err  error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.Name, e.Err)
}

// Unwrap exposes the sentinel for errors.Is.
func (e RecordError) Unwrap() error { return e.Err }

func duplicate(kind RecordKind, name string) error {
	return RecordError{Kind: kind, Name: name, Err: ErrDuplicateIdentity}
}

func notFound(kind RecordKind, name string) error {
	return RecordError{Kind: kind, Name: name, Err: ErrNotFound}
}
