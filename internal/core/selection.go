package core

import (
	"fmt"

	"fopmanager/pkg/domain"
)

// Selection keeps one optional selected record valid against a single
// FilteredList. Repair runs inside the projection's notification, before any
// ordinary subscriber, so no observer sees a selection pointing at a record
// that has left the view.
type Selection[T domain.Entity[T]] struct {
	list        *FilteredList[T]
	value       T
	present     bool
	subscribers []func(T, bool)
}

// NewSelection binds an empty selection to list.
func NewSelection[T domain.Entity[T]](list *FilteredList[T]) *Selection[T] {
	s := &Selection[T]{list: list}
	list.addGuard(s.repair)
	return s
}

// Get returns the selected record and whether one is selected.
func (s *Selection[T]) Get() (T, bool) { return s.value, s.present }

// Set selects v. It fails with ErrNotInProjection unless a record fully equal
// to v is currently visible.
func (s *Selection[T]) Set(v T) error {
	if !s.list.Contains(v) {
		return fmt.Errorf("select %q: %w", v.Describe(), domain.ErrNotInProjection)
	}
	s.update(v, true)
	return nil
}

// Clear empties the selection.
func (s *Selection[T]) Clear() {
	var zero T
	s.update(zero, false)
}

// Subscribe registers fn to run whenever the selection changes.
func (s *Selection[T]) Subscribe(fn func(value T, ok bool)) {
	if fn != nil {
		s.subscribers = append(s.subscribers, fn)
	}
}

func (s *Selection[T]) update(v T, present bool) {
	if present == s.present && (!present || v.FullEquals(s.value)) {
		return
	}
	s.value, s.present = v, present
	for _, fn := range s.subscribers {
		fn(v, present)
	}
}

func (s *Selection[T]) repair(c ListChange[T]) {
	if !s.present {
		return
	}
	if c.SameSize() {
		for i, removed := range c.Removed {
			if removed.FullEquals(s.value) {
				s.update(c.Added[i], true)
				return
			}
		}
	}
	if !s.removedBy(c) {
		return
	}
	if c.From > 0 && c.From-1 < len(c.List) {
		s.update(c.List[c.From-1], true)
		return
	}
	s.Clear()
}

// removedBy reports whether the selected identity left the view. A record
// that reappears unchanged inside the added range is still visible.
func (s *Selection[T]) removedBy(c ListChange[T]) bool {
	hit := false
	for _, removed := range c.Removed {
		if removed.IdentityEquals(s.value) {
			hit = true
			break
		}
	}
	if !hit {
		return false
	}
	for _, added := range c.Added {
		if added.FullEquals(s.value) {
			return false
		}
	}
	return true
}
