package core

import "fopmanager/pkg/domain"

// Predicate decides whether a record is visible in a projection.
type Predicate[T any] func(T) bool

// ChangeKind classifies a projection change for observers.
type ChangeKind int

const (
	// ChangeFullReplace is a predicate change, or a splice whose removed and
	// added ranges are both non-empty and differ in size.
	ChangeFullReplace ChangeKind = iota
	// ChangeRemoved drops elements without adding any.
	ChangeRemoved
	// ChangeAdded inserts elements without removing any.
	ChangeAdded
	// ChangeReplaced swaps a range for another of the same size.
	ChangeReplaced
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeRemoved:
		return "removed"
	case ChangeAdded:
		return "added"
	case ChangeReplaced:
		return "replaced"
	default:
		return "full_replace"
	}
}

// ListChange describes the transition between two successive views as a
// single splice: Removed was taken out of the old view starting at From and
// Added was put in its place. List is the new view. Reset marks a predicate
// change, where Removed and Added hold the entire old and new views.
type ListChange[T any] struct {
	From    int
	Removed []T
	Added   []T
	List    []T
	Reset   bool
}

// SameSize reports whether the change replaced a range with one of equal size.
// A reset is never a same-size replace.
func (c ListChange[T]) SameSize() bool {
	return !c.Reset && len(c.Removed) > 0 && len(c.Removed) == len(c.Added)
}

// Kind classifies the change.
func (c ListChange[T]) Kind() ChangeKind {
	switch {
	case c.Reset:
		return ChangeFullReplace
	case c.SameSize():
		return ChangeReplaced
	case len(c.Added) == 0:
		return ChangeRemoved
	case len(c.Removed) == 0:
		return ChangeAdded
	default:
		return ChangeFullReplace
	}
}

// FilteredList is an order-preserving, predicate-filtered read view over one
// record list of the address book. Every Refresh re-filters the entire source
// and publishes the difference from the previous view synchronously. Guards
// (selection repair) run before ordinary subscribers.
type FilteredList[T domain.Entity[T]] struct {
	source      func() []T
	predicate   Predicate[T]
	view        []T
	reset       bool
	guards      []func(ListChange[T])
	subscribers []func(ListChange[T])
}

// NewFilteredList builds a projection showing every element of source.
func NewFilteredList[T domain.Entity[T]](source func() []T) *FilteredList[T] {
	f := &FilteredList[T]{source: source}
	f.view = f.compute()
	return f
}

// SetPredicate replaces the active predicate and refreshes the view. A nil
// predicate shows every record.
func (f *FilteredList[T]) SetPredicate(p Predicate[T]) {
	f.predicate = p
	f.reset = true
	f.Refresh()
}

// Refresh recomputes the view from the source and notifies observers when it
// changed.
func (f *FilteredList[T]) Refresh() {
	next := f.compute()
	change, changed := diffViews(f.view, next)
	if changed && f.reset {
		change = ListChange[T]{
			Removed: append([]T(nil), f.view...),
			Added:   append([]T(nil), next...),
			List:    change.List,
			Reset:   true,
		}
	}
	f.view = next
	f.reset = false
	if !changed {
		return
	}
	for _, fn := range f.guards {
		fn(change)
	}
	for _, fn := range f.subscribers {
		fn(change)
	}
}

// Subscribe registers fn to receive every change after selection repair.
func (f *FilteredList[T]) Subscribe(fn func(ListChange[T])) {
	if fn != nil {
		f.subscribers = append(f.subscribers, fn)
	}
}

func (f *FilteredList[T]) addGuard(fn func(ListChange[T])) {
	f.guards = append(f.guards, fn)
}

// View returns a copy of the visible records in source order.
func (f *FilteredList[T]) View() []T { return append([]T(nil), f.view...) }

// Len returns the number of visible records.
func (f *FilteredList[T]) Len() int { return len(f.view) }

// Contains reports whether a record fully equal to v is visible.
func (f *FilteredList[T]) Contains(v T) bool {
	for _, item := range f.view {
		if item.FullEquals(v) {
			return true
		}
	}
	return false
}

func (f *FilteredList[T]) compute() []T {
	var all []T
	if f.source != nil {
		all = f.source()
	}
	out := make([]T, 0, len(all))
	for _, item := range all {
		if f.predicate == nil || f.predicate(item) {
			out = append(out, item)
		}
	}
	return out
}

// diffViews trims the common prefix and suffix of two views and reports the
// remaining middle ranges as one splice.
func diffViews[T domain.Entity[T]](old, next []T) (ListChange[T], bool) {
	prefix := 0
	for prefix < len(old) && prefix < len(next) && old[prefix].FullEquals(next[prefix]) {
		prefix++
	}
	if prefix == len(old) && prefix == len(next) {
		return ListChange[T]{}, false
	}
	suffix := 0
	for suffix < len(old)-prefix && suffix < len(next)-prefix &&
		old[len(old)-1-suffix].FullEquals(next[len(next)-1-suffix]) {
		suffix++
	}
	return ListChange[T]{
		From:    prefix,
		Removed: append([]T(nil), old[prefix:len(old)-suffix]...),
		Added:   append([]T(nil), next[prefix:len(next)-suffix]...),
		List:    append([]T(nil), next...),
	}, true
}
