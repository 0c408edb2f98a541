package domain

// recordList is an insertion-ordered sequence of one record variant with
// identity uniqueness. Every method either applies fully or leaves the list
// untouched.
type recordList[T Entity[T]] struct {
	kind  RecordKind
	items []T
	clone func(T) T
}

func newRecordList[T Entity[T]](kind RecordKind, clone func(T) T) recordList[T] {
	return recordList[T]{kind: kind, clone: clone}
}

func (l *recordList[T]) indexOf(target T) int {
	for i, item := range l.items {
		if item.IdentityEquals(target) {
			return i
		}
	}
	return -1
}

func (l *recordList[T]) contains(target T) bool { return l.indexOf(target) >= 0 }

func (l *recordList[T]) find(identity T) (T, bool) {
	if i := l.indexOf(identity); i >= 0 {
		return l.clone(l.items[i]), true
	}
	var zero T
	return zero, false
}

func (l *recordList[T]) add(v T) error {
	if l.contains(v) {
		return duplicate(l.kind, v.Describe())
	}
	l.items = append(l.items, l.clone(v))
	return nil
}

func (l *recordList[T]) remove(v T) error {
	i := l.indexOf(v)
	if i < 0 {
		return notFound(l.kind, v.Describe())
	}
	l.items = append(l.items[:i:i], l.items[i+1:]...)
	return nil
}

// checkSet validates a replacement without applying it.
func (l *recordList[T]) checkSet(target, replacement T) (int, error) {
	i := l.indexOf(target)
	if i < 0 {
		return -1, notFound(l.kind, target.Describe())
	}
	for j, item := range l.items {
		if j != i && item.IdentityEquals(replacement) {
			return -1, duplicate(l.kind, replacement.Describe())
		}
	}
	return i, nil
}

func (l *recordList[T]) set(target, replacement T) error {
	i, err := l.checkSet(target, replacement)
	if err != nil {
		return err
	}
	l.items[i] = l.clone(replacement)
	return nil
}

// removeWhere drops every item matching fn and reports how many were removed.
func (l *recordList[T]) removeWhere(fn func(T) bool) int {
	kept := l.items[:0:0]
	removed := 0
	for _, item := range l.items {
		if fn(item) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	l.items = kept
	return removed
}

func (l *recordList[T]) list() []T {
	out := make([]T, len(l.items))
	for i, item := range l.items {
		out[i] = l.clone(item)
	}
	return out
}

func (l *recordList[T]) copyList() recordList[T] {
	return recordList[T]{kind: l.kind, items: l.list(), clone: l.clone}
}

func (l *recordList[T]) equal(other *recordList[T]) bool {
	if len(l.items) != len(other.items) {
		return false
	}
	for i := range l.items {
		if !l.items[i].FullEquals(other.items[i]) {
			return false
		}
	}
	return true
}
