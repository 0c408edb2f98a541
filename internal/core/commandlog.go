package core

// CommandLog holds one human-readable label per committed snapshot
// transition. Label i describes the transition from snapshot i to snapshot
// i+1. Writes are unexported: only VersionedAddressBook appends, truncates or
// evicts, always in lock-step with its snapshot list.
type CommandLog struct {
	labels []string
}

func (l *CommandLog) push(label string) { l.labels = append(l.labels, label) }

// truncate keeps the first n labels.
func (l *CommandLog) truncate(n int) {
	if n < len(l.labels) {
		l.labels = l.labels[:n:n]
	}
}

func (l *CommandLog) evictOldest() {
	if len(l.labels) > 0 {
		l.labels = append([]string(nil), l.labels[1:]...)
	}
}

// Len returns the number of recorded transitions.
func (l *CommandLog) Len() int { return len(l.labels) }

// UndoLabels returns the labels an undo would walk back through from cursor,
// most recent first. Its length always equals cursor.
func (l *CommandLog) UndoLabels(cursor int) []string {
	out := make([]string, 0, cursor)
	for i := cursor - 1; i >= 0; i-- {
		out = append(out, l.labels[i])
	}
	return out
}

// RedoLabels returns the labels a redo would replay from cursor, next first.
func (l *CommandLog) RedoLabels(cursor int) []string {
	if cursor >= len(l.labels) {
		return []string{}
	}
	return append([]string(nil), l.labels[cursor:]...)
}
