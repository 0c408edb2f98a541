package core

import (
	"errors"
	"testing"

	"fopmanager/pkg/domain"
)

func person(name, phone string) domain.Person {
	return domain.Person{Name: name, Phone: phone, Email: phone + "@example.com"}
}

func commitAdd(t *testing.T, v *VersionedAddressBook, p domain.Person) {
	t.Helper()
	if err := v.Mutate(func(ab *domain.AddressBook) error { return ab.AddPerson(p) }); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if err := v.Commit("Add " + p.Name); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

func assertLabelInvariant(t *testing.T, v *VersionedAddressBook) {
	t.Helper()
	if got := len(v.UndoLabels()); got != v.Cursor() {
		t.Fatalf("undo labels %d != cursor %d", got, v.Cursor())
	}
	if got, want := len(v.RedoLabels()), v.SnapshotCount()-v.Cursor()-1; got != want {
		t.Fatalf("redo labels %d != %d", got, want)
	}
	if v.CanUndo() != (v.Cursor() > 0) || v.CanRedo() != (v.Cursor() < v.SnapshotCount()-1) {
		t.Fatalf("can undo/redo disagree with cursor")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	v := NewVersionedAddressBook(nil)
	assertLabelInvariant(t, v)
	if v.CanUndo() || v.CanRedo() {
		t.Fatalf("fresh history must have nothing to undo or redo")
	}
	commitAdd(t, v, person("A", "111"))
	commitAdd(t, v, person("B", "222"))
	afterB := v.Working()
	assertLabelInvariant(t, v)

	for _, want := range []string{"Add B", "Add A"} {
		if !v.CanUndo() {
			t.Fatalf("expected undo available")
		}
		label, err := v.Undo()
		if err != nil || label != want {
			t.Fatalf("undo: got %q, %v want %q", label, err, want)
		}
		assertLabelInvariant(t, v)
	}
	if _, err := v.Undo(); !errors.Is(err, domain.ErrNoHistory) {
		t.Fatalf("expected no history, got %v", err)
	}
	if len(v.Current().Persons()) != 0 {
		t.Fatalf("expected initial empty state")
	}
	for _, want := range []string{"Add A", "Add B"} {
		label, err := v.Redo()
		if err != nil || label != want {
			t.Fatalf("redo: got %q, %v want %q", label, err, want)
		}
		assertLabelInvariant(t, v)
	}
	if v.CanRedo() {
		t.Fatalf("expected redo exhausted")
	}
	if _, err := v.Redo(); !errors.Is(err, domain.ErrNoHistory) {
		t.Fatalf("expected no history, got %v", err)
	}
	if !v.Working().Equal(afterB) {
		t.Fatalf("round trip must restore state after B")
	}
}

func TestCommitAfterUndoDiscardsRedoTail(t *testing.T) {
	v := NewVersionedAddressBook(nil)
	commitAdd(t, v, person("A", "111"))
	commitAdd(t, v, person("B", "222"))
	if _, err := v.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	commitAdd(t, v, person("C", "333"))
	assertLabelInvariant(t, v)

	if v.SnapshotCount() != 3 {
		t.Fatalf("expected initial + A + C, got %d snapshots", v.SnapshotCount())
	}
	if v.CanRedo() {
		t.Fatalf("redo tail must be discarded")
	}
	labels := v.UndoLabels()
	if len(labels) != 2 || labels[0] != "Add C" || labels[1] != "Add A" {
		t.Fatalf("unexpected undo labels %v", labels)
	}
	if v.Current().HasPerson(person("B", "222")) {
		t.Fatalf("B must be unreachable")
	}
}

func TestRedoLabelsAreNextFirst(t *testing.T) {
	v := NewVersionedAddressBook(nil)
	for _, p := range []domain.Person{person("A", "1"), person("B", "2"), person("C", "3")} {
		commitAdd(t, v, p)
	}
	for i := 0; i < 3; i++ {
		if _, err := v.Undo(); err != nil {
			t.Fatalf("undo: %v", err)
		}
	}
	labels := v.RedoLabels()
	if len(labels) != 3 || labels[0] != "Add A" || labels[2] != "Add C" {
		t.Fatalf("unexpected redo labels %v", labels)
	}
}

func TestCommitRejectsBlankLabel(t *testing.T) {
	v := NewVersionedAddressBook(nil)
	for _, label := range []string{"", "   "} {
		if err := v.Commit(label); !errors.Is(err, domain.ErrEmptyLabel) {
			t.Fatalf("expected empty label error, got %v", err)
		}
	}
	if v.SnapshotCount() != 1 || v.Cursor() != 0 {
		t.Fatalf("failed commit must not touch history")
	}
}

func TestFailedMutationLeavesWorkingCopy(t *testing.T) {
	v := NewVersionedAddressBook(domain.SampleAddressBook())
	notified := 0
	v.Subscribe(func(domain.ReadOnlyAddressBook) { notified++ })
	before := v.Working()
	err := v.Mutate(func(ab *domain.AddressBook) error {
		if err := ab.RemoveHouse(domain.House{Name: "Red"}); err != nil {
			return err
		}
		return ab.AddPerson(ab.Persons()[0])
	})
	if !errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if !v.Working().Equal(before) || notified != 0 {
		t.Fatalf("failed mutation must be invisible")
	}
	if !v.Clean() {
		t.Fatalf("expected clean state")
	}
	if err := v.Mutate(nil); err == nil {
		t.Fatalf("expected nil mutation error")
	}
}

func TestMutateWithoutCommitIsDiscardedByUndo(t *testing.T) {
	v := NewVersionedAddressBook(nil)
	commitAdd(t, v, person("A", "1"))
	if err := v.Mutate(func(ab *domain.AddressBook) error { return ab.AddPerson(person("B", "2")) }); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if v.Clean() {
		t.Fatalf("expected pending mutation")
	}
	if _, err := v.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if len(v.Current().Persons()) != 0 || !v.Clean() {
		t.Fatalf("undo must restore the previous snapshot")
	}
}

func TestHistoryLimitEvictsOldest(t *testing.T) {
	v := NewVersionedAddressBook(nil, WithHistoryLimit(2))
	for _, p := range []domain.Person{person("A", "1"), person("B", "2"), person("C", "3")} {
		commitAdd(t, v, p)
		assertLabelInvariant(t, v)
	}
	if v.SnapshotCount() != 3 || v.Cursor() != 2 {
		t.Fatalf("expected bounded history, got %d snapshots cursor %d", v.SnapshotCount(), v.Cursor())
	}
	labels := v.UndoLabels()
	if len(labels) != 2 || labels[1] != "Add B" {
		t.Fatalf("expected oldest label evicted, got %v", labels)
	}
	for v.CanUndo() {
		if _, err := v.Undo(); err != nil {
			t.Fatalf("undo: %v", err)
		}
	}
	if got := v.Current().Persons(); len(got) != 1 || got[0].Name != "A" {
		t.Fatalf("expected oldest retained snapshot to hold A, got %+v", got)
	}
}

func TestSnapshotsAreIsolatedFromWorkingCopy(t *testing.T) {
	initial := domain.NewAddressBook()
	v := NewVersionedAddressBook(initial)
	_ = initial.AddPerson(person("Outside", "9"))
	if len(v.Current().Persons()) != 0 {
		t.Fatalf("history must copy its seed")
	}
	commitAdd(t, v, person("A", "1"))
	if err := v.Mutate(func(ab *domain.AddressBook) error {
		return ab.SetPerson(person("A", "1"), person("A2", "1"))
	}); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if _, err := v.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if _, err := v.Redo(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if got := v.Current().Persons(); got[0].Name != "A" {
		t.Fatalf("committed snapshot must not see later working edits, got %+v", got)
	}
}
