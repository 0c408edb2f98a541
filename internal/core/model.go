package core

import (
	"context"
	"time"

	"fopmanager/pkg/domain"
)

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithLogger routes model logs to logger.
func WithLogger(logger Logger) ModelOption {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMetricsRecorder observes every model operation.
func WithMetricsRecorder(rec MetricsRecorder) ModelOption {
	return func(m *Model) {
		if rec != nil {
			m.metrics = rec
		}
	}
}

// WithTracer wraps every model operation in a span.
func WithTracer(t Tracer) ModelOption {
	return func(m *Model) {
		if t != nil {
			m.tracer = t
		}
	}
}

// WithHistoryOptions forwards options to the underlying VersionedAddressBook.
func WithHistoryOptions(opts ...HistoryOption) ModelOption {
	return func(m *Model) { m.historyOpts = append(m.historyOpts, opts...) }
}

// Model is the facade the command layer talks to. It owns the versioned
// address book, the person and group projections with their selections, and
// produces the history labels for each committed operation.
type Model struct {
	history        *VersionedAddressBook
	persons        *FilteredList[domain.Person]
	groups         *FilteredList[domain.Group]
	selectedPerson *Selection[domain.Person]
	selectedGroup  *Selection[domain.Group]

	logger      Logger
	metrics     MetricsRecorder
	tracer      Tracer
	historyOpts []HistoryOption
}

// NewModel seeds a model whose history starts at a copy of initial. A nil
// initial book starts empty.
func NewModel(initial *domain.AddressBook, opts ...ModelOption) *Model {
	m := &Model{
		logger:  noopLogger{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	m.history = NewVersionedAddressBook(initial, m.historyOpts...)
	m.persons = NewFilteredList(func() []domain.Person { return m.history.Current().Persons() })
	m.groups = NewFilteredList(func() []domain.Group { return m.history.Current().Groups() })
	m.selectedPerson = NewSelection(m.persons)
	m.selectedGroup = NewSelection(m.groups)
	m.history.Subscribe(func(domain.ReadOnlyAddressBook) {
		m.persons.Refresh()
		m.groups.Refresh()
	})
	return m
}

// run mutates and commits under label as one observable step.
func (m *Model) run(ctx context.Context, op, label string, fn func(*domain.AddressBook) error) error {
	start := time.Now()
	ctx, span := m.tracer.Start(ctx, op)
	err := m.history.Mutate(fn)
	if err == nil {
		err = m.history.Commit(label)
	}
	span.End(err)
	m.metrics.Observe(ctx, op, err == nil, time.Since(start))
	if err != nil {
		m.logger.Warn("model operation rejected", "operation", op, "error", err)
		return err
	}
	m.logger.Debug("model operation committed", "operation", op, "label", label, "cursor", m.history.Cursor())
	return nil
}

// AddressBook returns a copy of the working address book.
func (m *Model) AddressBook() *domain.AddressBook { return m.history.Working() }

// Snapshot returns the persistable form of the working address book.
func (m *Model) Snapshot() domain.Snapshot { return m.history.Current().ExportSnapshot() }

// ResetData replaces every record with a copy of ab (nil clears the book).
func (m *Model) ResetData(ctx context.Context, ab *domain.AddressBook) error {
	return m.run(ctx, "reset_data", "Clear", func(draft *domain.AddressBook) error {
		draft.ResetData(ab)
		return nil
	})
}

// HasPerson reports whether an identity-equal person exists.
func (m *Model) HasPerson(p domain.Person) bool { return m.history.Current().HasPerson(p) }

// AddPerson appends p and resets the person filter to show everyone.
func (m *Model) AddPerson(ctx context.Context, p domain.Person) error {
	err := m.run(ctx, "add_person", "Add "+p.Name, func(draft *domain.AddressBook) error {
		return draft.AddPerson(p)
	})
	if err == nil {
		m.persons.SetPredicate(nil)
	}
	return err
}

// DeletePerson removes target.
func (m *Model) DeletePerson(ctx context.Context, target domain.Person) error {
	return m.run(ctx, "delete_person", "Delete "+target.Name, func(draft *domain.AddressBook) error {
		return draft.RemovePerson(target)
	})
}

// SetPerson replaces target with edited in place.
func (m *Model) SetPerson(ctx context.Context, target, edited domain.Person) error {
	return m.run(ctx, "edit_person", "Edit "+edited.Name, func(draft *domain.AddressBook) error {
		return draft.SetPerson(target, edited)
	})
}

// HasGroup reports whether an identity-equal group exists.
func (m *Model) HasGroup(g domain.Group) bool { return m.history.Current().HasGroup(g) }

// AddGroup appends g to its house and resets the person filter.
func (m *Model) AddGroup(ctx context.Context, g domain.Group) error {
	err := m.run(ctx, "add_group", "Add "+g.Name, func(draft *domain.AddressBook) error {
		return draft.AddGroup(g)
	})
	if err == nil {
		m.persons.SetPredicate(nil)
	}
	return err
}

// DeleteGroup removes target.
func (m *Model) DeleteGroup(ctx context.Context, target domain.Group) error {
	return m.run(ctx, "delete_group", "Delete "+target.Name, func(draft *domain.AddressBook) error {
		return draft.RemoveGroup(target)
	})
}

// SetGroup replaces target with edited in place.
func (m *Model) SetGroup(ctx context.Context, target, edited domain.Group) error {
	return m.run(ctx, "edit_group", "Edit "+edited.Name, func(draft *domain.AddressBook) error {
		return draft.SetGroup(target, edited)
	})
}

// HasHouse reports whether a house with the same name exists.
func (m *Model) HasHouse(h domain.House) bool { return m.history.Current().HasHouse(h) }

// AddHouse appends h and resets the person filter.
func (m *Model) AddHouse(ctx context.Context, h domain.House) error {
	err := m.run(ctx, "add_house", "Add "+h.Name, func(draft *domain.AddressBook) error {
		return draft.AddHouse(h)
	})
	if err == nil {
		m.persons.SetPredicate(nil)
	}
	return err
}

// DeleteHouse removes target together with every group it owns.
func (m *Model) DeleteHouse(ctx context.Context, target domain.House) error {
	return m.run(ctx, "delete_house", "Delete "+target.Name, func(draft *domain.AddressBook) error {
		return draft.RemoveHouse(target)
	})
}

// SetHouse renames target in place; owned groups follow the new name.
func (m *Model) SetHouse(ctx context.Context, target, edited domain.House) error {
	return m.run(ctx, "edit_house", "Edit "+edited.Name, func(draft *domain.AddressBook) error {
		return draft.SetHouse(target, edited)
	})
}

// Houses lists houses in display order.
func (m *Model) Houses() []domain.House { return m.history.Current().Houses() }

// HouseNames lists house names in display order.
func (m *Model) HouseNames() []string { return m.history.Current().HouseNames() }

// GroupNames lists each house with its groups, e.g. "Red: G1 G2".
func (m *Model) GroupNames() []string { return m.history.Current().GroupNamesByHouse() }

// Undo restores the previous snapshot and returns the undone label.
func (m *Model) Undo(ctx context.Context) (string, error) {
	return m.travel(ctx, "undo", m.history.Undo)
}

// Redo restores the next snapshot and returns the replayed label.
func (m *Model) Redo(ctx context.Context) (string, error) {
	return m.travel(ctx, "redo", m.history.Redo)
}

func (m *Model) travel(ctx context.Context, op string, step func() (string, error)) (string, error) {
	start := time.Now()
	ctx, span := m.tracer.Start(ctx, op)
	label, err := step()
	span.End(err)
	m.metrics.Observe(ctx, op, err == nil, time.Since(start))
	if err != nil {
		m.logger.Warn("history step rejected", "operation", op, "error", err)
		return "", err
	}
	m.logger.Info("history step", "operation", op, "label", label, "cursor", m.history.Cursor())
	return label, nil
}

// CanUndo reports whether Undo would succeed.
func (m *Model) CanUndo() bool { return m.history.CanUndo() }

// CanRedo reports whether Redo would succeed.
func (m *Model) CanRedo() bool { return m.history.CanRedo() }

// UndoLabels lists undoable operations, most recent first.
func (m *Model) UndoLabels() []string { return m.history.UndoLabels() }

// RedoLabels lists redoable operations, next first.
func (m *Model) RedoLabels() []string { return m.history.RedoLabels() }

// FilteredPersons returns the visible persons.
func (m *Model) FilteredPersons() []domain.Person { return m.persons.View() }

// UpdateFilteredPersons replaces the person predicate; nil shows everyone.
func (m *Model) UpdateFilteredPersons(p Predicate[domain.Person]) { m.persons.SetPredicate(p) }

// PersonList exposes the person projection for subscription.
func (m *Model) PersonList() *FilteredList[domain.Person] { return m.persons }

// FilteredGroups returns the visible groups.
func (m *Model) FilteredGroups() []domain.Group { return m.groups.View() }

// UpdateFilteredGroups replaces the group predicate; nil shows every group.
func (m *Model) UpdateFilteredGroups(p Predicate[domain.Group]) { m.groups.SetPredicate(p) }

// GroupList exposes the group projection for subscription.
func (m *Model) GroupList() *FilteredList[domain.Group] { return m.groups }

// SelectedPerson returns the selected person, if any.
func (m *Model) SelectedPerson() (domain.Person, bool) { return m.selectedPerson.Get() }

// SetSelectedPerson selects p, which must be visible.
func (m *Model) SetSelectedPerson(p domain.Person) error { return m.selectedPerson.Set(p) }

// ClearSelectedPerson empties the person selection.
func (m *Model) ClearSelectedPerson() { m.selectedPerson.Clear() }

// PersonSelection exposes the person selection for subscription.
func (m *Model) PersonSelection() *Selection[domain.Person] { return m.selectedPerson }

// SelectedGroup returns the selected group, if any.
func (m *Model) SelectedGroup() (domain.Group, bool) { return m.selectedGroup.Get() }

// SetSelectedGroup selects g, which must be visible.
func (m *Model) SetSelectedGroup(g domain.Group) error { return m.selectedGroup.Set(g) }

// ClearSelectedGroup empties the group selection.
func (m *Model) ClearSelectedGroup() { m.selectedGroup.Clear() }

// GroupSelection exposes the group selection for subscription.
func (m *Model) GroupSelection() *Selection[domain.Group] { return m.selectedGroup }
