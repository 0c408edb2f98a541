package domain

import (
	"fmt"
	"strings"
)

// AddressBook is the canonical record store: ordered persons, groups and
// houses with identity uniqueness per variant. Insertion order is display
// order. A house exclusively owns its groups; the house registry is owned by
// the address book instance rather than shared process-wide.
type AddressBook struct {
	persons  recordList[Person]
	groups   recordList[Group]
	houses   recordList[House]
	registry map[string]House
}

// ReadOnlyAddressBook exposes the read side of an AddressBook. Projections and
// persistence only ever see this view.
type ReadOnlyAddressBook interface {
	Persons() []Person
	Groups() []Group
	Houses() []House
	HasPerson(Person) bool
	HasGroup(Group) bool
	HasHouse(House) bool
	HouseNames() []string
	GroupNamesByHouse() []string
	ExportSnapshot() Snapshot
}

var _ ReadOnlyAddressBook = (*AddressBook)(nil)

// NewAddressBook returns an empty address book.
func NewAddressBook() *AddressBook {
	return &AddressBook{
		persons:  newRecordList(KindPerson, clonePerson),
		groups:   newRecordList(KindGroup, cloneGroup),
		houses:   newRecordList(KindHouse, cloneHouse),
		registry: make(map[string]House),
	}
}

// NewAddressBookFromSnapshot rebuilds an address book from persisted records,
// validating each one. Houses load first so group ownership can be checked.
func NewAddressBookFromSnapshot(s Snapshot) (*AddressBook, error) {
	ab := NewAddressBook()
	for _, h := range s.Houses {
		if err := Validate(h); err != nil {
			return nil, err
		}
		if err := ab.AddHouse(h); err != nil {
			return nil, fmt.Errorf("load houses: %w", err)
		}
	}
	for _, g := range s.Groups {
		if err := Validate(g); err != nil {
			return nil, err
		}
		if err := ab.AddGroup(g); err != nil {
			return nil, fmt.Errorf("load groups: %w", err)
		}
	}
	for _, p := range s.Persons {
		if err := Validate(p); err != nil {
			return nil, err
		}
		if err := ab.AddPerson(p); err != nil {
			return nil, fmt.Errorf("load persons: %w", err)
		}
	}
	return ab, nil
}

// Clone returns a deep copy that shares no mutable state with the receiver.
func (ab *AddressBook) Clone() *AddressBook {
	cp := &AddressBook{
		persons: ab.persons.copyList(),
		groups:  ab.groups.copyList(),
		houses:  ab.houses.copyList(),
	}
	cp.reindex()
	return cp
}

// Equal reports full equality of every list, in order.
func (ab *AddressBook) Equal(other *AddressBook) bool {
	if other == nil {
		return false
	}
	return ab.persons.equal(&other.persons) &&
		ab.groups.equal(&other.groups) &&
		ab.houses.equal(&other.houses)
}

// ResetData replaces the contents with a copy of other.
func (ab *AddressBook) ResetData(other *AddressBook) {
	if other == nil {
		other = NewAddressBook()
	}
	cp := other.Clone()
	*ab = *cp
}

func (ab *AddressBook) reindex() {
	ab.registry = make(map[string]House, len(ab.houses.items))
	for _, h := range ab.houses.items {
		ab.registry[foldKey(h.Name)] = h
	}
}

// Persons returns a copy of the ordered person list.
func (ab *AddressBook) Persons() []Person { return ab.persons.list() }

// Groups returns a copy of the ordered group list.
func (ab *AddressBook) Groups() []Group { return ab.groups.list() }

// Houses returns a copy of the ordered house list.
func (ab *AddressBook) Houses() []House { return ab.houses.list() }

// HasPerson reports whether an identity-equal person exists.
func (ab *AddressBook) HasPerson(p Person) bool { return ab.persons.contains(p) }

// FindPerson returns the stored person identity-equal to p.
func (ab *AddressBook) FindPerson(p Person) (Person, bool) { return ab.persons.find(p) }

// AddPerson appends p unless an identity-equal person exists.
func (ab *AddressBook) AddPerson(p Person) error { return ab.persons.add(p) }

// RemovePerson deletes the first person identity-equal to p.
func (ab *AddressBook) RemovePerson(p Person) error { return ab.persons.remove(p) }

// SetPerson replaces target with edited in place.
func (ab *AddressBook) SetPerson(target, edited Person) error { return ab.persons.set(target, edited) }

// HasGroup reports whether an identity-equal group exists.
func (ab *AddressBook) HasGroup(g Group) bool { return ab.groups.contains(g) }

// FindGroup returns the stored group identity-equal to g.
func (ab *AddressBook) FindGroup(g Group) (Group, bool) { return ab.groups.find(g) }

// AddGroup appends g. The owning house must already exist.
func (ab *AddressBook) AddGroup(g Group) error {
	if _, ok := ab.registry[foldKey(g.House)]; !ok {
		return notFound(KindHouse, g.House)
	}
	return ab.groups.add(g)
}

// RemoveGroup deletes the group identity-equal to g.
func (ab *AddressBook) RemoveGroup(g Group) error { return ab.groups.remove(g) }

// SetGroup replaces target with edited. The edited group's house must exist.
func (ab *AddressBook) SetGroup(target, edited Group) error {
	if _, ok := ab.registry[foldKey(edited.House)]; !ok {
		if _, err := ab.groups.checkSet(target, edited); err != nil {
			return err
		}
		return notFound(KindHouse, edited.House)
	}
	return ab.groups.set(target, edited)
}

// HasHouse reports whether a house with the same name exists.
func (ab *AddressBook) HasHouse(h House) bool {
	_, ok := ab.registry[foldKey(h.Name)]
	return ok
}

// FindHouse looks a house up by name.
func (ab *AddressBook) FindHouse(name string) (House, bool) {
	h, ok := ab.registry[foldKey(name)]
	return h, ok
}

// AddHouse appends h unless a house with the same name exists.
func (ab *AddressBook) AddHouse(h House) error {
	if err := ab.houses.add(h); err != nil {
		return err
	}
	ab.reindex()
	return nil
}

// RemoveHouse deletes h together with every group it owns. Either both
// halves apply or neither does.
func (ab *AddressBook) RemoveHouse(h House) error {
	if !ab.houses.contains(h) {
		return notFound(KindHouse, h.Name)
	}
	ab.groups.removeWhere(func(g Group) bool { return strings.EqualFold(g.House, h.Name) })
	if err := ab.houses.remove(h); err != nil {
		return err
	}
	ab.reindex()
	return nil
}

// SetHouse replaces target with edited and re-points owned groups at the new
// house name.
func (ab *AddressBook) SetHouse(target, edited House) error {
	i, err := ab.houses.checkSet(target, edited)
	if err != nil {
		return err
	}
	oldName := ab.houses.items[i].Name
	// Renamed groups cannot collide with groups of another house because the
	// edited house name is unique.
	for j, g := range ab.groups.items {
		if strings.EqualFold(g.House, oldName) {
			ab.groups.items[j].House = edited.Name
		}
	}
	ab.houses.items[i] = cloneHouse(edited)
	ab.reindex()
	return nil
}

// GroupsOf returns the groups owned by the named house in store order.
func (ab *AddressBook) GroupsOf(house string) []Group {
	var out []Group
	for _, g := range ab.groups.items {
		if strings.EqualFold(g.House, house) {
			out = append(out, g)
		}
	}
	return out
}

// HouseNames returns house names in store order.
func (ab *AddressBook) HouseNames() []string {
	out := make([]string, 0, len(ab.houses.items))
	for _, h := range ab.houses.items {
		out = append(out, h.Name)
	}
	return out
}

// GroupNamesByHouse renders one line per house listing its groups, e.g.
// "Red: R1 R2" or "Blue: empty".
func (ab *AddressBook) GroupNamesByHouse() []string {
	out := make([]string, 0, len(ab.houses.items))
	for _, h := range ab.houses.items {
		groups := ab.GroupsOf(h.Name)
		if len(groups) == 0 {
			out = append(out, h.Name+": empty")
			continue
		}
		var b strings.Builder
		b.WriteString(h.Name)
		b.WriteString(":")
		for _, g := range groups {
			b.WriteString(" ")
			b.WriteString(g.Name)
		}
		out = append(out, b.String())
	}
	return out
}

// Snapshot is the serializable form of an address book.
type Snapshot struct {
	Persons []Person `json:"persons"`
	Groups  []Group  `json:"groups"`
	Houses  []House  `json:"houses"`
}

// ExportSnapshot clones the current records for external persistence.
func (ab *AddressBook) ExportSnapshot() Snapshot {
	return Snapshot{
		Persons: ab.persons.list(),
		Groups:  ab.groups.list(),
		Houses:  ab.houses.list(),
	}
}
