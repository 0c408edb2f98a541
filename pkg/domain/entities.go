// Package domain defines the participant, group and house records managed by
// fopmanager together with the ordered address book that stores them.
package domain

import (
	"sort"
	"strings"
)

// RecordKind identifies the variant of a stored record.
type RecordKind string

// Supported record kinds used in errors, labels and persistence buckets.
const (
	// KindPerson identifies a participant record.
	KindPerson RecordKind = "person"
	// KindGroup identifies a camp group record owned by a house.
	KindGroup RecordKind = "group"
	// KindHouse identifies a house record.
	KindHouse RecordKind = "house"
)

// Entity is satisfied by every record variant. IdentityEquals is the relaxed
// comparison used for duplicate detection and lookups; FullEquals compares
// every field and is used for snapshot comparison and selection remapping.
type Entity[T any] interface {
	IdentityEquals(other T) bool
	FullEquals(other T) bool
	Describe() string
}

var (
	_ Entity[Person] = Person{}
	_ Entity[Group]  = Group{}
	_ Entity[House]  = House{}
)

// Person represents a camp participant.
type Person struct {
	Name     string   `json:"name" validate:"required,max=100"`
	Sex      string   `json:"sex,omitempty" validate:"omitempty,oneof=M F"`
	Birthday string   `json:"birthday,omitempty" validate:"omitempty,len=8,numeric"`
	Phone    string   `json:"phone" validate:"required,min=3,max=15,numeric"`
	Email    string   `json:"email" validate:"required,email"`
	Major    string   `json:"major,omitempty" validate:"max=60"`
	Group    string   `json:"group,omitempty" validate:"max=40"`
	Tags     []string `json:"tags,omitempty" validate:"dive,required,alphanum"`
}

// IdentityEquals reports whether both persons share a name and either a phone
// number or an email address.
func (p Person) IdentityEquals(other Person) bool {
	if p.Name != other.Name {
		return false
	}
	return p.Phone == other.Phone || p.Email == other.Email
}

// FullEquals compares every field. Tags are compared as a set.
func (p Person) FullEquals(other Person) bool {
	return p.Name == other.Name &&
		p.Sex == other.Sex &&
		p.Birthday == other.Birthday &&
		p.Phone == other.Phone &&
		p.Email == other.Email &&
		p.Major == other.Major &&
		p.Group == other.Group &&
		sameTagSet(p.Tags, other.Tags)
}

// Describe returns the display name used in history labels.
func (p Person) Describe() string { return p.Name }

// SortedTags returns a sorted copy of the person's tags.
func (p Person) SortedTags() []string {
	out := append([]string(nil), p.Tags...)
	sort.Strings(out)
	return out
}

// Group represents a camp group. A group's identity is qualified by the house
// that owns it.
type Group struct {
	Name  string `json:"name" validate:"required,max=40"`
	House string `json:"house" validate:"required,max=40"`
}

// IdentityEquals compares the (house, name) pair case-insensitively.
func (g Group) IdentityEquals(other Group) bool {
	return strings.EqualFold(g.Name, other.Name) && strings.EqualFold(g.House, other.House)
}

// FullEquals compares both fields exactly.
func (g Group) FullEquals(other Group) bool {
	return g.Name == other.Name && g.House == other.House
}

// Describe returns the group name.
func (g Group) Describe() string { return g.Name }

// House represents a camp house owning zero or more groups.
type House struct {
	Name string `json:"name" validate:"required,max=40"`
}

// IdentityEquals compares house names case-insensitively.
func (h House) IdentityEquals(other House) bool { return strings.EqualFold(h.Name, other.Name) }

// FullEquals compares house names exactly.
func (h House) FullEquals(other House) bool { return h.Name == other.Name }

// Describe returns the house name.
func (h House) Describe() string { return h.Name }

func clonePerson(p Person) Person {
	cp := p
	if p.Tags != nil {
		cp.Tags = append([]string(nil), p.Tags...)
	}
	return cp
}

func cloneGroup(g Group) Group { return g }
func cloneHouse(h House) House { return h }

func sameTagSet(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	other := make(map[string]struct{}, len(b))
	for _, t := range b {
		if _, ok := set[t]; !ok {
			return false
		}
		other[t] = struct{}{}
	}
	return len(set) == len(other)
}

func foldKey(name string) string { return strings.ToLower(strings.TrimSpace(name)) }
