// Package resource defines the schema snapshot data model and the narrow
// interfaces the migration generator needs from the resource-definition
// framework and repo configuration that supply it (see spec §6 "External
// interfaces"). Those frameworks are external collaborators: this package
// only names the shapes it needs from them.
package resource

import "sort"

// AttributeType is the closed migration-type set a source attribute's
// native type is mapped onto. Any source type outside this set is a
// fatal error at snapshot build time.
type AttributeType string

const (
	TypeText     AttributeType = "text"
	TypeInteger  AttributeType = "integer"
	TypeBoolean  AttributeType = "boolean"
	TypeBinaryID AttributeType = "binary_id"
)

// NoDefault is the sentinel rendering meaning "no default expression."
const NoDefault = "nil"

// Reference is a foreign-key edge from an attribute to another table's
// column, populated when the attribute is the source of a belongs_to-style
// relationship whose destination lives in the same repo.
type Reference struct {
	Table            string `json:"table"`
	DestinationField string `json:"destination_field"`
}

// Attribute is the canonical, built description of one column.
type Attribute struct {
	Name       string
	Type       AttributeType
	Default    string
	AllowNil   bool
	PrimaryKey bool
	References *Reference
}

// Identity is a named unique index; equality is set-wise over Keys.
type Identity struct {
	Name string
	Keys []string
}

// SameKeys reports whether two identities cover the same set of attribute
// names, ignoring order and the identity's own name.
func (id Identity) SameKeys(other Identity) bool {
	if len(id.Keys) != len(other.Keys) {
		return false
	}
	a := sortedCopy(id.Keys)
	b := sortedCopy(other.Keys)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sortedCopy(keys []string) []string {
	out := make([]string, len(keys))
	copy(out, keys)
	sort.Strings(out)
	return out
}

// Snapshot is the canonical description of one table at a point in time.
type Snapshot struct {
	Table      string
	Repo       string
	Attributes []Attribute
	Identities []Identity
	Hash       string
}

// AttributeByName returns the attribute named name, if present.
func (s Snapshot) AttributeByName(name string) (Attribute, bool) {
	for _, a := range s.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// PrimaryKeyNames returns the sorted names of every primary-key attribute.
func (s Snapshot) PrimaryKeyNames() []string {
	var names []string
	for _, a := range s.Attributes {
		if a.PrimaryKey {
			names = append(names, a.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Empty reports whether the snapshot has no attributes and no identities,
// the shape the Differ synthesizes as a baseline when no prior snapshot
// exists for a table.
func (s Snapshot) Empty() bool {
	return len(s.Attributes) == 0 && len(s.Identities) == 0
}
