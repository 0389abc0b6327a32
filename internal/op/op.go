// Package op defines the Operation and Phase tagged-union types that flow
// through the Differ, Orderer, Streamliner and Phaser. Following the
// teacher's own SchemaChange shape (api/platform/migrations.go), these are
// modeled as one flat struct per kind with a Kind tag rather than a Go
// interface plus type-switch: the "after?" and streamline/phase passes read
// more naturally as field checks than as type assertions, and it keeps the
// whole pipeline free of allocation-heavy boxing.
package op

import "github.com/joe-ervin05/resourcemigrator/internal/resource"

// Kind tags which variant an Operation is.
type Kind int

const (
	CreateTable Kind = iota
	AddAttribute
	AlterAttribute
	RenameAttribute
	RemoveAttribute
	AddUniqueIndex
	RemoveUniqueIndex
)

func (k Kind) String() string {
	switch k {
	case CreateTable:
		return "create_table"
	case AddAttribute:
		return "add_attribute"
	case AlterAttribute:
		return "alter_attribute"
	case RenameAttribute:
		return "rename_attribute"
	case RemoveAttribute:
		return "remove_attribute"
	case AddUniqueIndex:
		return "add_unique_index"
	case RemoveUniqueIndex:
		return "remove_unique_index"
	default:
		return "unknown"
	}
}

// Operation is one primitive DDL action in the generated migration.
//
// Only the fields relevant to Kind are populated:
//
//	CreateTable        Table
//	AddAttribute       Table, Attribute
//	AlterAttribute     Table, OldAttribute, NewAttribute
//	RenameAttribute    Table, OldAttribute, NewAttribute
//	RemoveAttribute    Table, Attribute
//	AddUniqueIndex     Table, Identity
//	RemoveUniqueIndex  Table, Identity
type Operation struct {
	Kind         Kind
	Table        string
	Attribute    resource.Attribute
	OldAttribute resource.Attribute
	NewAttribute resource.Attribute
	Identity     resource.Identity
}

// AttributeLevel reports whether op targets a single attribute (the kinds
// the Phaser groups into a table's Create/Alter phase).
func (o Operation) AttributeLevel() bool {
	switch o.Kind {
	case AddAttribute, AlterAttribute, RenameAttribute, RemoveAttribute:
		return true
	default:
		return false
	}
}

// PhaseKind tags which variant a Phase is.
type PhaseKind int

const (
	Create PhaseKind = iota
	Alter
)

// Phase groups consecutive same-table operations that render as one
// migration code block: column additions belonging to a just-created
// table (Create), per-column changes against an existing table (Alter),
// or a singleton non-attribute operation (also Alter, per spec §3).
type Phase struct {
	Kind       PhaseKind
	Table      string
	Operations []Operation
}
