// Package order reorders a flat operation list so every dependency edge
// points backwards (spec §4.6), via the same stable-insertion strategy the
// teacher uses to sequence dependent migration steps in
// api/platform/migrations.go's topologicalSortChanges — generalized here
// from a graph-plus-Kahn's-algorithm shape to an insertion rule driven
// directly by the after? predicate, since the predicate table is small and
// fixed rather than derived from an arbitrary dependency graph.
package order

import (
	"github.com/joe-ervin05/resourcemigrator/internal/op"
	"github.com/joe-ervin05/resourcemigrator/internal/resource"
)

// Order performs a stable insertion sort (spec §4.6). For each incoming
// operation it computes a lower bound (the slot just past the rightmost
// already-placed op it must come after) and an upper bound (the slot of
// the leftmost already-placed op that must come after it, or the end of
// the accumulator if there is none). Both directions are checked because
// some ops (CreateTable, RemoveUniqueIndex) never declare a forward
// dependency of their own even though other ops depend on them. The op is
// inserted at the upper bound, or at the lower bound when the lower bound
// lies past it, pushing everything from that slot on one place right. An
// op with no rule in either direction is therefore appended, so operations
// with no ordering constraint keep their input order.
func Order(ops []op.Operation) []op.Operation {
	acc := make([]op.Operation, 0, len(ops))
	for _, o := range ops {
		lower, upper := 0, len(acc)
		for i, prev := range acc {
			if after(o, prev) && i+1 > lower {
				lower = i + 1
			}
			if after(prev, o) && i < upper {
				upper = i
			}
		}
		pos := upper
		if lower > pos {
			pos = lower
		}
		acc = append(acc, op.Operation{})
		copy(acc[pos+1:], acc[pos:])
		acc[pos] = o
	}
	return acc
}

// after reports whether op must come after prev, per the first-matching-
// rule table in spec §4.6.
func after(o, prev op.Operation) bool {
	switch o.Kind {
	case op.AddUniqueIndex:
		switch prev.Kind {
		case op.AddAttribute:
			return prev.Table == o.Table && keyOf(o.Identity, prev.Attribute.Name)
		case op.AlterAttribute:
			return prev.Table == o.Table && keyOf(o.Identity, prev.NewAttribute.Name)
		case op.RenameAttribute:
			return prev.Table == o.Table && keyOf(o.Identity, prev.NewAttribute.Name)
		case op.CreateTable:
			return prev.Table == o.Table
		}
		return false

	case op.RemoveAttribute:
		if prev.Kind == op.RemoveUniqueIndex && prev.Table == o.Table && keyOf(prev.Identity, o.Attribute.Name) {
			return true
		}
		if prev.Kind == op.AlterAttribute && prev.OldAttribute.References != nil {
			return prev.OldAttribute.References.Table == o.Table && prev.OldAttribute.References.DestinationField == o.Attribute.Name
		}
		return false

	case op.RenameAttribute:
		return prev.Kind == op.RemoveUniqueIndex && prev.Table == o.Table && keyOf(prev.Identity, o.OldAttribute.Name)

	case op.AddAttribute:
		if prev.Kind == op.CreateTable && prev.Table == o.Table {
			return true
		}
		if o.Attribute.References != nil && prev.Kind == op.AddAttribute {
			return prev.Table == o.Attribute.References.Table && prev.Attribute.Name == o.Attribute.References.DestinationField
		}
		if !o.Attribute.PrimaryKey && prev.Kind == op.AddAttribute && prev.Table == o.Table {
			return prev.Attribute.PrimaryKey
		}
		if o.Attribute.PrimaryKey && prev.Kind == op.RemoveAttribute && prev.Table == o.Table {
			return prev.Attribute.PrimaryKey
		}
		return false

	case op.AlterAttribute:
		if o.NewAttribute.References != nil {
			return true
		}
		if !o.NewAttribute.PrimaryKey && o.OldAttribute.PrimaryKey && prev.Kind == op.AddAttribute && prev.Table == o.Table {
			return prev.Attribute.PrimaryKey
		}
		return false
	}
	return false
}

func keyOf(identity resource.Identity, name string) bool {
	for _, k := range identity.Keys {
		if k == name {
			return true
		}
	}
	return false
}
