// Package streamline runs the single left-to-right peephole pass that
// fuses certain adjacent operation pairs (spec §4.7), grounded in the same
// reference-split/fuse rationale the Differ documents: the split exists
// only to feed the Orderer an edge, and is redundant once ordering proves
// no intervening operation was needed.
package streamline

import "github.com/joe-ervin05/resourcemigrator/internal/op"

// Streamline fuses an AddAttribute immediately followed by an
// AlterAttribute on the same attribute whose new attribute carries a
// reference, into a single AddAttribute carrying the alter's new attribute.
func Streamline(ops []op.Operation) []op.Operation {
	out := make([]op.Operation, 0, len(ops))
	for i := 0; i < len(ops); i++ {
		cur := ops[i]
		if i+1 < len(ops) && fusable(cur, ops[i+1]) {
			next := ops[i+1]
			fused := cur
			fused.Attribute = next.NewAttribute
			out = append(out, fused)
			i++
			continue
		}
		out = append(out, cur)
	}
	return out
}

// fusable reports whether add (an AddAttribute) is immediately followed by
// alter (an AlterAttribute restoring a reference onto the same column of
// the same table), per spec §4.7.
func fusable(add, alter op.Operation) bool {
	if add.Kind != op.AddAttribute || alter.Kind != op.AlterAttribute {
		return false
	}
	if add.Table != alter.Table {
		return false
	}
	if add.Attribute.Name != alter.NewAttribute.Name || add.Attribute.Name != alter.OldAttribute.Name {
		return false
	}
	return alter.NewAttribute.References != nil
}
