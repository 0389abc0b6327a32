// Package differ computes the flat list of primitive Operations between a
// merged fresh snapshot and its prior snapshot (spec §4.4). It is the
// single richest piece of grounding in the corpus for this spec: the
// add/alter/remove/rename detection and the references-first split below
// both follow api/platform/migrations.go's GenerateMigrationPlan,
// analyzeColumnChangesWithRenames and detectColumnModifications,
// generalized from the teacher's flat SchemaChange shape to this spec's
// explicit Operation/Reference model.
package differ

import (
	"github.com/joe-ervin05/resourcemigrator/internal/dedup"
	"github.com/joe-ervin05/resourcemigrator/internal/op"
	"github.com/joe-ervin05/resourcemigrator/internal/prompt"
	"github.com/joe-ervin05/resourcemigrator/internal/resource"
)

// Diff computes the operations for one (new, old?) pair, per spec §4.4.
func Diff(pair dedup.Pair, prompter prompt.Prompter) ([]op.Operation, error) {
	var ops []op.Operation

	old := resource.Snapshot{Table: pair.New.Table, Repo: pair.New.Repo}
	if pair.Old != nil {
		old = *pair.Old
	} else {
		ops = append(ops, op.Operation{Kind: op.CreateTable, Table: pair.New.Table})
	}

	attrOps, err := diffAttributes(pair.New.Table, pair.New, old, prompter)
	if err != nil {
		return nil, err
	}
	ops = append(ops, attrOps...)

	addOps, removeOps := diffIdentities(pair.New.Table, pair.New, old)
	ops = append(ops, addOps...)
	ops = append(ops, removeOps...)

	return ops, nil
}

// diffAttributes implements spec §4.4.1.
func diffAttributes(table string, newSnap, old resource.Snapshot, prompter prompt.Prompter) ([]op.Operation, error) {
	oldByName := make(map[string]resource.Attribute, len(old.Attributes))
	for _, a := range old.Attributes {
		oldByName[a.Name] = a
	}
	newByName := make(map[string]resource.Attribute, len(newSnap.Attributes))
	for _, a := range newSnap.Attributes {
		newByName[a.Name] = a
	}

	var toAdd []resource.Attribute
	for _, a := range newSnap.Attributes {
		if _, ok := oldByName[a.Name]; !ok {
			toAdd = append(toAdd, a)
		}
	}
	var toRemove []resource.Attribute
	for _, a := range old.Attributes {
		if _, ok := newByName[a.Name]; !ok {
			toRemove = append(toRemove, a)
		}
	}

	toAdd, toRemove, renames, err := ResolveRenames(toAdd, toRemove, prompter)
	if err != nil {
		return nil, err
	}

	type alterPair struct {
		New resource.Attribute
		Old resource.Attribute
	}
	var toAlter []alterPair
	for _, newAttr := range newSnap.Attributes {
		oldAttr, ok := oldByName[newAttr.Name]
		if !ok {
			continue
		}
		if !attributesEqual(newAttr, oldAttr) {
			toAlter = append(toAlter, alterPair{New: newAttr, Old: oldAttr})
		}
	}

	var ops []op.Operation

	for _, r := range renames {
		ops = append(ops, op.Operation{Kind: op.RenameAttribute, Table: table, OldAttribute: r.Old, NewAttribute: r.New})
	}

	for _, a := range toAdd {
		if a.References == nil {
			ops = append(ops, op.Operation{Kind: op.AddAttribute, Table: table, Attribute: a})
			continue
		}
		bare := a
		bare.References = nil
		ops = append(ops, op.Operation{Kind: op.AddAttribute, Table: table, Attribute: bare})
		ops = append(ops, op.Operation{Kind: op.AlterAttribute, Table: table, OldAttribute: bare, NewAttribute: a})
	}

	for _, pair := range toAlter {
		if pair.New.References == nil {
			ops = append(ops, op.Operation{Kind: op.AlterAttribute, Table: table, OldAttribute: pair.Old, NewAttribute: pair.New})
			continue
		}
		stripped := pair.New
		stripped.References = nil
		ops = append(ops, op.Operation{Kind: op.AlterAttribute, Table: table, OldAttribute: pair.Old, NewAttribute: stripped})
		ops = append(ops, op.Operation{Kind: op.AlterAttribute, Table: table, OldAttribute: stripped, NewAttribute: pair.New})
	}

	for _, a := range toRemove {
		ops = append(ops, op.Operation{Kind: op.RemoveAttribute, Table: table, Attribute: a})
	}

	return ops, nil
}

// diffIdentities computes add/remove unique-index operations (spec §4.4).
func diffIdentities(table string, newSnap, old resource.Snapshot) (adds, removes []op.Operation) {
	for _, oldID := range old.Identities {
		if !containsIdentity(newSnap.Identities, oldID) {
			removes = append(removes, op.Operation{Kind: op.RemoveUniqueIndex, Table: table, Identity: oldID})
		}
	}
	for _, newID := range newSnap.Identities {
		if !containsIdentity(old.Identities, newID) {
			adds = append(adds, op.Operation{Kind: op.AddUniqueIndex, Table: table, Identity: newID})
		}
	}
	return adds, removes
}

func containsIdentity(ids []resource.Identity, id resource.Identity) bool {
	for _, existing := range ids {
		if existing.SameKeys(id) {
			return true
		}
	}
	return false
}

// attributesEqual compares every field the Differ cares about, including
// the dereferenced contents of References.
func attributesEqual(a, b resource.Attribute) bool {
	if a.Type != b.Type || a.Default != b.Default || a.AllowNil != b.AllowNil || a.PrimaryKey != b.PrimaryKey {
		return false
	}
	if (a.References == nil) != (b.References == nil) {
		return false
	}
	if a.References != nil && *a.References != *b.References {
		return false
	}
	return true
}
