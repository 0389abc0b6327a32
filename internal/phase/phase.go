// Package phase groups a streamlined operation list into Create/Alter
// phases (spec §4.8), grounded in the teacher's grouping of
// colChanges/indexChanges/ftsChanges per table in GenerateMigrationPlan
// (api/platform/migrations.go).
package phase

import "github.com/joe-ervin05/resourcemigrator/internal/op"

// Phase groups ops left-to-right, maintaining at most one open phase at a
// time, per spec §4.8.
func Phase(ops []op.Operation) []op.Phase {
	var phases []op.Phase
	var open *op.Phase

	closeOpen := func() {
		if open == nil {
			return
		}
		phases = append(phases, *open)
		open = nil
	}

	for _, o := range ops {
		if o.Kind == op.CreateTable {
			closeOpen()
			open = &op.Phase{Kind: op.Create, Table: o.Table, Operations: []op.Operation{o}}
			continue
		}

		if o.AttributeLevel() {
			if open != nil && open.Table == o.Table {
				open.Operations = append(open.Operations, o)
				continue
			}
			closeOpen()
			open = &op.Phase{Kind: op.Alter, Table: o.Table}
			open.Operations = append(open.Operations, o)
			continue
		}

		closeOpen()
		phases = append(phases, op.Phase{Kind: op.Alter, Table: o.Table, Operations: []op.Operation{o}})
	}

	closeOpen()
	return phases
}
