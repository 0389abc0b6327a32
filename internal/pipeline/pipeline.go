// Package pipeline wires Builder -> Store -> Dedup -> Differ -> Orderer ->
// Streamliner -> Phaser into the operations the CLI's generate and plan
// subcommands invoke (spec §2, plus SPEC_FULL.md's supplemented
// subcommands); emitting the result is left to the caller. Grounded in
// the teacher's top-level GenerateMigrationPlan/PlanMigrationSQL/ValidateMigration orchestration
// in api/platform/migrations.go.
package pipeline

import (
	"sort"

	"github.com/joe-ervin05/resourcemigrator/internal/dedup"
	"github.com/joe-ervin05/resourcemigrator/internal/differ"
	"github.com/joe-ervin05/resourcemigrator/internal/migerr"
	"github.com/joe-ervin05/resourcemigrator/internal/op"
	"github.com/joe-ervin05/resourcemigrator/internal/order"
	"github.com/joe-ervin05/resourcemigrator/internal/phase"
	"github.com/joe-ervin05/resourcemigrator/internal/prompt"
	"github.com/joe-ervin05/resourcemigrator/internal/resource"
	"github.com/joe-ervin05/resourcemigrator/internal/snapshot"
	"github.com/joe-ervin05/resourcemigrator/internal/streamline"
)

// Plan is the result of running the full diff/order/phase pipeline for
// one repo, short of emitting anything to disk.
type Plan struct {
	Repo      string
	Pairs     []dedup.Pair
	Phases    []op.Phase
	Snapshots []resource.Snapshot
}

// Summary reports how many tables/columns/indexes changed (SPEC_FULL.md's
// "Snapshot diffing summary", grounded in the teacher's
// MigrationPlan.RequiresMigration/HasAmbiguous bookkeeping).
type Summary struct {
	Tables  int
	Columns int
	Indexes int
}

// Build runs Builder -> Store -> Dedup for one repo's resource handles,
// producing the (merged, existing?) pairs the Differ consumes.
func Build(repoName string, handles []resource.ResourceHandle, store *snapshot.Store, prompter prompt.Prompter) ([]dedup.Pair, error) {
	fresh := make([]resource.Snapshot, 0, len(handles))
	for _, h := range handles {
		snap, err := snapshot.Build(h)
		if err != nil {
			return nil, err
		}
		fresh = append(fresh, snap)
	}
	return dedup.Merge(repoName, fresh, store, prompter)
}

// Run executes Differ -> Orderer -> Streamliner -> Phaser over pairs,
// returning the phased plan and the merged snapshots to persist.
func Run(repoName string, pairs []dedup.Pair, prompter prompt.Prompter) (Plan, error) {
	var allOps []op.Operation
	snapshots := make([]resource.Snapshot, 0, len(pairs))

	for _, pair := range pairs {
		ops, err := differ.Diff(pair, prompter)
		if err != nil {
			return Plan{}, err
		}
		allOps = append(allOps, ops...)
		snapshots = append(snapshots, pair.New)
	}

	if len(allOps) == 0 {
		return Plan{}, migerr.ErrNoChanges
	}

	ordered := order.Order(allOps)
	streamlined := streamline.Streamline(ordered)
	phases := phase.Phase(streamlined)

	return Plan{Repo: repoName, Pairs: pairs, Phases: phases, Snapshots: snapshots}, nil
}

// Summarize counts how many tables/columns/indexes a plan touches.
func Summarize(p Plan) Summary {
	tables := make(map[string]bool)
	var s Summary
	for _, ph := range p.Phases {
		tables[ph.Table] = true
		for _, o := range ph.Operations {
			if o.Kind == op.CreateTable {
				continue
			}
			if o.Kind == op.AddUniqueIndex || o.Kind == op.RemoveUniqueIndex {
				s.Indexes++
			} else {
				s.Columns++
			}
		}
	}
	s.Tables = len(tables)
	return s
}

// SortedTables returns the distinct table names across pairs, for stable
// CLI output ordering.
func SortedTables(pairs []dedup.Pair) []string {
	names := make([]string, 0, len(pairs))
	for _, p := range pairs {
		names = append(names, p.New.Table)
	}
	sort.Strings(names)
	return names
}
