package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joe-ervin05/resourcemigrator/internal/resource"
	"github.com/joe-ervin05/resourcemigrator/internal/snapshot"
)

// validateCmd is SPEC_FULL.md's supplemented "validate" subcommand: it
// loads the recorded snapshot for a table and compares it against the
// snapshot freshly built from the on-disk resource definition, reporting
// whether they match or differ, grounded in the teacher's
// ValidateMigration (api/platform/migrations.go), adapted here from "is
// this plan safe to apply" to "does this table's snapshot need
// regenerating."
var validateCmd = &cobra.Command{
	Use:   "validate <table>",
	Short: "Compare a table's recorded snapshot against its current resource definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table := args[0]
		store := snapshot.NewStore(cfg.SnapshotPath)

		existing, ok, err := store.Load(repoFlag, table)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Printf("%s: no recorded snapshot\n", table)
			return nil
		}

		handles, err := resource.LoadJSONResourceDir(resourcesDir, dataLayer)
		if err != nil {
			return err
		}

		var found bool
		for _, h := range handles {
			if h.TableName() != table {
				continue
			}
			fresh, err := snapshot.Build(h)
			if err != nil {
				return err
			}
			found = true
			if fresh.Hash == existing.Hash {
				fmt.Printf("%s: matches recorded snapshot (%s)\n", table, existing.Hash)
			} else {
				fmt.Printf("%s: differs from recorded snapshot (recorded %s, current %s)\n", table, existing.Hash, fresh.Hash)
			}
		}
		if !found {
			fmt.Printf("%s: no resource definition found in %s\n", table, resourcesDir)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
