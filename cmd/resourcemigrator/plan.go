package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joe-ervin05/resourcemigrator/internal/migerr"
	"github.com/joe-ervin05/resourcemigrator/internal/op"
	"github.com/joe-ervin05/resourcemigrator/internal/pipeline"
	"github.com/joe-ervin05/resourcemigrator/internal/prompt"
	"github.com/joe-ervin05/resourcemigrator/internal/resource"
	"github.com/joe-ervin05/resourcemigrator/internal/snapshot"
)

// planCmd is SPEC_FULL.md's supplemented "plan" subcommand: it runs the
// full pipeline and prints the resulting phases without writing any
// files, grounded in the teacher's PlanMigrationSQL helper
// (api/platform/migrations.go), which likewise returns the statements a
// migration would apply without persisting anything.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the phases a generate run would produce, without writing files",
	RunE: func(cmd *cobra.Command, args []string) error {
		handles, err := resource.LoadJSONResourceDir(resourcesDir, dataLayer)
		if err != nil {
			return err
		}

		store := snapshot.NewStore(cfg.SnapshotPath)
		prompter := prompt.NewTerminal()

		pairs, err := pipeline.Build(repoFlag, handles, store, prompter)
		if err != nil {
			return err
		}

		plan, err := pipeline.Run(repoFlag, pairs, prompter)
		if err != nil {
			if errors.Is(err, migerr.ErrNoChanges) {
				fmt.Println("No schema changes detected.")
				return nil
			}
			return err
		}

		printPhases(plan.Phases)
		return nil
	},
}

func printPhases(phases []op.Phase) {
	for _, p := range phases {
		kind := "Alter"
		if p.Kind == op.Create {
			kind = "Create"
		}
		fmt.Printf("%s(%s)\n", kind, p.Table)
		for _, o := range p.Operations {
			fmt.Printf("  %s\n", o.Kind)
		}
	}
}

func init() {
	rootCmd.AddCommand(planCmd)
}
