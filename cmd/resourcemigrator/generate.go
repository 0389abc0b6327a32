package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joe-ervin05/resourcemigrator/internal/emit"
	"github.com/joe-ervin05/resourcemigrator/internal/logging"
	"github.com/joe-ervin05/resourcemigrator/internal/migerr"
	"github.com/joe-ervin05/resourcemigrator/internal/pipeline"
	"github.com/joe-ervin05/resourcemigrator/internal/prompt"
	"github.com/joe-ervin05/resourcemigrator/internal/resource"
	"github.com/joe-ervin05/resourcemigrator/internal/snapshot"
)

var dryRun bool

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a migration from the current resource definitions",
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

		summary := pipeline.Summarize(plan)
		logging.Logger.Info("schema changes detected",
			"tables", summary.Tables, "columns", summary.Columns, "indexes", summary.Indexes)

		if dryRun {
			preview, err := emit.Render(repoFlag, plan.Phases, emit.Options{MigrationPath: cfg.MigrationPath, Format: cfg.Format, Formatter: emit.GoFormatter{}})
			if err != nil {
				return err
			}
			fmt.Println(preview.Source)
			return nil
		}

		result, err := emit.Emit(repoFlag, plan.Phases, plan.Snapshots, store, emit.Options{
			MigrationPath: cfg.MigrationPath,
			Format:        cfg.Format,
			Formatter:     emit.GoFormatter{},
		})
		if err != nil {
			return err
		}

		if !cfg.Quiet {
			fmt.Printf("Generated %s (%s)\n", result.Path, result.TypeName)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the rendered migration without writing files or updating snapshots")
	rootCmd.AddCommand(generateCmd)
}
