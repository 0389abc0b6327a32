// Command resourcemigrator is the CLI entry point for the schema
// migration generator (spec §2, SPEC_FULL.md §"CLI"). Its command tree is
// grounded in steveyegge-beads/cmd/bd's rootCmd.AddCommand construction
// and persistent-flag conventions.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/joe-ervin05/resourcemigrator/internal/config"
	"github.com/joe-ervin05/resourcemigrator/internal/logging"
)

// init loads .env into the process environment before viper reads it,
// exactly as the teacher's main.go does (api/main.go's init()). A
// missing .env file is not an error: it's normal outside local dev.
func init() {
	_ = godotenv.Load()
}

var (
	resourcesDir string
	repoFlag     string
	dataLayer    string
	quietFlag    bool
	cfg          config.Config
)

var rootCmd = &cobra.Command{
	Use:   "resourcemigrator",
	Short: "Generate schema migrations from declarative resource definitions",
	Long: `resourcemigrator diffs a declarative description of a relational
database schema against the most recently recorded snapshot, computes a
minimal correctly-ordered sequence of schema-change operations, and emits
a timestamped migration artifact plus an updated snapshot.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		cfg = loaded
		if quietFlag {
			cfg.Quiet = true
		}
		logging.SetQuiet(cfg.Quiet)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&resourcesDir, "resources", "resources", "directory of JSON resource definitions")
	rootCmd.PersistentFlags().StringVar(&repoFlag, "repo", "Repo", "logical repo identifier for the snapshot/migration path")
	rootCmd.PersistentFlags().StringVar(&dataLayer, "data-layer", "", "data layer name used to resolve same-repo relationships")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "suppress informational log output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
