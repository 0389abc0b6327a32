// Package config loads resourcemigrator's configuration options (spec §6
// "Configuration options") through a layered precedence chain — explicit
// CLI flag > environment variable > config file > default — grounded in
// untoldecay-BeadsLog/internal/config/config.go's viper.New() singleton
// and steveyegge-beads/cmd/bd/config.go's SetDefault calls, adapted from
// beads' per-project ".beads/config.yaml" / "BD_*" scheme to this tool's
// ".resourcemigrator.yaml" / "RESOURCEMIGRATOR_*" scheme.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the fully resolved set of options spec §6 recognizes.
type Config struct {
	SnapshotPath  string `mapstructure:"snapshot_path"`
	MigrationPath string `mapstructure:"migration_path"`
	Quiet         bool   `mapstructure:"quiet"`
	Format        bool   `mapstructure:"format"`
}

// defaultSnapshotPath is spec §6's default for snapshot_path.
const defaultSnapshotPath = "priv/resource_snapshots"

// Load builds a Config from defaults, an optional ".resourcemigrator.yaml"
// discovered by walking up from the current working directory, and
// RESOURCEMIGRATOR_-prefixed environment variables, in that ascending
// precedence order (viper's own AutomaticEnv already ranks env above
// file above default).
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName(".resourcemigrator")

	v.SetDefault("snapshot_path", defaultSnapshotPath)
	v.SetDefault("migration_path", "")
	v.SetDefault("quiet", false)
	v.SetDefault("format", true)

	v.SetEnvPrefix("RESOURCEMIGRATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path, ok := findConfigFile(); ok {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// findConfigFile walks up from the working directory looking for a
// ".resourcemigrator.yaml", mirroring beads' project-config discovery.
func findConfigFile() (string, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for dir := cwd; ; {
		candidate := filepath.Join(dir, ".resourcemigrator.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
