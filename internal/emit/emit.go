package emit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/joe-ervin05/resourcemigrator/internal/op"
	"github.com/joe-ervin05/resourcemigrator/internal/resource"
	"github.com/joe-ervin05/resourcemigrator/internal/snapshot"
)

// Formatter is the opaque external post-processor spec §4.9 calls
// "format": invoked on the final migration source if configured. The core
// never depends on a concrete implementation; the default wired here is
// gofmt-shaped (see Options.Formatter callers in cmd/resourcemigrator).
type Formatter interface {
	Format(source string) (string, error)
}

// Result describes one emitted migration artifact.
type Result struct {
	Path        string
	PackageName string
	TypeName    string
	Source      string
}

// Options configures the Emitter (spec §6 "Configuration options").
type Options struct {
	MigrationPath string
	Format        bool
	Formatter     Formatter
}

// Render computes the Go migration source for phases against repo's
// next migration number, with no filesystem side effects. Used both by
// Emit and by a --dry-run preview that must not write anything (SPEC_FULL
// "--dry-run flag").
func Render(repo string, phases []op.Phase, opts Options) (Result, error) {
	dir := filepath.Join(migrationPath(opts.MigrationPath), underscore(repo), "migrations")

	n, err := nextMigrationNumber(dir)
	if err != nil {
		return Result{}, errors.Wrap(err, "determine next migration number")
	}

	typeName := fmt.Sprintf("MigrateResources%d", n)
	timestamp := time.Now().UTC().Format("20060102150405")
	filename := fmt.Sprintf("%s_migrate_resources%d.go", timestamp, n)
	path := filepath.Join(dir, filename)

	upStmts := flatten(phases, renderUp)
	downStmts := flattenReversed(phases, renderDown)

	source := renderFile(underscore(repo), typeName, upStmts, downStmts)
	if opts.Format && opts.Formatter != nil {
		formatted, err := opts.Formatter.Format(source)
		if err != nil {
			return Result{}, errors.Wrap(err, "format migration source")
		}
		source = formatted
	}

	return Result{Path: path, PackageName: "migrations", TypeName: typeName, Source: source}, nil
}

// Emit renders phases into a generated Go migration file exposing
// Up/Down methods, writes it to disk, and saves the updated snapshot for
// every merged pair, per spec §4.9.
func Emit(repo string, phases []op.Phase, snapshots []resource.Snapshot, store *snapshot.Store, opts Options) (Result, error) {
	dir := filepath.Join(migrationPath(opts.MigrationPath), underscore(repo), "migrations")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, errors.Wrapf(err, "create migration directory: %s", dir)
	}

	result, err := Render(repo, phases, opts)
	if err != nil {
		return Result{}, err
	}

	if err := os.WriteFile(result.Path, []byte(result.Source), 0o644); err != nil {
		return Result{}, errors.Wrapf(err, "write migration file: %s", result.Path)
	}

	for _, s := range snapshots {
		if err := store.Save(s); err != nil {
			return Result{}, errors.Wrapf(err, "save snapshot for table %s", s.Table)
		}
	}

	return result, nil
}

func migrationPath(configured string) string {
	if configured == "" {
		return "priv"
	}
	return configured
}

// flatten concatenates each phase's rendered statements in phase order.
func flatten(phases []op.Phase, render func(op.Phase) []string) []string {
	var out []string
	for _, p := range phases {
		out = append(out, render(p)...)
	}
	return out
}

// flattenReversed concatenates each phase's rendered statements with the
// phases visited in reverse order (spec §4.9's down text).
func flattenReversed(phases []op.Phase, render func(op.Phase) []string) []string {
	var out []string
	for i := len(phases) - 1; i >= 0; i-- {
		out = append(out, render(phases[i])...)
	}
	return out
}

// renderFile renders the generated Go migration package source: a type
// named typeName exposing Up(*sql.Tx) and Down(*sql.Tx) methods whose
// bodies execute the given statements in order, the "module exposing
// up()/down()" shape spec §6 describes, adapted to idiomatic Go.
func renderFile(packageComment, typeName string, up, down []string) string {
	var b strings.Builder
	b.WriteString("// Code generated by resourcemigrator. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package migrations\n\n")
	b.WriteString("import \"database/sql\"\n\n")
	fmt.Fprintf(&b, "// %s is a generated schema migration for %s.\n", typeName, packageComment)
	fmt.Fprintf(&b, "type %s struct{}\n\n", typeName)

	fmt.Fprintf(&b, "func (%s) Up(tx *sql.Tx) error {\n", typeName)
	b.WriteString(renderExecBody(up))
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "func (%s) Down(tx *sql.Tx) error {\n", typeName)
	b.WriteString(renderExecBody(down))
	b.WriteString("}\n")

	return b.String()
}

func renderExecBody(statements []string) string {
	if len(statements) == 0 {
		return "\treturn nil\n"
	}
	var b strings.Builder
	b.WriteString("\tstatements := []string{\n")
	for _, s := range statements {
		fmt.Fprintf(&b, "\t\t%s,\n", goStringLiteral(s))
	}
	b.WriteString("\t}\n")
	b.WriteString("\tfor _, stmt := range statements {\n")
	b.WriteString("\t\tif _, err := tx.Exec(stmt); err != nil {\n")
	b.WriteString("\t\t\treturn err\n")
	b.WriteString("\t\t}\n")
	b.WriteString("\t}\n")
	b.WriteString("\treturn nil\n")
	return b.String()
}

// nextMigrationNumber returns 1 + the count of existing
// *_migrate_resources<N>.go files in dir (spec §4.9).
func nextMigrationNumber(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 1, nil
		}
		return 0, err
	}
	count := 0
	for _, e := range entries {
		if strings.Contains(e.Name(), "_migrate_resources") {
			count++
		}
	}
	return count + 1, nil
}

// underscore converts a CamelCase repo identifier to snake_case, mirroring
// snapshot.Store's path-derivation helper (spec §4.9's
// <repo_underscore> path segment).
func underscore(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
