// Package emit renders ordered, phased operations into a generated Go
// migration package and writes the migration artifact plus updated
// snapshots to disk (spec §4.9). The file path layout and up/down
// assembly are grounded in pseudomuto-housekeeper's
// GenerateMigration/GenerateMigrationFile (version timestamp,
// Migration{Version,Name,Up,Down}); the "module exposing up()/down()"
// shape renders to a Go struct with Up/Down methods whose bodies are
// Postgres DDL statements, mirroring the teacher's own
// MigrateDatabase transactional-apply shape (api/platform/migrations.go)
// adapted here to *emit* the statements as Go source rather than execute
// them against a live connection, per spec.md's Non-goals.
package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joe-ervin05/resourcemigrator/internal/op"
	"github.com/joe-ervin05/resourcemigrator/internal/resource"
)

// pgType maps the closed migration-type set onto Postgres column types.
func pgType(t resource.AttributeType) string {
	switch t {
	case resource.TypeText:
		return "text"
	case resource.TypeInteger:
		return "integer"
	case resource.TypeBoolean:
		return "boolean"
	case resource.TypeBinaryID:
		return "uuid"
	default:
		return "text"
	}
}

// renderUp renders one phase's up-side DDL statements.
func renderUp(p op.Phase) []string {
	switch p.Kind {
	case op.Create:
		return []string{renderCreateTable(p)}
	default:
		stmts := make([]string, 0, len(p.Operations))
		for _, o := range p.Operations {
			stmts = append(stmts, renderUpOperation(o))
		}
		return stmts
	}
}

// renderDown renders one phase's down-side DDL statements: the reverse
// operation for each member, in reverse order.
func renderDown(p op.Phase) []string {
	switch p.Kind {
	case op.Create:
		return []string{fmt.Sprintf("DROP TABLE %s", p.Table)}
	default:
		stmts := make([]string, 0, len(p.Operations))
		for i := len(p.Operations) - 1; i >= 0; i-- {
			stmts = append(stmts, renderDownOperation(p.Operations[i]))
		}
		return stmts
	}
}

// renderCreateTable renders a CREATE TABLE statement whose column list is
// drawn from the Create phase's AddAttribute operations, so the table and
// its initial columns render as a single statement.
func renderCreateTable(p op.Phase) string {
	var cols []string
	for _, o := range p.Operations {
		if o.Kind != op.AddAttribute {
			continue
		}
		cols = append(cols, columnDef(o.Attribute))
	}
	if len(cols) == 0 {
		return fmt.Sprintf("CREATE TABLE %s ()", p.Table)
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", p.Table, strings.Join(cols, ",\n  "))
}

func columnDef(a resource.Attribute) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", a.Name, pgType(a.Type))
	if a.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	if !a.AllowNil {
		b.WriteString(" NOT NULL")
	}
	if a.Default != resource.NoDefault {
		fmt.Fprintf(&b, " DEFAULT %s", a.Default)
	}
	if a.References != nil {
		fmt.Fprintf(&b, " REFERENCES %s(%s)", a.References.Table, a.References.DestinationField)
	}
	return b.String()
}

func renderUpOperation(o op.Operation) string {
	switch o.Kind {
	case op.CreateTable:
		return fmt.Sprintf("CREATE TABLE %s ()", o.Table)
	case op.AddAttribute:
		return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", o.Table, columnDef(o.Attribute))
	case op.AlterAttribute:
		return alterColumnStatements(o.Table, o.OldAttribute, o.NewAttribute)
	case op.RenameAttribute:
		return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s", o.Table, o.OldAttribute.Name, o.NewAttribute.Name)
	case op.RemoveAttribute:
		return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", o.Table, o.Attribute.Name)
	case op.AddUniqueIndex:
		return fmt.Sprintf("CREATE UNIQUE INDEX %s ON %s (%s)", o.Identity.Name, o.Table, strings.Join(o.Identity.Keys, ", "))
	case op.RemoveUniqueIndex:
		return fmt.Sprintf("DROP INDEX %s", o.Identity.Name)
	}
	return "-- unknown operation " + o.Kind.String()
}

func renderDownOperation(o op.Operation) string {
	switch o.Kind {
	case op.CreateTable:
		return fmt.Sprintf("DROP TABLE %s", o.Table)
	case op.AddAttribute:
		return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", o.Table, o.Attribute.Name)
	case op.AlterAttribute:
		return alterColumnStatements(o.Table, o.NewAttribute, o.OldAttribute)
	case op.RenameAttribute:
		return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s", o.Table, o.NewAttribute.Name, o.OldAttribute.Name)
	case op.RemoveAttribute:
		return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", o.Table, columnDef(o.Attribute))
	case op.AddUniqueIndex:
		return fmt.Sprintf("DROP INDEX %s", o.Identity.Name)
	case op.RemoveUniqueIndex:
		return fmt.Sprintf("CREATE UNIQUE INDEX %s ON %s (%s)", o.Identity.Name, o.Table, strings.Join(o.Identity.Keys, ", "))
	}
	return "-- unknown operation " + o.Kind.String()
}

// alterColumnStatements renders the column-level change between old and
// new as a single ALTER TABLE statement with one comma-separated clause per
// changed property: type, nullability, default, and an added or changed
// foreign key. A removed reference or a primary-key change adds no clause;
// when no clause applies, a SQL comment naming the column is returned.
func alterColumnStatements(table string, old, next resource.Attribute) string {
	var clauses []string
	if old.Type != next.Type {
		clauses = append(clauses, fmt.Sprintf("ALTER COLUMN %s TYPE %s", next.Name, pgType(next.Type)))
	}
	if old.AllowNil != next.AllowNil {
		if next.AllowNil {
			clauses = append(clauses, fmt.Sprintf("ALTER COLUMN %s DROP NOT NULL", next.Name))
		} else {
			clauses = append(clauses, fmt.Sprintf("ALTER COLUMN %s SET NOT NULL", next.Name))
		}
	}
	if old.Default != next.Default {
		if next.Default == resource.NoDefault {
			clauses = append(clauses, fmt.Sprintf("ALTER COLUMN %s DROP DEFAULT", next.Name))
		} else {
			clauses = append(clauses, fmt.Sprintf("ALTER COLUMN %s SET DEFAULT %s", next.Name, next.Default))
		}
	}
	if (old.References == nil) != (next.References == nil) || (next.References != nil && old.References != nil && *old.References != *next.References) {
		if next.References != nil {
			clauses = append(clauses, fmt.Sprintf("ADD FOREIGN KEY (%s) REFERENCES %s(%s)", next.Name, next.References.Table, next.References.DestinationField))
		}
	}
	if len(clauses) == 0 {
		return fmt.Sprintf("-- no-op alter on %s.%s", table, next.Name)
	}
	return fmt.Sprintf("ALTER TABLE %s %s", table, strings.Join(clauses, ", "))
}

// goStringLiteral quotes s as a Go string literal for embedding in the
// generated statements slice.
func goStringLiteral(s string) string {
	return strconv.Quote(s)
}
