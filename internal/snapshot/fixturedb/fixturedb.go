// Package fixturedb is an optional local-database-backed fixture store
// for exercising the Snapshot Builder against a real database/sql
// connection rather than a hand-built ResourceHandle (no test in this
// module imports it),
// grounded in the teacher's own primary driver setup
// (api/daos/base.go's sql.Open("libsql", "file:"+...) with the
// mattn/go-sqlite3 and tursodatabase/libsql-client-go drivers both
// registered as blank imports).
package fixturedb

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"

	"github.com/joe-ervin05/resourcemigrator/internal/resource"
)

// Driver selects which registered database/sql driver backs a fixture
// store: "sqlite3" for an in-process file or :memory: database, "libsql"
// for the turso-compatible remote/embedded-replica driver (daos/schema.go's
// alternate sql.Open("libsql", ...) path).
type Driver string

const (
	DriverSQLite Driver = "sqlite3"
	DriverLibSQL Driver = "libsql"
)

// DB wraps a database/sql connection used purely as a fixture source: its
// schema is introspected via PRAGMA table_info and projected into
// SourceAttributes the Snapshot Builder can consume, letting tests assert
// the Builder's type-mapping and default-rendering logic (spec §4.1)
// against a real column catalog instead of a hand-built one.
type DB struct {
	conn *sql.DB
}

// Open opens a fixture database using driver at dsn.
func Open(driver Driver, dsn string) (*DB, error) {
	conn, err := sql.Open(string(driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("open fixture db (%s): %w", driver, err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping fixture db (%s): %w", driver, err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

// Exec runs a DDL/DML statement against the fixture database, used by
// tests to set up a table before introspecting it.
func (d *DB) Exec(stmt string) error {
	_, err := d.conn.Exec(stmt)
	return err
}

// sqliteTypeMap maps SQLite's type-affinity keywords onto the source
// type names the Snapshot Builder's migrationTypes table expects.
var sqliteTypeMap = map[string]string{
	"TEXT":    "string",
	"VARCHAR": "string",
	"INTEGER": "integer",
	"INT":     "integer",
	"BOOLEAN": "boolean",
	"BOOL":    "boolean",
	"BLOB":    "binary_id",
}

// SourceAttributes introspects table's columns via PRAGMA table_info and
// projects them into SourceAttributes, using sqliteTypeMap to resolve the
// migration-type mapping the Builder needs.
func (d *DB) SourceAttributes(table string) ([]resource.SourceAttribute, error) {
	rows, err := d.conn.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("introspect table %s: %w", table, err)
	}
	defer rows.Close()

	var attrs []resource.SourceAttribute
	for rows.Next() {
		var (
			cid        int
			name       string
			colType    string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultVal, &pk); err != nil {
			return nil, fmt.Errorf("scan column of %s: %w", table, err)
		}

		sourceType, ok := sqliteTypeMap[colType]
		if !ok {
			sourceType = "string"
		}

		attrs = append(attrs, resource.SourceAttribute{
			Name:       name,
			SourceType: sourceType,
			AllowNil:   notNull == 0,
			PrimaryKey: pk != 0,
		})
	}
	return attrs, rows.Err()
}
