package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/joe-ervin05/resourcemigrator/internal/migerr"
	"github.com/joe-ervin05/resourcemigrator/internal/resource"
)

// Store loads and persists Snapshots as pretty-printed JSON on disk, keyed
// by (repo, table), per spec §4.2.
type Store struct {
	// BasePath is the configured snapshot_path root.
	BasePath string
}

// NewStore returns a Store rooted at basePath.
func NewStore(basePath string) *Store {
	return &Store{BasePath: basePath}
}

// Path returns the on-disk path for a (repo, table) pair:
// <snapshot_path>/<underscore(last_segment(repo))>/<table>.json
func (s *Store) Path(repo, table string) string {
	return filepath.Join(s.BasePath, underscore(lastSegment(repo)), table+".json")
}

// Load returns the previously recorded snapshot for (repo, table). The
// second return value is false when no snapshot file exists yet, which is
// distinct from an existing-but-empty snapshot.
func (s *Store) Load(repo, table string) (resource.Snapshot, bool, error) {
	path := s.Path(repo, table)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return resource.Snapshot{}, false, nil
		}
		return resource.Snapshot{}, false, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	var doc jsonSnapshot
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return resource.Snapshot{}, false, migerr.SnapshotDecodeErr(path, err)
	}

	return doc.toSnapshot(), true, nil
}

// Save writes snap to disk, creating any missing directories.
func (s *Store) Save(snap resource.Snapshot) error {
	path := s.Path(snap.Repo, snap.Table)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir for %s: %w", path, err)
	}

	doc := fromSnapshot(snap)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot for %s: %w", snap.Table, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

// jsonSnapshot / jsonAttribute / jsonIdentity / jsonReference are the wire
// shapes from spec §6: every symbol-valued field round-trips as a JSON
// string. DisallowUnknownFields enforces the "strict-symbol key policy":
// an unrecognized key fails the load instead of being silently ignored.
type jsonSnapshot struct {
	Table      string          `json:"table"`
	Repo       string          `json:"repo"`
	Hash       string          `json:"hash"`
	Attributes []jsonAttribute `json:"attributes"`
	Identities []jsonIdentity  `json:"identities"`
}

type jsonAttribute struct {
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Default    string          `json:"default"`
	AllowNil   bool            `json:"allow_nil?"`
	PrimaryKey bool            `json:"primary_key?"`
	References *jsonReference  `json:"references"`
}

type jsonReference struct {
	Table            string `json:"table"`
	DestinationField string `json:"destination_field"`
}

type jsonIdentity struct {
	Name string   `json:"name"`
	Keys []string `json:"keys"`
}

func fromSnapshot(s resource.Snapshot) jsonSnapshot {
	doc := jsonSnapshot{Table: s.Table, Repo: s.Repo, Hash: s.Hash}
	for _, a := range s.Attributes {
		ja := jsonAttribute{
			Name:       a.Name,
			Type:       string(a.Type),
			Default:    a.Default,
			AllowNil:   a.AllowNil,
			PrimaryKey: a.PrimaryKey,
		}
		if a.References != nil {
			ja.References = &jsonReference{Table: a.References.Table, DestinationField: a.References.DestinationField}
		}
		doc.Attributes = append(doc.Attributes, ja)
	}
	for _, id := range s.Identities {
		doc.Identities = append(doc.Identities, jsonIdentity{Name: id.Name, Keys: id.Keys})
	}
	return doc
}

func (doc jsonSnapshot) toSnapshot() resource.Snapshot {
	s := resource.Snapshot{Table: doc.Table, Repo: doc.Repo, Hash: doc.Hash}
	for _, ja := range doc.Attributes {
		a := resource.Attribute{
			Name:       ja.Name,
			Type:       resource.AttributeType(ja.Type),
			Default:    ja.Default,
			AllowNil:   ja.AllowNil,
			PrimaryKey: ja.PrimaryKey,
		}
		if ja.References != nil {
			a.References = &resource.Reference{Table: ja.References.Table, DestinationField: ja.References.DestinationField}
		}
		s.Attributes = append(s.Attributes, a)
	}
	for _, ji := range doc.Identities {
		s.Identities = append(s.Identities, resource.Identity{Name: ji.Name, Keys: ji.Keys})
	}
	return s
}

// lastSegment returns the final "."-delimited segment of a repo identifier,
// e.g. "MyApp.Repo" -> "Repo".
func lastSegment(repo string) string {
	parts := strings.Split(repo, ".")
	return parts[len(parts)-1]
}

// underscore converts a CamelCase or PascalCase segment to snake_case,
// e.g. "Repo" -> "repo", "PrimaryRepo" -> "primary_repo".
func underscore(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
