package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joe-ervin05/resourcemigrator/internal/resource"
)

func TestStoreLoadMissingFileReportsNoPriorSnapshot(t *testing.T) {
	store := NewStore(t.TempDir())

	_, ok, err := store.Load("Repo", "posts")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a missing snapshot file")
	}
}

func TestStoreRoundTripsSnapshot(t *testing.T) {
	store := NewStore(t.TempDir())

	snap := resource.Snapshot{
		Table: "posts",
		Repo:  "Repo",
		Attributes: []resource.Attribute{
			{Name: "id", Type: resource.TypeBinaryID, Default: resource.NoDefault, PrimaryKey: true},
			{Name: "author_id", Type: resource.TypeBinaryID, Default: resource.NoDefault,
				References: &resource.Reference{Table: "users", DestinationField: "id"}},
		},
		Identities: []resource.Identity{{Name: "posts_author_id_index", Keys: []string{"author_id"}}},
	}
	snap.Hash = ComputeHash(snap)

	if err := store.Save(snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, ok, err := store.Load("Repo", "posts")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("expected the saved snapshot to load back")
	}
	if loaded.Table != snap.Table || loaded.Repo != snap.Repo || loaded.Hash != snap.Hash {
		t.Fatalf("round trip mismatch: got %+v, want %+v", loaded, snap)
	}
	if len(loaded.Attributes) != 2 || loaded.Attributes[1].References == nil || loaded.Attributes[1].References.Table != "users" {
		t.Fatalf("expected the reference to round-trip, got %+v", loaded.Attributes)
	}
	if len(loaded.Identities) != 1 || loaded.Identities[0].Name != "posts_author_id_index" {
		t.Fatalf("expected the identity to round-trip, got %+v", loaded.Identities)
	}
}

func TestStorePathLayoutUnderscoresLastRepoSegment(t *testing.T) {
	store := NewStore("priv/resource_snapshots")

	got := store.Path("MyApp.PrimaryRepo", "posts")
	want := filepath.Join("priv/resource_snapshots", "primary_repo", "posts.json")
	if got != want {
		t.Fatalf("Path() = %q, want %q", got, want)
	}
}

func TestStoreLoadRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	path := filepath.Join(dir, "repo", "posts.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	badJSON := `{"table":"posts","repo":"Repo","hash":"abc","attributes":[],"identities":[],"unexpected_field":true}`
	if err := os.WriteFile(path, []byte(badJSON), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, _, err := store.Load("Repo", "posts")
	if err == nil {
		t.Fatal("expected an error decoding a snapshot with an unrecognized key")
	}
}
