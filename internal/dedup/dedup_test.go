package dedup

import (
	"errors"
	"testing"

	"github.com/joe-ervin05/resourcemigrator/internal/migerr"
	"github.com/joe-ervin05/resourcemigrator/internal/prompt"
	"github.com/joe-ervin05/resourcemigrator/internal/resource"
	"github.com/joe-ervin05/resourcemigrator/internal/snapshot"
)

func pkAttr(name string) resource.Attribute {
	return resource.Attribute{Name: name, Type: resource.TypeBinaryID, Default: resource.NoDefault, PrimaryKey: true}
}

func TestMergeWithNoPriorSnapshotUsesAgreedPrimaryKey(t *testing.T) {
	store := snapshot.NewStore(t.TempDir())
	fresh := []resource.Snapshot{
		{Table: "posts", Attributes: []resource.Attribute{pkAttr("id")}},
		{Table: "posts", Attributes: []resource.Attribute{pkAttr("id"), {Name: "title", Type: resource.TypeText, Default: resource.NoDefault}}},
	}

	pairs, err := Merge("Repo", fresh, store, prompt.NewScripted())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected one pair for one distinct table, got %d", len(pairs))
	}
	if len(pairs[0].New.Attributes) != 2 {
		t.Fatalf("expected attributes unioned across contributors, got %+v", pairs[0].New.Attributes)
	}
	if pairs[0].Old != nil {
		t.Fatalf("expected no prior snapshot, got %+v", pairs[0].Old)
	}
}

func TestMergeDisagreeingPrimaryKeyPromptsAndRecordsSynthetic(t *testing.T) {
	store := snapshot.NewStore(t.TempDir())
	fresh := []resource.Snapshot{
		{Table: "t", Attributes: []resource.Attribute{pkAttr("a"), {Name: "b", Type: resource.TypeBinaryID, Default: resource.NoDefault}}},
		{Table: "t", Attributes: []resource.Attribute{{Name: "a", Type: resource.TypeBinaryID, Default: resource.NoDefault}, pkAttr("b")}},
	}

	p := prompt.NewScripted()
	p.Selects = []int{0}

	pairs, err := Merge("Repo", fresh, store, p)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected one pair, got %d", len(pairs))
	}
	merged := pairs[0].New
	var a, b resource.Attribute
	for _, attr := range merged.Attributes {
		if attr.Name == "a" {
			a = attr
		}
		if attr.Name == "b" {
			b = attr
		}
	}
	if !a.PrimaryKey || b.PrimaryKey {
		t.Fatalf("expected the selected candidate [a] to win the primary key, got a=%+v b=%+v", a, b)
	}
	if len(merged.Identities) != 1 {
		t.Fatalf("expected the losing candidate to become a synthetic identity, got %+v", merged.Identities)
	}
}

func TestMergeConflictingTypesIsFatal(t *testing.T) {
	store := snapshot.NewStore(t.TempDir())
	fresh := []resource.Snapshot{
		{Table: "t", Attributes: []resource.Attribute{pkAttr("id"), {Name: "count", Type: resource.TypeInteger, Default: resource.NoDefault}}},
		{Table: "t", Attributes: []resource.Attribute{pkAttr("id"), {Name: "count", Type: resource.TypeText, Default: resource.NoDefault}}},
	}

	_, err := Merge("Repo", fresh, store, prompt.NewScripted())
	if !errors.Is(err, migerr.ErrConflictingTypes) {
		t.Fatalf("expected ErrConflictingTypes, got %v", err)
	}
}

func TestMergeConflictingReferencesIsFatal(t *testing.T) {
	store := snapshot.NewStore(t.TempDir())
	fresh := []resource.Snapshot{
		{Table: "t", Attributes: []resource.Attribute{pkAttr("id"), {
			Name: "owner_id", Type: resource.TypeBinaryID, Default: resource.NoDefault,
			References: &resource.Reference{Table: "users", DestinationField: "id"},
		}}},
		{Table: "t", Attributes: []resource.Attribute{pkAttr("id"), {
			Name: "owner_id", Type: resource.TypeBinaryID, Default: resource.NoDefault,
			References: &resource.Reference{Table: "teams", DestinationField: "id"},
		}}},
	}

	_, err := Merge("Repo", fresh, store, prompt.NewScripted())
	if !errors.Is(err, migerr.ErrConflictingReferences) {
		t.Fatalf("expected ErrConflictingReferences, got %v", err)
	}
}

func TestMergeAllowNilIsLogicalOrAcrossContributors(t *testing.T) {
	store := snapshot.NewStore(t.TempDir())
	fresh := []resource.Snapshot{
		{Table: "t", Attributes: []resource.Attribute{pkAttr("id"), {Name: "nickname", Type: resource.TypeText, Default: resource.NoDefault, AllowNil: false}}},
		{Table: "t", Attributes: []resource.Attribute{pkAttr("id"), {Name: "nickname", Type: resource.TypeText, Default: resource.NoDefault, AllowNil: true}}},
	}

	pairs, err := Merge("Repo", fresh, store, prompt.NewScripted())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	nickname, _ := pairs[0].New.AttributeByName("nickname")
	if !nickname.AllowNil {
		t.Fatalf("expected allow_nil to OR across contributors, got %+v", nickname)
	}
}
