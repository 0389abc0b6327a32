package order

import (
	"testing"

	"github.com/joe-ervin05/resourcemigrator/internal/dedup"
	"github.com/joe-ervin05/resourcemigrator/internal/differ"
	"github.com/joe-ervin05/resourcemigrator/internal/op"
	"github.com/joe-ervin05/resourcemigrator/internal/prompt"
	"github.com/joe-ervin05/resourcemigrator/internal/resource"
)

func indexOfTable(ops []op.Operation, kind op.Kind, table string) int {
	for i, o := range ops {
		if o.Kind == kind && o.Table == table {
			return i
		}
	}
	return -1
}

func TestOrderCreateTableBeforeItsAddAttribute(t *testing.T) {
	ops := []op.Operation{
		{Kind: op.AddAttribute, Table: "posts", Attribute: resource.Attribute{Name: "title"}},
		{Kind: op.CreateTable, Table: "posts"},
	}

	out := Order(ops)

	createAt := indexOfTable(out, op.CreateTable, "posts")
	addAt := indexOfTable(out, op.AddAttribute, "posts")
	if createAt == -1 || addAt == -1 || createAt > addAt {
		t.Fatalf("expected CreateTable before AddAttribute, got %+v", out)
	}
}

func TestOrderForeignKeyAddedAfterReferencedColumn(t *testing.T) {
	ops := []op.Operation{
		{Kind: op.AddAttribute, Table: "comments",
			Attribute: resource.Attribute{Name: "post_id",
				References: &resource.Reference{Table: "posts", DestinationField: "id"}}},
		{Kind: op.AddAttribute, Table: "posts", Attribute: resource.Attribute{Name: "id"}},
	}

	out := Order(ops)

	var postIDIdx, idIdx int = -1, -1
	for i, o := range out {
		if o.Kind == op.AddAttribute && o.Table == "posts" && o.Attribute.Name == "id" {
			idIdx = i
		}
		if o.Kind == op.AddAttribute && o.Table == "comments" && o.Attribute.Name == "post_id" {
			postIDIdx = i
		}
	}
	if idIdx == -1 || postIDIdx == -1 || idIdx >= postIDIdx {
		t.Fatalf("expected posts.id to be added before comments.post_id, got %+v", out)
	}
}

func TestOrderPrimaryKeyAddedBeforeNonPrimaryKeyOnSameTable(t *testing.T) {
	ops := []op.Operation{
		{Kind: op.AddAttribute, Table: "posts", Attribute: resource.Attribute{Name: "title"}},
		{Kind: op.AddAttribute, Table: "posts", Attribute: resource.Attribute{Name: "id", PrimaryKey: true}},
	}

	out := Order(ops)

	idIdx := -1
	titleIdx := -1
	for i, o := range out {
		if o.Attribute.Name == "id" {
			idIdx = i
		}
		if o.Attribute.Name == "title" {
			titleIdx = i
		}
	}
	if idIdx == -1 || titleIdx == -1 || idIdx >= titleIdx {
		t.Fatalf("expected primary key attribute before non-primary-key attribute, got %+v", out)
	}
}

func TestOrderAddUniqueIndexAfterItsKeyAttribute(t *testing.T) {
	ops := []op.Operation{
		{Kind: op.AddUniqueIndex, Table: "posts", Identity: resource.Identity{Name: "posts_slug_index", Keys: []string{"slug"}}},
		{Kind: op.AddAttribute, Table: "posts", Attribute: resource.Attribute{Name: "slug"}},
	}

	out := Order(ops)

	addAttrIdx := indexOfTable(out, op.AddAttribute, "posts")
	addIndexIdx := indexOfTable(out, op.AddUniqueIndex, "posts")
	if addAttrIdx == -1 || addIndexIdx == -1 || addAttrIdx >= addIndexIdx {
		t.Fatalf("expected AddAttribute(slug) before AddUniqueIndex, got %+v", out)
	}
}

func TestOrderRemoveUniqueIndexBeforeRemovingItsKeyAttribute(t *testing.T) {
	ops := []op.Operation{
		{Kind: op.RemoveAttribute, Table: "posts", Attribute: resource.Attribute{Name: "slug"}},
		{Kind: op.RemoveUniqueIndex, Table: "posts", Identity: resource.Identity{Name: "posts_slug_index", Keys: []string{"slug"}}},
	}

	out := Order(ops)

	removeIndexIdx := indexOfTable(out, op.RemoveUniqueIndex, "posts")
	removeAttrIdx := indexOfTable(out, op.RemoveAttribute, "posts")
	if removeIndexIdx == -1 || removeAttrIdx == -1 || removeIndexIdx >= removeAttrIdx {
		t.Fatalf("expected RemoveUniqueIndex before RemoveAttribute(slug), got %+v", out)
	}
}

func TestOrderIsStableWhenNoDependencyApplies(t *testing.T) {
	ops := []op.Operation{
		{Kind: op.AddAttribute, Table: "posts", Attribute: resource.Attribute{Name: "title"}},
		{Kind: op.AddAttribute, Table: "users", Attribute: resource.Attribute{Name: "email"}},
	}

	out := Order(ops)

	if len(out) != 2 || out[0].Table != "posts" || out[1].Table != "users" {
		t.Fatalf("expected unrelated operations to keep their relative order, got %+v", out)
	}
}

// diffNewTable runs the real Differ against a brand-new table (no prior
// snapshot), mirroring the way the pipeline feeds Order from live Diff
// output rather than hand-built operation lists.
func diffNewTable(t *testing.T, snap resource.Snapshot) []op.Operation {
	t.Helper()
	ops, err := differ.Diff(dedup.Pair{New: snap}, prompt.NewScripted())
	if err != nil {
		t.Fatalf("differ.Diff: %v", err)
	}
	return ops
}

func TestOrderMatchesDifferOutputForNewTableWithPrimaryKeyFirst(t *testing.T) {
	// spec §8 S1: a brand-new table whose primary key must land before its
	// other attributes even though the Differ lists attributes by name
	// (id sorts before title here, so this also guards against the bug
	// reappearing via a table whose non-key attribute happens to sort last).
	snap := resource.Snapshot{
		Table: "posts",
		Attributes: []resource.Attribute{
			{Name: "id", Type: resource.TypeBinaryID, Default: resource.NoDefault, PrimaryKey: true},
			{Name: "title", Type: resource.TypeText, Default: resource.NoDefault},
		},
	}

	out := Order(diffNewTable(t, snap))

	if len(out) != 3 {
		t.Fatalf("expected CreateTable + 2 AddAttribute ops, got %+v", out)
	}
	if out[0].Kind != op.CreateTable || out[0].Table != "posts" {
		t.Fatalf("expected CreateTable first, got %+v", out[0])
	}
	if out[1].Kind != op.AddAttribute || out[1].Attribute.Name != "id" {
		t.Fatalf("expected the primary key added second, got %+v", out[1])
	}
	if out[2].Kind != op.AddAttribute || out[2].Attribute.Name != "title" {
		t.Fatalf("expected the non-key attribute added last, got %+v", out[2])
	}
}

func TestOrderMatchesDifferOutputForForeignKeyAddBareThenAlterSplit(t *testing.T) {
	// spec §8 S2: a new table with a referencing column. The Differ splits
	// the add into a bare AddAttribute followed by a reference-restoring
	// AlterAttribute (differ.go's diffAttributes), and Order must keep that
	// Alter immediately after its own Add rather than sliding it in front
	// of it — the precondition the Streamliner's fuse depends on.
	snap := resource.Snapshot{
		Table: "comments",
		Attributes: []resource.Attribute{
			{Name: "id", Type: resource.TypeBinaryID, Default: resource.NoDefault, PrimaryKey: true},
			{Name: "post_id", Type: resource.TypeBinaryID, Default: resource.NoDefault,
				References: &resource.Reference{Table: "posts", DestinationField: "id"}},
		},
	}

	out := Order(diffNewTable(t, snap))

	if len(out) != 4 {
		t.Fatalf("expected CreateTable + 2 AddAttribute + 1 AlterAttribute ops, got %+v", out)
	}
	if out[0].Kind != op.CreateTable {
		t.Fatalf("expected CreateTable first, got %+v", out[0])
	}
	if out[1].Kind != op.AddAttribute || out[1].Attribute.Name != "id" {
		t.Fatalf("expected the primary key added second, got %+v", out[1])
	}
	if out[2].Kind != op.AddAttribute || out[2].Attribute.Name != "post_id" || out[2].Attribute.References != nil {
		t.Fatalf("expected a bare AddAttribute(post_id) third, got %+v", out[2])
	}
	if out[3].Kind != op.AlterAttribute || out[3].NewAttribute.Name != "post_id" || out[3].NewAttribute.References == nil {
		t.Fatalf("expected the reference-restoring AlterAttribute(post_id) last, got %+v", out[3])
	}
}

func TestOrderAcrossTablesKeepsForeignKeyAfterReferencedTableCreation(t *testing.T) {
	// A more realistic multi-table input than the two-op cases above:
	// posts is unrelated to comments except through the FK, and the
	// Differ emits posts's ops before comments's, so Order must not
	// reshuffle comments.post_id ahead of posts being created at all.
	var ops []op.Operation
	ops = append(ops, diffNewTable(t, resource.Snapshot{
		Table: "posts",
		Attributes: []resource.Attribute{
			{Name: "id", Type: resource.TypeBinaryID, Default: resource.NoDefault, PrimaryKey: true},
		},
	})...)
	ops = append(ops, diffNewTable(t, resource.Snapshot{
		Table: "comments",
		Attributes: []resource.Attribute{
			{Name: "id", Type: resource.TypeBinaryID, Default: resource.NoDefault, PrimaryKey: true},
			{Name: "post_id", Type: resource.TypeBinaryID, Default: resource.NoDefault,
				References: &resource.Reference{Table: "posts", DestinationField: "id"}},
		},
	})...)

	out := Order(ops)

	createPosts := indexOfTable(out, op.CreateTable, "posts")
	createComments := indexOfTable(out, op.CreateTable, "comments")
	if createPosts == -1 || createComments == -1 || createPosts >= createComments {
		t.Fatalf("expected posts created before comments, got %+v", out)
	}

	alterIdx, addIdx := -1, -1
	for i, o := range out {
		if o.Kind == op.AddAttribute && o.Table == "comments" && o.Attribute.Name == "post_id" {
			addIdx = i
		}
		if o.Kind == op.AlterAttribute && o.Table == "comments" && o.NewAttribute.Name == "post_id" {
			alterIdx = i
		}
	}
	if addIdx == -1 || alterIdx == -1 || alterIdx != addIdx+1 {
		t.Fatalf("expected the reference-restoring alter to sit immediately after its bare add, got %+v", out)
	}
}
