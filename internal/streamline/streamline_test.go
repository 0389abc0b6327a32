package streamline

import (
	"testing"

	"github.com/joe-ervin05/resourcemigrator/internal/op"
	"github.com/joe-ervin05/resourcemigrator/internal/resource"
)

func TestStreamlineFusesAddThenReferenceRestoringAlter(t *testing.T) {
	bare := resource.Attribute{Name: "post_id", Type: resource.TypeBinaryID}
	withRef := bare
	withRef.References = &resource.Reference{Table: "posts", DestinationField: "id"}

	ops := []op.Operation{
		{Kind: op.AddAttribute, Table: "comments", Attribute: bare},
		{Kind: op.AlterAttribute, Table: "comments", OldAttribute: bare, NewAttribute: withRef},
	}

	out := Streamline(ops)

	if len(out) != 1 {
		t.Fatalf("expected the pair to fuse into one op, got %+v", out)
	}
	if out[0].Kind != op.AddAttribute {
		t.Fatalf("expected the fused op to remain an AddAttribute, got %+v", out[0])
	}
	if out[0].Attribute.References == nil || out[0].Attribute.References.Table != "posts" {
		t.Fatalf("expected the fused AddAttribute to carry the reference, got %+v", out[0].Attribute)
	}
}

func TestStreamlineLeavesUnrelatedOpsUntouched(t *testing.T) {
	ops := []op.Operation{
		{Kind: op.CreateTable, Table: "posts"},
		{Kind: op.AddAttribute, Table: "posts", Attribute: resource.Attribute{Name: "title"}},
		{Kind: op.RemoveAttribute, Table: "posts", Attribute: resource.Attribute{Name: "body"}},
	}

	out := Streamline(ops)

	if len(out) != len(ops) {
		t.Fatalf("expected no fusion, got %+v", out)
	}
	for i := range ops {
		if out[i].Kind != ops[i].Kind {
			t.Fatalf("expected op %d to pass through unchanged, got %+v want %+v", i, out[i], ops[i])
		}
	}
}

func TestStreamlineDoesNotFuseAcrossDifferentTables(t *testing.T) {
	bare := resource.Attribute{Name: "author_id", Type: resource.TypeBinaryID}
	withRef := bare
	withRef.References = &resource.Reference{Table: "users", DestinationField: "id"}

	ops := []op.Operation{
		{Kind: op.AddAttribute, Table: "posts", Attribute: bare},
		{Kind: op.AlterAttribute, Table: "comments", OldAttribute: bare, NewAttribute: withRef},
	}

	out := Streamline(ops)

	if len(out) != 2 {
		t.Fatalf("expected no fusion across different tables, got %+v", out)
	}
}

func TestStreamlineDoesNotFuseAlterWithoutReference(t *testing.T) {
	bare := resource.Attribute{Name: "views", Type: resource.TypeInteger}
	altered := bare
	altered.Default = "0"

	ops := []op.Operation{
		{Kind: op.AddAttribute, Table: "posts", Attribute: bare},
		{Kind: op.AlterAttribute, Table: "posts", OldAttribute: bare, NewAttribute: altered},
	}

	out := Streamline(ops)

	if len(out) != 2 {
		t.Fatalf("expected no fusion when the alter carries no reference, got %+v", out)
	}
}
