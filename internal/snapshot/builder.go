// Package snapshot builds canonical Snapshots from resource handles (spec
// §4.1) and persists/loads them as JSON (spec §4.2). Grounded in the
// teacher's schema-introspection pass (daos/schema.go's schemaCols/schemaFks)
// and its checksum bookkeeping (api/platform/templates.go's computeChecksum),
// generalized from "introspect a live database" to "project a declarative
// resource" and hashed with real SHA-256 rather than the teacher's
// illustrative multiply-and-xor checksum.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/joe-ervin05/resourcemigrator/internal/migerr"
	"github.com/joe-ervin05/resourcemigrator/internal/resource"
)

// migrationTypes is the closed source-type -> migration-type table from
// spec §4.1. Any source type not listed here is a fatal UnsupportedType
// error.
var migrationTypes = map[string]resource.AttributeType{
	"string":    resource.TypeText,
	"integer":   resource.TypeInteger,
	"boolean":   resource.TypeBoolean,
	"binary_id": resource.TypeBinaryID,
}

// Build produces the canonical Snapshot for one resource handle.
func Build(handle resource.ResourceHandle) (resource.Snapshot, error) {
	table := handle.TableName()
	repo := handle.Repo()

	sourceAttrs := append([]resource.SourceAttribute(nil), handle.Attributes()...)
	sort.Slice(sourceAttrs, func(i, j int) bool { return sourceAttrs[i].Name < sourceAttrs[j].Name })

	known := make(map[string]bool, len(sourceAttrs))
	attrs := make([]resource.Attribute, 0, len(sourceAttrs))
	for _, sa := range sourceAttrs {
		migType, ok := migrationTypes[sa.SourceType]
		if !ok {
			return resource.Snapshot{}, migerr.UnsupportedTypeErr(sa.SourceType)
		}

		attrs = append(attrs, resource.Attribute{
			Name:       sa.Name,
			Type:       migType,
			Default:    renderDefault(sa.Default, migType, repo),
			AllowNil:   sa.AllowNil,
			PrimaryKey: sa.PrimaryKey,
			References: findReference(sa.Name, handle.Relationships(), repo),
		})
		known[sa.Name] = true
	}

	identities := buildIdentities(handle.Identities(), known)

	snap := resource.Snapshot{
		Table:      table,
		Repo:       repo.Name,
		Attributes: attrs,
		Identities: identities,
	}
	snap.Hash = ComputeHash(snap)
	return snap, nil
}

// renderDefault implements the default-rendering table from spec §4.1.
func renderDefault(d resource.SourceDefault, t resource.AttributeType, repo resource.Repo) string {
	switch d.Kind {
	case resource.DefaultKindNone:
		return resource.NoDefault
	case resource.DefaultKindCallable:
		switch d.Callable {
		case resource.CallableUUIDv4:
			if repo.Config.HasExtension("uuid-ossp") {
				return `fragment("uuid_generate_v4()")`
			}
			return resource.NoDefault
		case resource.CallableNow:
			return `fragment("now()")`
		default:
			return resource.NoDefault
		}
	case resource.DefaultKindASTNode:
		return resource.NoDefault
	case resource.DefaultKindValue:
		if rendered, ok := renderDefaultValue(t, d.Value); ok {
			return rendered
		}
		return resource.NoDefault
	default:
		return resource.NoDefault
	}
}

// renderDefaultValue dumps a concrete default value through the type's
// native encoder, mirroring "Inspect"-style literal rendering.
func renderDefaultValue(t resource.AttributeType, v any) (string, bool) {
	if v == nil {
		return "", false
	}
	switch t {
	case resource.TypeText, resource.TypeBinaryID:
		s, ok := v.(string)
		if !ok {
			return "", false
		}
		return strconv.Quote(s), true
	case resource.TypeInteger:
		switch n := v.(type) {
		case int:
			return strconv.Itoa(n), true
		case int64:
			return strconv.FormatInt(n, 10), true
		case float64:
			if n == float64(int64(n)) {
				return strconv.FormatInt(int64(n), 10), true
			}
			return "", false
		default:
			return "", false
		}
	case resource.TypeBoolean:
		b, ok := v.(bool)
		if !ok {
			return "", false
		}
		if b {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
}

// findReference scans relationships for a belongs_to whose source_field
// matches attrName and whose destination resides in the same data layer
// and repo as the owning resource (spec §4.1).
func findReference(attrName string, rels []resource.Relationship, repo resource.Repo) *resource.Reference {
	for _, r := range rels {
		if r.Type != resource.BelongsTo {
			continue
		}
		if r.SourceField != attrName {
			continue
		}
		if r.Destination.DataLayer != repo.DataLayer || r.Destination.Repo != repo.Name {
			continue
		}
		return &resource.Reference{
			Table:            r.Destination.Table,
			DestinationField: r.DestinationField,
		}
	}
	return nil
}

// buildIdentities keeps only identities every one of whose keys names an
// existing attribute, sorted by identity name (spec §4.1).
func buildIdentities(source []resource.SourceIdentity, knownAttrs map[string]bool) []resource.Identity {
	var out []resource.Identity
	for _, si := range source {
		allKnown := true
		for _, k := range si.Keys {
			if !knownAttrs[k] {
				allKnown = false
				break
			}
		}
		if !allKnown {
			continue
		}
		keys := append([]string(nil), si.Keys...)
		out = append(out, resource.Identity{Name: si.Name, Keys: keys})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// canonical is the JSON-serializable projection of a Snapshot used to
// compute its content hash; it excludes Hash itself.
type canonical struct {
	Table      string              `json:"table"`
	Repo       string              `json:"repo"`
	Attributes []resource.Attribute `json:"attributes"`
	Identities []resource.Identity  `json:"identities"`
}

// ComputeHash is the hex-encoded SHA-256 digest over the canonical
// rendering of a snapshot, excluding the hash itself (spec §4.1). It is
// exported so the Deduplicator can recompute it after merging attributes
// and identities across contributors.
func ComputeHash(s resource.Snapshot) string {
	c := canonical{Table: s.Table, Repo: s.Repo, Attributes: s.Attributes, Identities: s.Identities}
	b, err := json.Marshal(c)
	if err != nil {
		// Marshal of this struct can only fail on unsupported types, which
		// Build never constructs; surface a stable placeholder rather than
		// panicking the pipeline.
		b = []byte(fmt.Sprintf("%v", c))
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
