package resource

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// JSONResource is the default runnable adapter for ResourceHandle: spec
// §1 calls the resource-definition framework an out-of-scope external
// collaborator, but a deliverable module still needs something behind
// that interface (spec §6, "External interfaces"). JSONResource loads one
// resource definition from a JSON file shaped like the wire format below,
// rather than a full in-memory resource-definition framework.
type JSONResource struct {
	Table           string               `json:"table"`
	RepoName        string               `json:"repo"`
	DataLayerName   string               `json:"data_layer"`
	Extensions      []string             `json:"installed_extensions"`
	AttributeDefs   []jsonSourceAttr     `json:"attributes"`
	IdentityDefs    []SourceIdentity     `json:"identities"`
	RelationshipDef []jsonRelationship   `json:"relationships"`
}

type jsonSourceAttr struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	AllowNil   bool   `json:"allow_nil?"`
	PrimaryKey bool   `json:"primary_key?"`
	Default    *struct {
		Kind     string `json:"kind"` // "callable" | "value" | "ast"
		Callable string `json:"callable,omitempty"`
		Value    any    `json:"value,omitempty"`
	} `json:"default,omitempty"`
}

type jsonRelationship struct {
	Type             string `json:"type"`
	SourceField      string `json:"source_field"`
	DestinationField string `json:"destination_field"`
	Destination      struct {
		DataLayer string `json:"data_layer"`
		Repo      string `json:"repo"`
		Table     string `json:"table"`
	} `json:"destination"`
}

// LoadJSONResource reads one JSONResource from path.
func LoadJSONResource(path string) (*JSONResource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resource definition %s: %w", path, err)
	}
	var r JSONResource
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode resource definition %s: %w", path, err)
	}
	return &r, nil
}

// LoadJSONResourceDir reads every *.json file in dir as a JSONResource,
// sorted by filename for deterministic ordering. dataLayerOverride, when
// non-empty, fills in DataLayerName for any resource definition that
// doesn't specify one of its own, mirroring the CLI's --data-layer flag
// (spec §1's "same-repo" relationship resolution needs a data layer name
// when the resource definition is silent about it).
func LoadJSONResourceDir(dir string, dataLayerOverride string) ([]ResourceHandle, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read resource definitions dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	handles := make([]ResourceHandle, 0, len(names))
	for _, name := range names {
		r, err := LoadJSONResource(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if r.DataLayerName == "" && dataLayerOverride != "" {
			r.DataLayerName = dataLayerOverride
		}
		handles = append(handles, r)
	}
	return handles, nil
}

func (r *JSONResource) TableName() string { return r.Table }

func (r *JSONResource) Repo() Repo {
	return Repo{
		Name:      r.RepoName,
		DataLayer: r.DataLayerName,
		Config:    RepoConfig{InstalledExtensions: r.Extensions},
	}
}

func (r *JSONResource) Attributes() []SourceAttribute {
	attrs := make([]SourceAttribute, 0, len(r.AttributeDefs))
	for _, a := range r.AttributeDefs {
		sa := SourceAttribute{
			Name:       a.Name,
			SourceType: a.Type,
			AllowNil:   a.AllowNil,
			PrimaryKey: a.PrimaryKey,
		}
		if a.Default != nil {
			switch a.Default.Kind {
			case "callable":
				sa.Default = SourceDefault{Kind: DefaultKindCallable, Callable: a.Default.Callable}
			case "value":
				sa.Default = SourceDefault{Kind: DefaultKindValue, Value: a.Default.Value}
			case "ast":
				sa.Default = SourceDefault{Kind: DefaultKindASTNode}
			}
		}
		attrs = append(attrs, sa)
	}
	return attrs
}

func (r *JSONResource) Identities() []SourceIdentity {
	return append([]SourceIdentity(nil), r.IdentityDefs...)
}

func (r *JSONResource) Relationships() []Relationship {
	rels := make([]Relationship, 0, len(r.RelationshipDef))
	for _, rd := range r.RelationshipDef {
		rels = append(rels, Relationship{
			Type:             RelationshipType(rd.Type),
			SourceField:      rd.SourceField,
			DestinationField: rd.DestinationField,
			Destination: Destination{
				DataLayer: rd.Destination.DataLayer,
				Repo:      rd.Destination.Repo,
				Table:     rd.Destination.Table,
			},
		})
	}
	return rels
}
