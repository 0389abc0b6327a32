package resource

// DefaultKind tags the shape a source attribute's default takes, mirroring
// the three cases spec §4.1 distinguishes: a callable, an AST node (a
// three-tuple, in the source framework's quoted-expression representation),
// or a plain value.
type DefaultKind int

const (
	DefaultKindNone DefaultKind = iota
	DefaultKindCallable
	DefaultKindASTNode
	DefaultKindValue
)

// Well-known callable names recognized by the default-rendering table in
// spec §4.1. Any other callable name degrades to NoDefault.
const (
	CallableUUIDv4 = "uuid_v4"
	CallableNow    = "now"
)

// SourceDefault is the raw default declared on a resource attribute, before
// it is rendered into a migration expression by the Snapshot Builder.
type SourceDefault struct {
	Kind     DefaultKind
	Callable string // set when Kind == DefaultKindCallable
	Value    any    // set when Kind == DefaultKindValue
}

// SourceAttribute is one attribute as reported by a resource, prior to
// closed-type mapping and default rendering.
type SourceAttribute struct {
	Name       string
	SourceType string // e.g. "string", "integer", "boolean", "binary_id"
	Default    SourceDefault
	AllowNil   bool
	PrimaryKey bool
}

// SourceIdentity is a unique index as reported by a resource.
type SourceIdentity struct {
	Name string
	Keys []string
}

// RelationshipType enumerates the relationship shapes a resource can
// report; only BelongsTo ever contributes a Reference to an attribute.
type RelationshipType string

const (
	BelongsTo RelationshipType = "belongs_to"
	HasMany   RelationshipType = "has_many"
	HasOne    RelationshipType = "has_one"
)

// Destination identifies where a relationship points: a data layer, repo
// and table triple. A Reference is only populated when the destination
// shares DataLayer and Repo with the attribute's own resource.
type Destination struct {
	DataLayer string
	Repo      string
	Table     string
}

// Relationship is one relationship reported by a resource.
type Relationship struct {
	Type             RelationshipType
	SourceField      string
	DestinationField string
	Destination      Destination
}

// RepoConfig is the subset of repo configuration the Snapshot Builder
// consults: which Postgres extensions are installed, used to decide
// whether a uuid_v4 callable default renders as fragment("uuid_generate_v4()").
type RepoConfig struct {
	InstalledExtensions []string
}

// HasExtension reports whether name is in InstalledExtensions.
func (c RepoConfig) HasExtension(name string) bool {
	for _, e := range c.InstalledExtensions {
		if e == name {
			return true
		}
	}
	return false
}

// Repo is the opaque repo identifier the spec refers to: a logical
// database target that governs the on-disk snapshot subdirectory and the
// emitted migration module name.
type Repo struct {
	Name      string
	DataLayer string
	Config    RepoConfig
}

// ResourceHandle is the narrow interface the core needs from the
// resource-definition framework (spec §6, "Resource introspection
// (consumed)"). It is implemented by the caller's resource layer; the core
// never constructs one itself.
type ResourceHandle interface {
	TableName() string
	Repo() Repo
	Attributes() []SourceAttribute
	Identities() []SourceIdentity
	Relationships() []Relationship
}
