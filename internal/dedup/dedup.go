// Package dedup groups freshly built snapshots sharing a table, merges
// attributes and identities across the group's contributors, and
// reconciles the primary key — prompting interactively when the
// candidates disagree (spec §4.3, §4.3.1).
package dedup

import (
	"sort"

	"github.com/joe-ervin05/resourcemigrator/internal/migerr"
	"github.com/joe-ervin05/resourcemigrator/internal/prompt"
	"github.com/joe-ervin05/resourcemigrator/internal/resource"
	"github.com/joe-ervin05/resourcemigrator/internal/snapshot"
)

// Pair is one distinct table's merged fresh snapshot alongside its prior
// recorded snapshot, if any.
type Pair struct {
	New resource.Snapshot
	Old *resource.Snapshot
}

// Merge groups fresh (the snapshots newly built for one repo, possibly
// several declarations sharing a table) by table, merges each group, and
// loads the prior snapshot for each from store.
func Merge(repo string, fresh []resource.Snapshot, store *snapshot.Store, prompter prompt.Prompter) ([]Pair, error) {
	groups, order := groupByTable(fresh)

	pairs := make([]Pair, 0, len(order))
	for _, table := range order {
		group := groups[table]

		existing, hasExisting, err := store.Load(repo, table)
		if err != nil {
			return nil, err
		}
		var existingPtr *resource.Snapshot
		if hasExisting {
			existingPtr = &existing
		}

		pkNames, synthetic, err := reconcilePrimaryKey(table, group, existingPtr, prompter)
		if err != nil {
			return nil, err
		}

		attrs, err := mergeAttributes(table, group, pkNames)
		if err != nil {
			return nil, err
		}

		identities := mergeIdentities(group, synthetic)

		merged := resource.Snapshot{
			Table:      table,
			Repo:       repo,
			Attributes: attrs,
			Identities: identities,
		}
		merged.Hash = snapshot.ComputeHash(merged)

		pairs = append(pairs, Pair{New: merged, Old: existingPtr})
	}

	return pairs, nil
}

func groupByTable(fresh []resource.Snapshot) (map[string][]resource.Snapshot, []string) {
	groups := make(map[string][]resource.Snapshot)
	var order []string
	for _, s := range fresh {
		if _, ok := groups[s.Table]; !ok {
			order = append(order, s.Table)
		}
		groups[s.Table] = append(groups[s.Table], s)
	}
	return groups, order
}

// mergeAttributes builds one combined attribute per distinct name across
// the group's contributors (spec §4.3, step 3), then applies pkNames
// (step 5).
func mergeAttributes(table string, group []resource.Snapshot, pkNames []string) ([]resource.Attribute, error) {
	isPK := make(map[string]bool, len(pkNames))
	for _, n := range pkNames {
		isPK[n] = true
	}

	byName := make(map[string][]resource.Attribute)
	var order []string
	for _, s := range group {
		for _, a := range s.Attributes {
			if _, ok := byName[a.Name]; !ok {
				order = append(order, a.Name)
			}
			byName[a.Name] = append(byName[a.Name], a)
		}
	}

	attrs := make([]resource.Attribute, 0, len(order))
	for _, name := range order {
		contributors := byName[name]

		merged := contributors[0]
		if len(contributors) > 1 {
			var err error
			merged, err = mergeContributors(table, name, contributors)
			if err != nil {
				return nil, err
			}
		}

		merged.PrimaryKey = isPK[name]
		attrs = append(attrs, merged)
	}

	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })
	return attrs, nil
}

func mergeContributors(table, name string, contributors []resource.Attribute) (resource.Attribute, error) {
	merged := resource.Attribute{Name: name, Default: resource.NoDefault}

	types := map[resource.AttributeType]bool{}
	defaults := map[string]bool{}
	var ref *resource.Reference

	for _, c := range contributors {
		types[c.Type] = true
		if c.Default != "" {
			defaults[c.Default] = true
		}
		merged.AllowNil = merged.AllowNil || c.AllowNil

		if c.References != nil {
			if ref != nil && *ref != *c.References {
				return resource.Attribute{}, migerr.ConflictingReferencesErr(table, name)
			}
			ref = c.References
		}
	}

	if len(types) > 1 {
		return resource.Attribute{}, migerr.ConflictingTypesErr(table, name)
	}
	for t := range types {
		merged.Type = t
	}

	if len(defaults) == 1 {
		for d := range defaults {
			merged.Default = d
		}
	} else {
		merged.Default = resource.NoDefault
	}

	merged.References = ref
	return merged, nil
}

// mergeIdentities unions the group's identities with any synthetic
// identities from primary-key reconciliation, sorts by name, and
// deduplicates by the sorted keys set (spec §4.3, step 4).
func mergeIdentities(group []resource.Snapshot, synthetic []resource.Identity) []resource.Identity {
	var all []resource.Identity
	for _, s := range group {
		all = append(all, s.Identities...)
	}
	all = append(all, synthetic...)

	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	var out []resource.Identity
	for _, id := range all {
		dup := false
		for _, existing := range out {
			if existing.SameKeys(id) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, id)
		}
	}
	return out
}

// syntheticName names the synthetic identity created for a primary-key
// candidate that lost the reconciliation: "<table>_<join(keys,"_")>".
func syntheticName(table string, keys []string) string {
	name := table
	for _, k := range keys {
		name += "_" + k
	}
	return name
}
