package dedup

import (
	"fmt"
	"sort"

	"github.com/joe-ervin05/resourcemigrator/internal/prompt"
	"github.com/joe-ervin05/resourcemigrator/internal/resource"
)

// reconcilePrimaryKey implements spec §4.3.1. It returns the chosen
// primary-key attribute names and the synthetic identities created for
// every other distinct candidate.
func reconcilePrimaryKey(table string, group []resource.Snapshot, existing *resource.Snapshot, prompter prompt.Prompter) ([]string, []resource.Identity, error) {
	candidates := distinctPKCandidates(group)

	if len(candidates) == 0 {
		return nil, nil, nil
	}

	if existing != nil {
		existingPK := existing.PrimaryKeyNames()
		for _, c := range candidates {
			if sameSet(c, existingPK) {
				return existingPK, syntheticFor(table, candidates, existingPK), nil
			}
		}
		// No fresh snapshot agrees with the existing primary key: fall back
		// to the no-existing-snapshot flow (spec §9 open question, resolved
		// in DESIGN.md).
	}

	if len(candidates) == 1 {
		return candidates[0], nil, nil
	}

	chosen, err := promptForPrimaryKey(table, candidates, prompter)
	if err != nil {
		return nil, nil, err
	}
	return chosen, syntheticFor(table, candidates, chosen), nil
}

func promptForPrimaryKey(table string, candidates [][]string, prompter prompt.Prompter) ([]string, error) {
	options := make([]string, len(candidates))
	for i, c := range candidates {
		options[i] = fmt.Sprintf("%v", c)
	}

	idx, err := prompter.Select(fmt.Sprintf("Multiple primary key candidates found for %s, which is correct?", table), options)
	if err != nil {
		return nil, err
	}
	return candidates[idx], nil
}

// syntheticFor builds a synthetic unique identity for every candidate
// other than chosen, guarding against equal-by-set collisions with chosen.
func syntheticFor(table string, candidates [][]string, chosen []string) []resource.Identity {
	var out []resource.Identity
	for _, c := range candidates {
		if sameSet(c, chosen) {
			continue
		}
		out = append(out, resource.Identity{Name: syntheticName(table, c), Keys: c})
	}
	return out
}

// distinctPKCandidates returns the distinct primary-key candidate sets
// reported across group, in first-seen order.
func distinctPKCandidates(group []resource.Snapshot) [][]string {
	var out [][]string
	for _, s := range group {
		pk := s.PrimaryKeyNames()
		if len(pk) == 0 {
			continue
		}
		seen := false
		for _, c := range out {
			if sameSet(c, pk) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, pk)
		}
	}
	return out
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sa := append([]string(nil), a...)
	sb := append([]string(nil), b...)
	sort.Strings(sa)
	sort.Strings(sb)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}
