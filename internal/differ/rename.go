package differ

import (
	"fmt"

	"github.com/joe-ervin05/resourcemigrator/internal/migerr"
	"github.com/joe-ervin05/resourcemigrator/internal/prompt"
	"github.com/joe-ervin05/resourcemigrator/internal/resource"
)

// maxRenameTries is the number of guesses the resolver accepts before
// giving up (spec §4.5, §7 RenameResolutionFailed).
const maxRenameTries = 3

// Rename pairs an added attribute with the removed one it replaces.
type Rename struct {
	New resource.Attribute
	Old resource.Attribute
}

// ResolveRenames turns (add+remove) pairs on the same table into renames
// by asking an interactive Prompter, following spec §4.5. It returns the
// attributes still genuinely added/removed after renames are extracted.
func ResolveRenames(adding, removing []resource.Attribute, prompter prompt.Prompter) ([]resource.Attribute, []resource.Attribute, []Rename, error) {
	if len(removing) == 0 {
		return adding, nil, nil, nil
	}

	if len(adding) == 1 && len(removing) == 1 {
		yes, err := prompter.Confirm(fmt.Sprintf("Are you renaming :%s to :%s?", removing[0].Name, adding[0].Name))
		if err != nil {
			return nil, nil, nil, err
		}
		if yes {
			return nil, nil, []Rename{{New: adding[0], Old: removing[0]}}, nil
		}
		return adding, removing, nil, nil
	}

	remainingAdding := append([]resource.Attribute(nil), adding...)
	var stillRemoving []resource.Attribute
	var renames []Rename

	for _, rem := range removing {
		yes, err := prompter.Confirm(fmt.Sprintf("Are you renaming :%s?", rem.Name))
		if err != nil {
			return nil, nil, nil, err
		}
		if !yes {
			stillRemoving = append(stillRemoving, rem)
			continue
		}

		matched := false
		for try := 0; try < maxRenameTries; try++ {
			reply, err := prompter.Prompt("What are you renaming it to?")
			if err != nil {
				return nil, nil, nil, err
			}
			idx := indexByName(remainingAdding, reply)
			if idx < 0 {
				continue
			}
			renames = append(renames, Rename{New: remainingAdding[idx], Old: rem})
			remainingAdding = append(remainingAdding[:idx], remainingAdding[idx+1:]...)
			matched = true
			break
		}
		if !matched {
			return nil, nil, nil, migerr.RenameResolutionFailedErr(rem.Name, maxRenameTries)
		}
	}

	return remainingAdding, stillRemoving, renames, nil
}

func indexByName(attrs []resource.Attribute, name string) int {
	for i, a := range attrs {
		if a.Name == name {
			return i
		}
	}
	return -1
}
