// Package prompt abstracts the interactive rename/primary-key
// disambiguation collaborator behind a narrow interface, per spec §9's
// design note: "Abstract behind a narrow interface { prompt(msg)->string,
// confirm(msg)->bool } so the core is unit-testable by injecting scripted
// responses."
package prompt

// Prompter is the interactive collaborator the Deduplicator and Rename
// Resolver invoke to disambiguate primary-key candidates and drop+add
// attribute pairs. All prompts are line-oriented (spec §5).
type Prompter interface {
	// Confirm asks a yes/no question and returns the answer.
	Confirm(message string) (bool, error)
	// Prompt asks an open-ended question and returns the typed reply.
	Prompt(message string) (string, error)
	// Select asks the user to pick one of options by presenting a numbered
	// enumeration, returning the chosen index.
	Select(message string, options []string) (int, error)
}
