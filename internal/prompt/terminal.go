package prompt

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// promptStyle renders the question line ahead of each huh form, matching
// the plan-summary styling convention charmbracelet/lipgloss is used for
// elsewhere in the corpus (steveyegge-beads/cmd/bd/create_form.go).
var promptStyle = lipgloss.NewStyle().Bold(true)

// Terminal is a Prompter backed by charmbracelet/huh forms on the
// controlling terminal.
type Terminal struct{}

// NewTerminal returns a terminal-backed Prompter.
func NewTerminal() Terminal {
	return Terminal{}
}

func (Terminal) Confirm(message string) (bool, error) {
	var answer bool
	field := huh.NewConfirm().
		Title(promptStyle.Render(message)).
		Affirmative("Yes").
		Negative("No").
		Value(&answer)

	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		return false, fmt.Errorf("prompt confirm: %w", err)
	}
	return answer, nil
}

func (Terminal) Prompt(message string) (string, error) {
	var answer string
	field := huh.NewInput().
		Title(promptStyle.Render(message)).
		Value(&answer)

	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		return "", fmt.Errorf("prompt input: %w", err)
	}
	return answer, nil
}

func (Terminal) Select(message string, options []string) (int, error) {
	huhOptions := make([]huh.Option[int], len(options))
	for i, o := range options {
		huhOptions[i] = huh.NewOption(fmt.Sprintf("%d) %s", i+1, o), i)
	}

	var answer int
	field := huh.NewSelect[int]().
		Title(promptStyle.Render(message)).
		Options(huhOptions...).
		Value(&answer)

	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		return 0, fmt.Errorf("prompt select: %w", err)
	}
	return answer, nil
}
